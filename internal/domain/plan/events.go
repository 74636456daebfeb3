package plan

import (
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type names
const (
	AggregateTypePlan            = "Plan"
	AggregateTypeNeedEntry       = "NeedEntry"
	AggregateTypeOverflowRequest = "OverflowRequest"
	AggregateTypeStoreRequest    = "StoreRequest"
	AggregateTypeIssueRecord     = "IssueRecord"
)

// Event type constants
const (
	EventTypePlanLocked            = "PlanLocked"
	EventTypeNeedCreated           = "NeedCreated"
	EventTypeNeedRevised           = "NeedRevised"
	EventTypeNeedDeleted           = "NeedDeleted"
	EventTypeOverflowRequested     = "OverflowRequested"
	EventTypeOverflowApproved      = "OverflowApproved"
	EventTypeOverflowRejected      = "OverflowRejected"
	EventTypeStoreRequestSubmitted = "StoreRequestSubmitted"
	EventTypeStoreRequestProcessed = "StoreRequestProcessed"
	EventTypeStoreRequestRejected  = "StoreRequestRejected"
	EventTypeItemIssued            = "ItemIssued"
)

// PlanLockedEvent is raised when the plan is approved
type PlanLockedEvent struct {
	shared.BaseDomainEvent
	Year int `json:"year"`
}

// NewPlanLockedEvent creates a PlanLockedEvent
func NewPlanLockedEvent(p *Plan) *PlanLockedEvent {
	return &PlanLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlanLocked, AggregateTypePlan, p.ID, p.LockedBy),
		Year:            p.Year,
	}
}

// NeedCreatedEvent is raised when a department adds a need entry
type NeedCreatedEvent struct {
	shared.BaseDomainEvent
	Department string          `json:"department"`
	Category   string          `json:"category"`
	ItemName   string          `json:"item_name"`
	PlanQty    decimal.Decimal `json:"plan_qty"`
	Unit       string          `json:"unit"`
}

// NewNeedCreatedEvent creates a NeedCreatedEvent
func NewNeedCreatedEvent(n *NeedEntry, by string) *NeedCreatedEvent {
	return &NeedCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeNeedCreated, AggregateTypeNeedEntry, n.ID, by),
		Department:      n.Department,
		Category:        n.Category,
		ItemName:        n.ItemName,
		PlanQty:         n.PlanQty,
		Unit:            n.Unit,
	}
}

// NeedRevisedEvent is raised when a need entry is edited
type NeedRevisedEvent struct {
	shared.BaseDomainEvent
	Department   string          `json:"department"`
	OldPlanQty   decimal.Decimal `json:"old_plan_qty"`
	OldRemaining decimal.Decimal `json:"old_remaining"`
	PlanQty      decimal.Decimal `json:"plan_qty"`
	RemainingQty decimal.Decimal `json:"remaining_qty"`
}

// NewNeedRevisedEvent creates a NeedRevisedEvent
func NewNeedRevisedEvent(n *NeedEntry, oldPlan, oldRemaining decimal.Decimal, by string) *NeedRevisedEvent {
	return &NeedRevisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeNeedRevised, AggregateTypeNeedEntry, n.ID, by),
		Department:      n.Department,
		OldPlanQty:      oldPlan,
		OldRemaining:    oldRemaining,
		PlanQty:         n.PlanQty,
		RemainingQty:    n.RemainingQty,
	}
}

// NeedDeletedEvent is raised when a need entry is removed
type NeedDeletedEvent struct {
	shared.BaseDomainEvent
	Department string `json:"department"`
	ItemName   string `json:"item_name"`
}

// NewNeedDeletedEvent creates a NeedDeletedEvent
func NewNeedDeletedEvent(n *NeedEntry, by string) *NeedDeletedEvent {
	return &NeedDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeNeedDeleted, AggregateTypeNeedEntry, n.ID, by),
		Department:      n.Department,
		ItemName:        n.ItemName,
	}
}

// OverflowRequestedEvent is raised when an issuance exceeds the remaining plan
type OverflowRequestedEvent struct {
	shared.BaseDomainEvent
	Department   string          `json:"department"`
	NeedID       int64           `json:"need_id"`
	RequestedQty decimal.Decimal `json:"requested_qty"`
	ExcessQty    decimal.Decimal `json:"excess_qty"`
}

// NewOverflowRequestedEvent creates an OverflowRequestedEvent
func NewOverflowRequestedEvent(r *OverflowRequest) *OverflowRequestedEvent {
	return &OverflowRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOverflowRequested, AggregateTypeOverflowRequest, r.ID, r.RequestedBy),
		Department:      r.Department,
		NeedID:          r.NeedID,
		RequestedQty:    r.RequestedQty,
		ExcessQty:       r.ExcessQty,
	}
}

// OverflowResolvedEvent is raised on approval or rejection
type OverflowResolvedEvent struct {
	shared.BaseDomainEvent
	NeedID    int64           `json:"need_id"`
	ExcessQty decimal.Decimal `json:"excess_qty"`
	Status    OverflowStatus  `json:"status"`
}

// NewOverflowResolvedEvent creates an OverflowResolvedEvent of the given type
func NewOverflowResolvedEvent(r *OverflowRequest, eventType string) *OverflowResolvedEvent {
	return &OverflowResolvedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeOverflowRequest, r.ID, r.ResolvedBy),
		NeedID:          r.NeedID,
		ExcessQty:       r.ExcessQty,
		Status:          r.Status,
	}
}

// StoreRequestSubmittedEvent is raised when a department asks the store to issue
type StoreRequestSubmittedEvent struct {
	shared.BaseDomainEvent
	Department   string          `json:"department"`
	NeedID       int64           `json:"need_id"`
	RequestedQty decimal.Decimal `json:"requested_qty"`
}

// NewStoreRequestSubmittedEvent creates a StoreRequestSubmittedEvent
func NewStoreRequestSubmittedEvent(r *StoreRequest) *StoreRequestSubmittedEvent {
	return &StoreRequestSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreRequestSubmitted, AggregateTypeStoreRequest, r.ID, r.RequestedBy),
		Department:      r.Department,
		NeedID:          r.NeedID,
		RequestedQty:    r.RequestedQty,
	}
}

// StoreRequestClosedEvent is raised when the store processes or rejects a request
type StoreRequestClosedEvent struct {
	shared.BaseDomainEvent
	NeedID int64              `json:"need_id"`
	Status StoreRequestStatus `json:"status"`
}

// NewStoreRequestClosedEvent creates a StoreRequestClosedEvent of the given type
func NewStoreRequestClosedEvent(r *StoreRequest, eventType string) *StoreRequestClosedEvent {
	return &StoreRequestClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeStoreRequest, r.ID, r.ProcessedBy),
		NeedID:          r.NeedID,
		Status:          r.Status,
	}
}

// ItemIssuedEvent is raised for every issue record written
type ItemIssuedEvent struct {
	shared.BaseDomainEvent
	Department  string          `json:"department"`
	NeedID      int64           `json:"need_id"`
	StockItemID int64           `json:"stock_item_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
}

// NewItemIssuedEvent creates an ItemIssuedEvent
func NewItemIssuedEvent(rec *IssueRecord) *ItemIssuedEvent {
	return &ItemIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemIssued, AggregateTypeIssueRecord, rec.ID, rec.IssuedBy),
		Department:      rec.Department,
		NeedID:          rec.NeedID,
		StockItemID:     rec.StockItemID,
		Quantity:        rec.Quantity,
		Unit:            rec.Unit,
	}
}
