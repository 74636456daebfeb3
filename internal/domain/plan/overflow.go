package plan

import (
	"time"

	"github.com/labstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OverflowStatus is the state of an overflow approval request
type OverflowStatus string

const (
	OverflowPending  OverflowStatus = "pending"
	OverflowApproved OverflowStatus = "approved"
	OverflowRejected OverflowStatus = "rejected"
)

// OverflowRequest asks quality assurance to approve issuing more than the
// remaining plan allocation. Only ExcessQty is added to the need on approval.
type OverflowRequest struct {
	shared.BaseAggregateRoot
	Department   string
	NeedID       int64
	Category     string
	ItemName     string
	RequestedQty decimal.Decimal
	ExcessQty    decimal.Decimal
	Unit         string
	Status       OverflowStatus
	RequestedBy  string
	ResolvedBy   string
	ResolvedAt   *time.Time
}

// NewOverflowRequest creates a pending overflow request for need
func NewOverflowRequest(id int64, need *NeedEntry, requested decimal.Decimal, requestedBy string) (*OverflowRequest, error) {
	if id <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Overflow request ID must be positive")
	}
	excess := need.ExcessOver(requested)
	if !excess.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Requested quantity fits the remaining plan allocation")
	}
	r := &OverflowRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(id),
		Department:        need.Department,
		NeedID:            need.ID,
		Category:          need.Category,
		ItemName:          need.ItemName,
		RequestedQty:      requested,
		ExcessQty:         excess,
		Unit:              need.Unit,
		Status:            OverflowPending,
		RequestedBy:       requestedBy,
	}
	r.AddDomainEvent(NewOverflowRequestedEvent(r))
	return r, nil
}

// IsPending reports whether the request still awaits a decision
func (r *OverflowRequest) IsPending() bool {
	return r.Status == OverflowPending
}

// Approve marks the request approved. The caller adds ExcessQty to the need.
func (r *OverflowRequest) Approve(by string) error {
	if err := r.resolve(OverflowApproved, by); err != nil {
		return err
	}
	r.AddDomainEvent(NewOverflowResolvedEvent(r, EventTypeOverflowApproved))
	return nil
}

// Reject marks the request rejected without touching the need
func (r *OverflowRequest) Reject(by string) error {
	if err := r.resolve(OverflowRejected, by); err != nil {
		return err
	}
	r.AddDomainEvent(NewOverflowResolvedEvent(r, EventTypeOverflowRejected))
	return nil
}

func (r *OverflowRequest) resolve(status OverflowStatus, by string) error {
	if !r.IsPending() {
		return shared.NewDomainError(shared.CodeAlreadyResolved, "Overflow request is already "+string(r.Status))
	}
	now := time.Now()
	r.Status = status
	r.ResolvedBy = by
	r.ResolvedAt = &now
	r.IncrementVersion()
	return nil
}

// CreatedOn returns the creation date
func (r *OverflowRequest) CreatedOn() time.Time {
	return truncateDay(r.CreatedAt)
}
