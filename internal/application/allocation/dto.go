package allocation

import (
	"time"

	"github.com/labstock/backend/internal/domain/plan"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for created/issued dates
const DateLayout = "2006-01-02"

// PlanResponse represents the annual plan in API responses
type PlanResponse struct {
	Year     int        `json:"year"`
	Locked   bool       `json:"locked"`
	LockedAt *time.Time `json:"locked_at,omitempty"`
	LockedBy string     `json:"locked_by,omitempty"`
}

// ToPlanResponse converts the domain plan to a response
func ToPlanResponse(p *plan.Plan) PlanResponse {
	return PlanResponse{
		Year:     p.Year,
		Locked:   p.Locked,
		LockedAt: p.LockedAt,
		LockedBy: p.LockedBy,
	}
}

// NeedRequest is the payload for creating or editing a need entry.
// Department defaults to the caller's department on create and is ignored on edit.
type NeedRequest struct {
	Department      string          `json:"department" binding:"omitempty,department"`
	Category        string          `json:"category" binding:"required,category"`
	ItemName        string          `json:"item_name" binding:"required,max=300"`
	PlanQty         decimal.Decimal `json:"plan_qty" binding:"required"`
	Unit            string          `json:"unit" binding:"required,unit"`
	Qualification   string          `json:"qualification" binding:"max=100"`
	StateRegisterNo string          `json:"state_register_no" binding:"max=100"`
	CylinderVolume  string          `json:"cylinder_volume" binding:"max=100"`
	CertifiedValue  string          `json:"certified_value" binding:"max=200"`
	Purpose         string          `json:"purpose" binding:"max=500"`
}

func (r NeedRequest) spec() plan.NeedSpec {
	return plan.NeedSpec{
		Category:        r.Category,
		ItemName:        r.ItemName,
		PlanQty:         r.PlanQty,
		Unit:            r.Unit,
		Qualification:   r.Qualification,
		StateRegisterNo: r.StateRegisterNo,
		CylinderVolume:  r.CylinderVolume,
		CertifiedValue:  r.CertifiedValue,
		Purpose:         r.Purpose,
	}
}

// NeedResponse represents a need entry in API responses
type NeedResponse struct {
	ID              int64           `json:"id"`
	Department      string          `json:"department"`
	Category        string          `json:"category"`
	ItemName        string          `json:"item_name"`
	PlanQty         decimal.Decimal `json:"plan_qty"`
	RemainingQty    decimal.Decimal `json:"remaining_qty"`
	IssuedQty       decimal.Decimal `json:"issued_qty"`
	Unit            string          `json:"unit"`
	Qualification   string          `json:"qualification,omitempty"`
	StateRegisterNo string          `json:"state_register_no,omitempty"`
	CylinderVolume  string          `json:"cylinder_volume,omitempty"`
	CertifiedValue  string          `json:"certified_value,omitempty"`
	Purpose         string          `json:"purpose,omitempty"`
	Status          string          `json:"status"`
	ApprovedByQA    bool            `json:"approved_by_qa"`
	Created         string          `json:"created"`
	CreatedBy       string          `json:"created_by,omitempty"`
	Version         int             `json:"version"`
}

// ToNeedResponse converts a need entry to a response
func ToNeedResponse(n *plan.NeedEntry) NeedResponse {
	return NeedResponse{
		ID:              n.ID,
		Department:      n.Department,
		Category:        n.Category,
		ItemName:        n.ItemName,
		PlanQty:         n.PlanQty,
		RemainingQty:    n.RemainingQty,
		IssuedQty:       n.IssuedQty(),
		Unit:            n.Unit,
		Qualification:   n.Qualification,
		StateRegisterNo: n.StateRegisterNo,
		CylinderVolume:  n.CylinderVolume,
		CertifiedValue:  n.CertifiedValue,
		Purpose:         n.Purpose,
		Status:          n.Status,
		ApprovedByQA:    n.ApprovedByQA,
		Created:         n.CreatedOn().Format(DateLayout),
		CreatedBy:       n.CreatedBy,
		Version:         n.Version,
	}
}

// ToNeedResponses converts a slice of need entries
func ToNeedResponses(needs []plan.NeedEntry) []NeedResponse {
	out := make([]NeedResponse, len(needs))
	for i := range needs {
		out[i] = ToNeedResponse(&needs[i])
	}
	return out
}

// NeedListFilter represents filter options for the needs view
type NeedListFilter struct {
	Department string `form:"department"`
	Search     string `form:"search"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// IssueRequest asks to issue qty against a department's need
type IssueRequest struct {
	Department string          `json:"department" binding:"required,department"`
	NeedID     int64           `json:"need_id" binding:"required,min=1"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
}

// IssuanceResult is the structured outcome of one issuance attempt
type IssuanceResult struct {
	Outcome         plan.IssuanceOutcome     `json:"outcome"`
	Message         string                   `json:"message"`
	Issue           *IssueRecordResponse     `json:"issue,omitempty"`
	OverflowRequest *OverflowRequestResponse `json:"overflow_request,omitempty"`
	StockRemaining  *decimal.Decimal         `json:"stock_remaining,omitempty"`
	NeedRemaining   *decimal.Decimal         `json:"need_remaining,omitempty"`
}

var outcomeMessages = map[plan.IssuanceOutcome]string{
	plan.OutcomeIssued:            "Issued",
	plan.OutcomeOverflow:          "Plan exceeded, overflow request sent to quality department",
	plan.OutcomeInsufficientStock: "Insufficient stock",
	plan.OutcomePlanNotFound:      "Plan entry not found",
	plan.OutcomeItemNotFound:      "Item not found in stock",
}

// IssueRecordResponse represents an issue ledger entry
type IssueRecordResponse struct {
	ID             int64           `json:"id"`
	Department     string          `json:"department"`
	NeedID         int64           `json:"need_id"`
	StockItemID    int64           `json:"stock_item_id"`
	ItemName       string          `json:"item_name"`
	Category       string          `json:"category"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	Date           string          `json:"date"`
	IssuedBy       string          `json:"issued_by"`
	StoreRequestID *int64          `json:"store_request_id,omitempty"`
}

// ToIssueRecordResponse converts an issue record
func ToIssueRecordResponse(r *plan.IssueRecord) IssueRecordResponse {
	return IssueRecordResponse{
		ID:             r.ID,
		Department:     r.Department,
		NeedID:         r.NeedID,
		StockItemID:    r.StockItemID,
		ItemName:       r.ItemName,
		Category:       r.Category,
		Quantity:       r.Quantity,
		Unit:           r.Unit,
		Date:           r.IssuedOn.Format(DateLayout),
		IssuedBy:       r.IssuedBy,
		StoreRequestID: r.StoreRequestID,
	}
}

// ToIssueRecordResponses converts a slice of issue records
func ToIssueRecordResponses(recs []plan.IssueRecord) []IssueRecordResponse {
	out := make([]IssueRecordResponse, len(recs))
	for i := range recs {
		out[i] = ToIssueRecordResponse(&recs[i])
	}
	return out
}

// IssueListFilter represents filter options for the issue ledger
type IssueListFilter struct {
	Department string `form:"department"`
	NeedID     int64  `form:"need_id" binding:"omitempty,min=1"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OverflowRequestResponse represents an overflow request
type OverflowRequestResponse struct {
	ID           int64               `json:"id"`
	Department   string              `json:"department"`
	NeedID       int64               `json:"need_id"`
	Category     string              `json:"category"`
	ItemName     string              `json:"item_name"`
	RequestedQty decimal.Decimal     `json:"requested_qty"`
	ExcessQty    decimal.Decimal     `json:"excess_qty"`
	Unit         string              `json:"unit"`
	Status       plan.OverflowStatus `json:"status"`
	Created      string              `json:"created"`
	RequestedBy  string              `json:"requested_by,omitempty"`
	ResolvedBy   string              `json:"resolved_by,omitempty"`
	ResolvedAt   *time.Time          `json:"resolved_at,omitempty"`
}

// ToOverflowRequestResponse converts an overflow request
func ToOverflowRequestResponse(r *plan.OverflowRequest) OverflowRequestResponse {
	return OverflowRequestResponse{
		ID:           r.ID,
		Department:   r.Department,
		NeedID:       r.NeedID,
		Category:     r.Category,
		ItemName:     r.ItemName,
		RequestedQty: r.RequestedQty,
		ExcessQty:    r.ExcessQty,
		Unit:         r.Unit,
		Status:       r.Status,
		Created:      r.CreatedOn().Format(DateLayout),
		RequestedBy:  r.RequestedBy,
		ResolvedBy:   r.ResolvedBy,
		ResolvedAt:   r.ResolvedAt,
	}
}

// ToOverflowRequestResponses converts a slice of overflow requests
func ToOverflowRequestResponses(reqs []plan.OverflowRequest) []OverflowRequestResponse {
	out := make([]OverflowRequestResponse, len(reqs))
	for i := range reqs {
		out[i] = ToOverflowRequestResponse(&reqs[i])
	}
	return out
}

// RequestListFilter represents filter options for overflow and store request lists.
// Status "redirected" matches every redirected_* store request status.
type RequestListFilter struct {
	Department string `form:"department"`
	Status     string `form:"status"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StoreRequestSubmit is the payload for asking the store to issue
type StoreRequestSubmit struct {
	Department string          `json:"department" binding:"omitempty,department"`
	NeedID     int64           `json:"need_id" binding:"required,min=1"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
}

// StoreRequestReject carries an optional rejection reason
type StoreRequestReject struct {
	Reason string `json:"reason" binding:"max=500"`
}

// StoreRequestResponse represents a store request
type StoreRequestResponse struct {
	ID           int64                   `json:"id"`
	Department   string                  `json:"department"`
	NeedID       int64                   `json:"need_id"`
	RequestedQty decimal.Decimal         `json:"requested_qty"`
	Unit         string                  `json:"unit"`
	Status       plan.StoreRequestStatus `json:"status"`
	Redirected   bool                    `json:"redirected"`
	Outcome      *plan.IssuanceOutcome   `json:"outcome,omitempty"`
	Created      string                  `json:"created"`
	RequestedBy  string                  `json:"requested_by"`
	ProcessedBy  string                  `json:"processed_by,omitempty"`
	ProcessedAt  *time.Time              `json:"processed_at,omitempty"`
	IssueID      *int64                  `json:"issue_id,omitempty"`
	OverflowID   *int64                  `json:"overflow_request_id,omitempty"`
	RejectReason string                  `json:"reject_reason,omitempty"`
}

// ToStoreRequestResponse converts a store request
func ToStoreRequestResponse(r *plan.StoreRequest) StoreRequestResponse {
	return StoreRequestResponse{
		ID:           r.ID,
		Department:   r.Department,
		NeedID:       r.NeedID,
		RequestedQty: r.RequestedQty,
		Unit:         r.Unit,
		Status:       r.Status,
		Redirected:   r.Status.IsRedirected(),
		Outcome:      r.Outcome,
		Created:      r.CreatedOn().Format(DateLayout),
		RequestedBy:  r.RequestedBy,
		ProcessedBy:  r.ProcessedBy,
		ProcessedAt:  r.ProcessedAt,
		IssueID:      r.IssueID,
		OverflowID:   r.OverflowID,
		RejectReason: r.RejectReason,
	}
}

// ToStoreRequestResponses converts a slice of store requests
func ToStoreRequestResponses(reqs []plan.StoreRequest) []StoreRequestResponse {
	out := make([]StoreRequestResponse, len(reqs))
	for i := range reqs {
		out[i] = ToStoreRequestResponse(&reqs[i])
	}
	return out
}

// StoreRequestProcessResult reports the processed request and the issuance behind it
type StoreRequestProcessResult struct {
	Request  StoreRequestResponse `json:"request"`
	Issuance IssuanceResult       `json:"issuance"`
}
