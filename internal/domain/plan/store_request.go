package plan

import (
	"strings"
	"time"

	"github.com/labstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StoreRequestStatus is the state of a department's request to the store
type StoreRequestStatus string

const (
	StoreRequestPending                     StoreRequestStatus = "pending"
	StoreRequestDone                        StoreRequestStatus = "done"
	StoreRequestRejected                    StoreRequestStatus = "rejected"
	StoreRequestRedirectedOverflow          StoreRequestStatus = "redirected_overflow"
	StoreRequestRedirectedInsufficientStock StoreRequestStatus = "redirected_insufficient_stock"
	StoreRequestRedirectedPlanNotFound      StoreRequestStatus = "redirected_plan_not_found"
	StoreRequestRedirectedItemNotFound      StoreRequestStatus = "redirected_item_not_found"
)

// StatusFilterRedirected is the list filter value matching every redirected status
const StatusFilterRedirected = "redirected"

// IsRedirected reports whether processing ended in anything but an issue
func (s StoreRequestStatus) IsRedirected() bool {
	return strings.HasPrefix(string(s), "redirected_")
}

// IsValid reports whether s is a known status
func (s StoreRequestStatus) IsValid() bool {
	switch s {
	case StoreRequestPending, StoreRequestDone, StoreRequestRejected,
		StoreRequestRedirectedOverflow, StoreRequestRedirectedInsufficientStock,
		StoreRequestRedirectedPlanNotFound, StoreRequestRedirectedItemNotFound:
		return true
	}
	return false
}

// StoreRequest is a department's ask for the store to issue against a need
type StoreRequest struct {
	shared.BaseAggregateRoot
	Department   string
	NeedID       int64
	RequestedQty decimal.Decimal
	Unit         string
	Status       StoreRequestStatus
	RequestedBy  string
	ProcessedBy  string
	ProcessedAt  *time.Time
	Outcome      *IssuanceOutcome
	IssueID      *int64
	OverflowID   *int64
	RejectReason string
}

// NewStoreRequest creates a pending store request
func NewStoreRequest(id int64, need *NeedEntry, qty decimal.Decimal, requestedBy string) (*StoreRequest, error) {
	if id <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Store request ID must be positive")
	}
	if !qty.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Requested quantity must be positive")
	}
	if err := shared.CheckQuantityScale(qty); err != nil {
		return nil, err
	}
	r := &StoreRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(id),
		Department:        need.Department,
		NeedID:            need.ID,
		RequestedQty:      qty,
		Unit:              need.Unit,
		Status:            StoreRequestPending,
		RequestedBy:       requestedBy,
	}
	r.AddDomainEvent(NewStoreRequestSubmittedEvent(r))
	return r, nil
}

// IsPending reports whether the request still awaits processing
func (r *StoreRequest) IsPending() bool {
	return r.Status == StoreRequestPending
}

// Complete records the outcome of running the request through issuance
func (r *StoreRequest) Complete(outcome IssuanceOutcome, issueID, overflowID *int64, by string) error {
	if !outcome.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Unknown issuance outcome")
	}
	if err := r.close(outcome.StoreRequestStatus(), by); err != nil {
		return err
	}
	r.Outcome = &outcome
	r.IssueID = issueID
	r.OverflowID = overflowID
	r.AddDomainEvent(NewStoreRequestClosedEvent(r, EventTypeStoreRequestProcessed))
	return nil
}

// Reject closes the request without attempting issuance
func (r *StoreRequest) Reject(reason, by string) error {
	if err := r.close(StoreRequestRejected, by); err != nil {
		return err
	}
	r.RejectReason = strings.TrimSpace(reason)
	r.AddDomainEvent(NewStoreRequestClosedEvent(r, EventTypeStoreRequestRejected))
	return nil
}

func (r *StoreRequest) close(status StoreRequestStatus, by string) error {
	if !r.IsPending() {
		return shared.NewDomainError(shared.CodeAlreadyResolved, "Store request is already "+string(r.Status))
	}
	now := time.Now()
	r.Status = status
	r.ProcessedBy = by
	r.ProcessedAt = &now
	r.IncrementVersion()
	return nil
}

// CreatedOn returns the creation date
func (r *StoreRequest) CreatedOn() time.Time {
	return truncateDay(r.CreatedAt)
}
