package plan

import (
	"context"

	"github.com/labstock/backend/internal/domain/shared"
)

// Filter keys understood by the plan repositories' FindAll
const (
	FilterDepartment = "department"
	FilterStatus     = "status"
	FilterNeedID     = "need_id"
)

// PlanRepository persists the singleton plan
type PlanRepository interface {
	// Get returns the plan, creating an unlocked one on first access
	Get(ctx context.Context) (*Plan, error)

	// Save updates the plan
	Save(ctx context.Context, p *Plan) error
}

// NeedRepository defines persistence for need entries
type NeedRepository interface {
	// FindByID finds a need by its global ID
	FindByID(ctx context.Context, id int64) (*NeedEntry, error)

	// FindByDepartmentAndID finds a need owned by department
	FindByDepartmentAndID(ctx context.Context, department string, id int64) (*NeedEntry, error)

	// FindAll lists needs; FilterDepartment restricts to one department
	FindAll(ctx context.Context, filter shared.Filter) ([]NeedEntry, error)

	// NextID returns max(id)+1 across all departments
	NextID(ctx context.Context) (int64, error)

	// Save creates or updates a need
	Save(ctx context.Context, n *NeedEntry) error

	// Delete deletes a need
	Delete(ctx context.Context, id int64) error
}

// OverflowRequestRepository defines persistence for overflow requests
type OverflowRequestRepository interface {
	FindByID(ctx context.Context, id int64) (*OverflowRequest, error)

	// FindAll lists requests; supports FilterDepartment, FilterStatus and FilterNeedID
	FindAll(ctx context.Context, filter shared.Filter) ([]OverflowRequest, error)

	// CountPendingByNeed counts pending requests referencing the need
	CountPendingByNeed(ctx context.Context, needID int64) (int64, error)

	NextID(ctx context.Context) (int64, error)
	Save(ctx context.Context, r *OverflowRequest) error
}

// StoreRequestRepository defines persistence for store requests
type StoreRequestRepository interface {
	FindByID(ctx context.Context, id int64) (*StoreRequest, error)

	// FindAll lists requests; supports FilterDepartment, FilterStatus and FilterNeedID
	FindAll(ctx context.Context, filter shared.Filter) ([]StoreRequest, error)

	// CountPendingByNeed counts pending requests referencing the need
	CountPendingByNeed(ctx context.Context, needID int64) (int64, error)

	NextID(ctx context.Context) (int64, error)
	Save(ctx context.Context, r *StoreRequest) error
}

// IssueRepository is the append-only issue ledger
type IssueRepository interface {
	// FindAll lists issue records; supports FilterDepartment and FilterNeedID
	FindAll(ctx context.Context, filter shared.Filter) ([]IssueRecord, error)

	NextID(ctx context.Context) (int64, error)

	// Create appends a record
	Create(ctx context.Context, rec *IssueRecord) error
}
