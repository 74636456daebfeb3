package plan

import (
	"time"

	"github.com/labstock/backend/internal/domain/shared"
)

// SingletonID is the identifier of the one annual plan row
const SingletonID int64 = 1

// Plan is the annual requirement plan. There is exactly one.
// Locking is one-directional: once locked, need entries are frozen.
type Plan struct {
	shared.BaseAggregateRoot
	Year     int
	Locked   bool
	LockedAt *time.Time
	LockedBy string
}

// NewPlan creates the plan for the calendar year after now
func NewPlan(now time.Time) *Plan {
	return &Plan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(SingletonID),
		Year:              now.Year() + 1,
	}
}

// Lock approves the plan and freezes need entries
func (p *Plan) Lock(by string) error {
	if p.Locked {
		return shared.NewDomainError(shared.CodePlanLocked, "Plan is already approved")
	}
	now := time.Now()
	p.Locked = true
	p.LockedAt = &now
	p.LockedBy = by
	p.IncrementVersion()
	p.AddDomainEvent(NewPlanLockedEvent(p))
	return nil
}

// EnsureEditable returns ErrPlanLocked if need content may not change
func (p *Plan) EnsureEditable() error {
	if p.Locked {
		return shared.ErrPlanLocked
	}
	return nil
}
