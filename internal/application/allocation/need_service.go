package allocation

import (
	"context"
	"strings"

	"github.com/labstock/backend/internal/domain/identity"
	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NeedService manages the annual plan and its need entries
type NeedService struct {
	coord    *Coordinator
	planRepo plan.PlanRepository
	needRepo plan.NeedRepository
	logger   *zap.Logger
}

// NewNeedService creates a new NeedService
func NewNeedService(coord *Coordinator, planRepo plan.PlanRepository, needRepo plan.NeedRepository, logger *zap.Logger) *NeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NeedService{
		coord:    coord,
		planRepo: planRepo,
		needRepo: needRepo,
		logger:   logger,
	}
}

// GetPlan returns the plan, creating it on first access
func (s *NeedService) GetPlan(ctx context.Context) (*PlanResponse, error) {
	p, err := s.planRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	resp := ToPlanResponse(p)
	return &resp, nil
}

// LockPlan approves the plan. Only administrators may lock and the lock is permanent.
func (s *NeedService) LockPlan(ctx context.Context, actor identity.Principal) (*PlanResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewDomainError(shared.CodeForbidden, "Only administrators can approve the plan")
	}

	var p *plan.Plan
	err := s.coord.execute(ctx, func(tx *writeTx) error {
		var err error
		p, err = tx.repos.PlanRepo().Get(ctx)
		if err != nil {
			return err
		}
		if err := p.Lock(actor.Username); err != nil {
			return err
		}
		if err := tx.repos.PlanRepo().Save(ctx, p); err != nil {
			return err
		}
		tx.collect(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Plan approved", zap.Int("year", p.Year), zap.String("by", actor.Username))
	resp := ToPlanResponse(p)
	return &resp, nil
}

// Create adds a need entry to the caller's department
func (s *NeedService) Create(ctx context.Context, actor identity.Principal, req NeedRequest) (*NeedResponse, error) {
	department := req.Department
	if department == "" {
		department = actor.Department
	}

	var need *plan.NeedEntry
	err := s.coord.execute(ctx, func(tx *writeTx) error {
		if err := s.ensureEditable(ctx, tx, actor, department); err != nil {
			return err
		}
		id, err := tx.repos.NeedRepo().NextID(ctx)
		if err != nil {
			return err
		}
		need, err = plan.NewNeedEntry(id, department, req.spec(), actor.Username)
		if err != nil {
			return err
		}
		if err := tx.repos.NeedRepo().Save(ctx, need); err != nil {
			return err
		}
		tx.collect(need)
		return nil
	})
	if err != nil {
		s.logger.Warn("Need creation rejected",
			zap.String("department", department),
			zap.String("username", actor.Username),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Need created",
		zap.Int64("need_id", need.ID),
		zap.String("department", department),
		zap.String("item_name", need.ItemName))
	resp := ToNeedResponse(need)
	return &resp, nil
}

// Update revises a need entry, keeping the already issued amount
func (s *NeedService) Update(ctx context.Context, actor identity.Principal, id int64, req NeedRequest) (*NeedResponse, error) {
	var need *plan.NeedEntry
	err := s.coord.execute(ctx, func(tx *writeTx) error {
		var err error
		need, err = tx.repos.NeedRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.ensureEditable(ctx, tx, actor, need.Department); err != nil {
			return err
		}
		if err := need.Revise(req.spec(), actor.Username); err != nil {
			return err
		}
		if err := tx.repos.NeedRepo().Save(ctx, need); err != nil {
			return err
		}
		tx.collect(need)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Need revised",
		zap.Int64("need_id", need.ID),
		zap.String("plan_qty", need.PlanQty.String()),
		zap.String("remaining_qty", need.RemainingQty.String()))
	resp := ToNeedResponse(need)
	return &resp, nil
}

// Delete removes a need entry. Needs referenced by pending overflow or
// store requests cannot be deleted.
func (s *NeedService) Delete(ctx context.Context, actor identity.Principal, id int64) error {
	err := s.coord.execute(ctx, func(tx *writeTx) error {
		need, err := tx.repos.NeedRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.ensureEditable(ctx, tx, actor, need.Department); err != nil {
			return err
		}

		pendingOverflow, err := tx.repos.OverflowRepo().CountPendingByNeed(ctx, id)
		if err != nil {
			return err
		}
		pendingStore, err := tx.repos.StoreRequestRepo().CountPendingByNeed(ctx, id)
		if err != nil {
			return err
		}
		if pendingOverflow+pendingStore > 0 {
			return shared.ErrNeedHasPendingRequests
		}

		if err := tx.repos.NeedRepo().Delete(ctx, id); err != nil {
			return err
		}
		tx.events = append(tx.events, plan.NewNeedDeletedEvent(need, actor.Username))
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Need deleted", zap.Int64("need_id", id), zap.String("by", actor.Username))
	return nil
}

// Get returns one need entry visible to the caller
func (s *NeedService) Get(ctx context.Context, actor identity.Principal, id int64) (*NeedResponse, error) {
	need, err := s.needRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanView(need.Department) {
		return nil, shared.ErrNotFound
	}
	resp := ToNeedResponse(need)
	return &resp, nil
}

// List returns need entries. Department staff only see their own department.
func (s *NeedService) List(ctx context.Context, actor identity.Principal, filter NeedListFilter) ([]NeedResponse, error) {
	department, err := scopeDepartment(actor, filter.Department)
	if err != nil {
		return nil, err
	}

	f := shared.DefaultFilter()
	f.Search = strings.TrimSpace(filter.Search)
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	if department != "" {
		f = f.With(plan.FilterDepartment, department)
	}

	needs, err := s.needRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	return ToNeedResponses(needs), nil
}

// ensureEditable checks the plan lock, then department ownership
func (s *NeedService) ensureEditable(ctx context.Context, tx *writeTx, actor identity.Principal, department string) error {
	p, err := tx.repos.PlanRepo().Get(ctx)
	if err != nil {
		return err
	}
	if err := p.EnsureEditable(); err != nil {
		return err
	}
	if !actor.CanEditNeedsOf(department) {
		return shared.NewDomainError(shared.CodeForbidden, "Needs can only be changed by staff of their own department")
	}
	return nil
}

// scopeDepartment resolves which department a listing covers.
// An empty result means every department.
func scopeDepartment(actor identity.Principal, requested string) (string, error) {
	if actor.CanViewAllDepartments() {
		return requested, nil
	}
	if requested != "" && requested != actor.Department {
		return "", shared.NewDomainError(shared.CodeForbidden, "Only your own department is visible")
	}
	return actor.Department, nil
}
