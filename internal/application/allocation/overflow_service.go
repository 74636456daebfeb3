package allocation

import (
	"context"

	"github.com/labstock/backend/internal/domain/identity"
	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// OverflowService lets the quality department resolve overflow requests
type OverflowService struct {
	coord  *Coordinator
	repo   plan.OverflowRequestRepository
	logger *zap.Logger
}

// NewOverflowService creates a new OverflowService
func NewOverflowService(coord *Coordinator, repo plan.OverflowRequestRepository, logger *zap.Logger) *OverflowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverflowService{coord: coord, repo: repo, logger: logger}
}

// List returns overflow requests visible to the caller
func (s *OverflowService) List(ctx context.Context, actor identity.Principal, filter RequestListFilter) ([]OverflowRequestResponse, error) {
	department, err := scopeDepartment(actor, filter.Department)
	if err != nil {
		return nil, err
	}

	f := shared.DefaultFilter()
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	if department != "" {
		f = f.With(plan.FilterDepartment, department)
	}
	if filter.Status != "" {
		f = f.With(plan.FilterStatus, filter.Status)
	}

	reqs, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	return ToOverflowRequestResponses(reqs), nil
}

// Approve adds the request's excess to the need's remaining allocation.
// The original issuance is not retried.
func (s *OverflowService) Approve(ctx context.Context, actor identity.Principal, id int64) (*OverflowRequestResponse, error) {
	return s.resolve(ctx, actor, id, true)
}

// Reject closes the request without changing the need
func (s *OverflowService) Reject(ctx context.Context, actor identity.Principal, id int64) (*OverflowRequestResponse, error) {
	return s.resolve(ctx, actor, id, false)
}

func (s *OverflowService) resolve(ctx context.Context, actor identity.Principal, id int64, approve bool) (*OverflowRequestResponse, error) {
	if !actor.CanResolveOverflow() {
		return nil, shared.NewDomainError(shared.CodeForbidden, "Only the quality department can resolve overflow requests")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "allocation", "resolve_overflow",
		telemetry.WithAttribute(telemetry.SpanAttrRequestID, id),
		telemetry.WithAttribute(telemetry.SpanAttrActor, actor.Username),
	)
	defer span.End()

	var req *plan.OverflowRequest
	err := s.coord.execute(ctx, func(tx *writeTx) error {
		var err error
		req, err = tx.repos.OverflowRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if !approve {
			if err := req.Reject(actor.Username); err != nil {
				return err
			}
		} else {
			if err := req.Approve(actor.Username); err != nil {
				return err
			}
			need, err := tx.repos.NeedRepo().FindByDepartmentAndID(ctx, req.Department, req.NeedID)
			if err != nil {
				return err
			}
			if err := need.Replenish(req.ExcessQty); err != nil {
				return err
			}
			if err := tx.repos.NeedRepo().Save(ctx, need); err != nil {
				return err
			}
			tx.collect(need)
		}

		if err := tx.repos.OverflowRepo().Save(ctx, req); err != nil {
			return err
		}
		tx.collect(req)
		status, department := req.Status, req.Department
		tx.onCommit(func(ctx context.Context) {
			s.coord.metrics.RecordOverflowResolution(ctx, department, status)
		})
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("Overflow resolution rejected",
			zap.Int64("request_id", id),
			zap.Bool("approve", approve),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Overflow request resolved",
		zap.Int64("request_id", req.ID),
		zap.String("status", string(req.Status)),
		zap.String("excess_qty", req.ExcessQty.String()),
		zap.String("by", actor.Username))
	resp := ToOverflowRequestResponse(req)
	return &resp, nil
}
