package allocation

import (
	"context"

	"github.com/labstock/backend/internal/domain/identity"
	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// StoreRequestService queues department requests for the store and
// processes them through the Coordinator
type StoreRequestService struct {
	coord  *Coordinator
	repo   plan.StoreRequestRepository
	logger *zap.Logger
}

// NewStoreRequestService creates a new StoreRequestService
func NewStoreRequestService(coord *Coordinator, repo plan.StoreRequestRepository, logger *zap.Logger) *StoreRequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreRequestService{coord: coord, repo: repo, logger: logger}
}

// Submit records a pending request. The remaining allocation is checked
// when the store processes it, not now.
func (s *StoreRequestService) Submit(ctx context.Context, actor identity.Principal, req StoreRequestSubmit) (*StoreRequestResponse, error) {
	department := req.Department
	if department == "" {
		department = actor.Department
	}
	if !actor.CanSubmitStoreRequestFor(department) {
		return nil, shared.NewDomainError(shared.CodeForbidden, "Only department staff can request issuance for their own department")
	}
	if err := shared.ValidatePositiveQuantity(req.Quantity); err != nil {
		return nil, err
	}

	var sr *plan.StoreRequest
	err := s.coord.execute(ctx, func(tx *writeTx) error {
		need, err := tx.repos.NeedRepo().FindByDepartmentAndID(ctx, department, req.NeedID)
		if err != nil {
			return err
		}
		id, err := tx.repos.StoreRequestRepo().NextID(ctx)
		if err != nil {
			return err
		}
		sr, err = plan.NewStoreRequest(id, need, req.Quantity, actor.Username)
		if err != nil {
			return err
		}
		if err := tx.repos.StoreRequestRepo().Save(ctx, sr); err != nil {
			return err
		}
		tx.collect(sr)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Store request submitted",
		zap.Int64("request_id", sr.ID),
		zap.String("department", department),
		zap.Int64("need_id", sr.NeedID),
		zap.String("quantity", sr.RequestedQty.String()))
	resp := ToStoreRequestResponse(sr)
	return &resp, nil
}

// Process runs a pending request through the issuance decision and
// records a status derived from its outcome
func (s *StoreRequestService) Process(ctx context.Context, actor identity.Principal, id int64) (*StoreRequestProcessResult, error) {
	if !actor.CanIssue() {
		return nil, shared.NewDomainError(shared.CodeForbidden, "Only storage staff or administrators can process store requests")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "allocation", "process_store_request",
		telemetry.WithAttribute(telemetry.SpanAttrRequestID, id),
		telemetry.WithAttribute(telemetry.SpanAttrActor, actor.Username),
	)
	defer span.End()

	var (
		sr     *plan.StoreRequest
		result *IssuanceResult
	)
	err := s.coord.execute(ctx, func(tx *writeTx) error {
		var err error
		sr, err = tx.repos.StoreRequestRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !sr.IsPending() {
			return shared.NewDomainError(shared.CodeAlreadyResolved, "Store request is already "+string(sr.Status))
		}

		result, err = s.coord.processIssue(ctx, tx, sr.Department, sr.NeedID, sr.RequestedQty, actor.Username, &sr.ID)
		if err != nil {
			return err
		}

		var issueID, overflowID *int64
		if result.Issue != nil {
			issueID = &result.Issue.ID
		}
		if result.OverflowRequest != nil {
			overflowID = &result.OverflowRequest.ID
		}
		if err := sr.Complete(result.Outcome, issueID, overflowID, actor.Username); err != nil {
			return err
		}
		if err := tx.repos.StoreRequestRepo().Save(ctx, sr); err != nil {
			return err
		}
		tx.collect(sr)
		status, department := sr.Status, sr.Department
		tx.onCommit(func(ctx context.Context) {
			s.coord.metrics.RecordStoreRequest(ctx, department, status)
		})
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, result.Outcome)

	s.logger.Info("Store request processed",
		zap.Int64("request_id", sr.ID),
		zap.String("status", string(sr.Status)),
		zap.String("by", actor.Username))
	return &StoreRequestProcessResult{
		Request:  ToStoreRequestResponse(sr),
		Issuance: *result,
	}, nil
}

// Reject closes a pending request without issuing
func (s *StoreRequestService) Reject(ctx context.Context, actor identity.Principal, id int64, reason string) (*StoreRequestResponse, error) {
	if !actor.CanIssue() {
		return nil, shared.NewDomainError(shared.CodeForbidden, "Only storage staff or administrators can reject store requests")
	}

	var sr *plan.StoreRequest
	err := s.coord.execute(ctx, func(tx *writeTx) error {
		var err error
		sr, err = tx.repos.StoreRequestRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := sr.Reject(reason, actor.Username); err != nil {
			return err
		}
		if err := tx.repos.StoreRequestRepo().Save(ctx, sr); err != nil {
			return err
		}
		tx.collect(sr)
		department := sr.Department
		tx.onCommit(func(ctx context.Context) {
			s.coord.metrics.RecordStoreRequest(ctx, department, plan.StoreRequestRejected)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Store request rejected", zap.Int64("request_id", sr.ID), zap.String("by", actor.Username))
	resp := ToStoreRequestResponse(sr)
	return &resp, nil
}

// List returns the request history visible to the caller
func (s *StoreRequestService) List(ctx context.Context, actor identity.Principal, filter RequestListFilter) ([]StoreRequestResponse, error) {
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
	return ToStoreRequestResponses(reqs), nil
}
