package allocation

import (
	"context"

	"github.com/labstock/backend/internal/domain/identity"
	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/shared"
)

// IssueService reads the issue ledger
type IssueService struct {
	repo plan.IssueRepository
}

// NewIssueService creates a new IssueService
func NewIssueService(repo plan.IssueRepository) *IssueService {
	return &IssueService{repo: repo}
}

// List returns issue records visible to the caller
func (s *IssueService) List(ctx context.Context, actor identity.Principal, filter IssueListFilter) ([]IssueRecordResponse, error) {
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
	if filter.NeedID > 0 {
		f = f.With(plan.FilterNeedID, filter.NeedID)
	}

	recs, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	return ToIssueRecordResponses(recs), nil
}
