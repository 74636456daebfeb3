package allocation

import (
	"context"

	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the allocation repositories.
// When a function is executed within a transaction scope, all repository operations
// will be part of the same database transaction and will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to every repository an issuance touches.
// All repositories returned share the same underlying database transaction.
type TransactionalRepositories interface {
	StockRepo() stock.StockItemRepository
	PlanRepo() plan.PlanRepository
	NeedRepo() plan.NeedRepository
	OverflowRepo() plan.OverflowRequestRepository
	StoreRequestRepo() plan.StoreRequestRepository
	IssueRepo() plan.IssueRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	stockRepo    stock.StockItemRepository
	planRepo     plan.PlanRepository
	needRepo     plan.NeedRepository
	overflowRepo plan.OverflowRequestRepository
	storeRepo    plan.StoreRequestRepository
	issueRepo    plan.IssueRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	stockRepo stock.StockItemRepository,
	planRepo plan.PlanRepository,
	needRepo plan.NeedRepository,
	overflowRepo plan.OverflowRequestRepository,
	storeRepo plan.StoreRequestRepository,
	issueRepo plan.IssueRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockRepo:    stockRepo,
		planRepo:     planRepo,
		needRepo:     needRepo,
		overflowRepo: overflowRepo,
		storeRepo:    storeRepo,
		issueRepo:    issueRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) StockRepo() stock.StockItemRepository          { return s.stockRepo }
func (s *NoOpTransactionScope) PlanRepo() plan.PlanRepository                 { return s.planRepo }
func (s *NoOpTransactionScope) NeedRepo() plan.NeedRepository                 { return s.needRepo }
func (s *NoOpTransactionScope) OverflowRepo() plan.OverflowRequestRepository  { return s.overflowRepo }
func (s *NoOpTransactionScope) StoreRequestRepo() plan.StoreRequestRepository { return s.storeRepo }
func (s *NoOpTransactionScope) IssueRepo() plan.IssueRepository               { return s.issueRepo }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
