package persistence

import (
	"context"

	"github.com/labstock/backend/internal/application/allocation"
	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed. Failures to begin
// or commit are reported as persistence errors.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos allocation.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
	return translateTxError(err)
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) StockRepo() stock.StockItemRepository {
	return NewGormStockItemRepository(r.tx)
}

func (r *gormTransactionalRepositories) PlanRepo() plan.PlanRepository {
	return NewGormPlanRepository(r.tx)
}

func (r *gormTransactionalRepositories) NeedRepo() plan.NeedRepository {
	return NewGormNeedRepository(r.tx)
}

func (r *gormTransactionalRepositories) OverflowRepo() plan.OverflowRequestRepository {
	return NewGormOverflowRequestRepository(r.tx)
}

func (r *gormTransactionalRepositories) StoreRequestRepo() plan.StoreRequestRepository {
	return NewGormStoreRequestRepository(r.tx)
}

func (r *gormTransactionalRepositories) IssueRepo() plan.IssueRepository {
	return NewGormIssueRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ allocation.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ allocation.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
