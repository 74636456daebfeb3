package persistence

import (
	"context"

	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormIssueRepository implements the append-only IssueRepository using GORM
type GormIssueRepository struct {
	db *gorm.DB
}

// NewGormIssueRepository creates a new GormIssueRepository
func NewGormIssueRepository(db *gorm.DB) *GormIssueRepository {
	return &GormIssueRepository{db: db}
}

// FindAll lists issue records filtered by department and need
func (r *GormIssueRepository) FindAll(ctx context.Context, filter shared.Filter) ([]plan.IssueRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.IssueRecordModel{})
	query = applyDepartmentFilter(query, filter)
	query = applyNeedFilter(query, filter)

	var rows []models.IssueRecordModel
	if err := query.Order(orderClause(filter, IssueRecordSortFields)).Find(&rows).Error; err != nil {
		return nil, translateError("list issue records", err)
	}
	out := make([]plan.IssueRecord, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// NextID returns max(id)+1
func (r *GormIssueRepository) NextID(ctx context.Context) (int64, error) {
	return nextID(ctx, r.db, models.IssueRecordModel{}.TableName(), "next issue id")
}

// Create appends a record. An existing id is never overwritten.
func (r *GormIssueRepository) Create(ctx context.Context, rec *plan.IssueRecord) error {
	if err := r.db.WithContext(ctx).Create(models.IssueRecordModelFromDomain(rec)).Error; err != nil {
		return translateError("create issue record", err)
	}
	return nil
}

// Ensure GormIssueRepository implements IssueRepository
var _ plan.IssueRepository = (*GormIssueRepository)(nil)
