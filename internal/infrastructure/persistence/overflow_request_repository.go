package persistence

import (
	"context"

	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOverflowRequestRepository implements OverflowRequestRepository using GORM
type GormOverflowRequestRepository struct {
	db *gorm.DB
}

// NewGormOverflowRequestRepository creates a new GormOverflowRequestRepository
func NewGormOverflowRequestRepository(db *gorm.DB) *GormOverflowRequestRepository {
	return &GormOverflowRequestRepository{db: db}
}

// FindByID finds an overflow request by ID
func (r *GormOverflowRequestRepository) FindByID(ctx context.Context, id int64) (*plan.OverflowRequest, error) {
	var model models.OverflowRequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find overflow request", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists requests filtered by department, status and need
func (r *GormOverflowRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]plan.OverflowRequest, error) {
	query := r.db.WithContext(ctx).Model(&models.OverflowRequestModel{})
	query = applyDepartmentFilter(query, filter)
	query = applyStatusFilter(query, filter)
	query = applyNeedFilter(query, filter)

	var rows []models.OverflowRequestModel
	if err := query.Order(orderClause(filter, OverflowRequestSortFields)).Find(&rows).Error; err != nil {
		return nil, translateError("list overflow requests", err)
	}
	out := make([]plan.OverflowRequest, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountPendingByNeed counts pending requests referencing the need
func (r *GormOverflowRequestRepository) CountPendingByNeed(ctx context.Context, needID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OverflowRequestModel{}).
		Where("need_id = ? AND status = ?", needID, plan.OverflowPending).
		Count(&count).Error
	if err != nil {
		return 0, translateError("count overflow requests", err)
	}
	return count, nil
}

// NextID returns max(id)+1
func (r *GormOverflowRequestRepository) NextID(ctx context.Context) (int64, error) {
	return nextID(ctx, r.db, models.OverflowRequestModel{}.TableName(), "next overflow request id")
}

// Save creates or updates an overflow request
func (r *GormOverflowRequestRepository) Save(ctx context.Context, req *plan.OverflowRequest) error {
	if err := r.db.WithContext(ctx).Save(models.OverflowRequestModelFromDomain(req)).Error; err != nil {
		return translateError("save overflow request", err)
	}
	return nil
}

// Ensure GormOverflowRequestRepository implements OverflowRequestRepository
var _ plan.OverflowRequestRepository = (*GormOverflowRequestRepository)(nil)
