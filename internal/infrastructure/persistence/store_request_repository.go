package persistence

import (
	"context"

	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStoreRequestRepository implements StoreRequestRepository using GORM
type GormStoreRequestRepository struct {
	db *gorm.DB
}

// NewGormStoreRequestRepository creates a new GormStoreRequestRepository
func NewGormStoreRequestRepository(db *gorm.DB) *GormStoreRequestRepository {
	return &GormStoreRequestRepository{db: db}
}

// FindByID finds a store request by ID
func (r *GormStoreRequestRepository) FindByID(ctx context.Context, id int64) (*plan.StoreRequest, error) {
	var model models.StoreRequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find store request", err)
	}
	req, err := model.ToDomain()
	if err != nil {
		return nil, shared.NewPersistenceError("decode store request", err)
	}
	return req, nil
}

// FindAll lists requests filtered by department, status and need
func (r *GormStoreRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]plan.StoreRequest, error) {
	query := r.db.WithContext(ctx).Model(&models.StoreRequestModel{})
	query = applyDepartmentFilter(query, filter)
	query = applyStatusFilter(query, filter)
	query = applyNeedFilter(query, filter)

	var rows []models.StoreRequestModel
	if err := query.Order(orderClause(filter, StoreRequestSortFields)).Find(&rows).Error; err != nil {
		return nil, translateError("list store requests", err)
	}
	out := make([]plan.StoreRequest, len(rows))
	for i := range rows {
		req, err := rows[i].ToDomain()
		if err != nil {
			return nil, shared.NewPersistenceError("decode store request", err)
		}
		out[i] = *req
	}
	return out, nil
}

// CountPendingByNeed counts pending requests referencing the need
func (r *GormStoreRequestRepository) CountPendingByNeed(ctx context.Context, needID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StoreRequestModel{}).
		Where("need_id = ? AND status = ?", needID, plan.StoreRequestPending).
		Count(&count).Error
	if err != nil {
		return 0, translateError("count store requests", err)
	}
	return count, nil
}

// NextID returns max(id)+1
func (r *GormStoreRequestRepository) NextID(ctx context.Context) (int64, error) {
	return nextID(ctx, r.db, models.StoreRequestModel{}.TableName(), "next store request id")
}

// Save creates or updates a store request
func (r *GormStoreRequestRepository) Save(ctx context.Context, req *plan.StoreRequest) error {
	if err := r.db.WithContext(ctx).Save(models.StoreRequestModelFromDomain(req)).Error; err != nil {
		return translateError("save store request", err)
	}
	return nil
}

// Ensure GormStoreRequestRepository implements StoreRequestRepository
var _ plan.StoreRequestRepository = (*GormStoreRequestRepository)(nil)
