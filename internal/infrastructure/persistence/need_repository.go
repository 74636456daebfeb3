package persistence

import (
	"context"

	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/infrastructure/config"
	"github.com/labstock/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNeedRepository implements NeedRepository using GORM
type GormNeedRepository struct {
	db       *gorm.DB
	foldInDB bool
}

// NewGormNeedRepository creates a new GormNeedRepository
func NewGormNeedRepository(db *gorm.DB) *GormNeedRepository {
	return &GormNeedRepository{
		db:       db,
		foldInDB: db.Dialector.Name() == config.DriverPostgres,
	}
}

// FindByID finds a need by its global ID
func (r *GormNeedRepository) FindByID(ctx context.Context, id int64) (*plan.NeedEntry, error) {
	var model models.NeedEntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find need", err)
	}
	return model.ToDomain(), nil
}

// FindByDepartmentAndID finds a need owned by department
func (r *GormNeedRepository) FindByDepartmentAndID(ctx context.Context, department string, id int64) (*plan.NeedEntry, error) {
	var model models.NeedEntryModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND department = ?", id, department).
		First(&model).Error
	if err != nil {
		return nil, translateError("find need", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists needs; FilterDepartment restricts to one department
func (r *GormNeedRepository) FindAll(ctx context.Context, filter shared.Filter) ([]plan.NeedEntry, error) {
	query := applyDepartmentFilter(r.db.WithContext(ctx).Model(&models.NeedEntryModel{}), filter)
	if filter.Search != "" && r.foldInDB {
		query = query.Where("item_name ILIKE ?", "%"+escapeLike(filter.Search)+"%")
	}

	var rows []models.NeedEntryModel
	if err := query.Order(orderClause(filter, NeedEntrySortFields)).Find(&rows).Error; err != nil {
		return nil, translateError("list needs", err)
	}

	needs := make([]plan.NeedEntry, 0, len(rows))
	for i := range rows {
		if !r.foldInDB && !containsFold(rows[i].ItemName, filter.Search) {
			continue
		}
		needs = append(needs, *rows[i].ToDomain())
	}
	return needs, nil
}

// NextID returns max(id)+1 across all departments
func (r *GormNeedRepository) NextID(ctx context.Context) (int64, error) {
	return nextID(ctx, r.db, models.NeedEntryModel{}.TableName(), "next need id")
}

// Save creates or updates a need
func (r *GormNeedRepository) Save(ctx context.Context, n *plan.NeedEntry) error {
	if err := r.db.WithContext(ctx).Save(models.NeedEntryModelFromDomain(n)).Error; err != nil {
		return translateError("save need", err)
	}
	return nil
}

// Delete deletes a need
func (r *GormNeedRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.NeedEntryModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError("delete need", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormNeedRepository implements NeedRepository
var _ plan.NeedRepository = (*GormNeedRepository)(nil)
