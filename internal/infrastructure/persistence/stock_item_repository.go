package persistence

import (
	"context"

	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/domain/stock"
	"github.com/labstock/backend/internal/infrastructure/config"
	"github.com/labstock/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStockItemRepository implements StockItemRepository using GORM
type GormStockItemRepository struct {
	db       *gorm.DB
	foldInDB bool
}

// NewGormStockItemRepository creates a new GormStockItemRepository.
// On SQLite name search is applied after loading, since its LOWER() only
// folds ASCII and item names are mostly Cyrillic.
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{
		db:       db,
		foldInDB: db.Dialector.Name() == config.DriverPostgres,
	}
}

// FindByID finds a stock item by its ID
func (r *GormStockItemRepository) FindByID(ctx context.Context, id int64) (*stock.StockItem, error) {
	var model models.StockItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("find stock item", err)
	}
	return model.ToDomain(), nil
}

// FindByCategoryAndName returns the lowest-id item with the exact category and name
func (r *GormStockItemRepository) FindByCategoryAndName(ctx context.Context, category, name string) (*stock.StockItem, error) {
	var model models.StockItemModel
	err := r.db.WithContext(ctx).
		Where("category = ? AND name = ?", category, name).
		Order("id ASC").
		First(&model).Error
	if err != nil {
		return nil, translateError("find stock item", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists items; Filter.Search matches names case-insensitively
func (r *GormStockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.StockItem, error) {
	query := r.db.WithContext(ctx).Model(&models.StockItemModel{})
	if c := filter.String(stock.FilterCategory); c != "" {
		query = query.Where("category = ?", c)
	}
	if filter.Search != "" && r.foldInDB {
		query = query.Where("name ILIKE ?", "%"+escapeLike(filter.Search)+"%")
	}

	var rows []models.StockItemModel
	if err := query.Order(orderClause(filter, StockItemSortFields)).Find(&rows).Error; err != nil {
		return nil, translateError("list stock items", err)
	}

	items := make([]stock.StockItem, 0, len(rows))
	for i := range rows {
		item := rows[i].ToDomain()
		if !r.foldInDB && !item.Matches(filter.Search) {
			continue
		}
		items = append(items, *item)
	}
	return items, nil
}

// NextID returns max(id)+1, or 1 for an empty store
func (r *GormStockItemRepository) NextID(ctx context.Context) (int64, error) {
	return nextID(ctx, r.db, models.StockItemModel{}.TableName(), "next stock item id")
}

// Save creates or updates a stock item
func (r *GormStockItemRepository) Save(ctx context.Context, item *stock.StockItem) error {
	model := models.StockItemModelFromDomain(item)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError("save stock item", err)
	}
	return nil
}

// Delete deletes a stock item
func (r *GormStockItemRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.StockItemModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError("delete stock item", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormStockItemRepository implements StockItemRepository
var _ stock.StockItemRepository = (*GormStockItemRepository)(nil)
