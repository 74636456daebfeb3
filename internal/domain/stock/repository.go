package stock

import (
	"context"

	"github.com/labstock/backend/internal/domain/shared"
)

// Filter keys understood by StockItemRepository.FindAll
const (
	FilterCategory = "category"
)

// StockItemRepository defines persistence for stock items
type StockItemRepository interface {
	// FindByID finds a stock item by its ID
	FindByID(ctx context.Context, id int64) (*StockItem, error)

	// FindByCategoryAndName returns the lowest-id item with the exact
	// category and name, or shared.ErrNotFound
	FindByCategoryAndName(ctx context.Context, category, name string) (*StockItem, error)

	// FindAll lists items; Filter.Search matches names case-insensitively
	FindAll(ctx context.Context, filter shared.Filter) ([]StockItem, error)

	// NextID returns max(id)+1, or 1 for an empty store
	NextID(ctx context.Context) (int64, error)

	// Save creates or updates a stock item
	Save(ctx context.Context, item *StockItem) error

	// Delete deletes a stock item
	Delete(ctx context.Context, id int64) error
}
