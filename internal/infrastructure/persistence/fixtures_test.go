package persistence

import (
	"context"
	"testing"

	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func saveStockItem(t *testing.T, db *gorm.DB, category, name, amount string) *stock.StockItem {
	t.Helper()
	repo := NewGormStockItemRepository(db)
	id, err := repo.NextID(context.Background())
	require.NoError(t, err)
	item, err := stock.NewStockItem(id, category, name, qty(amount), "кг", stock.Attributes{})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), item))
	return item
}

func saveNeed(t *testing.T, db *gorm.DB, department, name, planQty string) *plan.NeedEntry {
	t.Helper()
	repo := NewGormNeedRepository(db)
	id, err := repo.NextID(context.Background())
	require.NoError(t, err)
	need, err := plan.NewNeedEntry(id, department, plan.NeedSpec{
		Category: stock.CategoryReagents,
		ItemName: name,
		PlanQty:  qty(planQty),
		Unit:     "кг",
	}, "voda")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), need))
	return need
}
