package telemetry

import (
	"context"

	"github.com/labstock/backend/internal/domain/plan"
	"gorm.io/gorm"
)

// GormQueueStatsProvider implements QueueStatsProvider with aggregate
// queries over the request and stock tables.
type GormQueueStatsProvider struct {
	db *gorm.DB
}

// NewGormQueueStatsProvider creates a new GormQueueStatsProvider.
func NewGormQueueStatsProvider(db *gorm.DB) *GormQueueStatsProvider {
	return &GormQueueStatsProvider{db: db}
}

type departmentCount struct {
	Department string `gorm:"column:department"`
	Total      int64  `gorm:"column:total"`
}

func (p *GormQueueStatsProvider) pendingByDepartment(ctx context.Context, table, status string) (map[string]int64, error) {
	var rows []departmentCount
	err := p.db.WithContext(ctx).
		Table(table).
		Select("department, COUNT(*) AS total").
		Where("status = ?", status).
		Group("department").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Department] = r.Total
	}
	return counts, nil
}

// PendingOverflowByDepartment counts pending overflow requests per department
func (p *GormQueueStatsProvider) PendingOverflowByDepartment(ctx context.Context) (map[string]int64, error) {
	return p.pendingByDepartment(ctx, "overflow_requests", string(plan.OverflowPending))
}

// PendingStoreRequestsByDepartment counts pending store requests per department
func (p *GormQueueStatsProvider) PendingStoreRequestsByDepartment(ctx context.Context) (map[string]int64, error) {
	return p.pendingByDepartment(ctx, "store_requests", string(plan.StoreRequestPending))
}

// DepletedStockItems counts stock items whose quantity reached zero
func (p *GormQueueStatsProvider) DepletedStockItems(ctx context.Context) (int64, error) {
	var n int64
	err := p.db.WithContext(ctx).Table("stock_items").Where("quantity <= 0").Count(&n).Error
	return n, err
}

var _ QueueStatsProvider = (*GormQueueStatsProvider)(nil)
