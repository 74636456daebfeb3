package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupQueueDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE overflow_requests (id INTEGER PRIMARY KEY, department TEXT, status TEXT)`,
		`CREATE TABLE store_requests (id INTEGER PRIMARY KEY, department TEXT, status TEXT)`,
		`CREATE TABLE stock_items (id INTEGER PRIMARY KEY, quantity NUMERIC)`,
		`INSERT INTO overflow_requests VALUES (1, 'Лаборатория воды', 'pending'), (2, 'Лаборатория воды', 'pending'),
			(3, 'Лаборатория воздуха', 'approved'), (4, 'Лаборатория воздуха', 'pending')`,
		`INSERT INTO store_requests VALUES (1, 'Лаборатория воды', 'done'), (2, 'Лаборатория почвы', 'pending')`,
		`INSERT INTO stock_items VALUES (1, 0), (2, 5.5), (3, 0)`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func TestGormQueueStatsProvider(t *testing.T) {
	p := NewGormQueueStatsProvider(setupQueueDB(t))
	ctx := context.Background()

	overflow, err := p.PendingOverflowByDepartment(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Лаборатория воды": 2, "Лаборатория воздуха": 1}, overflow)

	store, err := p.PendingStoreRequestsByDepartment(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Лаборатория почвы": 1}, store)

	depleted, err := p.DepletedStockItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), depleted)
}

func TestGormQueueStatsProvider_MissingTable(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	_, err = NewGormQueueStatsProvider(db).PendingOverflowByDepartment(context.Background())
	assert.Error(t, err)
}
