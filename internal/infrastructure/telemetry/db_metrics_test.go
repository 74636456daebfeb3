package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstock/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestMeterProvider(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

// counterTotal sums every data point of an int64 counter
func counterTotal(rm metricdata.ResourceMetrics, name string) int64 {
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok && m.Name == name {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func hasMetric(rm metricdata.ResourceMetrics, name string) bool {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return true
			}
		}
	}
	return false
}

func TestDBMetricsFromAppConfig(t *testing.T) {
	cfg := &config.Config{
		Database:  config.DatabaseConfig{Driver: config.DriverSQLite},
		Telemetry: config.TelemetryConfig{Enabled: true, DBSlowQueryThresh: 50 * time.Millisecond},
	}

	got := DBMetricsFromAppConfig(cfg)
	assert.True(t, got.Enabled)
	assert.Equal(t, "sqlite", got.System)
	assert.Equal(t, 50*time.Millisecond, got.SlowQueryThreshold)
	assert.Equal(t, 15*time.Second, got.PoolStatsInterval)
}

func TestNewDBMetrics_AppliesDefaults(t *testing.T) {
	_, provider := newTestMeterProvider(t)

	m, err := NewDBMetrics(provider.Meter("db"), DBMetricsConfig{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 200*time.Millisecond, m.config.SlowQueryThreshold)
	assert.Equal(t, 15*time.Second, m.config.PoolStatsInterval)
	assert.Equal(t, "postgresql", m.config.System)
}

func TestDBMetrics_RecordQuery(t *testing.T) {
	reader, provider := newTestMeterProvider(t)
	m, err := NewDBMetrics(provider.Meter("db"), DBMetricsConfig{SlowQueryThreshold: 100 * time.Millisecond}, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordQuery(ctx, "select", "stock_items", 5*time.Millisecond, nil)
	m.RecordQuery(ctx, "UPDATE", "stock_items", 150*time.Millisecond, nil)
	m.RecordQuery(ctx, "SELECT", "need_entries", time.Millisecond, gorm.ErrRecordNotFound)
	m.RecordQuery(ctx, "", "", time.Millisecond, errors.New("connection reset"))

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(4), counterTotal(rm, "db_query_total"))
	assert.Equal(t, int64(1), counterTotal(rm, "db_query_errors_total"))
	assert.Equal(t, int64(1), counterTotal(rm, "db_slow_query_total"))
	assert.True(t, hasMetric(rm, "db_query_duration_seconds"))
}

func TestDBMetrics_PoolStats(t *testing.T) {
	reader, provider := newTestMeterProvider(t)
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	m, err := NewDBMetrics(provider.Meter("db"), DBMetricsConfig{PoolStatsInterval: time.Hour}, zap.NewNop())
	require.NoError(t, err)
	m.SetSQLDB(mockDB)

	m.StartPoolStatsCollection(context.Background())
	require.Eventually(t, func() bool {
		var rm metricdata.ResourceMetrics
		return reader.Collect(context.Background(), &rm) == nil && hasMetric(rm, "db_pool_connections_max")
	}, time.Second, 10*time.Millisecond)

	assert.NotPanics(t, func() {
		m.Stop()
		m.Stop()
	})
	assert.True(t, hasMetric(collectMetrics(t, reader), "db_pool_connections"))
}

func TestDBMetrics_PoolStatsWithoutDB(t *testing.T) {
	reader, provider := newTestMeterProvider(t)
	m, err := NewDBMetrics(provider.Meter("db"), DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)

	m.StartPoolStatsCollection(context.Background())
	m.Stop()

	assert.False(t, hasMetric(collectMetrics(t, reader), "db_pool_connections"))
}

func TestDBMetricsPlugin_CountsStatements(t *testing.T) {
	reader, provider := newTestMeterProvider(t)
	db := setupTestDB(t)

	m, err := NewDBMetrics(provider.Meter("db"), DBMetricsConfig{System: "sqlite"}, zap.NewNop())
	require.NoError(t, err)
	plugin := NewDBMetricsPlugin(m, nil)
	assert.Equal(t, "db_metrics", plugin.Name())
	require.NoError(t, db.Use(plugin))

	require.NoError(t, db.Create(&tracedItem{ID: 1, Name: "NaOH"}).Error)
	var got tracedItem
	require.NoError(t, db.First(&got, 1).Error)
	require.NoError(t, db.Model(&got).Update("name", "KOH").Error)
	require.NoError(t, db.Exec("DELETE FROM traced_items WHERE id = ?", 1).Error)

	assert.Equal(t, int64(4), counterTotal(collectMetrics(t, reader), "db_query_total"))
}

func TestDetectOperationType(t *testing.T) {
	tests := map[string]string{
		"SELECT * FROM stock_items":         "SELECT",
		"  insert into issue_records":       "INSERT",
		"UPDATE need_entries SET remaining": "UPDATE",
		"delete from store_requests":        "DELETE",
		"PRAGMA foreign_keys":               "OTHER",
		"":                                  "OTHER",
	}
	for sql, want := range tests {
		assert.Equal(t, want, detectOperationType(sql), sql)
	}
}

func TestRegisterDBMetrics_Disabled(t *testing.T) {
	db := setupTestDB(t)

	m, err := RegisterDBMetrics(db, nil, DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, m)

	disabled := &MeterProvider{logger: zap.NewNop()}
	m, err = RegisterDBMetrics(db, disabled, DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, m)
}
