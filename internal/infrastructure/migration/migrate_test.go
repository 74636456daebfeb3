package migration

import (
	"path/filepath"
	"testing"

	"github.com/labstock/backend/internal/infrastructure/config"
	"github.com/labstock/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sqliteConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "labstock.db"),
	}
}

func tableNames(t *testing.T, cfg config.DatabaseConfig) []string {
	t.Helper()
	db, err := Open(cfg)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestRun_SQLite(t *testing.T) {
	cfg := sqliteConfig(t)

	require.NoError(t, Run(cfg, migrations.FS, zap.NewNop()))

	assert.Subset(t, tableNames(t, cfg), []string{
		"issue_records",
		"need_entries",
		"overflow_requests",
		"plans",
		"stock_items",
		"store_requests",
		"users",
	})

	// A second run has nothing to apply
	require.NoError(t, Run(cfg, migrations.FS, zap.NewNop()))
}

func TestMigrator_VersionAndDown(t *testing.T) {
	cfg := sqliteConfig(t)
	db, err := Open(cfg)
	require.NoError(t, err)

	m, err := NewWithFS(db, cfg.Driver, migrations.FS, nil)
	require.NoError(t, err)
	defer m.Close()

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, m.Up())
	version, dirty, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	require.NoError(t, m.Down())
	assert.NotContains(t, tableNames(t, cfg), "stock_items")
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}
