package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

const selectStock = `SELECT * FROM "stock_items" WHERE name = 'Гидроксид натрия' ORDER BY id`

func sqlOf(s string, rows int64) func() (string, int64) {
	return func() (string, int64) { return s, rows }
}

func TestNewGormLogger_Options(t *testing.T) {
	gormLog := NewGormLogger(zap.NewNop(), gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
		WithFullSQL(true),
	)

	assert.Equal(t, gormlogger.Info, gormLog.logLevel)
	assert.Equal(t, 500*time.Millisecond, gormLog.slowThreshold)
	assert.False(t, gormLog.ignoreRecordNotFoundError)
	assert.True(t, gormLog.fullSQL)

	var _ gormlogger.Interface = gormLog
}

func TestGormLogger_LogMode(t *testing.T) {
	gormLog := NewGormLogger(zap.NewNop(), gormlogger.Info)
	newLogger := gormLog.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gormLog.logLevel)
	newGormLog, ok := newLogger.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, newGormLog.logLevel)
}

func TestGormLogger_Messages(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gormLog := NewGormLogger(zap.New(core), gormlogger.Warn)

	gormLog.Info(context.Background(), "info %d", 1)
	gormLog.Warn(context.Background(), "warn %d", 2)
	gormLog.Error(context.Background(), "error %d", 3)

	logs := recorded.All()
	require.Len(t, logs, 2, "info is below the warn level")
	assert.Equal(t, "warn 2", logs[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, logs[1].Level)
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("error", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gormLog := NewGormLogger(zap.New(core), gormlogger.Error)

		gormLog.Trace(context.Background(), time.Now(), sqlOf(selectStock, 0), errors.New("connection reset"))

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, "SQL Error", logs[0].Message)
	})

	t.Run("record not found is ignored", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gormLog := NewGormLogger(zap.New(core), gormlogger.Error)

		gormLog.Trace(context.Background(), time.Now(), sqlOf(selectStock, 0), gormlogger.ErrRecordNotFound)
		assert.Empty(t, recorded.All())
	})

	t.Run("slow query", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gormLog := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(time.Nanosecond))

		gormLog.Trace(context.Background(), time.Now().Add(-time.Second), sqlOf(selectStock, 10), nil)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "SLOW SQL")
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gormLog := NewGormLogger(zap.New(core), gormlogger.Silent)

		gormLog.Trace(context.Background(), time.Now(), sqlOf(selectStock, 5), nil)
		assert.Empty(t, recorded.All())
	})

	t.Run("carries request and user", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gormLog := NewGormLogger(zap.New(core), gormlogger.Info)

		ctx := context.WithValue(context.Background(), RequestIDKey, "req-7")
		ctx = context.WithValue(ctx, UsernameKey, "sklad")
		gormLog.Trace(ctx, time.Now(), sqlOf(selectStock, 1), nil)

		logs := recorded.All()
		require.Len(t, logs, 1)
		fields := logs[0].ContextMap()
		assert.Equal(t, "req-7", fields["request_id"])
		assert.Equal(t, "sklad", fields["username"])
	})
}

func TestGormLogger_SQLRedaction(t *testing.T) {
	t.Run("values hidden by default", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gormLog := NewGormLogger(zap.New(core), gormlogger.Info)

		gormLog.Trace(context.Background(), time.Now(), sqlOf(selectStock, 1), nil)

		sql := recorded.All()[0].ContextMap()["sql"]
		assert.Equal(t, `SELECT * FROM "stock_items" ...`, sql)
	})

	t.Run("full sql when enabled", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gormLog := NewGormLogger(zap.New(core), gormlogger.Info, WithFullSQL(true))

		gormLog.Trace(context.Background(), time.Now(), sqlOf(selectStock, 1), nil)

		assert.Equal(t, selectStock, recorded.All()[0].ContextMap()["sql"])
	})
}

func TestStatementHead(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`INSERT INTO "issue_records" ("name") VALUES ('NaOH')`, `INSERT INTO "issue_records" ("name") ...`},
		{`UPDATE "stock_items" SET "quantity"=5 WHERE "id" = 1`, `UPDATE "stock_items" ...`},
		{`SELECT count(*) FROM "users"`, `SELECT count(*) FROM "users"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statementHead(tt.in))
	}
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.level))
		})
	}
}
