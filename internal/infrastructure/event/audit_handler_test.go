package event

import (
	"context"
	"testing"

	"github.com/labstock/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditLogHandler(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewAuditLogHandler(zap.New(core)))

	ctx := context.WithValue(context.Background(), logger.RequestIDKey, "req-42")
	require.NoError(t, bus.Publish(ctx, newTestEvent(typeItemIssued, 7)))

	entries := recorded.FilterMessage("domain event").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, typeItemIssued, fields["event_type"])
	assert.Equal(t, "IssueRecord", fields["aggregate_type"])
	assert.Equal(t, int64(7), fields["aggregate_id"])
	assert.Equal(t, "sklad", fields["actor"])
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "audit", entries[0].LoggerName)
}

func TestAuditLogHandler_IsWildcard(t *testing.T) {
	assert.Empty(t, NewAuditLogHandler(nil).EventTypes())
}
