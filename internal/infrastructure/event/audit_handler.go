package event

import (
	"context"

	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

type actorEvent interface {
	EventActor() string
}

// AuditLogHandler writes one structured log line per domain event. It is
// subscribed as a wildcard handler so every stock movement and request
// transition leaves a trace.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates an audit handler
func NewAuditLogHandler(log *zap.Logger) *AuditLogHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditLogHandler{logger: log.Named("audit")}
}

// Handle logs the event together with the request fields carried by ctx
func (h *AuditLogHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", evt.EventType()),
		zap.String("event_id", evt.EventID().String()),
		zap.String("aggregate_type", evt.AggregateType()),
		zap.Int64("aggregate_id", evt.AggregateID()),
		zap.Time("occurred_at", evt.OccurredAt()),
	}
	if a, ok := evt.(actorEvent); ok && a.EventActor() != "" {
		fields = append(fields, zap.String("actor", a.EventActor()))
	}
	if id := logger.GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	h.logger.Info("domain event", fields...)
	return nil
}

// EventTypes is empty: the handler receives every event
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)
