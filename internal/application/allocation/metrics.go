package allocation

import (
	"context"

	"github.com/labstock/backend/internal/domain/plan"
)

// Metrics receives allocation counters. The telemetry package provides the
// OpenTelemetry implementation.
type Metrics interface {
	RecordIssuance(ctx context.Context, department string, outcome plan.IssuanceOutcome)
	RecordOverflowResolution(ctx context.Context, department string, status plan.OverflowStatus)
	RecordStoreRequest(ctx context.Context, department string, status plan.StoreRequestStatus)
}

type noopMetrics struct{}

func (noopMetrics) RecordIssuance(context.Context, string, plan.IssuanceOutcome)          {}
func (noopMetrics) RecordOverflowResolution(context.Context, string, plan.OverflowStatus) {}
func (noopMetrics) RecordStoreRequest(context.Context, string, plan.StoreRequestStatus)   {}
