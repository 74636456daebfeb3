package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/labstock/backend/internal/domain/plan"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

const defaultCollectInterval = time.Minute

// QueueStatsProvider reports the current size of the approval queues.
type QueueStatsProvider interface {
	// PendingOverflowByDepartment counts overflow requests awaiting a decision
	PendingOverflowByDepartment(ctx context.Context) (map[string]int64, error)
	// PendingStoreRequestsByDepartment counts store requests awaiting processing
	PendingStoreRequestsByDepartment(ctx context.Context) (map[string]int64, error)
	// DepletedStockItems counts stock items with zero quantity
	DepletedStockItems(ctx context.Context) (int64, error)
}

// AllocationMetricsConfig holds configuration for allocation metrics.
type AllocationMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration
	StatsProvider   QueueStatsProvider
}

// AllocationMetrics counts issuance outcomes and request resolutions and
// periodically samples queue depth. It satisfies allocation.Metrics.
type AllocationMetrics struct {
	logger *zap.Logger

	issuanceTotal       *Counter
	overflowResolved    *Counter
	storeRequestsTotal  *Counter
	pendingOverflow     *Gauge
	pendingStoreRequest *Gauge
	depletedItems       *Gauge

	stats    QueueStatsProvider
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	runOnce  sync.Once
}

// NewAllocationMetrics creates the allocation instruments on cfg.Meter
func NewAllocationMetrics(cfg AllocationMetricsConfig) (*AllocationMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := cfg.CollectInterval
	if interval <= 0 {
		interval = defaultCollectInterval
	}

	m := &AllocationMetrics{
		logger:   logger,
		stats:    cfg.StatsProvider,
		interval: interval,
		stopChan: make(chan struct{}),
	}

	var err error
	if m.issuanceTotal, err = NewCounter(cfg.Meter,
		"lab_issuance_total", "Issuance attempts by outcome", "{attempts}"); err != nil {
		return nil, err
	}
	if m.overflowResolved, err = NewCounter(cfg.Meter,
		"lab_overflow_resolved_total", "Overflow requests approved or rejected", "{requests}"); err != nil {
		return nil, err
	}
	if m.storeRequestsTotal, err = NewCounter(cfg.Meter,
		"lab_store_request_total", "Store requests by resulting status", "{requests}"); err != nil {
		return nil, err
	}
	if m.pendingOverflow, err = NewGauge(cfg.Meter,
		"lab_overflow_pending", "Overflow requests awaiting a decision", "{requests}"); err != nil {
		return nil, err
	}
	if m.pendingStoreRequest, err = NewGauge(cfg.Meter,
		"lab_store_request_pending", "Store requests awaiting processing", "{requests}"); err != nil {
		return nil, err
	}
	if m.depletedItems, err = NewGauge(cfg.Meter,
		"lab_stock_depleted_items", "Stock items with zero quantity", "{items}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordIssuance counts one issuance attempt
func (m *AllocationMetrics) RecordIssuance(ctx context.Context, department string, outcome plan.IssuanceOutcome) {
	m.issuanceTotal.Inc(ctx, AttrDepartment.String(department), AttrOutcome.String(outcome.String()))
}

// RecordOverflowResolution counts an approved or rejected overflow request
func (m *AllocationMetrics) RecordOverflowResolution(ctx context.Context, department string, status plan.OverflowStatus) {
	m.overflowResolved.Inc(ctx, AttrDepartment.String(department), AttrStatus.String(string(status)))
}

// RecordStoreRequest counts a store request reaching status
func (m *AllocationMetrics) RecordStoreRequest(ctx context.Context, department string, status plan.StoreRequestStatus) {
	m.storeRequestsTotal.Inc(ctx, AttrDepartment.String(department), AttrStatus.String(string(status)))
}

// StartPeriodicCollection samples the queue gauges every interval until Stop
// is called or ctx is cancelled. It does nothing without a stats provider.
func (m *AllocationMetrics) StartPeriodicCollection(ctx context.Context) {
	if m.stats == nil {
		return
	}
	m.runOnce.Do(func() {
		go m.run(ctx)
	})
}

func (m *AllocationMetrics) run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.collect(ctx)
	for {
		select {
		case <-m.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collect(ctx)
		}
	}
}

func (m *AllocationMetrics) collect(ctx context.Context) {
	if pending, err := m.stats.PendingOverflowByDepartment(ctx); err != nil {
		m.logger.Warn("Failed to count pending overflow requests", zap.Error(err))
	} else {
		for dept, n := range pending {
			m.pendingOverflow.Record(ctx, n, AttrDepartment.String(dept))
		}
	}

	if pending, err := m.stats.PendingStoreRequestsByDepartment(ctx); err != nil {
		m.logger.Warn("Failed to count pending store requests", zap.Error(err))
	} else {
		for dept, n := range pending {
			m.pendingStoreRequest.Record(ctx, n, AttrDepartment.String(dept))
		}
	}

	if n, err := m.stats.DepletedStockItems(ctx); err != nil {
		m.logger.Warn("Failed to count depleted stock items", zap.Error(err))
	} else {
		m.depletedItems.Record(ctx, n)
	}
}

// Stop ends periodic collection
func (m *AllocationMetrics) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}
