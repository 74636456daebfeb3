package allocation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/labstock/backend/internal/domain/identity"
	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Coordinator decides and applies issuances against department plans.
// It is also the single writer for every allocation mutation: all writes
// run one at a time, each inside one database transaction.
type Coordinator struct {
	mu        sync.Mutex
	scope     TransactionScope
	publisher shared.EventPublisher
	metrics   Metrics
	logger    *zap.Logger
	now       func() time.Time

	attempts   int
	retryDelay time.Duration
}

// Default retry policy for writes that fail with a transient persistence error
const (
	DefaultWriteAttempts   = 3
	DefaultWriteRetryDelay = 50 * time.Millisecond
)

// NewCoordinator creates a new Coordinator
func NewCoordinator(scope TransactionScope, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		scope:   scope,
		metrics:    noopMetrics{},
		logger:     logger,
		now:        time.Now,
		attempts:   DefaultWriteAttempts,
		retryDelay: DefaultWriteRetryDelay,
	}
}

// SetRetryPolicy sets how often a write is attempted when it fails with a
// transient persistence error. The delay grows linearly per attempt.
func (c *Coordinator) SetRetryPolicy(attempts int, delay time.Duration) {
	if attempts < 1 {
		attempts = 1
	}
	c.attempts = attempts
	c.retryDelay = delay
}

// SetEventPublisher sets the publisher used after each committed write
func (c *Coordinator) SetEventPublisher(publisher shared.EventPublisher) {
	c.publisher = publisher
}

// SetMetrics sets the allocation metrics recorder
func (c *Coordinator) SetMetrics(m Metrics) {
	if m == nil {
		m = noopMetrics{}
	}
	c.metrics = m
}

// writeTx is the state of one serialized write
type writeTx struct {
	repos       TransactionalRepositories
	events      []shared.DomainEvent
	afterCommit []func(ctx context.Context)
}

func (tx *writeTx) collect(aggs ...shared.AggregateRoot) {
	for _, agg := range aggs {
		tx.events = append(tx.events, agg.GetDomainEvents()...)
		agg.ClearDomainEvents()
	}
}

func (tx *writeTx) onCommit(fn func(ctx context.Context)) {
	tx.afterCommit = append(tx.afterCommit, fn)
}

// execute runs fn under the writer lock inside one transaction. Events and
// commit hooks fire only after the transaction commits. A transient
// persistence failure rolls the whole write back and runs fn again.
func (c *Coordinator) execute(ctx context.Context, fn func(tx *writeTx) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		committed *writeTx
		err       error
	)
	for attempt := 1; ; attempt++ {
		committed = nil
		err = c.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			tx := &writeTx{repos: repos}
			if err := fn(tx); err != nil {
				return err
			}
			committed = tx
			return nil
		})
		if err == nil || attempt >= c.attempts || !shared.IsTransientPersistenceError(err) {
			break
		}
		c.logger.Warn("Retrying allocation write",
			zap.Int("attempt", attempt),
			zap.Error(err))
		if sleepCtx(ctx, c.retryDelay*time.Duration(attempt)) != nil {
			break
		}
	}
	if err != nil {
		return shared.NewPersistenceError("allocation transaction", err)
	}

	for _, hook := range committed.afterCommit {
		hook(ctx)
	}
	if c.publisher != nil && len(committed.events) > 0 {
		// Publish errors are logged by the event bus, not propagated
		_ = c.publisher.Publish(ctx, committed.events...)
	}
	return nil
}

// Exclusive runs fn as a serialized write and publishes the events it
// returns once the transaction has committed. Stock corrections go through
// here so they never interleave with an issuance.
func (c *Coordinator) Exclusive(ctx context.Context, fn func(repos TransactionalRepositories) ([]shared.DomainEvent, error)) error {
	return c.execute(ctx, func(tx *writeTx) error {
		events, err := fn(tx.repos)
		if err != nil {
			return err
		}
		tx.events = append(tx.events, events...)
		return nil
	})
}

// Issue performs a direct issuance by store staff
func (c *Coordinator) Issue(ctx context.Context, actor identity.Principal, req IssueRequest) (*IssuanceResult, error) {
	if !actor.CanIssue() {
		return nil, shared.NewDomainError(shared.CodeForbidden, "Only storage staff or administrators can issue stock")
	}
	if err := shared.ValidatePositiveQuantity(req.Quantity); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "allocation", "issue",
		telemetry.WithAttribute(telemetry.SpanAttrDepartment, req.Department),
		telemetry.WithAttribute(telemetry.SpanAttrNeedID, req.NeedID),
		telemetry.WithAttribute(telemetry.SpanAttrQuantity, req.Quantity),
		telemetry.WithAttribute(telemetry.SpanAttrActor, actor.Username),
	)
	defer span.End()

	var result *IssuanceResult
	err := c.execute(ctx, func(tx *writeTx) error {
		var err error
		result, err = c.processIssue(ctx, tx, req.Department, req.NeedID, req.Quantity, actor.Username, nil)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		c.logger.Error("Issuance failed",
			zap.String("department", req.Department),
			zap.Int64("need_id", req.NeedID),
			zap.Error(err))
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, result.Outcome)
	return result, nil
}

// processIssue runs the issuance decision inside tx. Each branch either
// mutates nothing or completes all of its writes.
func (c *Coordinator) processIssue(
	ctx context.Context,
	tx *writeTx,
	department string,
	needID int64,
	qty decimal.Decimal,
	by string,
	storeRequestID *int64,
) (*IssuanceResult, error) {
	if err := shared.ValidatePositiveQuantity(qty); err != nil {
		return nil, err
	}

	need, err := tx.repos.NeedRepo().FindByDepartmentAndID(ctx, department, needID)
	if errors.Is(err, shared.ErrNotFound) {
		return c.outcome(tx, department, needID, plan.OutcomePlanNotFound), nil
	}
	if err != nil {
		return nil, err
	}

	item, err := tx.repos.StockRepo().FindByCategoryAndName(ctx, need.Category, need.ItemName)
	if errors.Is(err, shared.ErrNotFound) {
		return c.outcome(tx, department, needID, plan.OutcomeItemNotFound), nil
	}
	if err != nil {
		return nil, err
	}

	// Stock is checked before the plan allocation
	if qty.GreaterThan(item.Quantity) {
		result := c.outcome(tx, department, needID, plan.OutcomeInsufficientStock)
		result.StockRemaining = &item.Quantity
		return result, nil
	}

	if !need.Covers(qty) {
		id, err := tx.repos.OverflowRepo().NextID(ctx)
		if err != nil {
			return nil, err
		}
		req, err := plan.NewOverflowRequest(id, need, qty, by)
		if err != nil {
			return nil, err
		}
		if err := tx.repos.OverflowRepo().Save(ctx, req); err != nil {
			return nil, err
		}
		tx.collect(req)

		result := c.outcome(tx, department, needID, plan.OutcomeOverflow)
		resp := ToOverflowRequestResponse(req)
		result.OverflowRequest = &resp
		result.NeedRemaining = &need.RemainingQty
		c.logger.Info("Overflow request raised",
			zap.Int64("request_id", req.ID),
			zap.String("department", department),
			zap.Int64("need_id", needID),
			zap.String("excess_qty", req.ExcessQty.String()))
		return result, nil
	}

	if err := item.Decrease(qty, fmt.Sprintf("need %d", need.ID)); err != nil {
		return nil, err
	}
	if err := need.Consume(qty); err != nil {
		return nil, err
	}
	if err := tx.repos.StockRepo().Save(ctx, item); err != nil {
		return nil, err
	}
	if err := tx.repos.NeedRepo().Save(ctx, need); err != nil {
		return nil, err
	}

	issueID, err := tx.repos.IssueRepo().NextID(ctx)
	if err != nil {
		return nil, err
	}
	rec := plan.NewIssueRecord(issueID, need, item, qty, by, c.now())
	rec.StoreRequestID = storeRequestID
	if err := tx.repos.IssueRepo().Create(ctx, rec); err != nil {
		return nil, err
	}
	tx.collect(item, need)
	tx.events = append(tx.events, plan.NewItemIssuedEvent(rec))

	result := c.outcome(tx, department, needID, plan.OutcomeIssued)
	issue := ToIssueRecordResponse(rec)
	result.Issue = &issue
	result.StockRemaining = &item.Quantity
	result.NeedRemaining = &need.RemainingQty
	c.logger.Info("Stock issued",
		zap.Int64("issue_id", rec.ID),
		zap.String("department", department),
		zap.Int64("need_id", needID),
		zap.Int64("stock_item_id", item.ID),
		zap.String("quantity", qty.String()),
		zap.String("issued_by", by))
	return result, nil
}

func (c *Coordinator) outcome(tx *writeTx, department string, needID int64, o plan.IssuanceOutcome) *IssuanceResult {
	tx.onCommit(func(ctx context.Context) {
		c.metrics.RecordIssuance(ctx, department, o)
	})
	if o != plan.OutcomeIssued && o != plan.OutcomeOverflow {
		c.logger.Warn("Issuance not performed",
			zap.String("department", department),
			zap.Int64("need_id", needID),
			zap.Stringer("outcome", o))
	}
	return &IssuanceResult{
		Outcome: o,
		Message: outcomeMessages[o],
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
