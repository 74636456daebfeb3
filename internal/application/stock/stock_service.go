package stock

import (
	"context"
	"strings"
	"time"

	"github.com/labstock/backend/internal/application/allocation"
	"github.com/labstock/backend/internal/domain/identity"
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/domain/stock"
	"go.uber.org/zap"
)

// ExclusiveWriter serializes writes with issuance.
// allocation.Coordinator implements it.
type ExclusiveWriter interface {
	Exclusive(ctx context.Context, fn func(repos allocation.TransactionalRepositories) ([]shared.DomainEvent, error)) error
}

// StockService handles the stock ledger: receiving, correcting and searching positions
type StockService struct {
	writer    ExclusiveWriter
	repo      stock.StockItemRepository
	threshold time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewStockService creates a new StockService. A non-positive threshold
// falls back to stock.DefaultExpirySoonThreshold.
func NewStockService(writer ExclusiveWriter, repo stock.StockItemRepository, threshold time.Duration, logger *zap.Logger) *StockService {
	if threshold <= 0 {
		threshold = stock.DefaultExpirySoonThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{
		writer:    writer,
		repo:      repo,
		threshold: threshold,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *StockService) toResponse(item *stock.StockItem) StockItemResponse {
	return ToStockItemResponse(item, s.now(), s.threshold)
}

// Receive records a new position in the store
func (s *StockService) Receive(ctx context.Context, actor identity.Principal, req StockItemRequest) (*StockItemResponse, error) {
	if !actor.CanManageStock() {
		return nil, shared.NewDomainError(shared.CodeForbidden, "Only storage staff or administrators can receive stock")
	}
	attrs, err := req.attributes()
	if err != nil {
		return nil, err
	}

	var item *stock.StockItem
	err = s.writer.Exclusive(ctx, func(repos allocation.TransactionalRepositories) ([]shared.DomainEvent, error) {
		id, err := repos.StockRepo().NextID(ctx)
		if err != nil {
			return nil, err
		}
		item, err = stock.NewStockItem(id, req.Category, req.Name, req.Quantity, req.Unit, attrs)
		if err != nil {
			return nil, err
		}
		if err := repos.StockRepo().Save(ctx, item); err != nil {
			return nil, err
		}
		return drainEvents(item), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock received",
		zap.Int64("stock_item_id", item.ID),
		zap.String("name", item.Name),
		zap.String("quantity", item.Quantity.String()),
		zap.String("by", actor.Username))
	resp := s.toResponse(item)
	return &resp, nil
}

// Update corrects a position's attributes and on-hand quantity
func (s *StockService) Update(ctx context.Context, actor identity.Principal, id int64, req StockItemRequest) (*StockItemResponse, error) {
	if !actor.CanManageStock() {
		return nil, shared.NewDomainError(shared.CodeForbidden, "Only storage staff or administrators can edit stock")
	}
	attrs, err := req.attributes()
	if err != nil {
		return nil, err
	}

	var item *stock.StockItem
	err = s.writer.Exclusive(ctx, func(repos allocation.TransactionalRepositories) ([]shared.DomainEvent, error) {
		var err error
		item, err = repos.StockRepo().FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := item.Update(req.Category, req.Name, req.Quantity, req.Unit, attrs); err != nil {
			return nil, err
		}
		if err := repos.StockRepo().Save(ctx, item); err != nil {
			return nil, err
		}
		return drainEvents(item), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock corrected",
		zap.Int64("stock_item_id", item.ID),
		zap.String("quantity", item.Quantity.String()),
		zap.String("by", actor.Username))
	resp := s.toResponse(item)
	return &resp, nil
}

// Delete removes a position. Issue records keep their own copy of the item name.
func (s *StockService) Delete(ctx context.Context, actor identity.Principal, id int64) error {
	if !actor.CanManageStock() {
		return shared.NewDomainError(shared.CodeForbidden, "Only storage staff or administrators can delete stock")
	}

	err := s.writer.Exclusive(ctx, func(repos allocation.TransactionalRepositories) ([]shared.DomainEvent, error) {
		item, err := repos.StockRepo().FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := repos.StockRepo().Delete(ctx, id); err != nil {
			return nil, err
		}
		return []shared.DomainEvent{stock.NewStockRemovedEvent(item, actor.Username)}, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Stock removed", zap.Int64("stock_item_id", id), zap.String("by", actor.Username))
	return nil
}

// Get returns one position with its expiry status
func (s *StockService) Get(ctx context.Context, id int64) (*StockItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(item)
	return &resp, nil
}

// Search lists positions by name substring, category and expiry status
func (s *StockService) Search(ctx context.Context, filter StockListFilter) ([]StockItemResponse, error) {
	f := shared.DefaultFilter()
	f.Search = strings.TrimSpace(filter.Search)
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	if filter.Category != "" {
		f = f.With(stock.FilterCategory, filter.Category)
	}

	items, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]StockItemResponse, 0, len(items))
	for i := range items {
		resp := ToStockItemResponse(&items[i], now, s.threshold)
		if filter.Expiry != "" && string(resp.ExpiryStatus) != filter.Expiry {
			continue
		}
		out = append(out, resp)
	}
	return out, nil
}

func drainEvents(agg shared.AggregateRoot) []shared.DomainEvent {
	events := agg.GetDomainEvents()
	agg.ClearDomainEvents()
	return events
}
