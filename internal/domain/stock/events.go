package stock

import (
	"github.com/labstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeStockItem is the aggregate type name for stock items
const AggregateTypeStockItem = "StockItem"

// Event type constants
const (
	EventTypeStockReceived = "StockReceived"
	EventTypeStockIssued   = "StockIssued"
	EventTypeStockAdjusted = "StockAdjusted"
	EventTypeStockRemoved  = "StockRemoved"
)

// StockReceivedEvent is raised when a new position enters the store
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	Category string          `json:"category"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

// NewStockReceivedEvent creates a StockReceivedEvent
func NewStockReceivedEvent(item *StockItem) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, AggregateTypeStockItem, item.ID, ""),
		Category:        item.Category,
		Name:            item.Name,
		Quantity:        item.Quantity,
		Unit:            item.Unit,
	}
}

// StockIssuedEvent is raised when stock leaves the store against a plan
type StockIssuedEvent struct {
	shared.BaseDomainEvent
	Quantity  decimal.Decimal `json:"quantity"`
	Remaining decimal.Decimal `json:"remaining"`
	Reference string          `json:"reference"`
}

// NewStockIssuedEvent creates a StockIssuedEvent
func NewStockIssuedEvent(item *StockItem, qty decimal.Decimal, reference string) *StockIssuedEvent {
	return &StockIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIssued, AggregateTypeStockItem, item.ID, ""),
		Quantity:        qty,
		Remaining:       item.Quantity,
		Reference:       reference,
	}
}

// StockAdjustedEvent is raised when store staff correct a position
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	OldQuantity decimal.Decimal `json:"old_quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
}

// NewStockAdjustedEvent creates a StockAdjustedEvent
func NewStockAdjustedEvent(item *StockItem, oldQty decimal.Decimal) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeStockItem, item.ID, ""),
		OldQuantity:     oldQty,
		NewQuantity:     item.Quantity,
	}
}

// StockRemovedEvent is raised when a position is deleted from the ledger
type StockRemovedEvent struct {
	shared.BaseDomainEvent
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
}

// NewStockRemovedEvent creates a StockRemovedEvent
func NewStockRemovedEvent(item *StockItem, by string) *StockRemovedEvent {
	return &StockRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockRemoved, AggregateTypeStockItem, item.ID, by),
		Name:            item.Name,
		Quantity:        item.Quantity,
	}
}
