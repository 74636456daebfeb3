package stock

import (
	"strings"
	"time"

	"github.com/labstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultExpirySoonThreshold is how far ahead an expiry date counts as "soon"
const DefaultExpirySoonThreshold = 30 * 24 * time.Hour

// ExpiryStatus classifies an item by its expiry date
type ExpiryStatus string

const (
	ExpiryUnknown      ExpiryStatus = "unknown"
	ExpiryOK           ExpiryStatus = "ok"
	ExpiryExpiringSoon ExpiryStatus = "expiring_soon"
	ExpiryExpired      ExpiryStatus = "expired"
)

// Attributes holds the descriptive lab attributes of a stock position.
// Optional fields are empty strings or nil dates when not applicable.
type Attributes struct {
	StoragePlace      string
	Packaging         string
	ExpiryDate        *time.Time
	DateReceived      *time.Time
	BatchNumber       string
	Responsible       string
	Qualification     string
	ReagentType       string
	StateRegisterNo   string
	CertifiedValue    string
	ManufactureDate   *time.Time
	Manufacturer      string
	StorageConditions string
}

// StockItem is one physical stock position.
// Quantity is only ever decremented by issuance and never goes negative.
type StockItem struct {
	shared.BaseAggregateRoot
	Category string
	Name     string
	Quantity decimal.Decimal
	Unit     string
	Attributes
}

// NewStockItem creates a stock item received into the store
func NewStockItem(id int64, category, name string, quantity decimal.Decimal, unit string, attrs Attributes) (*StockItem, error) {
	if id <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Stock item ID must be positive")
	}
	item := &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(id),
	}
	if err := item.apply(category, name, quantity, unit, attrs); err != nil {
		return nil, err
	}
	item.AddDomainEvent(NewStockReceivedEvent(item))
	return item, nil
}

// Update replaces the descriptive fields and the on-hand quantity.
// It is the store staff correction path, not an issuance.
func (i *StockItem) Update(category, name string, quantity decimal.Decimal, unit string, attrs Attributes) error {
	oldQty := i.Quantity
	if err := i.apply(category, name, quantity, unit, attrs); err != nil {
		return err
	}
	i.IncrementVersion()
	i.AddDomainEvent(NewStockAdjustedEvent(i, oldQty))
	return nil
}

func (i *StockItem) apply(category, name string, quantity decimal.Decimal, unit string, attrs Attributes) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Item name cannot be empty")
	}
	if !IsValidCategory(category) {
		return shared.NewDomainError(shared.CodeInvalidCategory, "Unknown category: "+category)
	}
	if !IsValidUnit(unit) {
		return shared.NewDomainError(shared.CodeInvalidUnit, "Unknown unit: "+unit)
	}
	if quantity.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Quantity cannot be negative")
	}
	if err := shared.CheckQuantityScale(quantity); err != nil {
		return err
	}
	if !IsValidReagentType(attrs.ReagentType) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Unknown reagent type: "+attrs.ReagentType)
	}
	if category != CategoryReagents {
		attrs.Qualification = ""
		attrs.ReagentType = ""
	}
	if category != CategoryReferenceMaterials {
		attrs.StateRegisterNo = ""
		attrs.CertifiedValue = ""
	}

	i.Category = category
	i.Name = name
	i.Quantity = quantity
	i.Unit = unit
	i.Attributes = attrs
	return nil
}

// CanIssue reports whether qty can be taken from this item
func (i *StockItem) CanIssue(qty decimal.Decimal) bool {
	return qty.IsPositive() && qty.LessThanOrEqual(i.Quantity)
}

// Decrease takes qty out of stock
func (i *StockItem) Decrease(qty decimal.Decimal, reference string) error {
	if err := shared.ValidatePositiveQuantity(qty); err != nil {
		return err
	}
	if qty.GreaterThan(i.Quantity) {
		return shared.ErrInsufficientStock
	}
	i.Quantity = i.Quantity.Sub(qty)
	i.IncrementVersion()
	i.AddDomainEvent(NewStockIssuedEvent(i, qty, reference))
	return nil
}

// ExpiryStatusAt classifies the item against now and the "soon" threshold
func (i *StockItem) ExpiryStatusAt(now time.Time, threshold time.Duration) ExpiryStatus {
	if i.ExpiryDate == nil {
		return ExpiryUnknown
	}
	today := truncateDay(now)
	expiry := truncateDay(*i.ExpiryDate)
	switch {
	case expiry.Before(today):
		return ExpiryExpired
	case !expiry.After(today.Add(threshold)):
		return ExpiryExpiringSoon
	default:
		return ExpiryOK
	}
}

// Matches reports whether the item name contains query, ignoring case
func (i *StockItem) Matches(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.Name), strings.ToLower(query))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
