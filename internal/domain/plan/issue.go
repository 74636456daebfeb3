package plan

import (
	"time"

	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// IssueRecord is an append-only entry for stock handed to a department
type IssueRecord struct {
	shared.BaseEntity
	Department     string
	NeedID         int64
	StockItemID    int64
	ItemName       string
	Category       string
	Quantity       decimal.Decimal
	Unit           string
	IssuedOn       time.Time
	IssuedBy       string
	StoreRequestID *int64
}

// NewIssueRecord records qty of item issued against need
func NewIssueRecord(id int64, need *NeedEntry, item *stock.StockItem, qty decimal.Decimal, issuedBy string, now time.Time) *IssueRecord {
	rec := &IssueRecord{
		BaseEntity:  shared.NewBaseEntity(id),
		Department:  need.Department,
		NeedID:      need.ID,
		StockItemID: item.ID,
		ItemName:    item.Name,
		Category:    item.Category,
		Quantity:    qty,
		Unit:        item.Unit,
		IssuedOn:    truncateDay(now),
		IssuedBy:    issuedBy,
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return rec
}
