package stock

import (
	"time"

	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for stock dates
const DateLayout = "2006-01-02"

// StockItemRequest is the payload for receiving or correcting a stock position
type StockItemRequest struct {
	Category          string          `json:"category" binding:"required,category"`
	Name              string          `json:"name" binding:"required,max=300"`
	Quantity          decimal.Decimal `json:"quantity"`
	Unit              string          `json:"unit" binding:"required,unit"`
	StoragePlace      string          `json:"storage_place" binding:"max=200"`
	Packaging         string          `json:"packaging" binding:"max=100"`
	ExpiryDate        string          `json:"expiry_date" binding:"omitempty,datetime=2006-01-02"`
	DateReceived      string          `json:"date_received" binding:"omitempty,datetime=2006-01-02"`
	BatchNumber       string          `json:"batch_number" binding:"max=100"`
	Responsible       string          `json:"responsible" binding:"max=200"`
	Qualification     string          `json:"qualification" binding:"max=100"`
	ReagentType       string          `json:"reagent_type" binding:"max=100"`
	StateRegisterNo   string          `json:"state_register_no" binding:"max=100"`
	CertifiedValue    string          `json:"certified_value" binding:"max=200"`
	ManufactureDate   string          `json:"manufacture_date" binding:"omitempty,datetime=2006-01-02"`
	Manufacturer      string          `json:"manufacturer" binding:"max=200"`
	StorageConditions string          `json:"storage_conditions" binding:"max=300"`
}

func (r StockItemRequest) attributes() (stock.Attributes, error) {
	attrs := stock.Attributes{
		StoragePlace:      r.StoragePlace,
		Packaging:         r.Packaging,
		BatchNumber:       r.BatchNumber,
		Responsible:       r.Responsible,
		Qualification:     r.Qualification,
		ReagentType:       r.ReagentType,
		StateRegisterNo:   r.StateRegisterNo,
		CertifiedValue:    r.CertifiedValue,
		Manufacturer:      r.Manufacturer,
		StorageConditions: r.StorageConditions,
	}
	var err error
	if attrs.ExpiryDate, err = parseDate("expiry_date", r.ExpiryDate); err != nil {
		return attrs, err
	}
	if attrs.DateReceived, err = parseDate("date_received", r.DateReceived); err != nil {
		return attrs, err
	}
	if attrs.ManufactureDate, err = parseDate("manufacture_date", r.ManufactureDate); err != nil {
		return attrs, err
	}
	return attrs, nil
}

func parseDate(field, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, field+" must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// StockItemResponse represents a stock position in API responses
type StockItemResponse struct {
	ID                int64              `json:"id"`
	Category          string             `json:"category"`
	Name              string             `json:"name"`
	Quantity          decimal.Decimal    `json:"quantity"`
	Unit              string             `json:"unit"`
	StoragePlace      string             `json:"storage_place,omitempty"`
	Packaging         string             `json:"packaging,omitempty"`
	ExpiryDate        string             `json:"expiry_date,omitempty"`
	ExpiryStatus      stock.ExpiryStatus `json:"expiry_status"`
	DateReceived      string             `json:"date_received,omitempty"`
	BatchNumber       string             `json:"batch_number,omitempty"`
	Responsible       string             `json:"responsible,omitempty"`
	Qualification     string             `json:"qualification,omitempty"`
	ReagentType       string             `json:"reagent_type,omitempty"`
	StateRegisterNo   string             `json:"state_register_no,omitempty"`
	CertifiedValue    string             `json:"certified_value,omitempty"`
	ManufactureDate   string             `json:"manufacture_date,omitempty"`
	Manufacturer      string             `json:"manufacturer,omitempty"`
	StorageConditions string             `json:"storage_conditions,omitempty"`
	UpdatedAt         time.Time          `json:"updated_at"`
	Version           int                `json:"version"`
}

// ToStockItemResponse converts a stock item, classifying its expiry against now
func ToStockItemResponse(item *stock.StockItem, now time.Time, threshold time.Duration) StockItemResponse {
	return StockItemResponse{
		ID:                item.ID,
		Category:          item.Category,
		Name:              item.Name,
		Quantity:          item.Quantity,
		Unit:              item.Unit,
		StoragePlace:      item.StoragePlace,
		Packaging:         item.Packaging,
		ExpiryDate:        formatDate(item.ExpiryDate),
		ExpiryStatus:      item.ExpiryStatusAt(now, threshold),
		DateReceived:      formatDate(item.DateReceived),
		BatchNumber:       item.BatchNumber,
		Responsible:       item.Responsible,
		Qualification:     item.Qualification,
		ReagentType:       item.ReagentType,
		StateRegisterNo:   item.StateRegisterNo,
		CertifiedValue:    item.CertifiedValue,
		ManufactureDate:   formatDate(item.ManufactureDate),
		Manufacturer:      item.Manufacturer,
		StorageConditions: item.StorageConditions,
		UpdatedAt:         item.UpdatedAt,
		Version:           item.Version,
	}
}

// StockListFilter represents filter options for the stock search
type StockListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category" binding:"omitempty,category"`
	Expiry   string `form:"expiry" binding:"omitempty,oneof=ok expiring_soon expired unknown"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
