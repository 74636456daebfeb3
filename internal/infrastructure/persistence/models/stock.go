package models

import (
	"time"

	"github.com/labstock/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// StockItemModel is the persistence model for the StockItem aggregate root.
type StockItemModel struct {
	AggregateModel
	Category          string          `gorm:"type:varchar(100);not null;index:idx_stock_items_category_name,priority:1"`
	Name              string          `gorm:"type:varchar(300);not null;index:idx_stock_items_category_name,priority:2"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Unit              string          `gorm:"type:varchar(20);not null"`
	StoragePlace      string          `gorm:"type:varchar(200);not null;default:''"`
	Packaging         string          `gorm:"type:varchar(100);not null;default:''"`
	ExpiryDate        *time.Time      `gorm:"type:date"`
	DateReceived      *time.Time      `gorm:"type:date"`
	BatchNumber       string          `gorm:"type:varchar(100);not null;default:''"`
	Responsible       string          `gorm:"type:varchar(200);not null;default:''"`
	Qualification     string          `gorm:"type:varchar(100);not null;default:''"`
	ReagentType       string          `gorm:"type:varchar(100);not null;default:''"`
	StateRegisterNo   string          `gorm:"type:varchar(100);not null;default:''"`
	CertifiedValue    string          `gorm:"type:varchar(200);not null;default:''"`
	ManufactureDate   *time.Time      `gorm:"type:date"`
	Manufacturer      string          `gorm:"type:varchar(200);not null;default:''"`
	StorageConditions string          `gorm:"type:varchar(300);not null;default:''"`
}

// TableName returns the table name for GORM
func (StockItemModel) TableName() string {
	return "stock_items"
}

// ToDomain converts the persistence model to a domain StockItem.
func (m *StockItemModel) ToDomain() *stock.StockItem {
	return &stock.StockItem{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Category:          m.Category,
		Name:              m.Name,
		Quantity:          m.Quantity,
		Unit:              m.Unit,
		Attributes: stock.Attributes{
			StoragePlace:      m.StoragePlace,
			Packaging:         m.Packaging,
			ExpiryDate:        m.ExpiryDate,
			DateReceived:      m.DateReceived,
			BatchNumber:       m.BatchNumber,
			Responsible:       m.Responsible,
			Qualification:     m.Qualification,
			ReagentType:       m.ReagentType,
			StateRegisterNo:   m.StateRegisterNo,
			CertifiedValue:    m.CertifiedValue,
			ManufactureDate:   m.ManufactureDate,
			Manufacturer:      m.Manufacturer,
			StorageConditions: m.StorageConditions,
		},
	}
}

// FromDomain populates the persistence model from a domain StockItem.
func (m *StockItemModel) FromDomain(i *stock.StockItem) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.Category = i.Category
	m.Name = i.Name
	m.Quantity = i.Quantity
	m.Unit = i.Unit
	m.StoragePlace = i.StoragePlace
	m.Packaging = i.Packaging
	m.ExpiryDate = i.ExpiryDate
	m.DateReceived = i.DateReceived
	m.BatchNumber = i.BatchNumber
	m.Responsible = i.Responsible
	m.Qualification = i.Qualification
	m.ReagentType = i.ReagentType
	m.StateRegisterNo = i.StateRegisterNo
	m.CertifiedValue = i.CertifiedValue
	m.ManufactureDate = i.ManufactureDate
	m.Manufacturer = i.Manufacturer
	m.StorageConditions = i.StorageConditions
}

// StockItemModelFromDomain creates a new persistence model from a domain StockItem.
func StockItemModelFromDomain(i *stock.StockItem) *StockItemModel {
	m := &StockItemModel{}
	m.FromDomain(i)
	return m
}
