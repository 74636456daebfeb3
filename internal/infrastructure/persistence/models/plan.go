package models

import (
	"fmt"
	"time"

	"github.com/labstock/backend/internal/domain/plan"
	"github.com/shopspring/decimal"
)

// PlanModel is the persistence model for the singleton annual plan.
type PlanModel struct {
	AggregateModel
	Year     int  `gorm:"not null"`
	Locked   bool `gorm:"not null;default:false"`
	LockedAt *time.Time
	LockedBy string `gorm:"type:varchar(100);not null;default:''"`
}

// TableName returns the table name for GORM
func (PlanModel) TableName() string {
	return "plans"
}

// ToDomain converts the persistence model to a domain Plan.
func (m *PlanModel) ToDomain() *plan.Plan {
	return &plan.Plan{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Year:              m.Year,
		Locked:            m.Locked,
		LockedAt:          m.LockedAt,
		LockedBy:          m.LockedBy,
	}
}

// PlanModelFromDomain creates a new persistence model from a domain Plan.
func PlanModelFromDomain(p *plan.Plan) *PlanModel {
	m := &PlanModel{
		Year:     p.Year,
		Locked:   p.Locked,
		LockedAt: p.LockedAt,
		LockedBy: p.LockedBy,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// NeedEntryModel is the persistence model for a department need entry.
type NeedEntryModel struct {
	AggregateModel
	Department      string          `gorm:"type:varchar(200);not null;index"`
	Category        string          `gorm:"type:varchar(100);not null"`
	ItemName        string          `gorm:"type:varchar(300);not null"`
	PlanQty         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RemainingQty    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit            string          `gorm:"type:varchar(20);not null"`
	Qualification   string          `gorm:"type:varchar(100);not null;default:''"`
	StateRegisterNo string          `gorm:"type:varchar(100);not null;default:''"`
	CylinderVolume  string          `gorm:"type:varchar(100);not null;default:''"`
	CertifiedValue  string          `gorm:"type:varchar(200);not null;default:''"`
	Purpose         string          `gorm:"type:varchar(500);not null;default:''"`
	Status          string          `gorm:"type:varchar(20);not null;default:'planned'"`
	ApprovedByQA    bool            `gorm:"column:approved_by_qa;not null;default:false"`
	CreatedBy       string          `gorm:"type:varchar(100);not null;default:''"`
}

// TableName returns the table name for GORM
func (NeedEntryModel) TableName() string {
	return "need_entries"
}

// ToDomain converts the persistence model to a domain NeedEntry.
func (m *NeedEntryModel) ToDomain() *plan.NeedEntry {
	return &plan.NeedEntry{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Department:        m.Department,
		NeedSpec: plan.NeedSpec{
			Category:        m.Category,
			ItemName:        m.ItemName,
			PlanQty:         m.PlanQty,
			Unit:            m.Unit,
			Qualification:   m.Qualification,
			StateRegisterNo: m.StateRegisterNo,
			CylinderVolume:  m.CylinderVolume,
			CertifiedValue:  m.CertifiedValue,
			Purpose:         m.Purpose,
		},
		RemainingQty: m.RemainingQty,
		Status:       m.Status,
		ApprovedByQA: m.ApprovedByQA,
		CreatedBy:    m.CreatedBy,
	}
}

// NeedEntryModelFromDomain creates a new persistence model from a domain NeedEntry.
func NeedEntryModelFromDomain(n *plan.NeedEntry) *NeedEntryModel {
	m := &NeedEntryModel{
		Department:      n.Department,
		Category:        n.Category,
		ItemName:        n.ItemName,
		PlanQty:         n.PlanQty,
		RemainingQty:    n.RemainingQty,
		Unit:            n.Unit,
		Qualification:   n.Qualification,
		StateRegisterNo: n.StateRegisterNo,
		CylinderVolume:  n.CylinderVolume,
		CertifiedValue:  n.CertifiedValue,
		Purpose:         n.Purpose,
		Status:          n.Status,
		ApprovedByQA:    n.ApprovedByQA,
		CreatedBy:       n.CreatedBy,
	}
	m.FromDomainAggregateRoot(n.BaseAggregateRoot)
	return m
}

// OverflowRequestModel is the persistence model for an overflow approval request.
type OverflowRequestModel struct {
	AggregateModel
	Department   string              `gorm:"type:varchar(200);not null"`
	NeedID       int64               `gorm:"not null;index:idx_overflow_requests_need_status,priority:1"`
	Category     string              `gorm:"type:varchar(100);not null"`
	ItemName     string              `gorm:"type:varchar(300);not null"`
	RequestedQty decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	ExcessQty    decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Unit         string              `gorm:"type:varchar(20);not null"`
	Status       plan.OverflowStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_overflow_requests_need_status,priority:2"`
	RequestedBy  string              `gorm:"type:varchar(100);not null"`
	ResolvedBy   string              `gorm:"type:varchar(100);not null;default:''"`
	ResolvedAt   *time.Time
}

// TableName returns the table name for GORM
func (OverflowRequestModel) TableName() string {
	return "overflow_requests"
}

// ToDomain converts the persistence model to a domain OverflowRequest.
func (m *OverflowRequestModel) ToDomain() *plan.OverflowRequest {
	return &plan.OverflowRequest{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Department:        m.Department,
		NeedID:            m.NeedID,
		Category:          m.Category,
		ItemName:          m.ItemName,
		RequestedQty:      m.RequestedQty,
		ExcessQty:         m.ExcessQty,
		Unit:              m.Unit,
		Status:            m.Status,
		RequestedBy:       m.RequestedBy,
		ResolvedBy:        m.ResolvedBy,
		ResolvedAt:        m.ResolvedAt,
	}
}

// OverflowRequestModelFromDomain creates a new persistence model from a domain OverflowRequest.
func OverflowRequestModelFromDomain(r *plan.OverflowRequest) *OverflowRequestModel {
	m := &OverflowRequestModel{
		Department:   r.Department,
		NeedID:       r.NeedID,
		Category:     r.Category,
		ItemName:     r.ItemName,
		RequestedQty: r.RequestedQty,
		ExcessQty:    r.ExcessQty,
		Unit:         r.Unit,
		Status:       r.Status,
		RequestedBy:  r.RequestedBy,
		ResolvedBy:   r.ResolvedBy,
		ResolvedAt:   r.ResolvedAt,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}

// StoreRequestModel is the persistence model for a store request.
// Outcome is stored by name and is NULL while the request is pending or
// after a rejection.
type StoreRequestModel struct {
	AggregateModel
	Department   string                  `gorm:"type:varchar(200);not null;index"`
	NeedID       int64                   `gorm:"not null;index:idx_store_requests_need_status,priority:1"`
	RequestedQty decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Unit         string                  `gorm:"type:varchar(20);not null"`
	Status       plan.StoreRequestStatus `gorm:"type:varchar(40);not null;default:'pending';index:idx_store_requests_need_status,priority:2"`
	RequestedBy  string                  `gorm:"type:varchar(100);not null"`
	ProcessedBy  string                  `gorm:"type:varchar(100);not null;default:''"`
	ProcessedAt  *time.Time
	Outcome      *string `gorm:"type:varchar(30)"`
	IssueID      *int64
	OverflowID   *int64
	RejectReason string `gorm:"type:varchar(500);not null;default:''"`
}

// TableName returns the table name for GORM
func (StoreRequestModel) TableName() string {
	return "store_requests"
}

// ToDomain converts the persistence model to a domain StoreRequest.
// It fails when the stored outcome name is not a known outcome.
func (m *StoreRequestModel) ToDomain() (*plan.StoreRequest, error) {
	r := &plan.StoreRequest{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Department:        m.Department,
		NeedID:            m.NeedID,
		RequestedQty:      m.RequestedQty,
		Unit:              m.Unit,
		Status:            m.Status,
		RequestedBy:       m.RequestedBy,
		ProcessedBy:       m.ProcessedBy,
		ProcessedAt:       m.ProcessedAt,
		IssueID:           m.IssueID,
		OverflowID:        m.OverflowID,
		RejectReason:      m.RejectReason,
	}
	if m.Outcome != nil {
		outcome, err := plan.ParseOutcome(*m.Outcome)
		if err != nil {
			return nil, fmt.Errorf("store request %d: %w", m.ID, err)
		}
		r.Outcome = &outcome
	}
	return r, nil
}

// StoreRequestModelFromDomain creates a new persistence model from a domain StoreRequest.
func StoreRequestModelFromDomain(r *plan.StoreRequest) *StoreRequestModel {
	m := &StoreRequestModel{
		Department:   r.Department,
		NeedID:       r.NeedID,
		RequestedQty: r.RequestedQty,
		Unit:         r.Unit,
		Status:       r.Status,
		RequestedBy:  r.RequestedBy,
		ProcessedBy:  r.ProcessedBy,
		ProcessedAt:  r.ProcessedAt,
		IssueID:      r.IssueID,
		OverflowID:   r.OverflowID,
		RejectReason: r.RejectReason,
	}
	if r.Outcome != nil {
		name := r.Outcome.String()
		m.Outcome = &name
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}

// IssueRecordModel is the persistence model for an issue ledger entry.
// Issue records are never updated, so there is no version column.
type IssueRecordModel struct {
	BaseModel
	Department     string          `gorm:"type:varchar(200);not null;index"`
	NeedID         int64           `gorm:"not null;index"`
	StockItemID    int64           `gorm:"not null"`
	ItemName       string          `gorm:"type:varchar(300);not null"`
	Category       string          `gorm:"type:varchar(100);not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit           string          `gorm:"type:varchar(20);not null"`
	IssuedOn       time.Time       `gorm:"type:date;not null"`
	IssuedBy       string          `gorm:"type:varchar(100);not null"`
	StoreRequestID *int64
}

// TableName returns the table name for GORM
func (IssueRecordModel) TableName() string {
	return "issue_records"
}

// ToDomain converts the persistence model to a domain IssueRecord.
func (m *IssueRecordModel) ToDomain() *plan.IssueRecord {
	return &plan.IssueRecord{
		BaseEntity:     m.BaseModel.ToDomain(),
		Department:     m.Department,
		NeedID:         m.NeedID,
		StockItemID:    m.StockItemID,
		ItemName:       m.ItemName,
		Category:       m.Category,
		Quantity:       m.Quantity,
		Unit:           m.Unit,
		IssuedOn:       m.IssuedOn,
		IssuedBy:       m.IssuedBy,
		StoreRequestID: m.StoreRequestID,
	}
}

// IssueRecordModelFromDomain creates a new persistence model from a domain IssueRecord.
func IssueRecordModelFromDomain(r *plan.IssueRecord) *IssueRecordModel {
	m := &IssueRecordModel{
		Department:     r.Department,
		NeedID:         r.NeedID,
		StockItemID:    r.StockItemID,
		ItemName:       r.ItemName,
		Category:       r.Category,
		Quantity:       r.Quantity,
		Unit:           r.Unit,
		IssuedOn:       r.IssuedOn,
		IssuedBy:       r.IssuedBy,
		StoreRequestID: r.StoreRequestID,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}
