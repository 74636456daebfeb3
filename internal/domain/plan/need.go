package plan

import (
	"strings"
	"time"

	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// NeedStatusPlanned is the only status a need entry carries today
const NeedStatusPlanned = "planned"

// NeedSpec is the department-editable content of a need entry
type NeedSpec struct {
	Category        string
	ItemName        string
	PlanQty         decimal.Decimal
	Unit            string
	Qualification   string
	StateRegisterNo string
	CylinderVolume  string
	CertifiedValue  string
	Purpose         string
}

// NeedEntry is one department's planned requirement for a stock item.
// RemainingQty is not bounded by PlanQty: approved overflow raises it.
type NeedEntry struct {
	shared.BaseAggregateRoot
	Department   string
	NeedSpec
	RemainingQty decimal.Decimal
	Status       string
	ApprovedByQA bool
	CreatedBy    string
}

// NewNeedEntry creates a need entry with the full plan quantity remaining
func NewNeedEntry(id int64, department string, spec NeedSpec, createdBy string) (*NeedEntry, error) {
	if id <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Need ID must be positive")
	}
	if !IsNeedsDepartment(department) {
		return nil, shared.NewDomainError(shared.CodeInvalidDepartment, "Department does not hold needs: "+department)
	}
	spec, err := normalizeSpec(spec)
	if err != nil {
		return nil, err
	}

	n := &NeedEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(id),
		Department:        department,
		NeedSpec:          spec,
		RemainingQty:      spec.PlanQty,
		Status:            NeedStatusPlanned,
		ApprovedByQA:      false,
		CreatedBy:         createdBy,
	}
	n.AddDomainEvent(NewNeedCreatedEvent(n, createdBy))
	return n, nil
}

// IssuedQty is the amount already consumed against the plan. It is negative
// when approved overflow has pushed remaining above plan.
func (n *NeedEntry) IssuedQty() decimal.Decimal {
	return n.PlanQty.Sub(n.RemainingQty)
}

// Revise replaces the need content. The already-issued amount is preserved:
// remaining becomes max(0, new plan - issued).
func (n *NeedEntry) Revise(spec NeedSpec, by string) error {
	spec, err := normalizeSpec(spec)
	if err != nil {
		return err
	}
	issued := n.IssuedQty()
	remaining := spec.PlanQty.Sub(issued)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	oldPlan, oldRemaining := n.PlanQty, n.RemainingQty
	n.NeedSpec = spec
	n.RemainingQty = remaining
	n.IncrementVersion()
	n.AddDomainEvent(NewNeedRevisedEvent(n, oldPlan, oldRemaining, by))
	return nil
}

// Covers reports whether qty fits in the remaining allocation
func (n *NeedEntry) Covers(qty decimal.Decimal) bool {
	return qty.LessThanOrEqual(n.RemainingQty)
}

// ExcessOver returns how much qty exceeds the remaining allocation
func (n *NeedEntry) ExcessOver(qty decimal.Decimal) decimal.Decimal {
	excess := qty.Sub(n.RemainingQty)
	if excess.IsNegative() {
		return decimal.Zero
	}
	return excess
}

// Consume takes qty from the remaining allocation
func (n *NeedEntry) Consume(qty decimal.Decimal) error {
	if err := shared.ValidatePositiveQuantity(qty); err != nil {
		return err
	}
	if !n.Covers(qty) {
		return shared.NewDomainError(shared.CodeInvalidState, "Quantity exceeds remaining plan allocation")
	}
	n.RemainingQty = n.RemainingQty.Sub(qty)
	n.IncrementVersion()
	return nil
}

// Replenish adds approved excess to the remaining allocation
func (n *NeedEntry) Replenish(qty decimal.Decimal) error {
	if err := shared.ValidatePositiveQuantity(qty); err != nil {
		return err
	}
	n.RemainingQty = n.RemainingQty.Add(qty)
	n.IncrementVersion()
	return nil
}

// CreatedOn returns the creation date
func (n *NeedEntry) CreatedOn() time.Time {
	return truncateDay(n.CreatedAt)
}

func normalizeSpec(spec NeedSpec) (NeedSpec, error) {
	spec.ItemName = strings.TrimSpace(spec.ItemName)
	spec.Purpose = strings.TrimSpace(spec.Purpose)
	if spec.ItemName == "" {
		return spec, shared.NewDomainError(shared.CodeInvalidInput, "Item name cannot be empty")
	}
	if !stock.IsValidCategory(spec.Category) {
		return spec, shared.NewDomainError(shared.CodeInvalidCategory, "Unknown category: "+spec.Category)
	}
	if !stock.IsValidUnit(spec.Unit) {
		return spec, shared.NewDomainError(shared.CodeInvalidUnit, "Unknown unit: "+spec.Unit)
	}
	if !spec.PlanQty.IsPositive() {
		return spec, shared.NewDomainError(shared.CodeInvalidQuantity, "Plan quantity must be positive")
	}
	if err := shared.CheckQuantityScale(spec.PlanQty); err != nil {
		return spec, err
	}
	if spec.Category != stock.CategoryReagents {
		spec.Qualification = ""
	}
	if spec.Category != stock.CategoryReferenceMaterials {
		spec.StateRegisterNo = ""
		spec.CylinderVolume = ""
		spec.CertifiedValue = ""
	}
	return spec, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
