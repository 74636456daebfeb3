package stock

import "slices"

// Category constants
const (
	CategoryReagents           = "Реактивы"
	CategoryReferenceMaterials = "ГСО-ПГС-СО"
	CategoryConsumables        = "Расходные материалы"
)

// Categories lists every stock category in display order
var Categories = []string{
	CategoryReagents,
	CategoryReferenceMaterials,
	CategoryConsumables,
}

// Units lists the accepted units of measure
var Units = []string{"шт", "мл", "л", "г", "кг", "упак", "набор"}

// ReagentTypes lists the accepted reagent types for the reagents category
var ReagentTypes = []string{
	"кислота", "основание", "соль", "индикатор", "растворитель",
	"буфер", "катализатор", "прочее",
}

// ReagentQualifications lists the accepted purity grades for reagents
var ReagentQualifications = []string{
	"х.ч.", "ч.", "ч.д.а.", "ос.ч.", "аналитической чистоты", "биотест",
}

// IsValidCategory reports whether category is a known stock category
func IsValidCategory(category string) bool {
	return slices.Contains(Categories, category)
}

// IsValidUnit reports whether unit is a known unit of measure
func IsValidUnit(unit string) bool {
	return slices.Contains(Units, unit)
}

// IsValidReagentType reports whether t is empty or a known reagent type
func IsValidReagentType(t string) bool {
	return t == "" || slices.Contains(ReagentTypes, t)
}
