package persistence

import (
	"strings"

	"github.com/labstock/backend/internal/domain/shared"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "ASC" as the default if the input is invalid or empty, so lists
// read in identifier order unless asked otherwise.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "DESC" {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// orderClause builds a safe ORDER BY clause from filter. Ties on the sort
// column are broken by id so paging is stable.
func orderClause(filter shared.Filter, allowedFields map[string]bool) string {
	field := ValidateSortField(filter.OrderBy, allowedFields, "id")
	dir := ValidateSortOrder(filter.OrderDir)
	if field == "id" {
		return "id " + dir
	}
	return field + " " + dir + ", id " + dir
}

// CommonSortFields contains fields present on every table
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"role":          true,
	"department":    true,
	"last_login_at": true,
}

// StockItemSortFields contains allowed sort fields for stock items
var StockItemSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"category":      true,
	"name":          true,
	"quantity":      true,
	"expiry_date":   true,
	"date_received": true,
	"storage_place": true,
}

// NeedEntrySortFields contains allowed sort fields for need entries
var NeedEntrySortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"department":    true,
	"category":      true,
	"item_name":     true,
	"plan_qty":      true,
	"remaining_qty": true,
}

// OverflowRequestSortFields contains allowed sort fields for overflow requests
var OverflowRequestSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"department":  true,
	"need_id":     true,
	"status":      true,
	"resolved_at": true,
}

// StoreRequestSortFields contains allowed sort fields for store requests
var StoreRequestSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"department":   true,
	"need_id":      true,
	"status":       true,
	"processed_at": true,
}

// IssueRecordSortFields contains allowed sort fields for issue records
var IssueRecordSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"department":    true,
	"need_id":       true,
	"stock_item_id": true,
	"item_name":     true,
	"issued_on":     true,
}
