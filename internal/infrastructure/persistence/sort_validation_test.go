package persistence

import (
	"testing"

	"github.com/labstock/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns ASC", "", "ASC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"DESC uppercase returns DESC", "DESC", "DESC"},
		{"desc lowercase returns DESC", "desc", "DESC"},
		{"invalid value returns ASC", "INVALID", "ASC"},
		{"sql injection attempt returns ASC", "DESC; DROP TABLE users;--", "ASC"},
		{"whitespace around desc returns DESC", "  desc  ", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		defaultField string
		expected     string
	}{
		{"empty string returns default", "", "id", "id"},
		{"valid field returns field", "item_name", "id", "item_name"},
		{"invalid field returns default", "password_hash", "id", "id"},
		{"sql injection attempt returns default", "id; DROP TABLE users;--", "id", "id"},
		{"case sensitive - uppercase invalid", "ITEM_NAME", "id", "id"},
		{"whitespace around valid field returns field", "  plan_qty  ", "id", "plan_qty"},
		{"empty default with invalid field", "invalid", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, NeedEntrySortFields, tt.defaultField))
		})
	}
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name     string
		filter   shared.Filter
		expected string
	}{
		{"default filter", shared.DefaultFilter(), "id ASC"},
		{"zero filter", shared.Filter{}, "id ASC"},
		{"newest first", shared.Filter{OrderBy: "id", OrderDir: "desc"}, "id DESC"},
		{"other column gets id tiebreak", shared.Filter{OrderBy: "issued_on", OrderDir: "desc"}, "issued_on DESC, id DESC"},
		{"unknown column falls back to id", shared.Filter{OrderBy: "quantity; --"}, "id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, orderClause(tt.filter, IssueRecordSortFields))
		})
	}
}

func TestSortFieldsWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"UserSortFields":            UserSortFields,
		"StockItemSortFields":       StockItemSortFields,
		"NeedEntrySortFields":       NeedEntrySortFields,
		"OverflowRequestSortFields": OverflowRequestSortFields,
		"StoreRequestSortFields":    StoreRequestSortFields,
		"IssueRecordSortFields":     IssueRecordSortFields,
	}

	for name, whitelist := range whitelists {
		t.Run(name, func(t *testing.T) {
			for field := range CommonSortFields {
				if field == "updated_at" && name == "IssueRecordSortFields" {
					continue
				}
				assert.True(t, whitelist[field], "%s should contain %s", name, field)
			}
			assert.False(t, whitelist["password_hash"])
		})
	}
}
