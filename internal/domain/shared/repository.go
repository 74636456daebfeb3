package shared

import "strings"

// Sort directions
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Filter represents query filter options shared by list operations
type Filter struct {
	Search   string
	OrderBy  string
	OrderDir string
	Filters  map[string]any
}

// DefaultFilter returns a filter ordered by id ascending
func DefaultFilter() Filter {
	return Filter{
		OrderBy:  "id",
		OrderDir: SortAsc,
		Filters:  make(map[string]any),
	}
}

// Descending reports whether results should be sorted newest first
func (f Filter) Descending() bool {
	return strings.EqualFold(f.OrderDir, SortDesc)
}

// With returns a copy of the filter with key set
func (f Filter) With(key string, value any) Filter {
	out := f
	out.Filters = make(map[string]any, len(f.Filters)+1)
	for k, v := range f.Filters {
		out.Filters[k] = v
	}
	out.Filters[key] = value
	return out
}

// String returns the string value for key, or "" when absent
func (f Filter) String(key string) string {
	if f.Filters == nil {
		return ""
	}
	if v, ok := f.Filters[key].(string); ok {
		return v
	}
	return ""
}
