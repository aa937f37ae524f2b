package resource

import "strings"

// AllValues is the sentinel a dashboard sends for "no constraint" on a structured filter.
const AllValues = "all"

// Criteria narrows a collection to a view.
type Criteria struct {
	Search  string
	Filters map[string]string
}

// IsEmpty reports whether the criteria constrain nothing.
func (c Criteria) IsEmpty() bool {
	if c.Search != "" {
		return false
	}
	for _, v := range c.Filters {
		if constrains(v) {
			return false
		}
	}
	return true
}

func constrains(value string) bool {
	return value != "" && !strings.EqualFold(value, AllValues)
}

// Filter returns the records matching every active structured filter and, when a
// search term is set, containing it case-insensitively in at least one searchable field.
// The input is never modified and matches keep their relative order.
func Filter[T any](items []T, schema Schema[T], criteria Criteria) []T {
	fields := make([]Field[T], 0, len(criteria.Filters))
	wants := make([]string, 0, len(criteria.Filters))
	for name, want := range criteria.Filters {
		if !constrains(want) {
			continue
		}
		field, ok := schema.Filters[name]
		if !ok {
			continue
		}
		fields = append(fields, field)
		wants = append(wants, want)
	}
	term := strings.ToLower(criteria.Search)

	out := make([]T, 0, len(items))
	for _, item := range items {
		if !matchesFilters(item, fields, wants) {
			continue
		}
		if term != "" && !matchesSearch(schema.Search, item, term) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// matchesFilters treats a missing field as a mismatch.
func matchesFilters[T any](item T, fields []Field[T], wants []string) bool {
	for i, field := range fields {
		got := field(item)
		if got == "" || got != wants[i] {
			return false
		}
	}
	return true
}

func matchesSearch[T any](search func(T) []string, item T, term string) bool {
	if search == nil {
		return false
	}
	for _, value := range search(item) {
		if value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(value), term) {
			return true
		}
	}
	return false
}

// Page slices a filtered view. Page numbers start at 1; a non-positive size returns
// everything.
func Page[T any](items []T, page, size int) []T {
	if size <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
