package resource

import "math"

// Percentage returns round(subset/total*100), clamped to 0..100. A zero total yields 0.
func Percentage(subset, total int) int {
	if total <= 0 || subset <= 0 {
		return 0
	}
	pct := int(math.Round(float64(subset) * 100 / float64(total)))
	if pct > 100 {
		return 100
	}
	return pct
}

// Count returns how many items satisfy pred.
func Count[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}

// CountBy groups items by a field. Items with an empty value are grouped under
// "unassigned".
func CountBy[T any](items []T, field Field[T]) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		key := field(item)
		if key == "" {
			key = "unassigned"
		}
		counts[key]++
	}
	return counts
}
