package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterWithoutConstraintsReturnsCollection(t *testing.T) {
	items := []widget{
		{ID: "1", Name: "Aarav", Status: "active"},
		{ID: "2", Name: "Diya", Status: "inactive"},
		{ID: "3", Name: "Kabir", Status: "active"},
	}
	before := append([]widget(nil), items...)

	got := Filter(items, widgetSchema(), Criteria{Search: "", Filters: map[string]string{"status": "all"}})

	assert.Equal(t, items, got)
	assert.Equal(t, before, items)
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	items := []widget{
		{Name: "Aarav", Status: "active"},
		{Name: "Diya", Status: "inactive"},
	}

	got := Filter(items, widgetSchema(), Criteria{Search: "di", Filters: map[string]string{"status": "all"}})

	assert.Equal(t, []widget{{Name: "Diya", Status: "inactive"}}, got)
}

func TestFilterSearchCoversListFields(t *testing.T) {
	items := []widget{
		{ID: "1", Name: "Meera", Tags: []string{"Physics", "Chemistry"}},
		{ID: "2", Name: "Rohan"},
	}

	got := Filter(items, widgetSchema(), Criteria{Search: "CHEM"})

	assert.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestFilterStructuredFieldsMatchExactly(t *testing.T) {
	items := []widget{
		{ID: "1", Status: "active", Group: "10-A"},
		{ID: "2", Status: "active"},
		{ID: "3", Status: "inactive", Group: "10-A"},
		{ID: "4", Status: "active", Group: "10-A"},
	}

	got := Filter(items, widgetSchema(), Criteria{Filters: map[string]string{"status": "active", "group": "10-A"}})

	ids := make([]string, 0, len(got))
	for _, w := range got {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []string{"1", "4"}, ids)
}

func TestFilterMissingFieldNeverMatches(t *testing.T) {
	items := []widget{{ID: "1", Status: "active"}}

	got := Filter(items, widgetSchema(), Criteria{Filters: map[string]string{"group": "10-A"}})

	assert.Empty(t, got)
}

func TestFilterIgnoresUnknownFilters(t *testing.T) {
	items := []widget{{ID: "1", Status: "active"}}

	got := Filter(items, widgetSchema(), Criteria{Filters: map[string]string{"colour": "blue"}})

	assert.Equal(t, items, got)
}

func TestCriteriaIsEmpty(t *testing.T) {
	assert.True(t, Criteria{}.IsEmpty())
	assert.True(t, Criteria{Filters: map[string]string{"status": "ALL", "group": ""}}.IsEmpty())
	assert.False(t, Criteria{Search: "x"}.IsEmpty())
	assert.False(t, Criteria{Filters: map[string]string{"status": "active"}}.IsEmpty())
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, Page(items, 1, 2))
	assert.Equal(t, []int{5}, Page(items, 3, 2))
	assert.Equal(t, []int{}, Page(items, 4, 2))
	assert.Equal(t, items, Page(items, 0, 0))
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		subset, total, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{2, 4, 50},
		{1, 3, 33},
		{2, 3, 67},
		{5, 5, 100},
		{7, 5, 100},
		{-1, 5, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Percentage(tc.subset, tc.total), "%d/%d", tc.subset, tc.total)
	}
}

func TestCountBy(t *testing.T) {
	items := []widget{{Group: "a"}, {Group: "b"}, {Group: "a"}, {}}

	got := CountBy(items, func(w widget) string { return w.Group })

	assert.Equal(t, map[string]int{"a": 2, "b": 1, "unassigned": 1}, got)
}
