package catalog

import (
	"sort"
	"strings"

	"github.com/noah-isme/school-portal/internal/dto"
	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/resource"
)

// EventSchema describes the school calendar.
func EventSchema(clock Clock) resource.Schema[models.Event] {
	return resource.Schema[models.Event]{
		Name:  Events,
		Label: "Event",
		Search: func(e models.Event) []string {
			return []string{e.Title, e.Description, e.Location, e.Organizer}
		},
		Filters: map[string]resource.Field[models.Event]{
			"status":   func(e models.Event) string { return e.Status },
			"category": func(e models.Event) string { return e.Category },
			"date":     func(e models.Event) string { return e.Date.String() },
		},
		Key: func(e models.Event) string { return compositeKey(e.Title, e.Date.String()) },
		Prepare: func(e models.Event) models.Event {
			e.Title = strings.TrimSpace(e.Title)
			e.Status = defaultStatus(e.Status, models.EventUpcoming)
			return e
		},
		Check: func(e models.Event) map[string]string {
			if e.Date.IsZero() {
				return map[string]string{"date": "is required"}
			}
			return nil
		},
		Columns: []resource.Column[models.Event]{
			{Header: "Date", Value: func(e models.Event) string { return e.Date.String() }},
			{Header: "Time", Value: func(e models.Event) string { return e.Time }},
			{Header: "Title", Value: func(e models.Event) string { return e.Title }},
			{Header: "Category", Value: func(e models.Event) string { return e.Category }},
			{Header: "Location", Value: func(e models.Event) string { return e.Location }},
			{Header: "Organizer", Value: func(e models.Event) string { return e.Organizer }},
			{Header: "Status", Value: func(e models.Event) string { return e.Status }},
		},
		Summarize: func(items []models.Event) interface{} { return SummarizeEvents(items, clock.today()) },
	}
}

// SummarizeEvents computes calendar statistics for the month containing today.
func SummarizeEvents(items []models.Event, today models.Date) dto.EventStats {
	stats := dto.EventStats{Total: len(items)}
	for _, e := range items {
		switch e.Status {
		case models.EventUpcoming:
			stats.Upcoming++
		case models.EventCompleted:
			stats.Completed++
		case models.EventCancelled:
			stats.Cancelled++
		}
		if !e.Date.IsZero() && e.Date.Year() == today.Year() && e.Date.Month() == today.Month() {
			stats.ThisMonth++
		}
	}
	return stats
}

// UpcomingEvents returns up to limit upcoming events dated today or later, soonest first.
func UpcomingEvents(items []models.Event, today models.Date, limit int) []dto.UpcomingEvent {
	upcoming := make([]models.Event, 0, len(items))
	for _, e := range items {
		if e.Status != models.EventUpcoming || e.Date.IsZero() || e.Date.Before(today) {
			continue
		}
		upcoming = append(upcoming, e)
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].Date.Before(upcoming[j].Date) })
	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	out := make([]dto.UpcomingEvent, 0, len(upcoming))
	for _, e := range upcoming {
		out = append(out, dto.UpcomingEvent{ID: e.ID, Title: e.Title, Date: e.Date.String(), Location: e.Location})
	}
	return out
}
