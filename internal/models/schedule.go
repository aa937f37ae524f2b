package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ScheduleKind discriminates the Schedule variants.
type ScheduleKind string

const (
	ScheduleText       ScheduleKind = "text"
	ScheduleStructured ScheduleKind = "structured"
)

// Period is one teaching slot inside a structured schedule.
type Period struct {
	Subject   string `json:"subject" validate:"required"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	TeacherID string `json:"teacherId,omitempty"`
}

// Schedule is either free text ("Mon-Fri 8:00-14:00") or periods keyed by day. On the
// wire the text variant is a JSON string and the structured variant a JSON object.
type Schedule struct {
	Kind ScheduleKind
	Text string
	Days map[string][]Period
}

// TextSchedule builds the free-text variant.
func TextSchedule(text string) Schedule {
	return Schedule{Kind: ScheduleText, Text: text}
}

// StructuredSchedule builds the per-day variant.
func StructuredSchedule(days map[string][]Period) Schedule {
	return Schedule{Kind: ScheduleStructured, Days: days}
}

// IsZero reports whether no schedule was provided.
func (s Schedule) IsZero() bool {
	return s.Kind == ""
}

var weekdayOrder = map[string]int{
	"monday": 1, "tuesday": 2, "wednesday": 3, "thursday": 4,
	"friday": 5, "saturday": 6, "sunday": 7,
}

// Summary renders the schedule as a single line for search and exports.
func (s Schedule) Summary() string {
	switch s.Kind {
	case ScheduleText:
		return s.Text
	case ScheduleStructured:
		days := make([]string, 0, len(s.Days))
		for day := range s.Days {
			days = append(days, day)
		}
		sort.Slice(days, func(i, j int) bool {
			a, b := weekdayOrder[strings.ToLower(days[i])], weekdayOrder[strings.ToLower(days[j])]
			if a != b {
				if a == 0 || b == 0 {
					return b == 0
				}
				return a < b
			}
			return days[i] < days[j]
		})
		parts := make([]string, 0, len(days))
		for _, day := range days {
			subjects := make([]string, 0, len(s.Days[day]))
			for _, p := range s.Days[day] {
				subjects = append(subjects, p.Subject)
			}
			parts = append(parts, fmt.Sprintf("%s: %s", day, strings.Join(subjects, ", ")))
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}

// MarshalJSON implements json.Marshaler.
func (s Schedule) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case ScheduleText:
		return json.Marshal(s.Text)
	case ScheduleStructured:
		days := s.Days
		if days == nil {
			days = map[string][]Period{}
		}
		return json.Marshal(days)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Schedule) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = Schedule{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*s = TextSchedule(text)
		return nil
	case '{':
		var days map[string][]Period
		if err := json.Unmarshal(trimmed, &days); err != nil {
			return fmt.Errorf("structured schedule: %w", err)
		}
		*s = StructuredSchedule(days)
		return nil
	default:
		return fmt.Errorf("schedule must be a string or an object")
	}
}
