// Package catalog declares the schema of every resource the portal manages.
package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/school-portal/internal/models"
)

// Resource names double as REST path segments and snapshot keys.
const (
	Students     = "students"
	Teachers     = "teachers"
	Classes      = "classes"
	Attendance   = "attendance"
	Assignments  = "assignments"
	Events       = "events"
	Applications = "applications"
)

// Names lists every resource in dashboard order.
var Names = []string{Students, Teachers, Classes, Attendance, Assignments, Events, Applications}

// Clock supplies "today" for date based statistics.
type Clock func() time.Time

func (c Clock) today() models.Date {
	if c == nil {
		return models.DateOf(time.Now())
	}
	return models.DateOf(c())
}

// compositeKey joins parts with "|" and yields "" when any part is missing, so partial
// records never collide on a semantic key.
func compositeKey(parts ...string) string {
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return ""
		}
	}
	return strings.ToLower(strings.Join(parts, "|"))
}

func defaultStatus(status, fallback string) string {
	if strings.TrimSpace(status) == "" {
		return fallback
	}
	return status
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
