package resource

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ValidationError reports missing or malformed fields. It is raised before any network
// call is attempted.
type ValidationError struct {
	Resource string
	Fields   map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, e.Fields[name]))
	}
	return fmt.Sprintf("invalid %s: %s", e.Resource, strings.Join(parts, "; "))
}

// NotFoundError reports a mutation aimed at a record the collection does not hold.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// RejectedError is returned instead of a degraded outcome when strict mode is on and
// the backend refused the write outright.
type RejectedError struct {
	Resource string
	Op       Op
	Status   int
	Err      error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s %s rejected by backend (status %d): %v", e.Resource, e.Op, e.Status, e.Err)
}

func (e *RejectedError) Unwrap() error { return e.Err }

// statusCoder is satisfied by remote failures that carry an HTTP status.
type statusCoder interface {
	StatusCode() int
}

// StatusOf extracts the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return 0
}

// isClientRejection reports a definitive 4xx answer. Timeouts and rate limits are
// transient and still take the fallback path.
func isClientRejection(status int) bool {
	if status < 400 || status >= 500 {
		return false
	}
	return status != http.StatusRequestTimeout && status != http.StatusTooManyRequests
}
