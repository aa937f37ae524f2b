package remote

import (
	"errors"
	"fmt"
)

// ErrMissingID is reported when the backend acknowledges a create without returning an id.
var ErrMissingID = errors.New("backend record has no id")

// RemoteSyncError wraps any failed backend call: transport errors, timeouts, non-2xx
// statuses and explicit failure envelopes. Status is 0 when no response was received.
type RemoteSyncError struct {
	Resource string
	Op       string
	Status   int
	Err      error
}

func (e *RemoteSyncError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("remote %s %s failed with status %d: %v", e.Resource, e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("remote %s %s failed: %v", e.Resource, e.Op, e.Err)
}

func (e *RemoteSyncError) Unwrap() error { return e.Err }

// StatusCode exposes the HTTP status to callers that only know about status codes.
func (e *RemoteSyncError) StatusCode() int { return e.Status }
