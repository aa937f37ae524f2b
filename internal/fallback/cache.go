// Package fallback persists the last known copy of every collection so the gateway can
// keep serving when the upstream backend is unreachable.
package fallback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

// Backend stores raw snapshot payloads by key. Load reports appErrors.ErrCacheMiss when
// nothing was stored under the key yet.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Store(ctx context.Context, key string, payload []byte) error
}

// CacheError describes a failed snapshot read or write. It is logged and counted but
// never returned to callers of Snapshot.
type CacheError struct {
	Key string
	Op  string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("fallback %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }

// FailureObserver counts snapshot failures.
type FailureObserver interface {
	ObserveCacheFailure(key, op string)
}

// Snapshot is the typed view of one collection stored as a JSON array.
type Snapshot[T any] struct {
	key      string
	backend  Backend
	logger   *zap.Logger
	observer FailureObserver
}

// NewSnapshot binds a collection key to a backend.
func NewSnapshot[T any](key string, backend Backend, logger *zap.Logger, observer FailureObserver) *Snapshot[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Snapshot[T]{key: key, backend: backend, logger: logger, observer: observer}
}

// Key returns the collection key.
func (s *Snapshot[T]) Key() string { return s.key }

// Read returns the stored collection, or an empty slice when nothing usable is stored.
func (s *Snapshot[T]) Read(ctx context.Context) []T {
	raw, err := s.backend.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.report(&CacheError{Key: s.key, Op: "read", Err: err})
		}
		return []T{}
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		s.report(&CacheError{Key: s.key, Op: "read", Err: fmt.Errorf("decode snapshot: %w", err)})
		return []T{}
	}
	if records == nil {
		records = []T{}
	}
	return records
}

// Write replaces the stored collection. On failure the previous snapshot stays in place.
func (s *Snapshot[T]) Write(ctx context.Context, records []T) {
	if records == nil {
		records = []T{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		s.report(&CacheError{Key: s.key, Op: "write", Err: fmt.Errorf("encode snapshot: %w", err)})
		return
	}
	if err := s.backend.Store(ctx, s.key, payload); err != nil {
		s.report(&CacheError{Key: s.key, Op: "write", Err: err})
	}
}

func (s *Snapshot[T]) report(err *CacheError) {
	s.logger.Warn("fallback snapshot unavailable", zap.String("key", err.Key), zap.String("op", err.Op), zap.Error(err.Err))
	if s.observer != nil {
		s.observer.ObserveCacheFailure(err.Key, err.Op)
	}
}
