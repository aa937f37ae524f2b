package resource

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Remote is the backend a store synchronises with.
type Remote[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, id string, record T) (T, error)
	Remove(ctx context.Context, id string) error
}

// Snapshot is the local fallback copy of a collection. Implementations swallow their own
// failures: Read yields an empty slice and Write leaves the previous snapshot in place.
type Snapshot[T any] interface {
	Read(ctx context.Context) []T
	Write(ctx context.Context, records []T)
}

// Source records where the current collection came from.
type Source string

const (
	SourceNone   Source = ""
	SourceRemote Source = "remote"
	SourceCache  Source = "cache"
)

// LoadResult describes one load. Err is non-fatal: the collection was still populated
// from the fallback snapshot.
type LoadResult struct {
	Source Source
	Count  int
	Err    error
}

// Status is the observable state of a store.
type Status struct {
	Resource     string     `json:"resource"`
	Loading      bool       `json:"loading"`
	Source       Source     `json:"source"`
	Count        int        `json:"count"`
	PendingLocal int        `json:"pendingLocal"`
	LoadedAt     *time.Time `json:"loadedAt,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// Store holds the authoritative in-memory collection of one resource and mirrors every
// change into its fallback snapshot.
type Store[T Entity[T]] struct {
	schema Schema[T]
	remote Remote[T]
	cache  Snapshot[T]
	logger *zap.Logger
	now    func() time.Time

	loadMu sync.Mutex

	mu       sync.RWMutex
	items    []T
	local    map[string]struct{}
	loading  bool
	source   Source
	loadedAt time.Time
	lastErr  error
}

// NewStore constructs an empty store.
func NewStore[T Entity[T]](schema Schema[T], remote Remote[T], cache Snapshot[T], logger *zap.Logger) *Store[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store[T]{
		schema: schema,
		remote: remote,
		cache:  cache,
		logger: logger,
		now:    time.Now,
		items:  []T{},
		local:  make(map[string]struct{}),
	}
}

// Load fetches the collection from the backend and replaces the in-memory copy
// wholesale. When the backend is unreachable the fallback snapshot is used instead and
// the failure is reported in the result and in Status.
func (s *Store[T]) Load(ctx context.Context) LoadResult {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	items, err := s.remote.List(ctx)
	if err != nil {
		cached := dedupe(s.cache.Read(ctx))

		s.mu.Lock()
		defer s.mu.Unlock()
		// An unreadable snapshot must not wipe a collection we already hold.
		if len(cached) > 0 || len(s.items) == 0 {
			s.items = cached
		} else {
			s.cache.Write(ctx, clone(s.items))
		}
		s.loading = false
		s.source = SourceCache
		s.loadedAt = s.now()
		s.lastErr = err
		s.logger.Warn("load failed, serving fallback snapshot",
			zap.String("resource", s.schema.Name),
			zap.Int("count", len(s.items)),
			zap.Error(err))
		return LoadResult{Source: SourceCache, Count: len(s.items), Err: err}
	}

	items = dedupe(items)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.local = make(map[string]struct{})
	s.loading = false
	s.source = SourceRemote
	s.loadedAt = s.now()
	s.lastErr = nil
	s.cache.Write(ctx, clone(items))
	s.logger.Debug("collection loaded", zap.String("resource", s.schema.Name), zap.Int("count", len(items)))
	return LoadResult{Source: SourceRemote, Count: len(items)}
}

// All returns a copy of the collection in backend order.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.items)
}

// Get looks a record up by id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := indexByID(s.items, id); idx >= 0 {
		return s.items[idx], true
	}
	var zero T
	return zero, false
}

// Has reports whether id is taken.
func (s *Store[T]) Has(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Apply folds a mutation result into the collection and persists the snapshot.
// Creates and updates replace the record with the same id. A create that carries a
// backend id replaces a pending offline record with the same semantic key, otherwise it
// is appended. Updating or deleting an unknown id leaves the collection unchanged.
func (s *Store[T]) Apply(ctx context.Context, record T, op Op) {
	s.apply(ctx, record, op, false)
}

// ApplyLocal is Apply for records synthesised while the backend was unreachable.
func (s *Store[T]) ApplyLocal(ctx context.Context, record T, op Op) {
	s.apply(ctx, record, op, true)
}

func (s *Store[T]) apply(ctx context.Context, record T, op Op, local bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := record.GetID()
	switch op {
	case OpCreate, OpUpdate:
		idx := indexByID(s.items, id)
		if idx < 0 && op == OpCreate {
			idx = s.pendingByKey(record)
		}
		switch {
		case idx >= 0:
			if !local {
				delete(s.local, s.items[idx].GetID())
			}
			s.items[idx] = record
		case op == OpCreate:
			s.items = append(s.items, record)
		default:
			return
		}
		if local && op == OpCreate {
			s.local[id] = struct{}{}
		}
	case OpDelete:
		if idx := indexByID(s.items, id); idx >= 0 {
			s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
			delete(s.local, id)
		}
	}
	s.cache.Write(ctx, clone(s.items))
}

func (s *Store[T]) pendingByKey(record T) int {
	key := s.schema.key(record)
	if key == "" {
		return -1
	}
	for i, item := range s.items {
		if _, pending := s.local[item.GetID()]; !pending {
			continue
		}
		if s.schema.key(item) == key {
			return i
		}
	}
	return -1
}

// Status reports the loading state of the store.
func (s *Store[T]) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{
		Resource:     s.schema.Name,
		Loading:      s.loading,
		Source:       s.source,
		Count:        len(s.items),
		PendingLocal: len(s.local),
	}
	if !s.loadedAt.IsZero() {
		at := s.loadedAt
		st.LoadedAt = &at
	}
	if s.lastErr != nil {
		st.Error = s.lastErr.Error()
	}
	return st
}

func indexByID[T Entity[T]](items []T, id string) int {
	if id == "" {
		return -1
	}
	for i, item := range items {
		if item.GetID() == id {
			return i
		}
	}
	return -1
}

// dedupe keeps the first record per id. Distinct ids sharing a semantic key are
// separate records and all survive.
func dedupe[T Entity[T]](items []T) []T {
	out := make([]T, 0, len(items))
	ids := make(map[string]struct{}, len(items))
	for _, item := range items {
		if id := item.GetID(); id != "" {
			if _, seen := ids[id]; seen {
				continue
			}
			ids[id] = struct{}{}
		}
		out = append(out, item)
	}
	return out
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
