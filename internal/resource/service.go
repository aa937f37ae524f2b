package resource

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type options struct {
	logger   *zap.Logger
	validate *validator.Validate
	now      func() time.Time
	strict   bool
	observer MutationObserver
}

// Option configures a Service.
type Option func(*options)

// WithLogger sets the logger used by the store and orchestrator.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithValidator shares one validator across services.
func WithValidator(v *validator.Validate) Option {
	return func(o *options) { o.validate = v }
}

// WithClock overrides the time source used for offline ids and load timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithStrictClientErrors stops masking 4xx rejections as offline successes.
func WithStrictClientErrors(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// WithObserver registers a mutation observer, typically the metrics service.
func WithObserver(observer MutationObserver) Option {
	return func(o *options) { o.observer = observer }
}

// Service bundles the schema, store and orchestrator of one resource.
type Service[T Entity[T]] struct {
	schema Schema[T]
	store  *Store[T]
	orch   *Orchestrator[T]
}

// NewService wires a resource service.
func NewService[T Entity[T]](schema Schema[T], remote Remote[T], cache Snapshot[T], opts ...Option) *Service[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.validate == nil {
		o.validate = NewValidator()
	}
	o.logger = o.logger.With(zap.String("resource", schema.Name))

	store := NewStore(schema, remote, cache, o.logger)
	store.now = o.now
	return &Service[T]{
		schema: schema,
		store:  store,
		orch:   newOrchestrator(schema, store, remote, o),
	}
}

// Name returns the resource name, e.g. "students".
func (s *Service[T]) Name() string { return s.schema.Name }

// Label returns the singular display label, e.g. "Student".
func (s *Service[T]) Label() string { return s.schema.Label }

// Schema exposes the resource schema.
func (s *Service[T]) Schema() Schema[T] { return s.schema }

// Load refreshes the collection from the backend.
func (s *Service[T]) Load(ctx context.Context) LoadResult { return s.store.Load(ctx) }

// Status reports the store state.
func (s *Service[T]) Status() Status { return s.store.Status() }

// All returns the full collection.
func (s *Service[T]) All() []T { return s.store.All() }

// Get looks a record up by id.
func (s *Service[T]) Get(id string) (T, bool) { return s.store.Get(id) }

// View returns the filtered view of the collection.
func (s *Service[T]) View(criteria Criteria) []T {
	return Filter(s.store.All(), s.schema, criteria)
}

// Summary aggregates statistics over the full collection, not the filtered view.
func (s *Service[T]) Summary() interface{} {
	if s.schema.Summarize == nil {
		return nil
	}
	return s.schema.Summarize(s.store.All())
}

// Create adds a record.
func (s *Service[T]) Create(ctx context.Context, record T) (Outcome[T], error) {
	return s.orch.Create(ctx, record)
}

// Update replaces a record.
func (s *Service[T]) Update(ctx context.Context, id string, record T) (Outcome[T], error) {
	return s.orch.Update(ctx, id, record)
}

// Delete removes a record.
func (s *Service[T]) Delete(ctx context.Context, id string) (Outcome[T], error) {
	return s.orch.Delete(ctx, id)
}
