package resource

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Outcome is the result of one mutation. Degraded outcomes were applied locally only
// because the backend could not be reached; Cause carries the backend failure.
type Outcome[T any] struct {
	Op       Op
	Record   T
	Degraded bool
	Notice   string
	Cause    error
}

// MutationObserver is told about every finished mutation.
type MutationObserver interface {
	ObserveMutation(resource string, op string, degraded bool)
}

// Orchestrator runs mutations network-first. A failed backend call is masked by applying
// the change locally and flagging the outcome as degraded, so the dashboard keeps working
// while the backend is down.
type Orchestrator[T Entity[T]] struct {
	schema   Schema[T]
	store    *Store[T]
	remote   Remote[T]
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
	strict   bool
	observer MutationObserver

	mu sync.Mutex
}

func newOrchestrator[T Entity[T]](schema Schema[T], store *Store[T], remote Remote[T], opts options) *Orchestrator[T] {
	return &Orchestrator[T]{
		schema:   schema,
		store:    store,
		remote:   remote,
		validate: opts.validate,
		logger:   opts.logger,
		now:      opts.now,
		strict:   opts.strict,
		observer: opts.observer,
	}
}

// Create validates the record, sends it to the backend and applies the backend's copy.
// When the backend fails the record is kept locally under a timestamp id.
func (o *Orchestrator[T]) Create(ctx context.Context, record T) (Outcome[T], error) {
	record = o.schema.prepareCreate(record.WithID(""))
	if err := o.schema.Validate(o.validate, record); err != nil {
		return Outcome[T]{}, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	saved, err := o.remote.Create(ctx, record)
	if err == nil {
		o.store.Apply(ctx, saved, OpCreate)
		return o.finish(OpCreate, saved, nil), nil
	}
	if rejected := o.rejection(OpCreate, err); rejected != nil {
		return Outcome[T]{}, rejected
	}

	local := record.WithID(o.localID())
	o.store.ApplyLocal(ctx, local, OpCreate)
	return o.finish(OpCreate, local, err), nil
}

// Update replaces the record with the given id. An id the collection does not hold is
// reported as a NotFoundError without contacting the backend.
func (o *Orchestrator[T]) Update(ctx context.Context, id string, record T) (Outcome[T], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Outcome[T]{}, &ValidationError{Resource: o.schema.Name, Fields: map[string]string{"id": "is required"}}
	}
	record = o.schema.prepare(record.WithID(id))
	if err := o.schema.Validate(o.validate, record); err != nil {
		return Outcome[T]{}, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.store.Has(id) {
		return Outcome[T]{}, &NotFoundError{Resource: o.schema.Name, ID: id}
	}

	saved, err := o.remote.Update(ctx, id, record)
	if err == nil {
		if saved.GetID() == "" {
			saved = saved.WithID(id)
		}
		o.store.Apply(ctx, saved, OpUpdate)
		return o.finish(OpUpdate, saved, nil), nil
	}
	if rejected := o.rejection(OpUpdate, err); rejected != nil {
		return Outcome[T]{}, rejected
	}

	o.store.ApplyLocal(ctx, record, OpUpdate)
	return o.finish(OpUpdate, record, err), nil
}

// Delete removes the record with the given id. Deleting an id the collection does not
// hold succeeds without changing anything and without contacting the backend.
func (o *Orchestrator[T]) Delete(ctx context.Context, id string) (Outcome[T], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Outcome[T]{}, &ValidationError{Resource: o.schema.Name, Fields: map[string]string{"id": "is required"}}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	target, ok := o.store.Get(id)
	if !ok {
		var zero T
		return o.finish(OpDelete, zero.WithID(id), nil), nil
	}

	err := o.remote.Remove(ctx, id)
	if err != nil {
		if rejected := o.rejection(OpDelete, err); rejected != nil {
			return Outcome[T]{}, rejected
		}
		o.store.ApplyLocal(ctx, target, OpDelete)
		return o.finish(OpDelete, target, err), nil
	}
	o.store.Apply(ctx, target, OpDelete)
	return o.finish(OpDelete, target, nil), nil
}

// rejection returns a non-nil error when strict mode turns a client error into a hard
// failure instead of a degraded outcome.
func (o *Orchestrator[T]) rejection(op Op, err error) error {
	if !o.strict {
		return nil
	}
	status := StatusOf(err)
	if !isClientRejection(status) {
		return nil
	}
	o.logger.Info("backend rejected mutation",
		zap.String("resource", o.schema.Name),
		zap.String("op", string(op)),
		zap.Int("status", status))
	return &RejectedError{Resource: o.schema.Name, Op: op, Status: status, Err: err}
}

func (o *Orchestrator[T]) finish(op Op, record T, cause error) Outcome[T] {
	out := Outcome[T]{Op: op, Record: record, Cause: cause}
	out.Notice = fmt.Sprintf("%s %s successfully", o.schema.Label, op.pastTense())
	if cause != nil {
		out.Degraded = true
		out.Notice += " (offline/demo mode)"
		o.logger.Warn("backend unavailable, mutation applied locally",
			zap.String("resource", o.schema.Name),
			zap.String("op", string(op)),
			zap.String("id", record.GetID()),
			zap.Error(cause))
	}
	if o.observer != nil {
		o.observer.ObserveMutation(o.schema.Name, string(op), out.Degraded)
	}
	return out
}

// localID derives an id from the current time in milliseconds, stepping forward until
// it is unused.
func (o *Orchestrator[T]) localID() string {
	n := o.now().UnixMilli()
	for {
		id := strconv.FormatInt(n, 10)
		if !o.store.Has(id) {
			return id
		}
		n++
	}
}
