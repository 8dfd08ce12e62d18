// Package mutation applies user-initiated changes to a collection and
// reconciles the collection with what the server confirmed.
package mutation

import (
	"context"
	"sync/atomic"

	"github.com/learnconnect/learnconnect.go/pkg/connection"
	"github.com/learnconnect/learnconnect.go/pkg/constants"
	"github.com/learnconnect/learnconnect.go/pkg/logger"
	"github.com/learnconnect/learnconnect.go/pkg/models"
	"github.com/learnconnect/learnconnect.go/pkg/state"
)

type Option func(*options)

type options struct {
	op     string
	logger logger.Logger
}

// WithOp names the mutations in fallback error messages.
func WithOp(op string) Option {
	return func(o *options) { o.op = op }
}

func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Coordinator runs at most one mutation at a time against a collection
// store. A failed mutation never touches the collection: it only records
// an error message, leaving the phase as it was.
type Coordinator[T models.Keyed] struct {
	store   *state.Store[[]T]
	opts    options
	pending atomic.Bool
}

func New[T models.Keyed](store *state.Store[[]T], opts ...Option) *Coordinator[T] {
	o := options{op: "Request"}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logger.OrNop(o.logger)
	return &Coordinator[T]{store: store, opts: o}
}

// Pending reports whether a mutation is in flight. Front ends use it to
// disable their controls.
func (c *Coordinator[T]) Pending() bool {
	return c.pending.Load()
}

// Create inserts the item returned by call at placement p. An item whose
// key is already present is replaced where it stands.
func (c *Coordinator[T]) Create(ctx context.Context, p state.Placement, call func(context.Context) (T, error)) error {
	return c.run(ctx, "create", func(ctx context.Context) (func([]T) []T, error) {
		item, err := c.keyed(call(ctx))
		if err != nil {
			return nil, err
		}
		return func(items []T) []T { return state.Insert(items, item, p) }, nil
	})
}

// Replace swaps the item with key id for the representation returned by
// call, e.g. a group after joining it.
func (c *Coordinator[T]) Replace(ctx context.Context, id int, call func(context.Context) (T, error)) error {
	return c.run(ctx, "replace", func(ctx context.Context) (func([]T) []T, error) {
		item, err := c.keyed(call(ctx))
		if err != nil {
			return nil, err
		}
		if item.Key() != id {
			c.opts.logger.Warn("server returned a different item", "want", id, "got", item.Key())
		}
		return func(items []T) []T { return state.Replace(items, item) }, nil
	})
}

// Remove drops the item with key id once call succeeds.
func (c *Coordinator[T]) Remove(ctx context.Context, id int, call func(context.Context) error) error {
	return c.run(ctx, "remove", func(ctx context.Context) (func([]T) []T, error) {
		if err := call(ctx); err != nil {
			return nil, err
		}
		return func(items []T) []T { return state.Remove(items, id) }, nil
	})
}

// Do runs call without reconciling the collection. Callers navigate away
// or refetch afterwards.
func (c *Coordinator[T]) Do(ctx context.Context, call func(context.Context) error) error {
	return c.run(ctx, "do", func(ctx context.Context) (func([]T) []T, error) {
		if err := call(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
}

// ClearError dismisses the message left by a failed mutation.
func (c *Coordinator[T]) ClearError() {
	_ = c.store.Update(func(s *state.Snapshot[[]T]) bool {
		if s.ErrorMessage == "" || s.Phase == state.PhaseError {
			return false
		}
		s.ErrorMessage = ""
		return true
	})
}

// keyed refuses an item the server confirmed without an identifier, so a
// null or empty body never lands in the collection as a zero entry.
func (c *Coordinator[T]) keyed(item T, err error) (T, error) {
	if err == nil && item.Key() <= 0 {
		var zero T
		return zero, &connection.DecodeError{Op: c.opts.op, Err: constants.ErrMissingID}
	}
	return item, err
}

func (c *Coordinator[T]) run(ctx context.Context, kind string, call func(context.Context) (func([]T) []T, error)) error {
	if !c.pending.CompareAndSwap(false, true) {
		return constants.ErrMutationPending
	}
	defer c.pending.Store(false)

	apply, err := call(ctx)
	if err != nil {
		c.opts.logger.Warn("mutation failed", "kind", kind, "error", err.Error())
		msg := connection.Message(err, c.opts.op)
		_ = c.store.Update(func(s *state.Snapshot[[]T]) bool {
			s.ErrorMessage = msg
			return true
		})
		return err
	}

	return c.store.Update(func(s *state.Snapshot[[]T]) bool {
		if apply != nil {
			s.Data = apply(s.Data)
		}
		if s.Phase != state.PhaseError {
			s.ErrorMessage = ""
		}
		c.opts.logger.Debug("mutation applied", "kind", kind, "items", len(s.Data))
		return true
	})
}
