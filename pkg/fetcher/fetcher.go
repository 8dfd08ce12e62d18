// Package fetcher keeps a view's remote state in sync with its endpoint
// parameters.
//
// Every fetch is tagged with a generation number. Issuing a new fetch
// cancels the context of the previous one, and a result that arrives after
// a newer fetch was issued (or after the view unmounted) is discarded.
package fetcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/learnconnect/learnconnect.go/pkg/connection"
	"github.com/learnconnect/learnconnect.go/pkg/constants"
	"github.com/learnconnect/learnconnect.go/pkg/logger"
	"github.com/learnconnect/learnconnect.go/pkg/state"
)

// ErrorPolicy decides what happens to previously loaded data when a fetch
// fails.
type ErrorPolicy int

const (
	// Preserve keeps the last successful data visible next to the error.
	Preserve ErrorPolicy = iota
	// Clear drops it.
	Clear
)

// Params is the part of an endpoint that varies between fetches.
type Params struct {
	PathParam string
	Filter    string
}

// LoadFunc performs one fetch. It must honor ctx cancellation.
type LoadFunc[T any] func(ctx context.Context, p Params) (T, error)

type options struct {
	policy ErrorPolicy
	op     string
	logger logger.Logger
}

type Option func(*options)

func WithErrorPolicy(p ErrorPolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithOp names the fetch in error messages, e.g. "Load groups".
func WithOp(op string) Option {
	return func(o *options) { o.op = op }
}

func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

type Fetcher[T any] struct {
	store *state.Store[T]
	load  LoadFunc[T]
	opts  options

	generation atomic.Uint64

	mu      sync.Mutex
	params  Params
	mounted bool
	cancel  context.CancelFunc
}

func New[T any](store *state.Store[T], load LoadFunc[T], opts ...Option) *Fetcher[T] {
	o := options{policy: Preserve, op: "Load"}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logger.OrNop(o.logger)

	return &Fetcher[T]{store: store, load: load, opts: o}
}

// Mount performs the first fetch with p.
func (f *Fetcher[T]) Mount(ctx context.Context, p Params) error {
	f.mu.Lock()
	f.params = p
	f.mounted = true
	f.mu.Unlock()

	return f.fetch(ctx)
}

// SetParams fetches again when p differs from the current parameters.
// Before Mount it only records p.
func (f *Fetcher[T]) SetParams(ctx context.Context, p Params) error {
	f.mu.Lock()
	if f.params == p {
		f.mu.Unlock()
		return nil
	}
	f.params = p
	mounted := f.mounted
	f.mu.Unlock()

	if !mounted {
		return nil
	}
	return f.fetch(ctx)
}

// Refresh re-fetches with the current parameters. It is the only way a
// failed fetch is retried.
func (f *Fetcher[T]) Refresh(ctx context.Context) error {
	f.mu.Lock()
	mounted := f.mounted
	f.mu.Unlock()

	if !mounted {
		return constants.ErrUnmounted
	}
	return f.fetch(ctx)
}

// Unmount invalidates any fetch still in flight. Its result will never be
// applied.
func (f *Fetcher[T]) Unmount() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mounted = false
	f.generation.Add(1)
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

func (f *Fetcher[T]) Params() Params {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.params
}

func (f *Fetcher[T]) Store() *state.Store[T] {
	return f.store
}

func (f *Fetcher[T]) fetch(parent context.Context) error {
	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	f.cancel = cancel
	gen := f.generation.Add(1)
	params := f.params
	f.mu.Unlock()
	defer cancel()

	err := f.store.Update(func(s *state.Snapshot[T]) bool {
		if f.generation.Load() != gen {
			return false
		}
		s.Phase = state.PhaseLoading
		s.Generation = gen
		s.ErrorMessage = ""
		return true
	})
	if err != nil {
		return err
	}
	f.opts.logger.Debug("fetch started", "op", f.opts.op, "generation", gen, "path", params.PathParam, "filter", params.Filter)

	data, loadErr := f.load(ctx, params)

	stale := false
	err = f.store.Update(func(s *state.Snapshot[T]) bool {
		if f.generation.Load() != gen {
			stale = true
			return false
		}
		if loadErr != nil {
			s.Phase = state.PhaseError
			s.ErrorMessage = connection.Message(loadErr, f.opts.op)
			if f.opts.policy == Clear {
				var zero T
				s.Data = zero
				s.HasData = false
			}
			return true
		}
		s.Phase = state.PhaseSuccess
		s.Data = data
		s.HasData = true
		s.ErrorMessage = ""
		return true
	})
	if err != nil {
		return err
	}

	f.mu.Lock()
	if f.generation.Load() == gen {
		f.cancel = nil
	}
	f.mu.Unlock()

	if stale {
		f.opts.logger.Debug("discarded stale response", "op", f.opts.op, "generation", gen)
		return constants.ErrSuperseded
	}
	if loadErr != nil {
		if !errors.Is(loadErr, context.Canceled) {
			f.opts.logger.Warn("fetch failed", "op", f.opts.op, "generation", gen, "error", loadErr.Error())
		}
		return loadErr
	}
	return nil
}
