package views

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// State is the load state of a deferred value
type State int

const (
	Unrequested State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Unrequested:
		return "unrequested"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Loader produces a value on demand
type Loader[T any] func(ctx context.Context) (T, error)

// Then returns a loader that applies fn to the result of load
func Then[T, U any](load Loader[T], fn func(T) (U, error)) Loader[U] {
	return func(ctx context.Context) (U, error) {
		v, err := load(ctx)
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v)
	}
}

// Lazy is a value loaded at most once, on first use.
//
// The first Get moves the handle from Unrequested to Loading and starts the
// load; concurrent callers join the same in-flight load. The outcome is
// cached for the lifetime of the handle: Ready returns the value forever and
// Failed returns the same error forever. There is no retry.
type Lazy[T any] struct {
	name   string
	load   Loader[T]
	flight singleflight.Group

	mu    sync.RWMutex
	state State
	value T
	err   error
	loads int
}

// NewLazy creates a handle that loads with load on first use
func NewLazy[T any](name string, load Loader[T]) *Lazy[T] {
	return &Lazy[T]{name: name, load: load}
}

// Name returns the handle name
func (l *Lazy[T]) Name() string {
	return l.name
}

// Get returns the loaded value, loading it if this is the first request.
//
// If ctx ends before the load completes, Get returns ctx.Err(); the load keeps
// running and its outcome is cached for later callers.
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	if v, done, err := l.settled(); done {
		return v, err
	}

	l.mu.Lock()
	if l.state == Unrequested {
		l.state = Loading
	}
	l.mu.Unlock()

	// The load outlives any single requester.
	loadCtx := context.WithoutCancel(ctx)
	ch := l.flight.DoChan(l.name, func() (interface{}, error) {
		l.run(loadCtx)
		return nil, nil
	})

	select {
	case <-ch:
		v, _, err := l.settled()
		return v, err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// run performs the load unless an earlier flight already settled the handle.
func (l *Lazy[T]) run(ctx context.Context) {
	if _, done, _ := l.settled(); done {
		return
	}

	v, err := l.safeLoad(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads++
	if err != nil {
		l.state = Failed
		l.err = &LoadError{Name: l.name, Err: err}
		return
	}
	l.state = Ready
	l.value = v
}

func (l *Lazy[T]) safeLoad(ctx context.Context) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during load: %v", r)
		}
	}()
	return l.load(ctx)
}

func (l *Lazy[T]) settled() (T, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	switch l.state {
	case Ready:
		return l.value, true, nil
	case Failed:
		var zero T
		return zero, true, l.err
	default:
		var zero T
		return zero, false, nil
	}
}

// State returns the current load state
func (l *Lazy[T]) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Loads returns how many times the underlying loader has run (0 or 1)
func (l *Lazy[T]) Loads() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loads
}
