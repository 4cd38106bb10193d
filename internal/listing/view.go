// Package listing holds the load state of a list page: one value loaded by
// a LoadFunc, replaced only by the most recent reload.
package listing

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded is returned by Reload when a newer reload started before
// this one finished. Its result was discarded.
var ErrSuperseded = errors.New("listing: load superseded by a newer request")

// State is the load state of a View.
type State uint8

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	}
	return "unknown"
}

// LoadFunc fetches a fresh value. It must honour ctx cancellation.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// Snapshot is a consistent read of a View.
type Snapshot[T any] struct {
	State    State
	Value    T
	Err      error
	LoadedAt time.Time
}

// View is safe for concurrent use. Only the latest Reload may publish its
// result; earlier in-flight loads are cancelled.
type View[T any] struct {
	load LoadFunc[T]

	mu       sync.Mutex
	seq      uint64
	cancel   context.CancelFunc
	done     chan struct{}
	state    State
	value    T
	err      error
	loadedAt time.Time
}

func New[T any](load LoadFunc[T]) *View[T] {
	return &View[T]{load: load}
}

// Reload starts a new load and waits for it. On error the last good value
// is kept and the state becomes StateError until the next reload.
func (v *View[T]) Reload(ctx context.Context) (T, error) {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	if v.cancel != nil {
		v.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	v.cancel, v.done, v.state = cancel, done, StateLoading
	v.mu.Unlock()

	value, err := v.load(loadCtx)

	v.mu.Lock()
	defer v.mu.Unlock()
	defer close(done)
	cancel()

	var zero T
	if seq != v.seq {
		return zero, ErrSuperseded
	}
	v.cancel, v.done = nil, nil
	if err != nil {
		v.state, v.err = StateError, err
		return v.value, err
	}
	v.state, v.value, v.err, v.loadedAt = StateLoaded, value, nil, time.Now()
	return value, nil
}

// Current returns the loaded value, waiting for an in-flight load or
// starting one when the view is idle or failed.
func (v *View[T]) Current(ctx context.Context) (T, error) {
	for {
		v.mu.Lock()
		state, value, done := v.state, v.value, v.done
		v.mu.Unlock()

		switch state {
		case StateLoaded:
			return value, nil
		case StateLoading:
			select {
			case <-done:
			case <-ctx.Done():
				var zero T
				return zero, ctx.Err()
			}
		case StateIdle, StateError:
			value, err := v.Reload(ctx)
			if errors.Is(err, ErrSuperseded) {
				continue
			}
			return value, err
		}
	}
}

// Snapshot returns the current state without loading.
func (v *View[T]) Snapshot() Snapshot[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Snapshot[T]{State: v.state, Value: v.value, Err: v.err, LoadedAt: v.loadedAt}
}
