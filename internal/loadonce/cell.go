// Package loadonce holds the single-shot loading state shared by the form and
// dashboard views: one fetch, a ready flag, and discard-after-close.
package loadonce

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Do when the cell was closed before the load
// finished. The late result is discarded.
var ErrClosed = errors.New("loadonce: closed")

// Cell runs its loader at most once and keeps the outcome. The zero value is
// ready to use.
type Cell[T any] struct {
	once     sync.Once
	initOnce sync.Once
	done     chan struct{}

	mu     sync.RWMutex
	value  T
	ready  bool
	err    error
	closed bool
}

// Observer sees the outcome of a load the cell kept. err is nil on success.
type Observer func(ctx context.Context, err error)

// Do runs fn on the first call and records its result. Every call, including
// concurrent ones, blocks until that first run finishes and returns its
// error. The observers of the first call run once the outcome is recorded,
// and not at all when the cell was closed in the meantime.
func (c *Cell[T]) Do(ctx context.Context, fn func(context.Context) (T, error), observers ...Observer) error {
	c.once.Do(func() {
		defer close(c.doneCh())
		value, err := fn(ctx)
		if !c.settle(value, err) {
			return
		}
		for _, observe := range observers {
			if observe != nil {
				observe(ctx, err)
			}
		}
	})
	<-c.doneCh()
	return c.Err()
}

// settle records the outcome and reports whether it was kept.
func (c *Cell[T]) settle(value T, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.closed:
		c.err = ErrClosed
		return false
	case err != nil:
		c.err = err
	default:
		c.value = value
		c.ready = true
	}
	return true
}

// Done is closed once the load has finished, whatever its outcome.
func (c *Cell[T]) Done() <-chan struct{} {
	return c.doneCh()
}

// Get returns the loaded value and whether it is present.
func (c *Cell[T]) Get() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.ready
}

// Ready reports whether a value was loaded.
func (c *Cell[T]) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Err returns the load error, if any.
func (c *Cell[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Close marks the cell closed. A load still in flight keeps running but its
// result is dropped. A value already loaded stays readable.
func (c *Cell[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Cell[T]) doneCh() chan struct{} {
	c.initOnce.Do(func() {
		c.done = make(chan struct{})
	})
	return c.done
}
