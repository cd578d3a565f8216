package state

import (
	"log/slog"
	"sync"
)

// subscription pairs a notification callback with a stable identity so a
// cancel can splice it out without disturbing registration order.
type subscription struct {
	id uint64
	fn func()
}

// Container is an observable holder of a value.
//
// The value is only ever replaced in full: Set swaps it, Update swaps it via
// a function of the previous value, and Assign (for map-valued containers)
// builds a merged copy before swapping. Every replacement triggers one
// notification pass over a snapshot of the subscribers taken at trigger
// time; subscribers added during a pass are not guaranteed to run in it.
type Container[T any] struct {
	mu     sync.RWMutex
	value  T
	subs   []subscription
	nextID uint64

	// logger receives per-subscriber failure reports.
	logger *slog.Logger
}

// New creates a container with the given initial value.
func New[T any](initial T) *Container[T] {
	return &Container[T]{value: initial}
}

// WithLogger returns the container configured with a custom logger.
// The logger is used when a subscriber panics during notification.
func (c *Container[T]) WithLogger(l *slog.Logger) *Container[T] {
	c.mu.Lock()
	c.logger = l
	c.mu.Unlock()
	return c
}

// Get returns the current value.
func (c *Container[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the value and notifies subscribers.
func (c *Container[T]) Set(value T) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()

	c.notify()
}

// Update replaces the value with fn applied to the previous value, then
// notifies subscribers.
func (c *Container[T]) Update(fn func(T) T) {
	c.mu.Lock()
	c.value = fn(c.value)
	c.mu.Unlock()

	c.notify()
}

// Subscribe registers a callback fired after every value replacement.
// Callbacks run in registration order. The returned cancel removes the
// subscription; it is safe to call more than once.
func (c *Container[T]) Subscribe(fn func()) (cancel func()) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscription{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns the current value type-erased.
// Implements the Source interface used by Bind.
func (c *Container[T]) Snapshot() any {
	return c.Get()
}

// notify runs every subscriber against a snapshot of the subscriber list.
// A panicking subscriber is recovered and logged so later subscribers still
// run (best-effort isolation).
func (c *Container[T]) notify() {
	c.mu.RLock()
	subs := make([]subscription, len(c.subs))
	copy(subs, c.subs)
	logger := c.logger
	c.mu.RUnlock()

	if logger == nil {
		logger = slog.Default()
	}

	for _, s := range subs {
		runIsolated(s.fn, logger)
	}
}

func runIsolated(fn func(), logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("state: subscriber panicked during notification", "panic", r)
		}
	}()
	fn()
}

// Assign shallow-merges patch into a map-valued container and notifies.
// Keys present in patch overwrite the same keys of the current value; the
// merged result is a fresh map, so the container's value is still replaced
// in full.
func Assign[K comparable, V any](c *Container[map[K]V], patch map[K]V) {
	c.Update(func(cur map[K]V) map[K]V {
		next := make(map[K]V, len(cur)+len(patch))
		for k, v := range cur {
			next[k] = v
		}
		for k, v := range patch {
			next[k] = v
		}
		return next
	})
}
