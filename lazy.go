package berth

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Lazy wraps a dependency that is resolved on first access.
// This is useful for breaking construction cycles or deferring
// resolution of expensive services until they're actually needed.
// A failed resolution is not cached; the next Get tries again.
type Lazy[T any] struct {
	resolver Resolver
	key      Key
	mu       sync.Mutex
	resolved atomic.Bool
	value    T
}

// NewLazy creates a lazy wrapper for KeyOf[T].
func NewLazy[T any](resolver Resolver) *Lazy[T] {
	return NewLazyKey[T](resolver, KeyOf[T]())
}

// NewLazyKey creates a lazy wrapper for an explicit key.
func NewLazyKey[T any](resolver Resolver, key Key) *Lazy[T] {
	return &Lazy[T]{
		resolver: resolver,
		key:      key,
	}
}

// Get resolves the dependency and returns it.
func (l *Lazy[T]) Get() (T, error) {
	if l.resolved.Load() {
		return l.value, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.resolved.Load() {
		return l.value, nil
	}

	var zero T

	instance, err := l.resolver.Get(l.key)
	if err != nil {
		return zero, err
	}

	if instance == nil {
		return zero, ErrMissingDependency(l.key)
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("lazy dependency %s: expected type %T, got %T: %w",
			l.key, zero, instance, ErrTypeMismatch(l.key, instance))
	}

	l.value = typed
	l.resolved.Store(true)

	return typed, nil
}

// MustGet resolves the dependency and returns it, panicking on error.
func (l *Lazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("lazy dependency %s failed: %v", l.key, err))
	}

	return value
}

// IsResolved returns true if the dependency has been resolved.
func (l *Lazy[T]) IsResolved() bool {
	return l.resolved.Load()
}

// Key returns the key of the dependency.
func (l *Lazy[T]) Key() Key {
	return l.key
}
