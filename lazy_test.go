package berth

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazy_Get(t *testing.T) {
	m := New()

	var calls atomic.Int32

	require.NoError(t, m.Register([]Key{KeyOf[store]()}, LifetimeTransient, func() (any, error) {
		calls.Add(1)
		return &memoryStore{name: "lazy"}, nil
	}))

	lazy := NewLazy[store](m)
	assert.False(t, lazy.IsResolved())
	assert.Equal(t, int32(0), calls.Load())

	s, err := lazy.Get()
	require.NoError(t, err)
	assert.Equal(t, "lazy", s.Name())
	assert.True(t, lazy.IsResolved())

	// Cached by the wrapper even though the registration is transient.
	s2, err := lazy.Get()
	require.NoError(t, err)
	assert.Same(t, s, s2)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLazy_MissingAndRetry(t *testing.T) {
	m := New()

	lazy := NewLazyKey[store](m, "later")

	_, err := lazy.Get()
	assert.ErrorIs(t, err, ErrMissingDependencySentinel)
	assert.False(t, lazy.IsResolved())

	require.NoError(t, m.RegisterInstance(Keys("later"), &memoryStore{name: "late"}))

	s, err := lazy.Get()
	require.NoError(t, err)
	assert.Equal(t, "late", s.Name())
	assert.Equal(t, Key("later"), lazy.Key())
}

func TestLazy_TypeMismatch(t *testing.T) {
	m := New()
	require.NoError(t, m.RegisterInstance(Keys("k"), "not a store"))

	_, err := NewLazyKey[store](m, "k").Get()
	assert.ErrorIs(t, err, ErrTypeMismatchSentinel)
	assert.Contains(t, err.Error(), "expected type")
}

func TestLazy_ResolverError(t *testing.T) {
	boom := errors.New("boom")

	lazy := NewLazyKey[store](ResolverFunc(func(Key) (any, error) { return nil, boom }), "k")

	_, err := lazy.Get()
	assert.ErrorIs(t, err, boom)
	assert.Panics(t, func() { lazy.MustGet() })
}
