package berth

import (
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// widget carries a pointer field and enough bytes to stay out of the tiny
// allocator, so it is collected on its own.
type widget struct {
	id   int32
	name string
	pad  [32]byte
}

func countingFactory(calls *atomic.Int32) Factory {
	return func() (any, error) {
		n := calls.Add(1)

		return &widget{id: n, name: "widget"}, nil
	}
}

func TestNewProvider_NilFactory(t *testing.T) {
	_, err := NewProvider(LifetimeTransient, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidFactory)

	p, err := NewProvider(LifetimeNone, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, LifetimeNone, p.Lifetime())
}

func TestNewProvider_UnknownLifetime(t *testing.T) {
	_, err := NewProvider(Lifetime(42), func() (any, error) { return 1, nil }, nil)
	assert.Error(t, err)
}

func TestNoneProvider_NeverCallsFactory(t *testing.T) {
	var calls atomic.Int32

	p, err := NewProvider(LifetimeNone, countingFactory(&calls), nil)
	require.NoError(t, err)

	v, err := p.Get()
	assert.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, int32(0), calls.Load())
}

func TestTransientProvider_NewInstanceEveryGet(t *testing.T) {
	var calls atomic.Int32

	p, err := NewProvider(LifetimeTransient, countingFactory(&calls), nil)
	require.NoError(t, err)

	const n = 5

	seen := make([]any, 0, n)
	for range n {
		v, err := p.Get()
		require.NoError(t, err)

		for _, prev := range seen {
			assert.NotSame(t, prev, v)
		}

		seen = append(seen, v)
	}

	assert.Equal(t, int32(n), calls.Load())
}

func TestLazyProvider_SameInstance(t *testing.T) {
	for _, lifetime := range []Lifetime{LifetimeLazySingleton, LifetimeSingleton} {
		t.Run(lifetime.String(), func(t *testing.T) {
			var calls atomic.Int32

			p, err := NewProvider(lifetime, countingFactory(&calls), nil)
			require.NoError(t, err)
			assert.Nil(t, p.Target())

			v1, err := p.Get()
			require.NoError(t, err)
			v2, err := p.Get()
			require.NoError(t, err)

			assert.Same(t, v1, v2)
			assert.Equal(t, int32(1), calls.Load())
			assert.Equal(t, TypeOf[*widget](), p.Target())
			assert.Equal(t, lifetime, p.Lifetime())
		})
	}
}

func TestLazyProvider_ConcurrentGetRunsFactoryOnce(t *testing.T) {
	var calls atomic.Int32

	p, err := NewProvider(LifetimeLazySingleton, func() (any, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)

		return &widget{name: "slow"}, nil
	}, nil)
	require.NoError(t, err)

	results := make([]any, 64)

	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			v, err := p.Get()
			results[i] = v

			return err
		})
	}

	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), calls.Load())

	for _, v := range results {
		assert.Same(t, results[0], v)
	}
}

func TestLazyProvider_RetriesAfterFailure(t *testing.T) {
	boom := errors.New("boom")

	var calls atomic.Int32

	p, err := NewProvider(LifetimeLazySingleton, func() (any, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}

		return &widget{name: "second"}, nil
	}, nil)
	require.NoError(t, err)

	_, err = p.Get()
	assert.ErrorIs(t, err, boom)

	v, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, "second", v.(*widget).name)

	again, err := p.Get()
	require.NoError(t, err)
	assert.Same(t, v, again)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLazyProvider_PanicReleasesGuard(t *testing.T) {
	var calls atomic.Int32

	p, err := NewProvider(LifetimeSingleton, func() (any, error) {
		if calls.Add(1) == 1 {
			panic("first call")
		}

		return &widget{}, nil
	}, nil)
	require.NoError(t, err)

	assert.Panics(t, func() { _, _ = p.Get() })

	v, err := p.Get()
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestLazyProvider_NilInstanceIsNotCached(t *testing.T) {
	var calls atomic.Int32

	p, err := NewProvider(LifetimeLazySingleton, func() (any, error) {
		if calls.Add(1) == 1 {
			return nil, nil
		}

		return &widget{name: "late"}, nil
	}, nil)
	require.NoError(t, err)

	v, err := p.Get()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = p.Get()
	require.NoError(t, err)
	assert.Equal(t, "late", v.(*widget).name)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInstanceProvider(t *testing.T) {
	w := &widget{name: "prebuilt"}
	p := NewInstanceProvider(w)

	v, err := p.Get()
	require.NoError(t, err)
	assert.Same(t, w, v)
	assert.Equal(t, LifetimeSingleton, p.Lifetime())
	assert.Equal(t, TypeOf[*widget](), p.Target())
}

func TestWeakProvider_ReusesWhileReferenced(t *testing.T) {
	var calls atomic.Int32

	p, err := NewProvider(LifetimeWeakTransient, countingFactory(&calls), nil)
	require.NoError(t, err)

	first, err := p.Get()
	require.NoError(t, err)

	second, err := p.Get()
	require.NoError(t, err)
	assert.Same(t, first, second)

	runtime.GC()

	third, err := p.Get()
	require.NoError(t, err)
	assert.Same(t, first, third)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, TypeOf[*widget](), p.Target())

	runtime.KeepAlive(first)
}

func TestWeakProvider_RebuildsAfterCollection(t *testing.T) {
	var calls atomic.Int32

	p, err := NewProvider(LifetimeWeakTransient, countingFactory(&calls), nil)
	require.NoError(t, err)

	func() {
		v, err := p.Get()
		require.NoError(t, err)
		require.NotNil(t, v)
	}()

	for range 3 {
		runtime.GC()
	}

	v, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int32(2), v.(*widget).id)
}

func TestWeakProvider_ConcurrentGetSharesInstance(t *testing.T) {
	var calls atomic.Int32

	p, err := NewProvider(LifetimeWeakTransient, func() (any, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)

		return &widget{name: "racy"}, nil
	}, nil)
	require.NoError(t, err)

	// results keeps every instance reachable until the end of the test.
	results := make([]any, 32)

	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			v, err := p.Get()
			results[i] = v

			return err
		})
	}

	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), calls.Load())

	for _, v := range results {
		assert.Same(t, results[0], v)
	}
}

var sharedWidget = widget{name: "shared"}

func TestWeakProvider_PackageLevelPointer(t *testing.T) {
	p, err := NewProvider(LifetimeWeakTransient, func() (any, error) {
		return &sharedWidget, nil
	}, nil)
	require.NoError(t, err)

	v1, err := p.Get()
	require.NoError(t, err)
	assert.Same(t, &sharedWidget, v1)

	runtime.GC()

	v2, err := p.Get()
	require.NoError(t, err)
	assert.Same(t, &sharedWidget, v2)
}

func TestWeakProvider_NonPointerIsNotCached(t *testing.T) {
	var calls atomic.Int32

	p, err := NewProvider(LifetimeWeakTransient, func() (any, error) {
		return int(calls.Add(1)), nil
	}, nil)
	require.NoError(t, err)

	v1, _ := p.Get()
	v2, _ := p.Get()

	assert.Equal(t, 1, v1)
	assert.Equal(t, 2, v2)
	assert.Nil(t, p.Target())
}

func TestWeakProvider_FactoryError(t *testing.T) {
	boom := errors.New("boom")

	p, err := NewProvider(LifetimeWeakTransient, func() (any, error) {
		return nil, boom
	}, nil)
	require.NoError(t, err)

	_, err = p.Get()
	assert.ErrorIs(t, err, boom)
}
