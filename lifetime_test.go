package berth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLifetime(t *testing.T) {
	cases := map[string]Lifetime{
		"none":           LifetimeNone,
		"Transient":      LifetimeTransient,
		"LazySingleton":  LifetimeLazySingleton,
		"lazy_singleton": LifetimeLazySingleton,
		"lazy-singleton": LifetimeLazySingleton,
		" singleton ":    LifetimeSingleton,
		"WeakTransient":  LifetimeWeakTransient,
	}

	for in, want := range cases {
		got, err := ParseLifetime(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLifetime("scoped")
	assert.Error(t, err)
}

func TestLifetime_String(t *testing.T) {
	assert.Equal(t, "weak-transient", LifetimeWeakTransient.String())
	assert.Equal(t, "lifetime(9)", Lifetime(9).String())
	assert.False(t, Lifetime(9).Valid())
	assert.True(t, LifetimeSingleton.Caches())
	assert.False(t, LifetimeTransient.Caches())
}

func TestLifetime_Text(t *testing.T) {
	text, err := LifetimeLazySingleton.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "lazy-singleton", string(text))

	var l Lifetime
	require.NoError(t, l.UnmarshalText([]byte("weak-transient")))
	assert.Equal(t, LifetimeWeakTransient, l)

	assert.Error(t, l.UnmarshalText([]byte("forever")))

	_, err = Lifetime(9).MarshalText()
	assert.Error(t, err)
}
