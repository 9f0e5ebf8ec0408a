package berth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	primaryStore = NewTypedKey[store]("store.primary")
	replicaStore = NewTypedKey[store]("store.replica")
)

func TestTypedKey(t *testing.T) {
	assert.Equal(t, Key("store.primary"), primaryStore.Key())
	assert.Equal(t, "store.primary", primaryStore.String())
	assert.Equal(t, KeyOf[store](), DefaultKey[store]().Key())
}

func TestRegisterWithKey_SharedProvider(t *testing.T) {
	m := New()

	err := RegisterWithKey(m, LifetimeSingleton, func() (store, error) {
		return &memoryStore{name: "shared"}, nil
	}, primaryStore, replicaStore)
	require.NoError(t, err)

	assert.True(t, HasKey(m, primaryStore))

	p, found, err := GetWithKey(m, primaryStore)
	require.NoError(t, err)
	require.True(t, found)

	r := MustWithKey(m, replicaStore)
	assert.Same(t, p, r)
}

func TestMustWithKey_Panics(t *testing.T) {
	m := New()

	assert.Panics(t, func() { MustWithKey(m, primaryStore) })
}
