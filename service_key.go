package berth

// TypedKey pairs a key with the type it resolves to.
// Use NewTypedKey to name several registrations of one type, or KeyFor a
// type's default key.
type TypedKey[T any] struct {
	key Key
}

// NewTypedKey creates a typed key with an explicit name.
//
// Example:
//
//	var PrimaryDB = berth.NewTypedKey[*sql.DB]("db.primary")
//	var ReplicaDB = berth.NewTypedKey[*sql.DB]("db.replica")
func NewTypedKey[T any](name string) TypedKey[T] {
	return TypedKey[T]{key: Key(name)}
}

// DefaultKey returns the typed key KeyOf[T].
func DefaultKey[T any]() TypedKey[T] {
	return TypedKey[T]{key: KeyOf[T]()}
}

// Key returns the untyped key.
func (k TypedKey[T]) Key() Key {
	return k.key
}

// String implements fmt.Stringer.
func (k TypedKey[T]) String() string {
	return string(k.key)
}

// RegisterWithKey registers a typed factory under one or more typed keys of
// the same type. All keys share one provider.
//
// Example:
//
//	berth.RegisterWithKey(m, berth.LifetimeSingleton, newPrimary, PrimaryDB)
func RegisterWithKey[T any](m *ContainerMap, lifetime Lifetime, factory func() (T, error), keys ...TypedKey[T]) error {
	untyped := make([]Key, len(keys))
	for i, k := range keys {
		untyped[i] = k.key
	}

	return RegisterTyped(m, untyped, lifetime, factory)
}

// GetWithKey resolves a typed key.
func GetWithKey[T any](m *ContainerMap, key TypedKey[T]) (T, bool, error) {
	return getAs[T](m, key.key)
}

// MustWithKey resolves a typed key and panics on error or absence.
func MustWithKey[T any](m *ContainerMap, key TypedKey[T]) T {
	value, found, err := GetWithKey(m, key)
	if err != nil {
		panic(err)
	}

	if !found {
		panic(ErrMissingDependency(key.key))
	}

	return value
}

// HasKey checks if a typed key is registered.
func HasKey[T any](m *ContainerMap, key TypedKey[T]) bool {
	return m.Has(key.key)
}
