package berth

import (
	"reflect"
)

// Key identifies an abstraction (interface or class) that can be resolved.
// Keys are the textual type identity produced by KeyFor, so the mapping
// planner and the runtime registry agree on names.
type Key string

// String returns the key text.
func (k Key) String() string {
	return string(k)
}

// KeyFor returns the key of a reflect.Type.
// Named types render as "pkgpath.Name", pointers as "*" followed by the
// element key, everything else as reflect's own rendering.
func KeyFor(t reflect.Type) Key {
	if t == nil {
		return "<nil>"
	}

	if t.Kind() == reflect.Pointer {
		return "*" + KeyFor(t.Elem())
	}

	if t.Name() != "" && t.PkgPath() != "" {
		return Key(t.PkgPath() + "." + t.Name())
	}

	return Key(t.String())
}

// KeyOf returns the key of T. Interface type parameters yield the interface
// key, not the key of a dynamic value.
func KeyOf[T any]() Key {
	return KeyFor(TypeOf[T]())
}

// TypeOf returns the static reflect.Type of T.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Keys converts a list of strings to keys.
func Keys(names ...string) []Key {
	keys := make([]Key, len(names))
	for i, n := range names {
		keys[i] = Key(n)
	}

	return keys
}
