package berth

import (
	"fmt"
	"strings"
)

// Lifetime is the caching and identity policy of a provider.
type Lifetime uint8

const (
	// LifetimeNone marks an explicitly unregistered key; Get returns nothing.
	LifetimeNone Lifetime = iota

	// LifetimeTransient creates a new instance on every Get.
	LifetimeTransient

	// LifetimeLazySingleton creates one instance on first Get and reuses it.
	LifetimeLazySingleton

	// LifetimeSingleton is a lazily created singleton or a registered instance.
	LifetimeSingleton

	// LifetimeWeakTransient reuses the last instance while something else
	// still references it, and creates a new one once it has been collected.
	LifetimeWeakTransient
)

var lifetimeNames = [...]string{
	LifetimeNone:          "none",
	LifetimeTransient:     "transient",
	LifetimeLazySingleton: "lazy-singleton",
	LifetimeSingleton:     "singleton",
	LifetimeWeakTransient: "weak-transient",
}

// String returns the lifetime name.
func (l Lifetime) String() string {
	if int(l) < len(lifetimeNames) {
		return lifetimeNames[l]
	}

	return fmt.Sprintf("lifetime(%d)", uint8(l))
}

// Valid reports whether l is a known lifetime.
func (l Lifetime) Valid() bool {
	return int(l) < len(lifetimeNames)
}

// Caches reports whether the lifetime can return the same instance twice.
func (l Lifetime) Caches() bool {
	return l == LifetimeLazySingleton || l == LifetimeSingleton || l == LifetimeWeakTransient
}

// ParseLifetime parses a lifetime name. Matching ignores case, and "-" and
// "_" are optional, so "LazySingleton" and "lazy_singleton" both parse.
func ParseLifetime(s string) (Lifetime, error) {
	norm := normalizeName(s)
	for i, name := range lifetimeNames {
		if normalizeName(name) == norm {
			return Lifetime(i), nil
		}
	}

	return LifetimeNone, fmt.Errorf("unknown lifetime %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Lifetime) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid lifetime %d", uint8(l))
	}

	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Lifetime) UnmarshalText(text []byte) error {
	parsed, err := ParseLifetime(string(text))
	if err != nil {
		return err
	}

	*l = parsed

	return nil
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}
