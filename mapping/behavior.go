package mapping

import (
	"fmt"
	"strings"
)

// Behaviors is a set of toggles controlling automatic registration.
// Toggles combine with bitwise OR.
type Behaviors uint32

const (
	// SingleInterfaceImplementation registers an abstraction only when
	// exactly one candidate provides it. Ambiguous keys are left out.
	SingleInterfaceImplementation Behaviors = 1 << iota

	// IncludeClasses registers every candidate under its own name too.
	IncludeClasses

	// IncludeBaseClasses registers candidates under their non-abstract base types.
	IncludeBaseClasses

	// IncludeAbstractClasses registers candidates under their abstract base types.
	IncludeAbstractClasses
)

// BehaviorNone disables every toggle.
const BehaviorNone Behaviors = 0

// DefaultBehaviors is used when no configuration is present.
const DefaultBehaviors = SingleInterfaceImplementation

var behaviorNames = []struct {
	flag Behaviors
	name string
}{
	{SingleInterfaceImplementation, "SingleInterfaceImplementation"},
	{IncludeClasses, "IncludeClasses"},
	{IncludeBaseClasses, "IncludeBaseClasses"},
	{IncludeAbstractClasses, "IncludeAbstractClasses"},
}

// Has reports whether every toggle in flag is set.
func (b Behaviors) Has(flag Behaviors) bool {
	return b&flag == flag
}

// String returns the comma-joined toggle names, or "None".
func (b Behaviors) String() string {
	if b == BehaviorNone {
		return "None"
	}

	var names []string

	rest := b
	for _, bn := range behaviorNames {
		if b.Has(bn.flag) {
			names = append(names, bn.name)
			rest &^= bn.flag
		}
	}

	if rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint32(rest)))
	}

	return strings.Join(names, ",")
}

// ParseBehaviors parses comma-joined toggle names. Names are matched
// case-insensitively; "None" and "Default" are accepted.
func ParseBehaviors(s string) (Behaviors, error) {
	var b Behaviors

	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}

		switch {
		case strings.EqualFold(name, "None"):
			continue
		case strings.EqualFold(name, "Default"):
			b |= DefaultBehaviors

			continue
		}

		flag, ok := lookupBehavior(name)
		if !ok {
			return BehaviorNone, fmt.Errorf("unknown behavior %q", name)
		}

		b |= flag
	}

	return b, nil
}

func lookupBehavior(name string) (Behaviors, bool) {
	for _, bn := range behaviorNames {
		if strings.EqualFold(bn.name, name) {
			return bn.flag, true
		}
	}

	return BehaviorNone, false
}

// MarshalText implements encoding.TextMarshaler.
func (b Behaviors) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Behaviors) UnmarshalText(text []byte) error {
	parsed, err := ParseBehaviors(string(text))
	if err != nil {
		return err
	}

	*b = parsed

	return nil
}
