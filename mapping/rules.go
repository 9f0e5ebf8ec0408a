package mapping

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xraph/berth"
)

// CreateMode decides how a TypeRule's lifetime is applied.
type CreateMode uint8

const (
	// CreateAsIs registers the matched type with the rule's Lifetime.
	CreateAsIs CreateMode = iota

	// CreateTransient registers the matched type as Transient whatever the
	// rule's Lifetime says.
	CreateTransient

	// CreateNone registers the matched type as explicitly unregistered.
	CreateNone
)

// String returns the mode name.
func (c CreateMode) String() string {
	switch c {
	case CreateAsIs:
		return "as-is"
	case CreateTransient:
		return "transient"
	case CreateNone:
		return "none"
	default:
		return fmt.Sprintf("create(%d)", uint8(c))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c CreateMode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CreateMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "as-is", "asis", "as_is":
		*c = CreateAsIs
	case "transient":
		*c = CreateTransient
	case "none":
		*c = CreateNone
	default:
		return fmt.Errorf("unknown create mode %q", text)
	}

	return nil
}

// TypeRule assigns a lifetime to candidates whose name matches Pattern.
// A zero Lifetime defers to Settings.DefaultLifetime; use CreateNone to
// leave matched types unregistered.
type TypeRule struct {
	Pattern  string         `yaml:"name"`
	Lifetime berth.Lifetime `yaml:"lifetime"`
	Create   CreateMode     `yaml:"create,omitempty"`
}

// lifetime returns the lifetime the rule assigns, falling back to def when
// the rule names none.
func (r TypeRule) lifetime(def berth.Lifetime) berth.Lifetime {
	switch {
	case r.Create == CreateTransient:
		return berth.LifetimeTransient
	case r.Create == CreateNone:
		return berth.LifetimeNone
	case r.Lifetime == berth.LifetimeNone:
		return def
	}

	return r.Lifetime
}

// MapRule redirects keys matching From to the type named by To. To may
// reference capture groups of From ($1, ${name}).
type MapRule struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// ModuleRule admits candidates whose module matches Pattern.
type ModuleRule struct {
	Pattern string `yaml:"name"`
}

// Patterns match the whole name.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + pattern + `)$`)
}

type compiledTypeRule struct {
	TypeRule
	re *regexp.Regexp
}

type compiledMapRule struct {
	MapRule
	re *regexp.Regexp
}

// ruleSet is Settings with every pattern compiled. Malformed rules are
// dropped and reported.
type ruleSet struct {
	types   []compiledTypeRule
	maps    []compiledMapRule
	modules []*regexp.Regexp
}

func compileRules(s Settings) (ruleSet, []error) {
	var (
		rs       ruleSet
		warnings []error
	)

	for i, rule := range s.Types {
		re, err := compilePattern(rule.Pattern)
		if err != nil {
			warnings = append(warnings, ErrInvalidPattern("types", i, rule.Pattern, err))

			continue
		}

		rs.types = append(rs.types, compiledTypeRule{TypeRule: rule, re: re})
	}

	for i, rule := range s.Maps {
		re, err := compilePattern(rule.From)
		if err != nil {
			warnings = append(warnings, ErrInvalidPattern("maps", i, rule.From, err))

			continue
		}

		rs.maps = append(rs.maps, compiledMapRule{MapRule: rule, re: re})
	}

	for i, rule := range s.Modules {
		re, err := compilePattern(rule.Pattern)
		if err != nil {
			warnings = append(warnings, ErrInvalidPattern("modules", i, rule.Pattern, err))

			continue
		}

		rs.modules = append(rs.modules, re)
	}

	return rs, warnings
}

// typeRule returns the first type rule matching name.
func (rs ruleSet) typeRule(name string) (compiledTypeRule, bool) {
	for _, rule := range rs.types {
		if rule.re.MatchString(name) {
			return rule, true
		}
	}

	return compiledTypeRule{}, false
}

// mapKey applies the first map rule matching key and returns the target name.
func (rs ruleSet) mapKey(key string) (target string, rule MapRule, ok bool) {
	for _, r := range rs.maps {
		match := r.re.FindStringSubmatchIndex(key)
		if match == nil {
			continue
		}

		return string(r.re.ExpandString(nil, r.To, key, match)), r.MapRule, true
	}

	return "", MapRule{}, false
}

// admitsModule reports whether module passes the module filter.
func (rs ruleSet) admitsModule(module string) bool {
	if len(rs.modules) == 0 {
		return true
	}

	for _, re := range rs.modules {
		if re.MatchString(module) {
			return true
		}
	}

	return false
}
