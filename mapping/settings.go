package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/xraph/berth"
)

// Settings is the mapping configuration. Rule order is significant: within
// each category the first matching rule wins.
type Settings struct {
	Behaviors Behaviors `yaml:"behavior"`

	// DefaultLifetime applies to targets no TypeRule matches.
	// LifetimeNone is read as LifetimeTransient.
	DefaultLifetime berth.Lifetime `yaml:"lifetime,omitempty"`

	Types   []TypeRule   `yaml:"types,omitempty"`
	Maps    []MapRule    `yaml:"maps,omitempty"`
	Modules []ModuleRule `yaml:"modules,omitempty"`
}

// DefaultSettings returns the configuration used when none is present.
func DefaultSettings() Settings {
	return Settings{
		Behaviors:       DefaultBehaviors,
		DefaultLifetime: berth.LifetimeTransient,
	}
}

// defaultLifetime returns the effective default lifetime.
func (s Settings) defaultLifetime() berth.Lifetime {
	if s.DefaultLifetime == berth.LifetimeNone {
		return berth.LifetimeTransient
	}

	return s.DefaultLifetime
}

// DecodeSettings decodes a YAML settings document. Fields absent from the
// document keep their DefaultSettings values.
func DecodeSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("decode mapping settings: %w", err)
	}

	return s, nil
}

// EncodeSettings renders s as YAML.
func EncodeSettings(s Settings) ([]byte, error) {
	return yaml.Marshal(s)
}
