package berth

import (
	"reflect"

	"go.uber.org/zap"
)

// Option configures a ContainerMap.
type Option func(*ContainerMap)

// WithLogger sets the logger used for registration events.
func WithLogger(logger *zap.Logger) Option {
	return func(m *ContainerMap) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMiddleware installs middleware at construction time.
func WithMiddleware(middleware ...Middleware) Option {
	return func(m *ContainerMap) {
		for _, mw := range middleware {
			m.middleware = m.middleware.with(mw)
		}
	}
}

// RegisterOption is a configuration option for a registration.
type RegisterOption func(*registerConfig)

type registerConfig struct {
	target reflect.Type
}

// WithTarget declares the concrete type a factory produces, so that the
// registration is listed and removable by target before first use.
func WithTarget(target reflect.Type) RegisterOption {
	return func(c *registerConfig) {
		c.target = target
	}
}

// WithTargetOf is WithTarget for a static type.
func WithTargetOf[T any]() RegisterOption {
	return WithTarget(TypeOf[T]())
}

// mergeOptions combines multiple options.
func mergeOptions(opts []RegisterOption) registerConfig {
	var cfg registerConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
