package berth

// Registration holds one registration for batch installation: a factory
// shared by all Keys under Lifetime.
type Registration struct {
	Keys     []Key
	Lifetime Lifetime
	Factory  Factory
	Options  []RegisterOption
}

// Register creates a Registration.
//
// Example:
//
//	berth.RegisterAll(m,
//	    berth.Register(berth.Keys("app.Store"), berth.LifetimeSingleton, newStore),
//	    berth.Register(berth.Keys("app.Clock"), berth.LifetimeTransient, newClock),
//	)
func Register(keys []Key, lifetime Lifetime, factory Factory, opts ...RegisterOption) Registration {
	return Registration{
		Keys:     keys,
		Lifetime: lifetime,
		Factory:  factory,
		Options:  opts,
	}
}

// RegisterAll registers several registrations in order.
// It stops at the first failing registration.
func RegisterAll(m *ContainerMap, registrations ...Registration) error {
	for _, reg := range registrations {
		if err := m.Register(reg.Keys, reg.Lifetime, reg.Factory, reg.Options...); err != nil {
			return err
		}
	}
	return nil
}

// RegisterTyped registers a typed factory under keys, declaring T as target.
func RegisterTyped[T any](m *ContainerMap, keys []Key, lifetime Lifetime, factory func() (T, error)) error {
	if factory == nil {
		return ErrInvalidFactory
	}

	return m.Register(keys, lifetime, func() (any, error) {
		return factory()
	}, WithTargetOf[T]())
}
