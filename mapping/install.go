package mapping

import (
	"go.uber.org/multierr"

	"github.com/xraph/berth"
)

// Install registers every planned registration in m, using the Factory and
// Type of the matching candidate. Registrations without a factory are
// skipped and reported; the rest are installed regardless.
func Install(m *berth.ContainerMap, plan *Plan, candidates []Candidate) error {
	byName := make(map[string]*Candidate, len(candidates))
	for i := range candidates {
		if _, dup := byName[candidates[i].Name]; !dup {
			byName[candidates[i].Name] = &candidates[i]
		}
	}

	var errs error

	for _, reg := range plan.Registrations {
		cand := byName[reg.Target]

		var opts []berth.RegisterOption
		if cand != nil && cand.Type != nil {
			opts = append(opts, berth.WithTarget(cand.Type))
		}

		var factory berth.Factory
		if cand != nil {
			factory = cand.Factory
		}

		if factory == nil && reg.Lifetime != berth.LifetimeNone {
			errs = multierr.Append(errs, ErrMissingFactory(reg.Target))

			continue
		}

		errs = multierr.Append(errs, m.Register(reg.Keys, reg.Lifetime, factory, opts...))
	}

	return errs
}

// Build computes a plan and installs it into a new ContainerMap.
// The returned error combines plan warnings and install failures; the map
// is usable either way.
func Build(settings Settings, candidates []Candidate, opts ...berth.Option) (*berth.ContainerMap, *Plan, error) {
	plan := Compute(settings, candidates)
	m := berth.NewContainerMap(opts...)

	err := multierr.Append(plan.Err(), Install(m, plan, candidates))

	return m, plan, err
}
