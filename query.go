package berth

import (
	"reflect"
	"slices"
	"strings"
)

// MappingQuery defines criteria for ListMappings filtering.
type MappingQuery struct {
	// Lifetimes filters by lifetime. Empty matches all.
	Lifetimes []Lifetime

	// Target filters by target type. nil matches all.
	Target reflect.Type

	// KeyPrefix filters by key prefix. Empty matches all.
	KeyPrefix string
}

// Query returns the mappings matching q, sorted by key.
//
// Example:
//
//	singletons := berth.Query(m, berth.MappingQuery{
//	    Lifetimes: []berth.Lifetime{berth.LifetimeSingleton, berth.LifetimeLazySingleton},
//	})
func Query(m *ContainerMap, q MappingQuery) []Mapping {
	var results []Mapping

	for _, mapping := range m.ListMappings() {
		if len(q.Lifetimes) > 0 && !slices.Contains(q.Lifetimes, mapping.Lifetime) {
			continue
		}

		if q.Target != nil && mapping.Target != q.Target {
			continue
		}

		if q.KeyPrefix != "" && !strings.HasPrefix(string(mapping.Key), q.KeyPrefix) {
			continue
		}

		results = append(results, mapping)
	}

	return results
}

// FindByLifetime returns all mappings with lifetime.
func FindByLifetime(m *ContainerMap, lifetime Lifetime) []Mapping {
	return Query(m, MappingQuery{Lifetimes: []Lifetime{lifetime}})
}

// FindByTarget returns all keys served by target.
func FindByTarget(m *ContainerMap, target reflect.Type) []Mapping {
	return Query(m, MappingQuery{Target: target})
}
