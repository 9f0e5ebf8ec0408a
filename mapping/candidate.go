package mapping

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"

	"github.com/xraph/berth"
)

// Parameter describes one constructor parameter.
type Parameter struct {
	Type       string
	Injectable bool
	Order      int     // injection priority, lower first
	Default    *string // literal default, nil when the parameter has none
}

// Constructor describes one way to build a candidate.
type Constructor struct {
	Parameters []Parameter
}

// usable reports whether every non-injectable parameter has a default.
func (c Constructor) usable() bool {
	for _, p := range c.Parameters {
		if !p.Injectable && p.Default == nil {
			return false
		}
	}

	return true
}

// injected returns the injectable parameter types sorted by Order.
// Parameters with equal Order keep their declaration order.
func (c Constructor) injected() []string {
	params := make([]Parameter, 0, len(c.Parameters))
	for _, p := range c.Parameters {
		if p.Injectable {
			params = append(params, p)
		}
	}

	slices.SortStableFunc(params, func(a, b Parameter) int {
		return cmp.Compare(a.Order, b.Order)
	})

	types := make([]string, len(params))
	for i, p := range params {
		types[i] = p.Type
	}

	return types
}

// Candidate is a type descriptor supplied by the discovery collaborator.
type Candidate struct {
	Name       string
	Module     string
	Interfaces []string
	BaseTypes  []string // nearest first

	// Constructors lists the declared constructors. An empty list means the
	// type has an implicit parameterless constructor.
	Constructors []Constructor

	IsAbstract bool
	IsGeneric  bool
	IsStatic   bool

	// Type and Factory are optional. They are only needed to Install a plan.
	Type    reflect.Type
	Factory berth.Factory
}

// constructor picks the usable constructor with the most parameters; the
// first declared wins ties. It returns -1 for the implicit constructor.
func (c Candidate) constructor() (int, bool) {
	if len(c.Constructors) == 0 {
		return -1, true
	}

	best := -1
	for i, ctor := range c.Constructors {
		if !ctor.usable() {
			continue
		}

		if best < 0 || len(ctor.Parameters) > len(c.Constructors[best].Parameters) {
			best = i
		}
	}

	return best, best >= 0
}

// unusableReason explains why c cannot be mapped, or returns "".
func (c Candidate) unusableReason() string {
	switch {
	case c.IsAbstract:
		return "abstract"
	case c.IsGeneric:
		return "generic definition"
	case c.IsStatic:
		return "static"
	}

	if _, ok := c.constructor(); !ok {
		return "no constructor satisfiable without external arguments"
	}

	return ""
}

// Describe builds a Candidate for T around a typed factory. Go cannot list
// the interfaces a type implements, so they are passed explicitly; T must
// implement each of them.
//
// Example:
//
//	cand, err := mapping.Describe(NewService, berth.TypeOf[IService]())
func Describe[T any](factory func() (T, error), interfaces ...reflect.Type) (Candidate, error) {
	typ := berth.TypeOf[T]()

	cand := Candidate{
		Name: string(berth.KeyFor(typ)),
		Type: typ,
	}

	if typ.Kind() == reflect.Pointer {
		cand.Module = typ.Elem().PkgPath()
	} else {
		cand.Module = typ.PkgPath()
	}

	for _, iface := range interfaces {
		if iface == nil || iface.Kind() != reflect.Interface {
			return Candidate{}, fmt.Errorf("describe %s: %v is not an interface", cand.Name, iface)
		}

		if !typ.Implements(iface) {
			return Candidate{}, fmt.Errorf("describe %s: does not implement %s", cand.Name, iface)
		}

		cand.Interfaces = append(cand.Interfaces, string(berth.KeyFor(iface)))
	}

	if factory != nil {
		cand.Factory = func() (any, error) {
			return factory()
		}
	}

	return cand, nil
}
