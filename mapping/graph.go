package mapping

import (
	"fmt"

	"github.com/xraph/go-utils/errs"

	"github.com/xraph/berth"
)

// CodeCircularDependency indicates registrations that inject each other.
const CodeCircularDependency = "CIRCULAR_DEPENDENCY"

// ErrCircularDependencySentinel matches any cycle error.
var ErrCircularDependencySentinel = errs.NewError(CodeCircularDependency, "circular dependency", nil)

// ErrCircularDependency reports the targets forming a cycle.
func ErrCircularDependency(cycle []string) *errs.Error {
	return errs.NewError(
		CodeCircularDependency,
		fmt.Sprintf("circular dependency detected: %v", cycle),
		nil,
	).WithContext("cycle", cycle).(*errs.Error)
}

// dependencyGraph links planned targets through their injected parameters.
type dependencyGraph struct {
	deps  map[string][]string
	order []string // registration order
}

// graph builds the dependency graph of the plan. Injected types that no
// registration serves are returned as unresolved, keyed by target.
func (p *Plan) graph() (*dependencyGraph, map[string][]string) {
	g := &dependencyGraph{deps: make(map[string][]string)}
	unresolved := make(map[string][]string)

	for _, reg := range p.Registrations {
		g.order = append(g.order, reg.Target)

		for _, typ := range reg.Inject {
			dep, ok := p.Lookup(berth.Key(typ))
			if !ok {
				unresolved[reg.Target] = append(unresolved[reg.Target], typ)

				continue
			}

			g.deps[reg.Target] = append(g.deps[reg.Target], dep.Target)
		}
	}

	return g, unresolved
}

// Order returns the planned targets so that every target comes after the
// targets it injects. Independent targets keep registration order.
func (p *Plan) Order() ([]string, error) {
	g, _ := p.graph()

	return g.sort()
}

// Unresolved returns, per target, the injected types no registration serves.
func (p *Plan) Unresolved() map[string][]string {
	_, unresolved := p.graph()

	return unresolved
}

func (g *dependencyGraph) sort() ([]string, error) {
	visited := make(map[string]bool)
	visiting := make(map[string]bool)
	result := make([]string, 0, len(g.order))

	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		if visited[name] {
			return nil
		}

		if visiting[name] {
			start := 0
			for i, n := range stack {
				if n == name {
					start = i
				}
			}

			cycle := append(append([]string(nil), stack[start:]...), name)

			return ErrCircularDependency(cycle)
		}

		visiting[name] = true
		stack = append(stack, name)

		for _, dep := range g.deps[name] {
			if err := visit(dep); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		visiting[name] = false
		visited[name] = true
		result = append(result, name)

		return nil
	}

	for _, name := range g.order {
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	return result, nil
}
