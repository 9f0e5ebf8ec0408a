package berth

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

// Resolver resolves keys. A nil instance with a nil error means the key is
// absent. *ContainerMap is a Resolver.
type Resolver interface {
	Get(key Key) (any, error)
}

// ParamResolver is a Resolver that accepts resolution arguments.
type ParamResolver interface {
	Resolver
	GetWith(key Key, args ...any) (any, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(key Key) (any, error)

// Get implements Resolver.
func (f ResolverFunc) Get(key Key) (any, error) {
	return f(key)
}

// Facade holds the single current resolver used by call sites.
// The zero value has no resolver installed.
type Facade struct {
	current atomic.Pointer[resolverBox]
}

type resolverBox struct {
	resolver Resolver
}

// NewFacade creates a facade with no resolver installed.
func NewFacade() *Facade {
	return &Facade{}
}

// Set installs r, replacing any current resolver. A nil r, including a typed
// nil such as (*ContainerMap)(nil), uninstalls.
func (f *Facade) Set(r Resolver) {
	if isNilResolver(r) {
		f.current.Store(nil)

		return
	}

	f.current.Store(&resolverBox{resolver: r})
}

// Swap installs r and returns the previously installed resolver.
func (f *Facade) Swap(r Resolver) Resolver {
	var next *resolverBox
	if !isNilResolver(r) {
		next = &resolverBox{resolver: r}
	}

	prev := f.current.Swap(next)
	if prev == nil {
		return nil
	}

	return prev.resolver
}

func isNilResolver(r Resolver) bool {
	if r == nil {
		return true
	}

	rv := reflect.ValueOf(r)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// Reset uninstalls the current resolver.
func (f *Facade) Reset() {
	f.current.Store(nil)
}

// Current returns the installed resolver, or nil.
func (f *Facade) Current() Resolver {
	box := f.current.Load()
	if box == nil {
		return nil
	}

	return box.resolver
}

// Configured reports whether a resolver is installed.
func (f *Facade) Configured() bool {
	return f.current.Load() != nil
}

// Get delegates to the installed resolver. It fails with ErrNotConfigured
// when none is installed, and with ErrParamsUnsupported when args are given
// to a resolver that is not a ParamResolver.
func (f *Facade) Get(key Key, args ...any) (any, error) {
	r := f.Current()
	if r == nil {
		return nil, ErrNotConfigured
	}

	if len(args) == 0 {
		return r.Get(key)
	}

	pr, ok := r.(ParamResolver)
	if !ok {
		return nil, ErrParamsUnsupported(key)
	}

	return pr.GetWith(key, args...)
}

// Default is the process-wide facade.
var Default = NewFacade()

// SetResolver installs r on the Default facade.
func SetResolver(r Resolver) {
	Default.Set(r)
}

// ResetResolver uninstalls the Default facade's resolver.
func ResetResolver() {
	Default.Reset()
}

// Resolve resolves KeyOf[T] through the Default facade. Absence is reported
// as ErrMissingDependency.
func Resolve[T any](args ...any) (T, error) {
	return ResolveFrom[T](Default, args...)
}

// ResolveFrom resolves KeyOf[T] through f.
func ResolveFrom[T any](f *Facade, args ...any) (T, error) {
	var zero T

	key := KeyOf[T]()

	instance, err := f.Get(key, args...)
	if err != nil {
		return zero, err
	}

	if instance == nil {
		return zero, ErrMissingDependency(key)
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, ErrTypeMismatch(key, instance)
	}

	return typed, nil
}

// MustResolve resolves or panics - use only during startup.
func MustResolve[T any](args ...any) T {
	instance, err := Resolve[T](args...)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", KeyOf[T](), err))
	}

	return instance
}
