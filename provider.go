package berth

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"
	"weak"
)

// Factory creates an instance.
type Factory func() (any, error)

// Provider serves instances for one or more keys under a lifetime policy.
// A single provider may be registered under several keys; its cached state
// is shared by all of them.
type Provider interface {
	// Get returns an instance, or nil when the policy serves nothing.
	Get() (any, error)

	// Lifetime reports the policy.
	Lifetime() Lifetime

	// Target reports the concrete type served, or nil when it is not known yet.
	Target() reflect.Type
}

// NewProvider creates a provider for lifetime around factory.
// target may be nil; providers that cache learn it from the first instance.
func NewProvider(lifetime Lifetime, factory Factory, target reflect.Type) (Provider, error) {
	if factory == nil && lifetime != LifetimeNone {
		return nil, ErrInvalidFactory
	}

	switch lifetime {
	case LifetimeNone:
		return &noneProvider{target: target}, nil
	case LifetimeTransient:
		return &transientProvider{factory: factory, target: target}, nil
	case LifetimeLazySingleton, LifetimeSingleton:
		return &lazyProvider{factory: factory, lifetime: lifetime, target: target}, nil
	case LifetimeWeakTransient:
		return &weakProvider{factory: factory, target: target}, nil
	default:
		return nil, fmt.Errorf("unsupported lifetime %s", lifetime)
	}
}

// NewInstanceProvider returns a Singleton provider serving instance directly.
func NewInstanceProvider(instance any) Provider {
	return &instanceProvider{instance: instance}
}

// noneProvider is the placeholder for an explicitly unregistered key.
type noneProvider struct {
	target reflect.Type
}

func (p *noneProvider) Get() (any, error)    { return nil, nil }
func (p *noneProvider) Lifetime() Lifetime   { return LifetimeNone }
func (p *noneProvider) Target() reflect.Type { return p.target }

// transientProvider calls the factory on every Get. It holds no mutable state.
type transientProvider struct {
	factory Factory
	target  reflect.Type
}

func (p *transientProvider) Get() (any, error)    { return p.factory() }
func (p *transientProvider) Lifetime() Lifetime   { return LifetimeTransient }
func (p *transientProvider) Target() reflect.Type { return p.target }

// instanceProvider serves a pre-built singleton.
type instanceProvider struct {
	instance any
}

func (p *instanceProvider) Get() (any, error)    { return p.instance, nil }
func (p *instanceProvider) Lifetime() Lifetime   { return LifetimeSingleton }
func (p *instanceProvider) Target() reflect.Type { return reflect.TypeOf(p.instance) }

// lazyProvider runs the factory at most once successfully. Concurrent callers
// wait on mu for the first caller's factory. A failed attempt or a nil
// instance leaves the slot empty, so the next Get tries again.
type lazyProvider struct {
	factory  Factory
	lifetime Lifetime
	target   reflect.Type

	mu    sync.Mutex
	done  atomic.Bool
	value any
}

func (p *lazyProvider) Get() (any, error) {
	// Fast path: value is published before done.
	if p.done.Load() {
		return p.value, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done.Load() {
		return p.value, nil
	}

	value, err := p.factory()
	if err != nil || value == nil {
		return nil, err
	}

	p.value = value
	p.done.Store(true)

	return value, nil
}

func (p *lazyProvider) Lifetime() Lifetime { return p.lifetime }

func (p *lazyProvider) Target() reflect.Type {
	if p.target != nil {
		return p.target
	}

	if p.done.Load() {
		return reflect.TypeOf(p.value)
	}

	return nil
}

// weakSlot is the published weak referent of a weakProvider.
type weakSlot struct {
	ref weak.Pointer[byte]
	typ reflect.Type // pointer type of the referent
}

// value returns the referent as an interface, or false once it was collected.
func (s *weakSlot) value() (any, bool) {
	ptr := s.ref.Value()
	if ptr == nil {
		return nil, false
	}

	return reflect.NewAt(s.typ.Elem(), unsafe.Pointer(ptr)).Interface(), true
}

// weakProvider keeps only a weak reference to the last instance it built.
// Rebuilding is serialized by mu so that racing callers share one instance.
type weakProvider struct {
	factory Factory
	target  reflect.Type

	mu   sync.Mutex
	slot atomic.Pointer[weakSlot]
}

func (p *weakProvider) Get() (any, error) {
	if v, ok := p.load(); ok {
		return v, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if v, ok := p.load(); ok {
		return v, nil
	}

	value, err := p.factory()
	if err != nil {
		return nil, err
	}

	// Only pointers to sized values can be tracked weakly; anything else is
	// handed out uncached. Pointers outside the heap never become unreachable.
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Type().Elem().Size() == 0 {
		return value, nil
	}

	p.slot.Store(&weakSlot{
		ref: weak.Make((*byte)(rv.UnsafePointer())),
		typ: rv.Type(),
	})

	return value, nil
}

func (p *weakProvider) load() (any, bool) {
	slot := p.slot.Load()
	if slot == nil {
		return nil, false
	}

	return slot.value()
}

func (p *weakProvider) Lifetime() Lifetime { return LifetimeWeakTransient }

func (p *weakProvider) Target() reflect.Type {
	if p.target != nil {
		return p.target
	}

	if slot := p.slot.Load(); slot != nil {
		return slot.typ
	}

	return nil
}
