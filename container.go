package berth

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Mapping is the observable projection of one registered key.
type Mapping struct {
	Key      Key
	Target   reflect.Type // nil when the provider cannot tell yet
	Lifetime Lifetime
}

// String renders "key -> target [lifetime]".
func (m Mapping) String() string {
	target := "?"
	if m.Target != nil {
		target = KeyFor(m.Target).String()
	}

	return fmt.Sprintf("%s -> %s [%s]", m.Key, target, m.Lifetime)
}

// ContainerMap maps keys to providers. The last registration for a key wins.
// The map lock is never held while a factory runs; each provider guards its
// own cached state.
type ContainerMap struct {
	providers  map[Key]Provider
	middleware middlewareChain
	logger     *zap.Logger
	mu         sync.RWMutex
}

// NewContainerMap creates an empty registry.
func NewContainerMap(opts ...Option) *ContainerMap {
	m := &ContainerMap{
		providers: make(map[Key]Provider),
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Register installs one provider built from factory under all keys.
// A lookup of any of the keys never observes a partial registration.
func (m *ContainerMap) Register(keys []Key, lifetime Lifetime, factory Factory, opts ...RegisterOption) error {
	if len(keys) == 0 {
		return ErrEmptyKeys
	}

	cfg := mergeOptions(opts)

	provider, err := NewProvider(lifetime, factory, cfg.target)
	if err != nil {
		return err
	}

	m.install(keys, provider)

	return nil
}

// RegisterInstance installs an already constructed singleton under all keys.
func (m *ContainerMap) RegisterInstance(keys []Key, instance any) error {
	if len(keys) == 0 {
		return ErrEmptyKeys
	}

	m.install(keys, NewInstanceProvider(instance))

	return nil
}

// RegisterProvider installs a caller supplied provider under all keys.
func (m *ContainerMap) RegisterProvider(keys []Key, provider Provider) error {
	if len(keys) == 0 {
		return ErrEmptyKeys
	}

	if provider == nil {
		return ErrInvalidFactory
	}

	m.install(keys, provider)

	return nil
}

func (m *ContainerMap) install(keys []Key, provider Provider) {
	m.mu.Lock()
	for _, key := range keys {
		m.providers[key] = provider
	}
	m.mu.Unlock()

	m.logger.Debug("registered provider",
		zap.Stringers("keys", keys),
		zap.Stringer("lifetime", provider.Lifetime()),
	)
}

// Get returns the instance for key, or nil without error when key is absent.
// Factory errors are returned wrapped with CodeFactoryFailed.
func (m *ContainerMap) Get(key Key) (any, error) {
	m.mu.RLock()
	provider, found := m.providers[key]
	chain := m.middleware
	m.mu.RUnlock()

	if chain.empty() {
		return m.resolve(key, provider, found)
	}

	if err := chain.beforeResolve(key); err != nil {
		return nil, err
	}

	start := time.Now()
	instance, err := m.resolve(key, provider, found)

	res := Resolution{
		Key:      key,
		Found:    found,
		Instance: instance,
		Err:      err,
		Duration: time.Since(start),
	}
	if found {
		res.Lifetime = provider.Lifetime()
	}

	if mwErr := chain.afterResolve(res); mwErr != nil {
		return nil, mwErr
	}

	return instance, err
}

func (m *ContainerMap) resolve(key Key, provider Provider, found bool) (any, error) {
	if !found {
		return nil, nil
	}

	instance, err := provider.Get()
	if err != nil {
		return nil, NewFactoryError(key, provider.Lifetime(), err)
	}

	return instance, nil
}

// Has reports whether key is registered.
func (m *ContainerMap) Has(key Key) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.providers[key]

	return exists
}

// Provider returns the provider registered for key.
func (m *ContainerMap) Provider(key Key) (Provider, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.providers[key]

	return p, ok
}

// Remove deletes key. It reports whether key was registered.
// Instances already handed out are unaffected.
func (m *ContainerMap) Remove(key Key) bool {
	m.mu.Lock()
	_, exists := m.providers[key]
	delete(m.providers, key)
	m.mu.Unlock()

	if exists {
		m.logger.Debug("removed key", zap.Stringer("key", key))
	}

	return exists
}

// RemoveByTarget deletes every key whose provider serves target.
// It reports whether anything was removed.
func (m *ContainerMap) RemoveByTarget(target reflect.Type) bool {
	if target == nil {
		return false
	}

	var removed []Key

	m.mu.Lock()
	for key, provider := range m.providers {
		if provider.Target() == target {
			delete(m.providers, key)
			removed = append(removed, key)
		}
	}
	m.mu.Unlock()

	if len(removed) == 0 {
		return false
	}

	m.logger.Debug("removed target",
		zap.Stringer("target", target),
		zap.Stringers("keys", removed),
	)

	return true
}

// Use appends middleware. Middleware runs in the order it was added.
func (m *ContainerMap) Use(middleware Middleware) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.middleware = m.middleware.with(middleware)
}

// Len returns the number of registered keys.
func (m *ContainerMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.providers)
}

// ListMappings returns one Mapping per key, sorted by key.
func (m *ContainerMap) ListMappings() []Mapping {
	m.mu.RLock()
	mappings := make([]Mapping, 0, len(m.providers))
	for key, provider := range m.providers {
		mappings = append(mappings, Mapping{
			Key:      key,
			Target:   provider.Target(),
			Lifetime: provider.Lifetime(),
		})
	}
	m.mu.RUnlock()

	slices.SortFunc(mappings, func(a, b Mapping) int {
		return strings.Compare(string(a.Key), string(b.Key))
	})

	return mappings
}

// Diagnostics renders every mapping on its own line.
func (m *ContainerMap) Diagnostics() string {
	mappings := m.ListMappings()

	var b strings.Builder
	fmt.Fprintf(&b, "ContainerMap (%d keys)\n", len(mappings))

	for _, mapping := range mappings {
		b.WriteString("  ")
		b.WriteString(mapping.String())
		b.WriteByte('\n')
	}

	return b.String()
}

// String implements fmt.Stringer.
func (m *ContainerMap) String() string {
	return m.Diagnostics()
}

// Get resolves KeyOf[T]. found is false when nothing is registered or the
// provider served nothing.
func Get[T any](m *ContainerMap) (value T, found bool, err error) {
	return getAs[T](m, KeyOf[T]())
}

// GetKey resolves key as T.
func GetKey[T any](m *ContainerMap, key Key) (value T, found bool, err error) {
	return getAs[T](m, key)
}

// Require resolves KeyOf[T] and turns absence into ErrMissingDependency.
func Require[T any](m *ContainerMap) (T, error) {
	key := KeyOf[T]()

	value, found, err := getAs[T](m, key)
	if err != nil {
		return value, err
	}

	if !found {
		return value, ErrMissingDependency(key)
	}

	return value, nil
}

// Remove deletes KeyOf[T].
func Remove[T any](m *ContainerMap) bool {
	return m.Remove(KeyOf[T]())
}

// RemoveByTargetOf deletes every key served by T.
func RemoveByTargetOf[T any](m *ContainerMap) bool {
	return m.RemoveByTarget(TypeOf[T]())
}

func getAs[T any](m *ContainerMap, key Key) (T, bool, error) {
	var zero T

	instance, err := m.Get(key)
	if err != nil || instance == nil {
		return zero, false, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, false, ErrTypeMismatch(key, instance)
	}

	return typed, true, nil
}
