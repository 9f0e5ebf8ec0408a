// Package berth is a dependency-injection runtime.
//
// A ContainerMap maps keys to providers. Each provider applies one lifetime
// policy: None, Transient, LazySingleton, Singleton or WeakTransient. One
// provider may be registered under several keys and then serves the same
// cached state for all of them.
//
// Call sites resolve through a Facade, which delegates to whichever Resolver
// is installed:
//
//	m := berth.NewContainerMap()
//	_ = berth.RegisterTyped(m, []berth.Key{berth.KeyOf[Store]()}, berth.LifetimeLazySingleton, newStore)
//	berth.SetResolver(m)
//	store, err := berth.Resolve[Store]()
//
// The registration set itself is usually computed by the mapping package.
package berth

// New creates an empty ContainerMap.
func New(opts ...Option) *ContainerMap {
	return NewContainerMap(opts...)
}
