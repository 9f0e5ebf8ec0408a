package berth

import (
	"time"

	"go.uber.org/zap"
)

// Resolution describes one finished Get.
type Resolution struct {
	Key      Key
	Lifetime Lifetime // LifetimeNone when the key was not found
	Found    bool     // a provider was registered for Key
	Instance any
	Err      error
	Duration time.Duration
}

// Middleware provides hooks around ContainerMap.Get.
// Middleware can be used for logging, metrics, access control, testing, etc.
type Middleware interface {
	// BeforeResolve is called before resolving a key.
	// Return error to abort resolution.
	BeforeResolve(key Key) error

	// AfterResolve is called after resolving a key, including misses and
	// failures. A returned error replaces the result.
	AfterResolve(res Resolution) error
}

// middlewareChain is copied on write, so Get can read it outside the lock.
type middlewareChain []Middleware

func (m middlewareChain) empty() bool {
	return len(m) == 0
}

// with returns a new chain with middleware appended.
func (m middlewareChain) with(middleware Middleware) middlewareChain {
	if middleware == nil {
		return m
	}

	next := make(middlewareChain, len(m), len(m)+1)
	copy(next, m)

	return append(next, middleware)
}

// beforeResolve calls BeforeResolve on all middleware.
func (m middlewareChain) beforeResolve(key Key) error {
	for _, mw := range m {
		if err := mw.BeforeResolve(key); err != nil {
			return err
		}
	}
	return nil
}

// afterResolve calls AfterResolve on all middleware.
func (m middlewareChain) afterResolve(res Resolution) error {
	for _, mw := range m {
		if err := mw.AfterResolve(res); err != nil {
			return err
		}
	}
	return nil
}

// FuncMiddleware wraps functions as Middleware.
type FuncMiddleware struct {
	BeforeResolveFunc func(key Key) error
	AfterResolveFunc  func(res Resolution) error
}

// BeforeResolve implements Middleware.
func (f *FuncMiddleware) BeforeResolve(key Key) error {
	if f.BeforeResolveFunc != nil {
		return f.BeforeResolveFunc(key)
	}
	return nil
}

// AfterResolve implements Middleware.
func (f *FuncMiddleware) AfterResolve(res Resolution) error {
	if f.AfterResolveFunc != nil {
		return f.AfterResolveFunc(res)
	}
	return nil
}

// LoggingMiddleware logs misses at debug level and factory failures at
// error level.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FuncMiddleware{
		AfterResolveFunc: func(res Resolution) error {
			switch {
			case res.Err != nil:
				logger.Error("resolve failed",
					zap.Stringer("key", res.Key),
					zap.Stringer("lifetime", res.Lifetime),
					zap.Duration("duration", res.Duration),
					zap.Error(res.Err),
				)
			case !res.Found:
				logger.Debug("resolve miss", zap.Stringer("key", res.Key))
			}

			return nil
		},
	}
}
