package berth

import (
	"fmt"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeInvalidFactory indicates a factory function is nil
	CodeInvalidFactory = "INVALID_FACTORY"

	// CodeEmptyKeys indicates a registration without any key
	CodeEmptyKeys = "EMPTY_KEYS"

	// CodeFactoryFailed indicates a factory returned an error
	CodeFactoryFailed = "FACTORY_FAILED"

	// CodeMissingDependency indicates a required key resolved to nothing
	CodeMissingDependency = "MISSING_DEPENDENCY"

	// CodeNotConfigured indicates the facade was used with no resolver installed
	CodeNotConfigured = "NOT_CONFIGURED"

	// CodeTypeMismatch indicates a resolved instance is not of the requested type
	CodeTypeMismatch = "TYPE_MISMATCH"

	// CodeParamsUnsupported indicates resolution arguments were passed to a
	// resolver that cannot take them
	CodeParamsUnsupported = "PARAMS_UNSUPPORTED"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// ErrInvalidFactory is returned when a nil factory is registered.
var ErrInvalidFactory = errs.NewError(CodeInvalidFactory, "factory cannot be nil", nil)

// ErrEmptyKeys is returned when a registration names no keys.
var ErrEmptyKeys = errs.NewError(CodeEmptyKeys, "at least one key is required", nil)

// ErrNotConfigured is returned by the facade when no resolver is installed.
var ErrNotConfigured = errs.NewError(CodeNotConfigured, "dependency resolver is not configured", nil)

// ErrMissingDependencySentinel matches any missing dependency error.
var ErrMissingDependencySentinel = errs.NewError(CodeMissingDependency, "missing required dependency", nil)

// ErrFactoryFailedSentinel matches any factory failure.
var ErrFactoryFailedSentinel = errs.NewError(CodeFactoryFailed, "factory failed", nil)

// ErrTypeMismatchSentinel matches any type mismatch.
var ErrTypeMismatchSentinel = errs.NewError(CodeTypeMismatch, "type mismatch", nil)

// ErrParamsUnsupportedSentinel matches any rejected resolution arguments.
var ErrParamsUnsupportedSentinel = errs.NewError(CodeParamsUnsupported, "resolver does not accept resolution arguments", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// ErrMissingDependency creates the error raised when a required key is absent.
func ErrMissingDependency(key Key) *errs.Error {
	return errs.NewError(
		CodeMissingDependency,
		fmt.Sprintf("missing required dependency of type %s", key),
		nil,
	).WithContext("key", key).(*errs.Error)
}

// NewFactoryError wraps a factory failure for key.
func NewFactoryError(key Key, lifetime Lifetime, cause error) *errs.Error {
	return errs.NewError(
		CodeFactoryFailed,
		fmt.Sprintf("factory for %s (%s) failed", key, lifetime),
		cause,
	).WithContext("key", key).
		WithContext("lifetime", lifetime.String()).(*errs.Error)
}

// ErrTypeMismatch creates an error for a resolved instance of the wrong type.
func ErrTypeMismatch(key Key, actual any) *errs.Error {
	return errs.NewError(
		CodeTypeMismatch,
		fmt.Sprintf("dependency %s type mismatch: got %T", key, actual),
		nil,
	).WithContext("key", key).
		WithContext("actual_type", fmt.Sprintf("%T", actual)).(*errs.Error)
}

// ErrParamsUnsupported creates the error returned when arguments are passed
// to a resolver that does not implement ParamResolver.
func ErrParamsUnsupported(key Key) *errs.Error {
	return errs.NewError(
		CodeParamsUnsupported,
		fmt.Sprintf("resolver does not accept resolution arguments for %s", key),
		nil,
	).WithContext("key", key).(*errs.Error)
}
