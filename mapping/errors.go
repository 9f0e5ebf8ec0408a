package mapping

import (
	"fmt"

	"github.com/xraph/go-utils/errs"

	"github.com/xraph/berth"
)

// Warning codes. Plan warnings never abort computation.
const (
	// CodeInvalidPattern indicates a rule pattern that does not compile
	CodeInvalidPattern = "INVALID_PATTERN"

	// CodeRuleUnmatched indicates a type rule that matches no candidate
	CodeRuleUnmatched = "RULE_UNMATCHED"

	// CodeUnusableType indicates a type rule naming a type that cannot be mapped
	CodeUnusableType = "UNUSABLE_TYPE"

	// CodeMapTargetMissing indicates a map rule redirecting to an unknown type
	CodeMapTargetMissing = "MAP_TARGET_MISSING"

	// CodeDuplicateCandidate indicates two candidates with the same name
	CodeDuplicateCandidate = "DUPLICATE_CANDIDATE"

	// CodeMissingFactory indicates a planned target without a factory
	CodeMissingFactory = "MISSING_FACTORY"
)

// Sentinels for errors.Is checks against plan warnings.
var (
	ErrInvalidPatternSentinel   = errs.NewError(CodeInvalidPattern, "invalid pattern", nil)
	ErrRuleUnmatchedSentinel    = errs.NewError(CodeRuleUnmatched, "type rule matches nothing", nil)
	ErrUnusableTypeSentinel     = errs.NewError(CodeUnusableType, "type cannot be mapped", nil)
	ErrMapTargetMissingSentinel = errs.NewError(CodeMapTargetMissing, "map target not found", nil)
	ErrMissingFactorySentinel   = errs.NewError(CodeMissingFactory, "missing factory", nil)
)

// ErrInvalidPattern reports a rule whose pattern does not compile.
func ErrInvalidPattern(section string, index int, pattern string, cause error) *errs.Error {
	return errs.NewError(
		CodeInvalidPattern,
		fmt.Sprintf("%s[%d]: invalid pattern %q", section, index, pattern),
		cause,
	).WithContext("section", section).
		WithContext("pattern", pattern).(*errs.Error)
}

// ErrRuleUnmatched reports a type rule that matched no candidate.
func ErrRuleUnmatched(pattern string) *errs.Error {
	return errs.NewError(
		CodeRuleUnmatched,
		fmt.Sprintf("type rule %q matches no candidate", pattern),
		nil,
	).WithContext("pattern", pattern).(*errs.Error)
}

// ErrUnusableType reports a type named by a rule that cannot be mapped.
func ErrUnusableType(name, pattern, reason string) *errs.Error {
	return errs.NewError(
		CodeUnusableType,
		fmt.Sprintf("type %s named by rule %q cannot be mapped: %s", name, pattern, reason),
		nil,
	).WithContext("type", name).
		WithContext("pattern", pattern).(*errs.Error)
}

// ErrMapTargetMissing reports a map rule whose target is not a mappable type.
func ErrMapTargetMissing(key berth.Key, rule MapRule, target string) *errs.Error {
	return errs.NewError(
		CodeMapTargetMissing,
		fmt.Sprintf("map %q -> %q: target %s for key %s is not a mappable type", rule.From, rule.To, target, key),
		nil,
	).WithContext("key", key).
		WithContext("target", target).(*errs.Error)
}

// ErrDuplicateCandidate reports a candidate name seen twice.
func ErrDuplicateCandidate(name string) *errs.Error {
	return errs.NewError(
		CodeDuplicateCandidate,
		fmt.Sprintf("candidate %s listed more than once; first one kept", name),
		nil,
	).WithContext("type", name).(*errs.Error)
}

// ErrMissingFactory reports a planned target with no factory to install.
func ErrMissingFactory(target string) *errs.Error {
	return errs.NewError(
		CodeMissingFactory,
		fmt.Sprintf("no factory for planned target %s", target),
		nil,
	).WithContext("target", target).(*errs.Error)
}
