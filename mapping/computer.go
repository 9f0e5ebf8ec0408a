package mapping

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/xraph/berth"
)

// Association is one key -> target pair considered by the planner.
type Association struct {
	Key    berth.Key
	Target string
	Source string // candidate that supplied the key
	Mapped bool   // redirected by a MapRule
	Winner bool   // the target a Get for Key resolves to
}

// Omission is a key left out because several targets compete for it.
type Omission struct {
	Key     berth.Key
	Targets []string
}

// Registration is one planned provider: every key that resolves to Target.
type Registration struct {
	Keys     []berth.Key
	Target   string
	Lifetime berth.Lifetime

	// Constructor is the index of the chosen constructor, -1 for the
	// implicit one. Inject lists its injectable parameter types in order.
	Constructor int
	Inject      []string
}

// Plan is the result of Compute.
type Plan struct {
	Registrations []Registration
	Associations  []Association // every pair, winners and losers
	Omitted       []Omission
	Warnings      []error
}

// Err combines the warnings into one error, nil when there are none.
func (p *Plan) Err() error {
	return multierr.Combine(p.Warnings...)
}

// Lookup returns the registration serving key.
func (p *Plan) Lookup(key berth.Key) (Registration, bool) {
	for _, reg := range p.Registrations {
		for _, k := range reg.Keys {
			if k == key {
				return reg, true
			}
		}
	}

	return Registration{}, false
}

// Targets returns every target associated with key, winner last.
func (p *Plan) Targets(key berth.Key) []string {
	var (
		targets []string
		winner  string
	)

	for _, a := range p.Associations {
		if a.Key != key {
			continue
		}

		if a.Winner {
			winner = a.Target

			continue
		}

		targets = append(targets, a.Target)
	}

	if winner != "" {
		targets = append(targets, winner)
	}

	return targets
}

// Option configures a Computer.
type Option func(*Computer)

// WithLogger sets the logger warnings are reported to.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Computer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Computer derives registrations from Settings and candidates.
type Computer struct {
	logger *zap.Logger
}

// NewComputer creates a Computer.
func NewComputer(opts ...Option) *Computer {
	c := &Computer{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compute plans with a default Computer.
func Compute(settings Settings, candidates []Candidate) *Plan {
	return NewComputer().Compute(settings, candidates)
}

// keyGroup collects the distinct targets competing for one key.
type keyGroup struct {
	key     berth.Key
	targets []int // indexes into associations, one per distinct target
}

// Compute builds the plan. Candidate order is significant: when several
// targets compete for a key and SingleInterfaceImplementation is unset, the
// target that first appeared last wins.
func (c *Computer) Compute(settings Settings, candidates []Candidate) *Plan {
	rules, warnings := compileRules(settings)
	plan := &Plan{Warnings: warnings}
	behaviors := settings.Behaviors

	// Module filter and index.
	pool := make([]*Candidate, 0, len(candidates))
	byName := make(map[string]*Candidate, len(candidates))

	for i := range candidates {
		cand := &candidates[i]
		if !rules.admitsModule(cand.Module) {
			continue
		}

		if _, dup := byName[cand.Name]; dup {
			plan.Warnings = append(plan.Warnings, ErrDuplicateCandidate(cand.Name))

			continue
		}

		byName[cand.Name] = cand
		pool = append(pool, cand)
	}

	c.checkTypeRules(plan, rules, pool)

	// Step 1: eligibility.
	eligible := make([]*Candidate, 0, len(pool))
	eligibleByName := make(map[string]int, len(pool))

	for _, cand := range pool {
		if reason := cand.unusableReason(); reason != "" {
			if rule, ok := rules.typeRule(cand.Name); ok {
				plan.Warnings = append(plan.Warnings, ErrUnusableType(cand.Name, rule.Pattern, reason))
			}

			continue
		}

		eligibleByName[cand.Name] = len(eligible)
		eligible = append(eligible, cand)
	}

	// Steps 2 and 3: default keys, redirected by map rules.
	var groups []*keyGroup

	groupByKey := make(map[berth.Key]*keyGroup)

	for _, cand := range eligible {
		for _, key := range defaultKeys(cand, behaviors, byName) {
			assoc := Association{Key: key, Target: cand.Name, Source: cand.Name}

			if target, rule, ok := rules.mapKey(string(key)); ok {
				if _, known := eligibleByName[target]; known {
					assoc.Target = target
					assoc.Mapped = true
				} else {
					plan.Warnings = append(plan.Warnings, ErrMapTargetMissing(key, rule, target))
				}
			}

			group := groupByKey[key]
			if group == nil {
				group = &keyGroup{key: key}
				groupByKey[key] = group
				groups = append(groups, group)
			}

			if !group.hasTarget(plan.Associations, assoc.Target) {
				group.targets = append(group.targets, len(plan.Associations))
				plan.Associations = append(plan.Associations, assoc)
			}
		}
	}

	// Step 5: conflict resolution.
	keysByTarget := make(map[string][]berth.Key)

	for _, group := range groups {
		if len(group.targets) > 1 && behaviors.Has(SingleInterfaceImplementation) {
			omission := Omission{Key: group.key}
			for _, idx := range group.targets {
				omission.Targets = append(omission.Targets, plan.Associations[idx].Target)
			}

			plan.Omitted = append(plan.Omitted, omission)
			c.logger.Debug("omitted ambiguous key",
				zap.Stringer("key", group.key),
				zap.Strings("targets", omission.Targets),
			)

			continue
		}

		winner := group.targets[len(group.targets)-1]
		plan.Associations[winner].Winner = true

		target := plan.Associations[winner].Target
		keysByTarget[target] = append(keysByTarget[target], group.key)
	}

	// Steps 4 and 6: one registration per target, in candidate order.
	for _, cand := range eligible {
		keys := keysByTarget[cand.Name]
		if len(keys) == 0 {
			continue
		}

		ctor, _ := cand.constructor()

		reg := Registration{
			Keys:        keys,
			Target:      cand.Name,
			Lifetime:    settings.defaultLifetime(),
			Constructor: ctor,
		}

		if rule, ok := rules.typeRule(cand.Name); ok {
			reg.Lifetime = rule.lifetime(settings.defaultLifetime())
		}

		if ctor >= 0 {
			reg.Inject = cand.Constructors[ctor].injected()
		}

		plan.Registrations = append(plan.Registrations, reg)
	}

	for _, w := range plan.Warnings {
		c.logger.Warn("mapping configuration warning", zap.Error(w))
	}

	return plan
}

// checkTypeRules warns about type rules that match no candidate.
func (c *Computer) checkTypeRules(plan *Plan, rules ruleSet, pool []*Candidate) {
	for _, rule := range rules.types {
		matched := false

		for _, cand := range pool {
			if rule.re.MatchString(cand.Name) {
				matched = true

				break
			}
		}

		if !matched {
			plan.Warnings = append(plan.Warnings, ErrRuleUnmatched(rule.Pattern))
		}
	}
}

func (g *keyGroup) hasTarget(assocs []Association, target string) bool {
	for _, idx := range g.targets {
		if assocs[idx].Target == target {
			return true
		}
	}

	return false
}

// defaultKeys returns the keys cand is registered under before map rules,
// without duplicates.
func defaultKeys(cand *Candidate, behaviors Behaviors, byName map[string]*Candidate) []berth.Key {
	var keys []berth.Key

	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}

		seen[name] = true
		keys = append(keys, berth.Key(name))
	}

	if behaviors.Has(IncludeClasses) {
		add(cand.Name)
	}

	for _, iface := range cand.Interfaces {
		add(iface)
	}

	for _, base := range cand.BaseTypes {
		if base == cand.Name {
			continue
		}

		if b, ok := byName[base]; ok && b.IsAbstract {
			if behaviors.Has(IncludeAbstractClasses) {
				add(base)
			}

			continue
		}

		if behaviors.Has(IncludeBaseClasses) {
			add(base)
		}
	}

	return keys
}
