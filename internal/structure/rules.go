package structure

import (
	"context"
	"fmt"
	"math"

	"nucascade/pkg/nucleus"
)

// Rule defines a validation executed against one decay scheme.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, scheme *nucleus.DecayScheme) (nucleus.Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(NewLevelOrderingRule())
	engine.Register(NewBranchTargetRule())
	engine.Register(NewBranchProbabilitySumRule())
	engine.Register(NewSpinParityRangeRule())
	return engine
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, scheme *nucleus.DecayScheme) (nucleus.Result, error) {
	var combined nucleus.Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, scheme)
		if err != nil {
			return nucleus.Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}

// Validate runs the default rules engine over every scheme in the database
// and fails with a RuleViolationError when blocking violations are present.
func Validate(ctx context.Context, db Database) (nucleus.Result, error) {
	engine := NewDefaultRulesEngine()
	nuclides, err := db.Nuclides(ctx)
	if err != nil {
		return nucleus.Result{}, fmt.Errorf("listing nuclides: %w", err)
	}
	var combined nucleus.Result
	for _, n := range nuclides {
		scheme, err := db.Scheme(ctx, n)
		if err != nil {
			return nucleus.Result{}, fmt.Errorf("loading scheme for %s: %w", n, err)
		}
		res, err := engine.Evaluate(ctx, scheme)
		if err != nil {
			return nucleus.Result{}, fmt.Errorf("validating scheme for %s: %w", n, err)
		}
		combined.Merge(res)
	}
	if combined.HasBlocking() {
		return combined, nucleus.RuleViolationError{Result: combined}
	}
	return combined, nil
}

// LevelOrderingRule blocks schemes whose levels are not sorted by strictly
// increasing non-negative energy.
type LevelOrderingRule struct{}

// NewLevelOrderingRule constructs the rule.
func NewLevelOrderingRule() LevelOrderingRule { return LevelOrderingRule{} }

// Name identifies the rule.
func (LevelOrderingRule) Name() string { return "level-ordering" }

// Evaluate checks level energy ordering.
func (r LevelOrderingRule) Evaluate(_ context.Context, scheme *nucleus.DecayScheme) (nucleus.Result, error) {
	var res nucleus.Result
	prev := math.Inf(-1)
	for i, lv := range scheme.Levels {
		if lv.Energy < 0 {
			res.Violations = append(res.Violations, nucleus.Violation{
				Rule:     r.Name(),
				Severity: nucleus.SeverityBlock,
				Message:  fmt.Sprintf("level %d has negative energy %v MeV", i, lv.Energy),
				Nuclide:  scheme.Nuclide,
				Level:    i,
			})
		}
		if lv.Energy <= prev {
			res.Violations = append(res.Violations, nucleus.Violation{
				Rule:     r.Name(),
				Severity: nucleus.SeverityBlock,
				Message:  fmt.Sprintf("level %d energy %v MeV does not exceed the previous level", i, lv.Energy),
				Nuclide:  scheme.Nuclide,
				Level:    i,
			})
		}
		prev = lv.Energy
	}
	return res, nil
}

// BranchTargetRule blocks gamma branches that do not point at a lower
// tabulated level.
type BranchTargetRule struct{}

// NewBranchTargetRule constructs the rule.
func NewBranchTargetRule() BranchTargetRule { return BranchTargetRule{} }

// Name identifies the rule.
func (BranchTargetRule) Name() string { return "branch-target" }

// Evaluate checks that every branch target is a valid downward transition.
func (r BranchTargetRule) Evaluate(_ context.Context, scheme *nucleus.DecayScheme) (nucleus.Result, error) {
	var res nucleus.Result
	for i, lv := range scheme.Levels {
		for _, br := range lv.Branches {
			if br.Target < 0 || br.Target >= i {
				res.Violations = append(res.Violations, nucleus.Violation{
					Rule:     r.Name(),
					Severity: nucleus.SeverityBlock,
					Message:  fmt.Sprintf("level %d branch targets level %d, which is not below it", i, br.Target),
					Nuclide:  scheme.Nuclide,
					Level:    i,
				})
			}
		}
	}
	return res, nil
}

// BranchProbabilitySumRule blocks levels whose branch probabilities are
// negative or do not sum to one.
type BranchProbabilitySumRule struct{}

// NewBranchProbabilitySumRule constructs the rule.
func NewBranchProbabilitySumRule() BranchProbabilitySumRule { return BranchProbabilitySumRule{} }

// Name identifies the rule.
func (BranchProbabilitySumRule) Name() string { return "branch-probability-sum" }

const branchSumTolerance = 1e-6

// Evaluate checks branch probability normalization per level.
func (r BranchProbabilitySumRule) Evaluate(_ context.Context, scheme *nucleus.DecayScheme) (nucleus.Result, error) {
	var res nucleus.Result
	for i, lv := range scheme.Levels {
		if len(lv.Branches) == 0 {
			continue
		}
		var sum float64
		bad := false
		for _, br := range lv.Branches {
			if br.Probability < 0 {
				bad = true
			}
			sum += br.Probability
		}
		if bad || math.Abs(sum-1) > branchSumTolerance {
			res.Violations = append(res.Violations, nucleus.Violation{
				Rule:     r.Name(),
				Severity: nucleus.SeverityBlock,
				Message:  fmt.Sprintf("level %d branch probabilities sum to %v", i, sum),
				Nuclide:  scheme.Nuclide,
				Level:    i,
			})
		}
	}
	return res, nil
}

// SpinParityRangeRule warns about implausible spin assignments or invalid
// parities.
type SpinParityRangeRule struct{}

// NewSpinParityRangeRule constructs the rule.
func NewSpinParityRangeRule() SpinParityRangeRule { return SpinParityRangeRule{} }

// Name identifies the rule.
func (SpinParityRangeRule) Name() string { return "spin-parity-range" }

const maxPlausibleTwoJ = 40

// Evaluate checks level spin and parity assignments.
func (r SpinParityRangeRule) Evaluate(_ context.Context, scheme *nucleus.DecayScheme) (nucleus.Result, error) {
	var res nucleus.Result
	for i, lv := range scheme.Levels {
		if lv.TwoJ < 0 || lv.TwoJ > maxPlausibleTwoJ {
			res.Violations = append(res.Violations, nucleus.Violation{
				Rule:     r.Name(),
				Severity: nucleus.SeverityWarn,
				Message:  fmt.Sprintf("level %d has implausible spin 2J=%d", i, lv.TwoJ),
				Nuclide:  scheme.Nuclide,
				Level:    i,
			})
		}
		if !lv.Parity.Valid() {
			res.Violations = append(res.Violations, nucleus.Violation{
				Rule:     r.Name(),
				Severity: nucleus.SeverityBlock,
				Message:  fmt.Sprintf("level %d has invalid parity", i),
				Nuclide:  scheme.Nuclide,
				Level:    i,
			})
		}
	}
	return res, nil
}
