package resolver

import (
	"github.com/seitarof/gen-derive/internal/directive"
	"github.com/seitarof/gen-derive/internal/model"
)

// Resolver resolves per-field strategies of a trait.
type Resolver interface {
	Resolve(targets []Target, derived DerivedSet) []FieldPlan
}

// Rule tries to produce a plan for one field.
type Rule interface {
	Name() string
	Try(t Target) (FieldPlan, bool)
}

// Target is one field to implement a trait for. X and Y are the Go
// expressions reading the field on the left and right side, H names the
// *maphash.Hash of a Hash implementation. Markers lists the zero-size
// marker type names, whose values carry no data.
type Target struct {
	Trait   directive.Trait
	Field   *model.Field
	X       string
	Y       string
	H       string
	Markers []string
}

type resolverImpl struct {
	rules   []Rule
	derived DerivedSet
}

// New builds a resolver with a rule chain.
func New(rules ...Rule) Resolver {
	return &resolverImpl{rules: rules}
}

func (r *resolverImpl) Resolve(targets []Target, derived DerivedSet) []FieldPlan {
	r.derived = derived
	for _, rule := range r.rules {
		if aware, ok := rule.(DerivedAware); ok {
			aware.SetDerivedSet(r.derived)
		}
	}

	plans := make([]FieldPlan, 0, len(targets))
	for _, t := range targets {
		plans = append(plans, r.resolveOne(t))
	}
	return plans
}

func (r *resolverImpl) resolveOne(t Target) FieldPlan {
	for _, rule := range r.rules {
		if plan, ok := rule.Try(t); ok {
			return plan
		}
	}
	return unsupported(t, "no rule applies")
}
