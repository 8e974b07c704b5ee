// Package bound infers the type parameter constraints a generated function
// needs for one trait.
package bound

import (
	"slices"
	"strings"

	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/seitarof/gen-derive/internal/diag"
	"github.com/seitarof/gen-derive/internal/directive"
	"github.com/seitarof/gen-derive/internal/model"
)

// DefaultMarkers are the zero-size marker types whose type arguments never
// need a constraint.
var DefaultMarkers = []string{"Phantom", "PhantomData"}

// Request describes what a trait needs from the type parameters it touches.
type Request struct {
	// Constraint is added for every type parameter found in a field that
	// needs a bound, e.g. "comparable".
	Constraint string

	// NeedsBound selects the fields whose types are walked.
	NeedsBound func(f *model.Field) bool

	// Markers lists marker type names whose arguments are skipped.
	Markers []string
}

// Constraint returns the Go constraint a trait needs from a type parameter
// used by a field.
func Constraint(t directive.Trait) string {
	switch t {
	case directive.PartialEq, directive.Eq, directive.Hash:
		return "comparable"
	case directive.PartialOrd, directive.Ord:
		return "cmp.Ordered"
	default:
		return "any"
	}
}

// For returns the default request of a trait.
func For(t directive.Trait, markers []string) Request {
	req := Request{Constraint: Constraint(t), Markers: markers}
	switch t {
	case directive.Debug, directive.Hash, directive.PartialEq, directive.PartialOrd, directive.Ord:
		req.NeedsBound = func(f *model.Field) bool {
			return !f.Config.Ignored(t) && !f.Config.Bound(t).Explicit
		}
	default:
		req.NeedsBound = func(f *model.Field) bool {
			return !f.Config.Bound(t).Explicit
		}
	}
	return req
}

// Generics is the inferred type parameter list of one generated function.
type Generics struct {
	params     []string
	predicates []directive.Predicate
}

// Predicates returns the de-duplicated predicates in insertion order.
func (g Generics) Predicates() []directive.Predicate { return g.predicates }

// Constraint returns the merged constraint of one type parameter.
func (g Generics) Constraint(param string) string {
	var parts []string
	for _, p := range g.predicates {
		if p.Param != param || p.Constraint == "any" || slices.Contains(parts, p.Constraint) {
			continue
		}
		parts = append(parts, p.Constraint)
	}
	switch len(parts) {
	case 0:
		return "any"
	case 1:
		return parts[0]
	default:
		return "interface{ " + strings.Join(parts, "; ") + " }"
	}
}

// Merge returns the union of g and o. Both must describe the same
// declaration.
func (g Generics) Merge(o Generics) Generics {
	set := linkedhashset.New()
	for _, p := range g.predicates {
		set.Add(p)
	}
	for _, p := range o.predicates {
		set.Add(p)
	}
	return Generics{params: g.params, predicates: collect(set)}
}

// ParamList renders the type parameter list of the generated function,
// e.g. "[K comparable, V any]". It is empty for a non-generic type.
func (g Generics) ParamList() string {
	if len(g.params) == 0 {
		return ""
	}
	parts := make([]string, 0, len(g.params))
	for _, name := range g.params {
		parts = append(parts, name+" "+g.Constraint(name))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ArgList renders the type argument list, e.g. "[K, V]".
func (g Generics) ArgList() string {
	if len(g.params) == 0 {
		return ""
	}
	return "[" + strings.Join(g.params, ", ") + "]"
}

// Infer computes the predicates of a trait implementation:
//
//  1. every declared type parameter with its declared constraint;
//  2. every explicit field-level bound, in field order;
//  3. the explicit type-level bound, which stops inference; or
//  4. the request's constraint for every type parameter referenced by a
//     field that needs a bound, in declaration order.
func Infer(decl *model.TypeDecl, t directive.Trait, req Request) Generics {
	g, set := declared(decl)

	fields := decl.AllFields()
	for _, f := range fields {
		if b := f.Config.Bound(t); b.Explicit {
			for _, p := range b.Predicates {
				set.Add(p)
			}
		}
	}

	if b := decl.Config.Bound(t); b.Explicit {
		for _, p := range b.Predicates {
			set.Add(p)
		}
		g.predicates = collect(set)
		return g
	}

	if len(decl.Params) > 0 {
		used := map[string]bool{}
		for _, f := range fields {
			if req.NeedsBound != nil && !req.NeedsBound(f) {
				continue
			}
			walk(f.Type, decl, req.Markers, used)
		}
		for _, p := range decl.Params {
			if used[p.Name] {
				set.Add(directive.Predicate{Param: p.Name, Constraint: req.Constraint})
			}
		}
	}

	g.predicates = collect(set)
	return g
}

// Declared returns the type parameters with their declared constraints
// only.
func Declared(decl *model.TypeDecl) Generics {
	g, set := declared(decl)
	g.predicates = collect(set)
	return g
}

func declared(decl *model.TypeDecl) (Generics, *linkedhashset.Set) {
	set := linkedhashset.New()
	g := Generics{params: make([]string, 0, len(decl.Params))}
	for _, p := range decl.Params {
		g.params = append(g.params, p.Name)
		c := p.Constraint
		if c == "" {
			c = "any"
		}
		set.Add(directive.Predicate{Param: p.Name, Constraint: c})
	}
	return g, set
}

func collect(set *linkedhashset.Set) []directive.Predicate {
	out := make([]directive.Predicate, 0, set.Size())
	for _, v := range set.Values() {
		out = append(out, v.(directive.Predicate))
	}
	return out
}

// walk records every type parameter of decl referenced by t. Arguments of
// marker types are skipped.
func walk(t *model.TypeExpr, decl *model.TypeDecl, markers []string, used map[string]bool) {
	if t == nil {
		return
	}
	switch t.Kind {
	case model.KindTypeParam:
		if decl.HasParam(t.Name) {
			used[t.Name] = true
		}
		return
	case model.KindNamed:
		if slices.Contains(markers, t.Name) {
			return
		}
	}
	for _, c := range t.Children() {
		walk(c, decl, markers, used)
	}
}

// Validate reports explicit predicates that constrain something other than a
// declared type parameter.
func Validate(decl *model.TypeDecl) error {
	var errs []*diag.Error
	check := func(cfg directive.Config) {
		for _, t := range directive.Traits() {
			for _, p := range cfg.Bound(t).Predicates {
				if decl.HasParam(p.Param) {
					continue
				}
				e := diag.Errorf(diag.CodeInvalidBound, cfg.Pos,
					"`bound` constrains `%s`, which is not a type parameter of `%s`", p.Param, decl.Name).WithTrait(t.String())
				e.Key = "bound"
				errs = append(errs, e)
			}
		}
	}
	check(decl.Config)
	for _, f := range decl.AllFields() {
		check(f.Config)
	}
	return diag.Join(errs)
}
