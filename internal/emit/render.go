package emit

import (
	"fmt"
	"strings"

	"github.com/seitarof/gen-derive/internal/bound"
	"github.com/seitarof/gen-derive/internal/diag"
	"github.com/seitarof/gen-derive/internal/directive"
	"github.com/seitarof/gen-derive/internal/matcher"
	"github.com/seitarof/gen-derive/internal/model"
	"github.com/seitarof/gen-derive/internal/resolver"
)

// funcWriter accumulates one generated function.
type funcWriter struct {
	b       strings.Builder
	helpers []string
	extra   []resolver.Helper
}

func (w *funcWriter) line(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *funcWriter) doc(name, text string) {
	w.line("// %s %s", name, text)
}

// open writes the signature of a generated function.
func (w *funcWriter) open(name string, g bound.Generics, params, results string) {
	if results != "" {
		results = " " + results
	}
	w.line("func %s%s(%s)%s {", name, g.ParamList(), params, results)
}

func (w *funcWriter) close() { w.line("}") }

func (w *funcWriter) use(plans []resolver.FieldPlan) {
	for _, p := range plans {
		w.helpers = append(w.helpers, p.Helpers...)
	}
}

func (w *funcWriter) fragment(decl *model.TypeDecl, t directive.Trait) Fragment {
	helpers := append(resolver.Helpers(w.helpers...), w.extra...)
	return Fragment{
		Type:    decl.Name,
		Trait:   t,
		Code:    strings.TrimRight(w.b.String(), "\n"),
		Helpers: helpers,
	}
}

// useOrdinal registers the ordinal helper of decl and returns the call on x.
// The type arguments are explicit since they cannot be inferred from an
// interface value.
func (w *funcWriter) useOrdinal(decl *model.TypeDecl, x string) string {
	name := resolver.OrdinalName(decl.Name)
	call := name + decl.ArgList() + "(" + x + ")"
	for _, h := range w.extra {
		if h.Name == name {
			return call
		}
	}
	w.extra = append(w.extra, resolver.Helper{Name: name, Code: ordinalSource(decl)})
	return call
}

// ordinalSource renders the function mapping each variant of an enum to its
// position. A nil value maps to -1.
func ordinalSource(decl *model.TypeDecl) string {
	var w funcWriter
	name := resolver.OrdinalName(decl.Name)
	w.open(name, bound.Declared(decl), "x "+decl.TypeString(), "int")
	w.line("switch x.(type) {")
	for _, v := range decl.Variants() {
		w.line("case %s:", v.TypeStr)
		w.line("return %d", v.Ordinal)
	}
	w.line("}")
	w.line("return -1")
	w.close()
	return strings.TrimRight(w.b.String(), "\n")
}

// resolveArm resolves every field of a unary arm. Skipped fields are
// dropped, unsupported ones are reported.
func resolveArm(ctx *Context, t directive.Trait, arm matcher.Arm, h string) ([]resolver.FieldPlan, []*diag.Error) {
	targets := make([]resolver.Target, 0, len(arm.Bindings))
	for _, b := range arm.Bindings {
		targets = append(targets, resolver.Target{Trait: t, Field: b.Field, X: b.Expr, H: h, Markers: ctx.Markers})
	}
	return filter(ctx.Resolver.Resolve(targets, ctx.Derived))
}

// resolvePair resolves every field of a binary arm.
func resolvePair(ctx *Context, t directive.Trait, p matcher.Pair) ([]resolver.FieldPlan, []*diag.Error) {
	targets := make([]resolver.Target, 0, len(p.Left.Bindings))
	for i, b := range p.Left.Bindings {
		targets = append(targets, resolver.Target{Trait: t, Field: b.Field, X: b.Expr, Y: p.Right.Bindings[i].Expr, Markers: ctx.Markers})
	}
	return filter(ctx.Resolver.Resolve(targets, ctx.Derived))
}

func filter(plans []resolver.FieldPlan) ([]resolver.FieldPlan, []*diag.Error) {
	var (
		out  []resolver.FieldPlan
		errs []*diag.Error
	)
	for _, p := range plans {
		switch p.Strategy {
		case resolver.StrategySkip:
		case resolver.StrategyUnsupported:
			errs = append(errs, diag.Errorf(diag.CodeUnsupportedField, p.Field.Pos,
				"%s of `%s` (%s): %s", p.Trait, p.Field.Label(), p.Field.Type, p.Reason))
		default:
			out = append(out, p)
		}
	}
	return out, errs
}

func expressions(plans []resolver.FieldPlan) []string {
	out := make([]string, 0, len(plans))
	for _, p := range plans {
		out = append(out, p.Expression)
	}
	return out
}

// composite renders a value of variant v built from one expression per
// field. A nil entry leaves the field at its zero value.
func composite(v *model.Variant, values map[*model.Field]string) string {
	switch v.Layout {
	case model.LayoutUnit:
		return v.TypeStr + "{}"
	case model.LayoutPositional:
		if e, ok := values[v.Fields[0]]; ok {
			return v.TypeStr + "(" + e + ")"
		}
		return "*new(" + v.TypeStr + ")"
	}
	parts := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		if e, ok := values[f]; ok {
			parts = append(parts, f.Name+": "+e)
		}
	}
	return v.TypeStr + "{" + strings.Join(parts, ", ") + "}"
}
