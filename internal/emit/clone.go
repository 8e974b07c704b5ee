package emit

import (
	"strings"

	"github.com/seitarof/gen-derive/internal/bound"
	"github.com/seitarof/gen-derive/internal/diag"
	"github.com/seitarof/gen-derive/internal/directive"
	"github.com/seitarof/gen-derive/internal/matcher"
	"github.com/seitarof/gen-derive/internal/model"
	"github.com/seitarof/gen-derive/internal/resolver"
)

type cloneEmitter struct{}

func (cloneEmitter) Trait() directive.Trait { return directive.Clone }

func (cloneEmitter) Emit(decl *model.TypeDecl, ctx *Context) (Fragment, error) {
	const t = directive.Clone
	m := matcher.One(decl, "x", matcher.ModeValue)

	plans := make([][]resolver.FieldPlan, len(m.Arms))
	var (
		w    funcWriter
		errs []*diag.Error
	)
	for i, arm := range m.Arms {
		ps, perrs := resolveArm(ctx, t, arm, "")
		errs = append(errs, perrs...)
		w.use(ps)
		plans[i] = ps
	}
	if len(errs) > 0 {
		return Fragment{}, diag.Join(errs)
	}

	// A Copy type without type parameters is its own clone.
	byCopy := decl.Requested(directive.Copy) && len(decl.Params) == 0 && copyable(decl) == nil

	name := resolver.FuncName(t, decl.Name)
	typ := decl.TypeString()
	g := ctx.generics(decl, t)
	w.doc(name, "returns a deep copy of x.")
	w.open(name, g, "x "+typ, typ)
	switch {
	case byCopy:
		w.line("return x")
	case !decl.IsEnum():
		if plainCopy(plans[0]) {
			w.line("return x")
		} else {
			w.line("return %s", composite(m.Arms[0].Variant(), values(plans[0])))
		}
	default:
		var arms []int
		for i := range m.Arms {
			if !plainCopy(plans[i]) {
				arms = append(arms, i)
			}
		}
		if len(arms) > 0 {
			w.line("%s", matcher.Switch("x", true))
			for _, i := range arms {
				w.line("case %s:", m.Arms[i].Pattern.Case)
				w.line("return %s", composite(m.Arms[i].Variant(), values(plans[i])))
			}
			w.line("}")
		}
		w.line("return x")
	}
	w.close()

	if decl.Config.Get(t).CloneFrom {
		w.line("")
		cloneFrom(&w, decl, ctx, g, byCopy)
	}
	return w.fragment(decl, t), nil
}

// cloneFrom writes the in-place variant of Clone. Named struct fields are
// assigned one by one so that dst keeps its identity.
func cloneFrom(w *funcWriter, decl *model.TypeDecl, ctx *Context, g bound.Generics, byCopy bool) {
	name := resolver.CloneFromName(decl.Name)
	typ := decl.TypeString()
	w.doc(name, "overwrites dst with a deep copy of src.")
	w.open(name, g, "dst *"+typ+", src "+typ, "")
	defer w.close()

	if byCopy {
		w.line("*dst = src")
		return
	}
	v := decl.Variants()[0]
	if decl.IsEnum() || v.Layout != model.LayoutNamed {
		w.line("*dst = %s%s(src)", resolver.FuncName(directive.Clone, decl.Name), g.ArgList())
		return
	}

	dst := matcher.One(decl, "dst", matcher.ModePointer).Arms[0]
	src := matcher.One(decl, "src", matcher.ModeValue).Arms[0]
	for i, b := range dst.Bindings {
		target := resolver.Target{Trait: directive.Clone, Field: b.Field, X: src.Bindings[i].Expr, Markers: ctx.Markers}
		plan := ctx.Resolver.Resolve([]resolver.Target{target}, ctx.Derived)[0]
		w.helpers = append(w.helpers, plan.Helpers...)
		if plan.Strategy == resolver.StrategyDerived && b.Field.Type.Kind == model.KindNamed {
			if cf, ok := cloneFromRef(ctx, b.Field.Type); ok {
				w.line("%s(%s, %s)", cf, b.Ref, src.Bindings[i].Expr)
				continue
			}
		}
		w.line("%s = %s", b.Expr, plan.Expression)
	}
}

// cloneFromRef returns the CloneFrom function of a derived field type. Only
// types of the generated package expose one.
func cloneFromRef(ctx *Context, t *model.TypeExpr) (string, bool) {
	if !ctx.CloneFrom[resolver.DerivedKey{PkgPath: t.PkgPath, Name: t.Name}] || !ctx.Derived.Has(t, directive.Clone) {
		return "", false
	}
	fn := resolver.CloneFromName(t.Name)
	if len(t.Args) > 0 {
		args := make([]string, 0, len(t.Args))
		for _, a := range t.Args {
			args = append(args, a.String())
		}
		fn += "[" + strings.Join(args, ", ") + "]"
	}
	return fn, true
}

func plainCopy(plans []resolver.FieldPlan) bool {
	for _, p := range plans {
		if p.Strategy != resolver.StrategyCopy {
			return false
		}
	}
	return true
}

func values(plans []resolver.FieldPlan) map[*model.Field]string {
	out := make(map[*model.Field]string, len(plans))
	for _, p := range plans {
		if p.Strategy == resolver.StrategyZero {
			continue
		}
		out[p.Field] = p.Expression
	}
	return out
}

type copyEmitter struct{}

func (copyEmitter) Trait() directive.Trait { return directive.Copy }

func (copyEmitter) Emit(decl *model.TypeDecl, ctx *Context) (Fragment, error) {
	if err := copyable(decl); err != nil {
		return Fragment{}, err
	}
	name := resolver.FuncName(directive.Copy, decl.Name)
	typ := decl.TypeString()

	var w funcWriter
	w.doc(name, "returns a copy of x. The copy shares no memory with x.")
	w.open(name, ctx.generics(decl, directive.Copy), "x "+typ, typ)
	w.line("return x")
	w.close()
	return w.fragment(decl, directive.Copy), nil
}

// copyable reports the fields whose plain copy would alias memory.
func copyable(decl *model.TypeDecl) error {
	var errs []*diag.Error
	for _, f := range decl.AllFields() {
		if f.Type.Reference() {
			errs = append(errs, diag.Errorf(diag.CodeNotCopyable, f.Pos,
				"`%s` (%s) refers to shared memory and cannot be copied", f.Label(), f.Type))
		}
	}
	return diag.Join(errs)
}
