package emit

import (
	"github.com/seitarof/gen-derive/internal/diag"
	"github.com/seitarof/gen-derive/internal/directive"
	"github.com/seitarof/gen-derive/internal/matcher"
	"github.com/seitarof/gen-derive/internal/model"
	"github.com/seitarof/gen-derive/internal/resolver"
)

type defaultEmitter struct{}

func (defaultEmitter) Trait() directive.Trait { return directive.Default }

func (defaultEmitter) Emit(decl *model.TypeDecl, ctx *Context) (Fragment, error) {
	const t = directive.Default
	m := matcher.One(decl, "x", matcher.ModeValue)

	arm := m.Arms[0]
	if decl.IsEnum() {
		var picked []matcher.Arm
		for _, a := range m.Arms {
			if a.Variant().Config.Get(t).DefaultVariant {
				picked = append(picked, a)
			}
		}
		if len(picked) != 1 {
			return Fragment{}, diag.Errorf(diag.CodeAmbiguousDefaultVariant, decl.Config.Pos,
				"an enum deriving Default needs exactly one variant marked `Default`, found %d", len(picked))
		}
		arm = picked[0]
	}

	var w funcWriter
	plans, errs := resolveArm(ctx, t, arm, "")
	if len(errs) > 0 {
		return Fragment{}, diag.Join(errs)
	}
	w.use(plans)

	name := resolver.FuncName(t, decl.Name)
	typ := decl.TypeString()
	g := ctx.generics(decl, t)
	w.doc(name, "returns the default value of "+decl.Name+".")
	w.open(name, g, "", typ)
	w.line("return %s", composite(arm.Variant(), values(plans)))
	w.close()

	if decl.Config.Get(t).New {
		ctor := resolver.NewName(decl.Name)
		w.line("")
		w.doc(ctor, "returns a new "+decl.Name+" holding its default value.")
		w.open(ctor, g, "", typ)
		w.line("return %s%s()", name, g.ArgList())
		w.close()
	}
	return w.fragment(decl, t), nil
}
