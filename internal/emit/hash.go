package emit

import (
	"github.com/seitarof/gen-derive/internal/diag"
	"github.com/seitarof/gen-derive/internal/directive"
	"github.com/seitarof/gen-derive/internal/matcher"
	"github.com/seitarof/gen-derive/internal/model"
	"github.com/seitarof/gen-derive/internal/resolver"
)

type hashEmitter struct{}

func (hashEmitter) Trait() directive.Trait { return directive.Hash }

// Emit writes the variant ordinal of an enum first, then each field that
// is not ignored, in declaration order.
func (hashEmitter) Emit(decl *model.TypeDecl, ctx *Context) (Fragment, error) {
	const t = directive.Hash
	m := matcher.One(decl, "x", matcher.ModeValue)

	stmts := make([][]string, len(m.Arms))
	var (
		w        funcWriter
		errs     []*diag.Error
		hasStmts bool
	)
	for i, arm := range m.Arms {
		plans, perrs := resolveArm(ctx, t, arm, "h")
		errs = append(errs, perrs...)
		w.use(plans)
		stmts[i] = expressions(plans)
		hasStmts = hasStmts || len(stmts[i]) > 0
	}
	if len(errs) > 0 {
		return Fragment{}, diag.Join(errs)
	}

	name := resolver.FuncName(t, decl.Name)
	w.doc(name, "writes x to h. Values that are equal hash equally.")
	w.open(name, ctx.generics(decl, t), "h *maphash.Hash, x "+decl.TypeString(), "")
	if !decl.IsEnum() {
		for _, s := range stmts[0] {
			w.line("%s", s)
		}
		w.close()
		return w.fragment(decl, t), nil
	}

	w.line("maphash.WriteComparable(h, %s)", w.useOrdinal(decl, "x"))
	if hasStmts {
		w.line("%s", matcher.Switch("x", true))
		for i, arm := range m.Arms {
			if len(stmts[i]) == 0 {
				continue
			}
			w.line("case %s:", arm.Pattern.Case)
			for _, s := range stmts[i] {
				w.line("%s", s)
			}
		}
		w.line("}")
	}
	w.close()
	return w.fragment(decl, t), nil
}
