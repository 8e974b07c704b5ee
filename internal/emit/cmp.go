package emit

import (
	"strings"

	"github.com/seitarof/gen-derive/internal/diag"
	"github.com/seitarof/gen-derive/internal/directive"
	"github.com/seitarof/gen-derive/internal/matcher"
	"github.com/seitarof/gen-derive/internal/model"
	"github.com/seitarof/gen-derive/internal/resolver"
)

type partialEqEmitter struct{}

func (partialEqEmitter) Trait() directive.Trait { return directive.PartialEq }

func (partialEqEmitter) Emit(decl *model.TypeDecl, ctx *Context) (Fragment, error) {
	const t = directive.PartialEq
	bin := matcher.Two(decl, "x", "y")

	terms := make([][]string, len(bin.Pairs))
	var (
		w        funcWriter
		errs     []*diag.Error
		hasTerms bool
	)
	for i, p := range bin.Pairs {
		plans, perrs := resolvePair(ctx, t, p)
		errs = append(errs, perrs...)
		w.use(plans)
		terms[i] = expressions(plans)
		hasTerms = hasTerms || len(terms[i]) > 0
	}
	if len(errs) > 0 {
		return Fragment{}, diag.Join(errs)
	}

	name := resolver.FuncName(t, decl.Name)
	w.doc(name, "reports whether x and y are equal.")
	w.open(name, ctx.generics(decl, t), "x, y "+decl.TypeString(), "bool")
	switch {
	case !decl.IsEnum():
		w.line("return %s", conjunction(terms[0]))
	case matcher.IsUnitEnum(decl), !hasTerms:
		w.line("return %s == %s", w.useOrdinal(decl, "x"), w.useOrdinal(decl, "y"))
	default:
		w.line("%s", matcher.Switch("x", true))
		for i, p := range bin.Pairs {
			w.line("case %s:", p.Left.Pattern.Case)
			if len(terms[i]) == 0 {
				w.line("%s", matcher.Assert(p.Right, "y", false, false))
				w.line("return ok")
				continue
			}
			w.line("%s", matcher.Assert(p.Right, "y", false, true))
			w.line("return ok && %s", conjunction(terms[i]))
		}
		w.line("}")
		w.line("return x == nil && y == nil")
	}
	w.close()
	return w.fragment(decl, t), nil
}

func conjunction(terms []string) string {
	if len(terms) == 0 {
		return "true"
	}
	return strings.Join(terms, " && ")
}

// eqEmitter marks PartialEq as total. It adds no comparison of its own.
type eqEmitter struct{}

func (eqEmitter) Trait() directive.Trait { return directive.Eq }

func (eqEmitter) Emit(decl *model.TypeDecl, ctx *Context) (Fragment, error) {
	var errs []*diag.Error
	for _, f := range decl.AllFields() {
		if f.Config.Ignored(directive.PartialEq) {
			continue
		}
		if _, ok := f.Config.With(directive.PartialEq); ok {
			continue
		}
		// A same-package type deriving Eq was checked on its own.
		if ctx.Derived.Has(f.Type, directive.Eq) {
			continue
		}
		if f.Type.HasFloat() {
			errs = append(errs, diag.Errorf(diag.CodeNotTotal, f.Pos,
				"`%s` (%s) holds a floating point value, so equality is not total; ignore it or give it a compare_with", f.Label(), f.Type))
		}
	}
	if len(errs) > 0 {
		return Fragment{}, diag.Join(errs)
	}

	g := ctx.generics(decl, directive.Eq).Merge(ctx.generics(decl, directive.PartialEq))
	name := resolver.FuncName(directive.Eq, decl.Name)

	var w funcWriter
	w.doc(name, "reports whether x and y are equal. The relation is total.")
	w.open(name, g, "x, y "+decl.TypeString(), "bool")
	w.line("return %s%s(x, y)", resolver.FuncName(directive.PartialEq, decl.Name), g.ArgList())
	w.close()
	return w.fragment(decl, directive.Eq), nil
}

// ordEmitter generates PartialOrd or Ord. Variants order by declaration,
// fields lexicographically.
type ordEmitter struct {
	trait directive.Trait
}

func (e ordEmitter) Trait() directive.Trait { return e.trait }

func (e ordEmitter) partial() bool { return e.trait == directive.PartialOrd }

func (e ordEmitter) Emit(decl *model.TypeDecl, ctx *Context) (Fragment, error) {
	bin := matcher.Two(decl, "x", "y")

	terms := make([][]string, len(bin.Pairs))
	var (
		w        funcWriter
		errs     []*diag.Error
		hasTerms bool
	)
	for i, p := range bin.Pairs {
		plans, perrs := resolvePair(ctx, e.trait, p)
		errs = append(errs, perrs...)
		w.use(plans)
		terms[i] = expressions(plans)
		hasTerms = hasTerms || len(terms[i]) > 0
	}
	if len(errs) > 0 {
		return Fragment{}, diag.Join(errs)
	}

	name := resolver.FuncName(e.trait, decl.Name)
	results, done := "int", "0"
	if e.partial() {
		w.doc(name, "compares x and y. It returns false when they are unordered.")
		results, done = "(int, bool)", "0, true"
	} else {
		w.doc(name, "returns -1, 0 or +1 depending on whether x is less than, equal to or greater than y.")
	}
	w.open(name, ctx.generics(decl, e.trait), "x, y "+decl.TypeString(), results)

	if !decl.IsEnum() {
		w.line("%s", e.fold(terms[0]))
		w.close()
		return w.fragment(decl, e.trait), nil
	}

	byOrdinal := "cmp.Compare(" + w.useOrdinal(decl, "x") + ", " + w.useOrdinal(decl, "y") + ")"
	if !hasTerms {
		if e.partial() {
			byOrdinal += ", true"
		}
		w.line("return %s", byOrdinal)
		w.close()
		return w.fragment(decl, e.trait), nil
	}

	w.line("if c := %s; c != 0 {", byOrdinal)
	if e.partial() {
		w.line("return c, true")
	} else {
		w.line("return c")
	}
	w.line("}")
	w.line("%s", matcher.Switch("x", true))
	for i, p := range bin.Pairs {
		if len(terms[i]) == 0 {
			continue
		}
		w.line("case %s:", p.Left.Pattern.Case)
		w.line("%s", matcher.Assert(p.Right, "y", true, true))
		w.line("%s", e.fold(terms[i]))
	}
	w.line("}")
	w.line("return %s", done)
	w.close()
	return w.fragment(decl, e.trait), nil
}

// fold chains the field comparisons so that the first non-equal one
// decides.
func (e ordEmitter) fold(terms []string) string {
	if len(terms) == 0 {
		if e.partial() {
			return "return 0, true"
		}
		return "return 0"
	}
	acc := "return " + terms[len(terms)-1]
	for i := len(terms) - 2; i >= 0; i-- {
		if e.partial() {
			acc = "switch c, ok := " + terms[i] + "; {\n" +
				"case !ok:\nreturn 0, false\n" +
				"case c == 0:\n" + acc + "\n" +
				"default:\nreturn c, true\n}"
		} else {
			acc = "switch c := " + terms[i] + "; c {\n" +
				"case 0:\n" + acc + "\n" +
				"default:\nreturn c\n}"
		}
	}
	return acc
}
