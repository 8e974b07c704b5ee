package emit

import (
	"strconv"
	"strings"

	"github.com/seitarof/gen-derive/internal/diag"
	"github.com/seitarof/gen-derive/internal/directive"
	"github.com/seitarof/gen-derive/internal/matcher"
	"github.com/seitarof/gen-derive/internal/model"
	"github.com/seitarof/gen-derive/internal/resolver"
)

type debugEmitter struct{}

func (debugEmitter) Trait() directive.Trait { return directive.Debug }

// Emit renders values as Name{X: 1, Y: 2}, Name(1) or Name. A transparent
// type or variant prints its only field as is.
func (debugEmitter) Emit(decl *model.TypeDecl, ctx *Context) (Fragment, error) {
	const t = directive.Debug
	m := matcher.One(decl, "x", matcher.ModeValue)
	typeTransparent := decl.Config.Get(t).Transparent

	exprs := make([]string, len(m.Arms))
	var (
		w    funcWriter
		errs []*diag.Error
		read bool
	)
	for i, arm := range m.Arms {
		v := arm.Variant()
		transparent := typeTransparent || v.Config.Get(t).Transparent
		if transparent && len(v.Fields) != 1 {
			pos := v.Config.Pos
			if typeTransparent {
				pos = decl.Config.Pos
			}
			errs = append(errs, diag.Errorf(diag.CodeInvalidTransparent, pos,
				"transparent `%s` must have exactly one field, found %d", v.Name, len(v.Fields)))
			continue
		}
		plans, perrs := resolveArm(ctx, t, arm, "")
		errs = append(errs, perrs...)
		w.use(plans)
		read = read || len(plans) > 0
		if transparent && len(plans) == 1 {
			exprs[i] = plans[0].Expression
			continue
		}
		exprs[i] = debugLayout(v, plans)
	}
	if len(errs) > 0 {
		return Fragment{}, diag.Join(errs)
	}

	name := resolver.FuncName(t, decl.Name)
	w.doc(name, "formats x for debugging.")
	w.open(name, ctx.generics(decl, t), "x "+decl.TypeString(), "string")
	if !decl.IsEnum() {
		w.line("return %s", exprs[0])
		w.close()
		return w.fragment(decl, t), nil
	}
	w.line("%s", matcher.Switch("x", read))
	for i, arm := range m.Arms {
		w.line("case %s:", arm.Pattern.Case)
		w.line("return %s", exprs[i])
	}
	w.line("}")
	w.line(`return fmt.Sprintf("%%#v", x)`)
	w.close()
	return w.fragment(decl, t), nil
}

// debugLayout concatenates the literal parts of a variant with the
// formatted fields.
func debugLayout(v *model.Variant, plans []resolver.FieldPlan) string {
	var c concat
	switch v.Layout {
	case model.LayoutUnit:
		c.lit(v.Name)
	case model.LayoutPositional:
		c.lit(v.Name + "(")
		for _, p := range plans {
			c.expr(p.Expression)
		}
		c.lit(")")
	default:
		c.lit(v.Name + "{")
		for i, p := range plans {
			if i > 0 {
				c.lit(", ")
			}
			c.lit(p.Field.Name + ": ")
			c.expr(p.Expression)
		}
		c.lit("}")
	}
	return c.String()
}

// concat builds a string concatenation, merging adjacent literals.
type concat struct {
	parts []string
	buf   strings.Builder
}

func (c *concat) lit(s string) { c.buf.WriteString(s) }

func (c *concat) expr(e string) {
	c.flush()
	c.parts = append(c.parts, e)
}

func (c *concat) flush() {
	if c.buf.Len() > 0 {
		c.parts = append(c.parts, strconv.Quote(c.buf.String()))
		c.buf.Reset()
	}
}

func (c *concat) String() string {
	c.flush()
	if len(c.parts) == 0 {
		return `""`
	}
	return strings.Join(c.parts, " + ")
}
