package matcher

import (
	"fmt"
	"strconv"

	"github.com/seitarof/gen-derive/internal/model"
)

// Mode is how a matched value is reached.
type Mode int

const (
	// ModeValue reads fields from a value: x.F, float64(x).
	ModeValue Mode = iota
	// ModePointer reads fields through a pointer base. Expressions stay
	// addressable: x.F, *(*float64)(x).
	ModePointer
)

// Binding names one field of a matched variant.
type Binding struct {
	// Name is "<base>_<N>". It identifies the binding; generated code reads
	// the field through Expr and never declares Name.
	Name  string
	Field *model.Field
	// Expr reads the field.
	Expr string
	// Ref takes the field's address.
	Ref string
}

// Pattern selects one variant.
type Pattern struct {
	Variant *model.Variant
	// Case is the type switch case of an enum variant, e.g. "Some[T]". It is
	// empty for a struct.
	Case string
}

// Arm is the match of one variant.
type Arm struct {
	Pattern  Pattern
	Bindings []Binding
}

// Variant returns the matched variant.
func (a Arm) Variant() *model.Variant { return a.Pattern.Variant }

// Match holds one arm per variant of a declaration.
type Match struct {
	Decl *model.TypeDecl
	Base string
	Mode Mode
	Arms []Arm
}

// One matches a single value named base.
func One(decl *model.TypeDecl, base string, mode Mode) Match {
	m := Match{Decl: decl, Base: base, Mode: mode}
	for _, v := range decl.Variants() {
		arm := Arm{Pattern: Pattern{Variant: v}}
		if decl.IsEnum() {
			arm.Pattern.Case = v.TypeStr
		}
		for i, f := range v.Fields {
			arm.Bindings = append(arm.Bindings, bind(base, i, f, v, mode))
		}
		m.Arms = append(m.Arms, arm)
	}
	return m
}

func bind(base string, i int, f *model.Field, v *model.Variant, mode Mode) Binding {
	b := Binding{Name: base + "_" + strconv.Itoa(i), Field: f}
	switch {
	case v.Layout == model.LayoutPositional && mode == ModePointer:
		b.Ref = fmt.Sprintf("(*%s)(%s)", v.Underlying, base)
		b.Expr = "*" + b.Ref
	case v.Layout == model.LayoutPositional:
		b.Expr = fmt.Sprintf("%s(%s)", v.Underlying, base)
	default:
		b.Expr = base + "." + f.Name
		b.Ref = "&" + b.Expr
	}
	return b
}

// Pair is the match of one variant on both sides of a binary operation.
type Pair struct {
	Left  Arm
	Right Arm
}

// Variant returns the variant both sides matched.
func (p Pair) Variant() *model.Variant { return p.Left.Variant() }

// Binary is the zip of two unary matches of the same declaration.
type Binary struct {
	Decl  *model.TypeDecl
	Left  string
	Right string
	Pairs []Pair
}

// Two matches two values of the same declaration. It panics if the unary
// matches disagree on the variants, which would be a bug in One.
func Two(decl *model.TypeDecl, left, right string) Binary {
	l, r := One(decl, left, ModeValue), One(decl, right, ModeValue)
	if len(l.Arms) != len(r.Arms) {
		panic(fmt.Sprintf("matcher: %s: %d arms on the left, %d on the right", decl.Name, len(l.Arms), len(r.Arms)))
	}
	b := Binary{Decl: decl, Left: left, Right: right}
	for i := range l.Arms {
		la, ra := l.Arms[i], r.Arms[i]
		if la.Variant() != ra.Variant() || len(la.Bindings) != len(ra.Bindings) {
			panic(fmt.Sprintf("matcher: %s: arm %d does not line up", decl.Name, i))
		}
		b.Pairs = append(b.Pairs, Pair{Left: la, Right: ra})
	}
	return b
}

// IsUnitEnum reports whether decl is an enum whose variants carry no data.
func IsUnitEnum(decl *model.TypeDecl) bool {
	if !decl.IsEnum() {
		return false
	}
	for _, v := range decl.Variants() {
		if !v.IsUnit() {
			return false
		}
	}
	return true
}

// Switch renders the header of a type switch over base. The value is
// rebound only when some arm reads it.
func Switch(base string, bind bool) string {
	if bind {
		return "switch " + base + " := " + base + ".(type) {"
	}
	return "switch " + base + ".(type) {"
}

// Assert renders the type assertion of the right-hand side of a pair. When
// checked is true the variant is already known to match and no ok value is
// produced. used tells whether the right-hand bindings are read.
func Assert(arm Arm, base string, checked, used bool) string {
	switch {
	case checked && used:
		return base + " := " + base + ".(" + arm.Pattern.Case + ")"
	case checked:
		return ""
	case used:
		return base + ", ok := " + base + ".(" + arm.Pattern.Case + ")"
	default:
		return "_, ok := " + base + ".(" + arm.Pattern.Case + ")"
	}
}
