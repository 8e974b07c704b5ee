package model

import (
	"go/token"
	"strconv"
	"strings"

	"github.com/seitarof/gen-derive/internal/directive"
)

// ShapeKind tells structs from enums.
type ShapeKind int

const (
	ShapeStruct ShapeKind = iota
	ShapeEnum
)

// Layout is the field layout of a variant.
type Layout int

const (
	// LayoutNamed is a struct with named fields, accessed as x.F.
	LayoutNamed Layout = iota
	// LayoutPositional is a defined non-struct type, with its value as
	// field 0.
	LayoutPositional
	// LayoutUnit is an empty struct.
	LayoutUnit
)

func (l Layout) String() string {
	switch l {
	case LayoutNamed:
		return "named"
	case LayoutPositional:
		return "positional"
	case LayoutUnit:
		return "unit"
	default:
		return "unknown"
	}
}

// TypeParam is one declared type parameter.
type TypeParam struct {
	Name       string
	Constraint string
}

// Field is one field of a variant.
type Field struct {
	// Name is empty for the positional field.
	Name   string
	Index  int
	Type   *TypeExpr
	Config directive.Config
	Pos    token.Position
}

// Label returns the field name, or its index for a positional field.
func (f *Field) Label() string {
	if f.Name != "" {
		return f.Name
	}
	return "field " + strconv.Itoa(f.Index)
}

// Variant is one alternative of a shape. A struct has a single variant named
// after the type.
type Variant struct {
	Name string

	// TypeStr is the variant's type as written in its package, including
	// type arguments, e.g. "Some[T]".
	TypeStr string
	Layout  Layout

	// Underlying is the conversion target of a positional variant, e.g.
	// "float64" for `type Celsius float64`.
	Underlying string

	Fields  []*Field
	Config  directive.Config
	Ordinal int
	Pos     token.Position
}

// IsUnit reports whether the variant carries no data.
func (v *Variant) IsUnit() bool { return v.Layout == LayoutUnit || len(v.Fields) == 0 }

// Shape is the structure of a declared type.
type Shape struct {
	Kind     ShapeKind
	Variants []*Variant
}

// TypeDecl is one annotated type declaration.
type TypeDecl struct {
	Name    string
	PkgPath string
	PkgName string
	Params  []TypeParam
	Shape   *Shape
	Config  directive.Config
	Pos     token.Position
}

// IsEnum reports whether the declaration is a sum type.
func (d *TypeDecl) IsEnum() bool { return d.Shape != nil && d.Shape.Kind == ShapeEnum }

// Requested reports whether the trait is requested on the type.
func (d *TypeDecl) Requested(t directive.Trait) bool { return d.Config.Requested(t) }

// Exported reports whether the type name is exported.
func (d *TypeDecl) Exported() bool { return token.IsExported(d.Name) }

// TypeString returns the type as used in generated signatures, e.g. "Pair[K, V]".
func (d *TypeDecl) TypeString() string {
	return d.Name + d.ArgList()
}

// ArgList returns the type argument list, e.g. "[K, V]", or "".
func (d *TypeDecl) ArgList() string {
	if len(d.Params) == 0 {
		return ""
	}
	names := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		names = append(names, p.Name)
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// HasParam reports whether name is a declared type parameter.
func (d *TypeDecl) HasParam(name string) bool {
	for _, p := range d.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// AllFields returns the fields of every variant in declaration order.
func (d *TypeDecl) AllFields() []*Field {
	if d.Shape == nil {
		return nil
	}
	var out []*Field
	for _, v := range d.Shape.Variants {
		out = append(out, v.Fields...)
	}
	return out
}

// Variants returns the variants of the shape.
func (d *TypeDecl) Variants() []*Variant {
	if d.Shape == nil {
		return nil
	}
	return d.Shape.Variants
}
