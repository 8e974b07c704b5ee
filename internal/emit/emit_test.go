package emit

import (
	"errors"
	"go/format"
	"go/token"
	"strings"
	"testing"

	"github.com/seitarof/gen-derive/internal/diag"
	"github.com/seitarof/gen-derive/internal/directive"
	"github.com/seitarof/gen-derive/internal/model"
)

const testPkg = "example.com/shapes"

func config(t *testing.T, ctx directive.Context, lines ...string) directive.Config {
	t.Helper()
	ls := make([]directive.Line, 0, len(lines))
	for i, l := range lines {
		ls = append(ls, directive.Line{Text: l, Pos: token.Position{Filename: "shapes.go", Line: i + 1}})
	}
	cfg, err := directive.Parse(ctx, ls)
	if err != nil {
		t.Fatalf("parse %q: %v", lines, err)
	}
	return cfg
}

func field(name string, typ *model.TypeExpr, cfg directive.Config) *model.Field {
	return &model.Field{Name: name, Type: typ, Config: cfg}
}

func variant(name string, cfg directive.Config, fields ...*model.Field) *model.Variant {
	v := &model.Variant{Name: name, TypeStr: name, Layout: model.LayoutNamed, Fields: fields, Config: cfg}
	if len(fields) == 0 {
		v.Layout = model.LayoutUnit
	}
	for i, f := range fields {
		f.Index = i
	}
	return v
}

func structDecl(name string, cfg directive.Config, fields ...*model.Field) *model.TypeDecl {
	return &model.TypeDecl{
		Name:    name,
		PkgPath: testPkg,
		PkgName: "shapes",
		Shape:   &model.Shape{Kind: model.ShapeStruct, Variants: []*model.Variant{variant(name, directive.Config{}, fields...)}},
		Config:  cfg,
	}
}

func enumDecl(name string, cfg directive.Config, variants ...*model.Variant) *model.TypeDecl {
	for i, v := range variants {
		v.Ordinal = i
	}
	return &model.TypeDecl{
		Name:    name,
		PkgPath: testPkg,
		PkgName: "shapes",
		Shape:   &model.Shape{Kind: model.ShapeEnum, Variants: variants},
		Config:  cfg,
	}
}

func shapeDecl(t *testing.T, lines ...string) *model.TypeDecl {
	none := directive.Config{}
	return enumDecl("Shape", config(t, directive.ContextType, lines...),
		variant("Circle", none, field("Radius", model.Basic("float64"), none)),
		variant("Square", none, field("Side", model.Basic("float64"), none)),
		variant("Empty", none),
	)
}

func byTrait(t *testing.T, frags []Fragment, trait directive.Trait) Fragment {
	t.Helper()
	for _, f := range frags {
		if f.Trait == trait {
			return f
		}
	}
	t.Fatalf("no %s fragment among %d", trait, len(frags))
	return Fragment{}
}

func hasHelper(f Fragment, name string) bool {
	for _, h := range f.Helpers {
		if h.Name == name {
			return true
		}
	}
	return false
}

func assertContains(t *testing.T, code string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(code, w) {
			t.Fatalf("generated code does not contain %q:\n%s", w, code)
		}
	}
}

// assertFormats checks that the fragments and their helpers form a valid
// Go file.
func assertFormats(t *testing.T, frags []Fragment) {
	t.Helper()
	var b strings.Builder
	b.WriteString("package shapes\n")
	seen := map[string]bool{}
	for _, f := range frags {
		b.WriteString("\n" + f.Code + "\n")
		for _, h := range f.Helpers {
			if !seen[h.Name] {
				seen[h.Name] = true
				b.WriteString("\n" + h.Code + "\n")
			}
		}
	}
	if _, err := format.Source([]byte(b.String())); err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, b.String())
	}
}

func expand(t *testing.T, decl *model.TypeDecl) ([]Fragment, error) {
	t.Helper()
	return ExpandAll([]*model.TypeDecl{decl}, NewContext(nil), DefaultEmitters())
}

func TestExpand_StructAllTraits(t *testing.T) {
	none := directive.Config{}
	decl := structDecl("Point", config(t, directive.ContextType, `Clone, Debug, Default, PartialEq, Eq, PartialOrd, Ord, Hash`),
		field("X", model.Basic("int"), none),
		field("Y", model.Basic("int"), none),
	)

	frags, err := expand(t, decl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frags) != 8 {
		t.Fatalf("expected 8 fragments, got %d", len(frags))
	}
	assertFormats(t, frags)

	assertContains(t, byTrait(t, frags, directive.Clone).Code, "func ClonePoint(x Point) Point {", "return x")
	assertContains(t, byTrait(t, frags, directive.Debug).Code,
		`return "Point{X: " + fmt.Sprintf("%#v", x.X) + ", Y: " + fmt.Sprintf("%#v", x.Y) + "}"`)
	assertContains(t, byTrait(t, frags, directive.Default).Code, "func DefaultPoint() Point {", "return Point{}")
	assertContains(t, byTrait(t, frags, directive.PartialEq).Code, "return x.X == y.X && x.Y == y.Y")
	assertContains(t, byTrait(t, frags, directive.Eq).Code, "func EqPoint(x, y Point) bool {", "return EqualPoint(x, y)")
	assertContains(t, byTrait(t, frags, directive.Ord).Code,
		"switch c := cmp.Compare(x.X, y.X); c {", "return cmp.Compare(x.Y, y.Y)")
	assertContains(t, byTrait(t, frags, directive.PartialOrd).Code,
		"func PartialComparePoint(x, y Point) (int, bool) {",
		"switch c, ok := cmp.Compare(x.X, y.X), true; {",
		"return 0, false",
		"return cmp.Compare(x.Y, y.Y), true")
	assertContains(t, byTrait(t, frags, directive.Hash).Code,
		"func HashPoint(h *maphash.Hash, x Point) {",
		"maphash.WriteComparable(h, x.X)",
		"maphash.WriteComparable(h, x.Y)")
}

func TestExpand_EnumTraits(t *testing.T) {
	decl := shapeDecl(t, `PartialEq(feature_allow_slow_enum), PartialOrd(feature_allow_slow_enum), Debug, Hash, Clone`)

	frags, err := expand(t, decl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertFormats(t, frags)

	eq := byTrait(t, frags, directive.PartialEq)
	assertContains(t, eq.Code,
		"switch x := x.(type) {",
		"y, ok := y.(Circle)",
		"return ok && x.Radius == y.Radius",
		"_, ok := y.(Empty)",
		"return x == nil && y == nil")

	ord := byTrait(t, frags, directive.PartialOrd)
	assertContains(t, ord.Code,
		"if c := cmp.Compare(ordinalShape(x), ordinalShape(y)); c != 0 {",
		"y := y.(Circle)",
		"return derivePartialCompareFloat(x.Radius, y.Radius)",
		"return 0, true")
	if strings.Contains(ord.Code, "case Empty:") {
		t.Fatalf("a unit variant needs no arm:\n%s", ord.Code)
	}
	if !hasHelper(ord, "ordinalShape") || !hasHelper(ord, "derivePartialCompareFloat") {
		t.Fatalf("missing helpers: %+v", ord.Helpers)
	}

	assertContains(t, byTrait(t, frags, directive.Debug).Code,
		`return "Circle{Radius: " + fmt.Sprintf("%#v", x.Radius) + "}"`,
		`return "Empty"`,
		`return fmt.Sprintf("%#v", x)`)
	assertContains(t, byTrait(t, frags, directive.Hash).Code, "maphash.WriteComparable(h, ordinalShape(x))", "case Square:")

	clone := byTrait(t, frags, directive.Clone)
	if strings.Contains(clone.Code, "switch") {
		t.Fatalf("variants of plain values clone by copy:\n%s", clone.Code)
	}
}

func TestExpand_OrdinalHelper(t *testing.T) {
	decl := shapeDecl(t, `Hash`)
	frags, err := expand(t, decl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := byTrait(t, frags, directive.Hash).Helpers
	if len(h) != 1 || h[0].Name != "ordinalShape" {
		t.Fatalf("unexpected helpers: %+v", h)
	}
	assertContains(t, h[0].Code, "func ordinalShape(x Shape) int {", "case Square:\nreturn 1", "return -1")
}

func TestExpand_UnitEnumComparesOrdinals(t *testing.T) {
	none := directive.Config{}
	decl := enumDecl("Color", config(t, directive.ContextType, `PartialEq(feature_allow_slow_enum), Ord(feature_allow_slow_enum)`),
		variant("Red", none), variant("Green", none))

	frags, err := expand(t, decl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertFormats(t, frags)
	assertContains(t, byTrait(t, frags, directive.PartialEq).Code, "return ordinalColor(x) == ordinalColor(y)")
	assertContains(t, byTrait(t, frags, directive.Ord).Code, "return cmp.Compare(ordinalColor(x), ordinalColor(y))")
}

func TestExpand_EnumNeedsOptIn(t *testing.T) {
	decl := shapeDecl(t, `PartialEq, Debug`)

	frags, err := expand(t, decl)
	if !errors.Is(err, diag.ErrEnumNotOptedIn) {
		t.Fatalf("expected ENUM_NOT_OPTED_IN, got %v", err)
	}
	if len(frags) != 1 || frags[0].Trait != directive.Debug {
		t.Fatalf("the other traits must still be generated, got %+v", frags)
	}
	e := diag.Flatten(err)[0]
	if e.Type != "Shape" || e.Trait != "PartialEq" {
		t.Fatalf("unexpected error tags: %+v", e)
	}
}

func TestExpand_EqPrerequisites(t *testing.T) {
	none := directive.Config{}

	alone := structDecl("Point", config(t, directive.ContextType, `Eq`), field("X", model.Basic("int"), none))
	if _, err := expand(t, alone); !errors.Is(err, diag.ErrMissingPrerequisite) {
		t.Fatalf("expected MISSING_PREREQUISITE, got %v", err)
	}

	float := structDecl("Measure", config(t, directive.ContextType, `PartialEq, Eq`), field("V", model.Basic("float64"), none))
	frags, err := expand(t, float)
	if !errors.Is(err, diag.ErrNotTotal) {
		t.Fatalf("expected NOT_TOTAL, got %v", err)
	}
	if len(frags) != 1 || frags[0].Trait != directive.PartialEq {
		t.Fatalf("PartialEq must survive, got %+v", frags)
	}

	ignored := structDecl("Measure", config(t, directive.ContextType, `PartialEq, Eq`),
		field("V", model.Basic("float64"), config(t, directive.ContextField, `PartialEq(ignore)`)))
	frags, err = expand(t, ignored)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, byTrait(t, frags, directive.PartialEq).Code, "return true")
}

func TestExpand_DefaultVariant(t *testing.T) {
	if _, err := expand(t, shapeDecl(t, `Default`)); !errors.Is(err, diag.ErrAmbiguousDefaultVariant) {
		t.Fatalf("expected AMBIGUOUS_DEFAULT_VARIANT, got %v", err)
	}

	none := directive.Config{}
	decl := enumDecl("Shape", config(t, directive.ContextType, `Default(new)`),
		variant("Circle", config(t, directive.ContextVariant, `Default`),
			field("Radius", model.Basic("float64"), config(t, directive.ContextField, `Default(value="1")`))),
		variant("Empty", none),
	)
	frags, err := expand(t, decl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertFormats(t, frags)
	assertContains(t, frags[0].Code,
		"func DefaultShape() Shape {",
		"return Circle{Radius: 1}",
		"func NewShape() Shape {",
		"return DefaultShape()")
}

func TestExpand_CopyRejectsReferences(t *testing.T) {
	none := directive.Config{}
	decl := structDecl("Bag", config(t, directive.ContextType, `Copy, Clone`), field("Items", model.SliceOf(model.Basic("string")), none))

	frags, err := expand(t, decl)
	if !errors.Is(err, diag.ErrNotCopyable) {
		t.Fatalf("expected NOT_COPYABLE, got %v", err)
	}
	assertContains(t, byTrait(t, frags, directive.Clone).Code, "return Bag{Items: slices.Clone(x.Items)}")
}

func TestExpand_Transparent(t *testing.T) {
	none := directive.Config{}
	one := structDecl("Wrapper", config(t, directive.ContextType, `Debug(transparent)`), field("V", model.Basic("int"), none))
	frags, err := expand(t, one)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertContains(t, frags[0].Code, `return fmt.Sprintf("%#v", x.V)`)

	two := structDecl("Wrapper", config(t, directive.ContextType, `Debug(transparent)`),
		field("V", model.Basic("int"), none), field("W", model.Basic("int"), none))
	if _, err := expand(t, two); !errors.Is(err, diag.ErrInvalidTransparent) {
		t.Fatalf("expected INVALID_TRANSPARENT, got %v", err)
	}
}

func TestExpand_Positional(t *testing.T) {
	decl := structDecl("Celsius", config(t, directive.ContextType, `Debug, Default, Clone`),
		field("", model.Basic("float64"), config(t, directive.ContextField, `Default(value="36.6")`)))
	v := decl.Variants()[0]
	v.Layout, v.Underlying = model.LayoutPositional, "float64"

	frags, err := expand(t, decl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertFormats(t, frags)
	assertContains(t, byTrait(t, frags, directive.Debug).Code, `return "Celsius(" + fmt.Sprintf("%#v", float64(x)) + ")"`)
	assertContains(t, byTrait(t, frags, directive.Default).Code, "return Celsius(36.6)")
	assertContains(t, byTrait(t, frags, directive.Clone).Code, "return x")
}

func TestExpand_Generic(t *testing.T) {
	none := directive.Config{}
	decl := structDecl("Pair", config(t, directive.ContextType, `PartialEq, Clone, Default(new)`),
		field("Key", model.Param("K"), none),
		field("Val", model.Param("V"), none),
	)
	decl.Params = []model.TypeParam{{Name: "K"}, {Name: "V"}}
	decl.Variants()[0].TypeStr = "Pair[K, V]"

	frags, err := expand(t, decl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertFormats(t, frags)
	assertContains(t, byTrait(t, frags, directive.PartialEq).Code, "func EqualPair[K comparable, V comparable](x, y Pair[K, V]) bool {")
	assertContains(t, byTrait(t, frags, directive.Clone).Code, "func ClonePair[K any, V any](x Pair[K, V]) Pair[K, V] {")
	assertContains(t, byTrait(t, frags, directive.Default).Code, "return Pair[K, V]{}", "return DefaultPair[K, V]()")
}

func TestExpand_CloneFrom(t *testing.T) {
	none := directive.Config{}
	note := structDecl("Note", config(t, directive.ContextType, `Clone(clone_from)`), field("Text", model.Basic("string"), none))
	doc := structDecl("Doc", config(t, directive.ContextType, `Clone(clone_from)`),
		field("Title", model.Basic("string"), none),
		field("Tags", model.SliceOf(model.Basic("string")), none),
		field("Note", model.NamedOf(testPkg, "Note"), none),
	)

	frags, err := ExpandAll([]*model.TypeDecl{note, doc}, NewContext(nil), DefaultEmitters())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertFormats(t, frags)
	assertContains(t, frags[1].Code,
		"return Doc{Title: x.Title, Tags: slices.Clone(x.Tags), Note: CloneNote(x.Note)}",
		"func CloneFromDoc(dst *Doc, src Doc) {",
		"dst.Title = src.Title",
		"dst.Tags = slices.Clone(src.Tags)",
		"CloneFromNote(&dst.Note, src.Note)")
}

func TestExpandAll_WithdrawsFailedTraits(t *testing.T) {
	none := directive.Config{}
	inner := structDecl("Inner", config(t, directive.ContextType, `PartialEq, Ord`),
		field("M", model.MapOf(model.Basic("string"), model.Basic("int")), none))
	outer := structDecl("Outer", config(t, directive.ContextType, `PartialEq, Ord`),
		field("In", model.NamedOf(testPkg, "Inner"), none),
		field("N", model.Basic("int"), none))

	frags, err := ExpandAll([]*model.TypeDecl{inner, outer}, NewContext(nil), DefaultEmitters())
	errs := diag.Flatten(err)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", err)
	}
	for _, e := range errs {
		if e.Code != diag.CodeUnsupportedField || e.Trait != "Ord" {
			t.Fatalf("unexpected error: %+v", e)
		}
	}
	if len(frags) != 2 {
		t.Fatalf("expected the PartialEq fragments only, got %d", len(frags))
	}
	for _, f := range frags {
		if f.Trait != directive.PartialEq {
			t.Fatalf("unexpected fragment %s/%s", f.Type, f.Trait)
		}
	}
	assertContains(t, frags[1].Code, "EqualInner(x.In, y.In)")
}

func TestExpand_ConfigurationErrorAbortsType(t *testing.T) {
	none := directive.Config{}
	decl := structDecl("Point", config(t, directive.ContextType, `Debug, Hash(bound="U comparable")`), field("X", model.Basic("int"), none))

	frags, err := expand(t, decl)
	if !errors.Is(err, diag.ErrInvalidBound) {
		t.Fatalf("expected INVALID_BOUND, got %v", err)
	}
	if len(frags) != 0 {
		t.Fatalf("no trait may be generated, got %d fragments", len(frags))
	}
}

func optDecl(t *testing.T, lines ...string) *model.TypeDecl {
	none := directive.Config{}
	some := variant("Some", none, field("Value", model.Param("T"), none))
	some.TypeStr = "Some[T]"
	empty := variant("None", none)
	empty.TypeStr = "None[T]"
	decl := enumDecl("Opt", config(t, directive.ContextType, lines...), some, empty)
	decl.Params = []model.TypeParam{{Name: "T", Constraint: "any"}}
	return decl
}

func TestExpand_GenericEnumPassesTypeArguments(t *testing.T) {
	decl := optDecl(t, `PartialEq(feature_allow_slow_enum), Eq, Ord(feature_allow_slow_enum), Hash`)

	frags, err := expand(t, decl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertFormats(t, frags)

	assertContains(t, byTrait(t, frags, directive.Eq).Code,
		"func EqOpt[T comparable](x, y Opt[T]) bool {",
		"return EqualOpt[T](x, y)")
	ord := byTrait(t, frags, directive.Ord)
	assertContains(t, ord.Code,
		"func CompareOpt[T cmp.Ordered](x, y Opt[T]) int {",
		"if c := cmp.Compare(ordinalOpt[T](x), ordinalOpt[T](y)); c != 0 {",
		"case Some[T]:",
		"y := y.(Some[T])",
		"return cmp.Compare(x.Value, y.Value)")
	assertContains(t, byTrait(t, frags, directive.Hash).Code, "maphash.WriteComparable(h, ordinalOpt[T](x))")
	if !hasHelper(ord, "ordinalOpt") {
		t.Fatalf("missing ordinal helper: %+v", ord.Helpers)
	}
	assertContains(t, ord.Helpers[0].Code, "func ordinalOpt[T any](x Opt[T]) int {", "case None[T]:\nreturn 1")
}

func TestExpand_CloneFromGenericPassesTypeArguments(t *testing.T) {
	none := directive.Config{}
	many := variant("Many", none, field("Items", model.SliceOf(model.Param("T")), none))
	many.TypeStr = "Many[T]"
	empty := variant("Nil", none)
	empty.TypeStr = "Nil[T]"
	decl := enumDecl("List", config(t, directive.ContextType, `Clone(clone_from)`), many, empty)
	decl.Params = []model.TypeParam{{Name: "T", Constraint: "any"}}

	frags, err := expand(t, decl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertFormats(t, frags)
	assertContains(t, frags[0].Code, "func CloneFromList[T any](dst *List[T], src List[T]) {", "*dst = CloneList[T](src)")
}

// namedStruct returns a named type of the test package whose fields have
// the given types.
func namedStruct(name string, fields ...*model.TypeExpr) *model.TypeExpr {
	n := model.NamedOf(testPkg, name)
	n.Under = &model.TypeExpr{Kind: model.KindStruct, Str: "struct{...}", Args: fields, Comparable: true}
	return n
}

func TestExpand_EqSeesFloatsInNestedStructs(t *testing.T) {
	none := directive.Config{}
	reading := namedStruct("Reading", model.Basic("string"), model.Basic("float64"))
	decl := structDecl("Sample", config(t, directive.ContextType, `PartialEq, Eq`),
		field("ID", model.Basic("int"), none),
		field("R", reading, none))

	frags, err := expand(t, decl)
	if !errors.Is(err, diag.ErrNotTotal) {
		t.Fatalf("expected NOT_TOTAL, got %v", err)
	}
	e := diag.Flatten(err)[0]
	if !strings.Contains(e.Error(), "`R`") {
		t.Fatalf("the error should name the nested field: %v", e)
	}
	if len(frags) != 1 || frags[0].Trait != directive.PartialEq {
		t.Fatalf("PartialEq must survive, got %+v", frags)
	}
}

func TestExpand_EqTrustsFieldTypesDerivingEq(t *testing.T) {
	none := directive.Config{}
	inner := structDecl("Inner", config(t, directive.ContextType, `PartialEq, Eq`),
		field("N", model.Basic("int"), none),
		field("F", model.Basic("float64"), config(t, directive.ContextField, `PartialEq(ignore)`)))
	outer := structDecl("Outer", config(t, directive.ContextType, `PartialEq, Eq`),
		field("In", namedStruct("Inner", model.Basic("int"), model.Basic("float64")), none))

	frags, err := ExpandAll([]*model.TypeDecl{inner, outer}, NewContext(nil), DefaultEmitters())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frags) != 4 {
		t.Fatalf("expected 4 fragments, got %d", len(frags))
	}
}

func TestExpand_CopySeesReferencesInNestedStructs(t *testing.T) {
	none := directive.Config{}
	reading := namedStruct("Reading", model.Basic("float64"), model.SliceOf(model.Basic("byte")))
	decl := structDecl("Sample", config(t, directive.ContextType, `Copy, Clone`), field("R", reading, none))

	frags, err := expand(t, decl)
	if !errors.Is(err, diag.ErrNotCopyable) {
		t.Fatalf("expected NOT_COPYABLE, got %v", err)
	}
	if len(frags) != 1 || frags[0].Trait != directive.Clone {
		t.Fatalf("Clone must survive, got %+v", frags)
	}

	flat := structDecl("Sample", config(t, directive.ContextType, `Copy`),
		field("R", namedStruct("Reading", model.Basic("float64")), none))
	if _, err := expand(t, flat); err != nil {
		t.Fatalf("a struct of plain values is copyable: %v", err)
	}
}

func TestExpand_MarkerFieldsHoldNoValue(t *testing.T) {
	none := directive.Config{}
	decl := structDecl("Tagged", config(t, directive.ContextType, `Clone, PartialEq, Ord, Hash`),
		field("ID", model.Basic("int"), none),
		field("Mark", model.NamedOf(testPkg, "Phantom", model.Param("U")), none),
		field("Val", model.Param("T"), none),
	)
	decl.Params = []model.TypeParam{{Name: "T", Constraint: "any"}, {Name: "U", Constraint: "any"}}
	decl.Variants()[0].TypeStr = "Tagged[T, U]"

	frags, err := expand(t, decl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frags) != 4 {
		t.Fatalf("expected 4 fragments, got %d", len(frags))
	}
	assertFormats(t, frags)
	for _, trait := range []directive.Trait{directive.PartialEq, directive.Ord, directive.Hash} {
		code := byTrait(t, frags, trait).Code
		if strings.Contains(code, "Mark") {
			t.Fatalf("%s must not read the marker field:\n%s", trait, code)
		}
	}
	assertContains(t, byTrait(t, frags, directive.Ord).Code, "return cmp.Compare(x.Val, y.Val)")
}
