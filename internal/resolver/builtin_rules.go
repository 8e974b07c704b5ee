package resolver

import (
	"fmt"
	"slices"
	"strings"

	"github.com/seitarof/gen-derive/internal/directive"
	"github.com/seitarof/gen-derive/internal/model"
)

// DefaultRules returns built-in rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		&IgnoreRule{},
		&CustomFuncRule{},
		&MarkerRule{},
		&TypeParamRule{},
		&DerivedRule{},
		&MethodRule{},
		&SliceRule{},
		&MapRule{},
		&PointerRule{},
		&BasicRule{},
		&FallbackRule{},
	}
}

// IgnoreRule: field opted out of the trait.
type IgnoreRule struct{}

func (r *IgnoreRule) Name() string { return "ignore" }

func (r *IgnoreRule) Try(t Target) (FieldPlan, bool) {
	switch t.Trait {
	case directive.Debug, directive.Hash, directive.PartialEq, directive.PartialOrd, directive.Ord:
		if t.Field.Config.Ignored(t.Trait) {
			return newPlan(t, StrategySkip, ""), true
		}
	}
	return FieldPlan{}, false
}

// CustomFuncRule: *_with functions and Default values.
type CustomFuncRule struct{}

func (r *CustomFuncRule) Name() string { return "custom-func" }

func (r *CustomFuncRule) Try(t Target) (FieldPlan, bool) {
	if t.Trait == directive.Default {
		set := t.Field.Config.Get(directive.Default)
		if !set.HasValue {
			return FieldPlan{}, false
		}
		return newPlan(t, StrategyValue, set.Value), true
	}

	fn, ok := t.Field.Config.With(t.Trait)
	if !ok {
		return FieldPlan{}, false
	}
	switch t.Trait {
	case directive.Clone, directive.Debug:
		return newPlan(t, StrategyCustomFunc, fn+"("+t.X+")"), true
	case directive.Hash:
		return newPlan(t, StrategyCustomFunc, fn+"("+t.H+", "+t.X+")"), true
	case directive.PartialEq, directive.PartialOrd, directive.Ord:
		return newPlan(t, StrategyCustomFunc, fn+"("+t.X+", "+t.Y+")"), true
	}
	return FieldPlan{}, false
}

// MarkerRule: marker fields hold no value, so they never decide equality,
// order or hash, and clone by copy.
type MarkerRule struct{}

func (r *MarkerRule) Name() string { return "marker" }

func (r *MarkerRule) Try(t Target) (FieldPlan, bool) {
	typ := t.Field.Type
	if typ.Kind != model.KindNamed || !slices.Contains(t.Markers, typ.Name) {
		return FieldPlan{}, false
	}
	switch t.Trait {
	case directive.PartialEq, directive.PartialOrd, directive.Ord, directive.Hash:
		return newPlan(t, StrategySkip, ""), true
	case directive.Clone:
		return newPlan(t, StrategyCopy, t.X), true
	}
	return FieldPlan{}, false
}

// TypeParamRule: fields typed by a type parameter rely on the inferred
// constraint.
type TypeParamRule struct{}

func (r *TypeParamRule) Name() string { return "type-param" }

func (r *TypeParamRule) Try(t Target) (FieldPlan, bool) {
	if t.Field.Type.Kind != model.KindTypeParam {
		return FieldPlan{}, false
	}
	switch t.Trait {
	case directive.PartialEq:
		return newPlan(t, StrategyOperator, t.X+" == "+t.Y), true
	case directive.PartialOrd:
		return newPlan(t, StrategyStdlib, "cmp.Compare("+t.X+", "+t.Y+"), true"), true
	case directive.Ord:
		return newPlan(t, StrategyStdlib, "cmp.Compare("+t.X+", "+t.Y+")"), true
	case directive.Hash:
		return newPlan(t, StrategyStdlib, writeComparable(t.H, t.X)), true
	}
	return FieldPlan{}, false
}

// DerivedRule: same-package types the trait is generated for.
type DerivedRule struct {
	derived DerivedSet
}

func (r *DerivedRule) Name() string { return "derived" }

func (r *DerivedRule) SetDerivedSet(s DerivedSet) { r.derived = s }

func (r *DerivedRule) Try(t Target) (FieldPlan, bool) {
	typ := t.Field.Type
	if !r.derived.Has(typ, t.Trait) {
		return FieldPlan{}, false
	}
	fn := funcRef(t.Trait, typ)
	switch t.Trait {
	case directive.Clone, directive.Debug:
		return newPlan(t, StrategyDerived, fn+"("+t.X+")"), true
	case directive.Default:
		return newPlan(t, StrategyDerived, fn+"()"), true
	case directive.Hash:
		return newPlan(t, StrategyDerived, fn+"("+t.H+", "+t.X+")"), true
	case directive.PartialEq, directive.PartialOrd, directive.Ord:
		return newPlan(t, StrategyDerived, fn+"("+t.X+", "+t.Y+")"), true
	}
	return FieldPlan{}, false
}

// MethodRule: well-known methods such as time.Time.Equal.
type MethodRule struct{}

func (r *MethodRule) Name() string { return "method" }

func (r *MethodRule) Try(t Target) (FieldPlan, bool) {
	methods := t.Field.Type.Methods
	switch {
	case t.Trait == directive.PartialEq && methods.Has(model.MethodEqual):
		return newPlan(t, StrategyMethod, t.X+".Equal("+t.Y+")"), true
	case t.Trait == directive.PartialOrd && methods.Has(model.MethodCompare):
		return newPlan(t, StrategyMethod, t.X+".Compare("+t.Y+"), true"), true
	case t.Trait == directive.Ord && methods.Has(model.MethodCompare):
		return newPlan(t, StrategyMethod, t.X+".Compare("+t.Y+")"), true
	case t.Trait == directive.Hash && methods.Has(model.MethodHash):
		return newPlan(t, StrategyMethod, t.X+".Hash("+t.H+")"), true
	case t.Trait == directive.Clone && methods.Has(model.MethodClone):
		return newPlan(t, StrategyMethod, t.X+".Clone()"), true
	case t.Trait == directive.Debug && methods.Has(model.MethodString):
		return newPlan(t, StrategyMethod, t.X+".String()"), true
	}
	return FieldPlan{}, false
}

// SliceRule: slices compare, hash and clone element-wise.
type SliceRule struct {
	derived DerivedSet
}

func (r *SliceRule) Name() string { return "slice" }

func (r *SliceRule) SetDerivedSet(s DerivedSet) { r.derived = s }

func (r *SliceRule) Try(t Target) (FieldPlan, bool) {
	s := t.Field.Type.Structure()
	if s.Kind != model.KindSlice {
		return FieldPlan{}, false
	}
	elem := s.Elem

	switch t.Trait {
	case directive.PartialEq:
		if fn, ok := r.elemFunc(directive.PartialEq, elem); ok {
			return newPlan(t, StrategyStdlib, "slices.EqualFunc("+t.X+", "+t.Y+", "+fn+")"), true
		}
		if isComparable(elem) {
			return newPlan(t, StrategyStdlib, "slices.Equal("+t.X+", "+t.Y+")"), true
		}

	case directive.Ord:
		if fn, ok := r.elemFunc(directive.Ord, elem); ok {
			return newPlan(t, StrategyStdlib, "slices.CompareFunc("+t.X+", "+t.Y+", "+fn+")"), true
		}
		if elem.Bool {
			return newPlan(t, StrategyHelper, "slices.CompareFunc("+t.X+", "+t.Y+", "+helperCompareBool+"["+elem.Str+"])", helperCompareBool), true
		}
		if isOrdered(elem) {
			return newPlan(t, StrategyStdlib, "slices.Compare("+t.X+", "+t.Y+")"), true
		}

	case directive.PartialOrd:
		if r.derived.Has(elem, directive.PartialOrd) {
			fn := funcRef(directive.PartialOrd, elem)
			return newPlan(t, StrategyHelper, helperPartialCompareSlice+"("+t.X+", "+t.Y+", "+fn+")", helperPartialCompareSlice), true
		}
		if elem.Float && elem.Ordered {
			fn := helperPartialCompareFloat + "[" + elem.Str + "]"
			return newPlan(t, StrategyHelper, helperPartialCompareSlice+"("+t.X+", "+t.Y+", "+fn+")",
				helperPartialCompareSlice, helperPartialCompareFloat), true
		}
		if fn, ok := r.elemFunc(directive.Ord, elem); ok {
			return newPlan(t, StrategyStdlib, "slices.CompareFunc("+t.X+", "+t.Y+", "+fn+"), true"), true
		}
		if elem.Bool {
			return newPlan(t, StrategyHelper, "slices.CompareFunc("+t.X+", "+t.Y+", "+helperCompareBool+"["+elem.Str+"]), true", helperCompareBool), true
		}
		if isOrdered(elem) {
			return newPlan(t, StrategyStdlib, "slices.Compare("+t.X+", "+t.Y+"), true"), true
		}

	case directive.Hash:
		if stmt, ok := r.hashElem(t.H, "v", elem); ok {
			code := writeComparable(t.H, "len("+t.X+")") + "\nfor _, v := range " + t.X + " {\n" + stmt + "\n}"
			return newPlan(t, StrategyStdlib, code), true
		}

	case directive.Clone:
		if fn, ok := r.elemFunc(directive.Clone, elem); ok {
			return newPlan(t, StrategyHelper, helperCloneSlice+"("+t.X+", "+fn+")", helperCloneSlice), true
		}
		return newPlan(t, StrategyStdlib, "slices.Clone("+t.X+")"), true

	case directive.Debug:
		if r.derived.Has(elem, directive.Debug) {
			fn := funcRef(directive.Debug, elem)
			return newPlan(t, StrategyHelper, helperDebugSlice+"("+t.X+", "+fn+")", helperDebugSlice), true
		}
		return FieldPlan{}, false

	default:
		return FieldPlan{}, false
	}
	return unsupported(t, fmt.Sprintf("element type %s does not support %s", elem, t.Trait)), true
}

// elemFunc returns a function value implementing trait for elements of
// type elem: a generated function or a method expression.
func (r *SliceRule) elemFunc(trait directive.Trait, elem *model.TypeExpr) (string, bool) {
	return elemFunc(r.derived, trait, elem)
}

func (r *SliceRule) hashElem(h, v string, elem *model.TypeExpr) (string, bool) {
	return hashElem(r.derived, h, v, elem)
}

// MapRule: maps compare and clone by value; they have no order.
type MapRule struct {
	derived DerivedSet
}

func (r *MapRule) Name() string { return "map" }

func (r *MapRule) SetDerivedSet(s DerivedSet) { r.derived = s }

func (r *MapRule) Try(t Target) (FieldPlan, bool) {
	s := t.Field.Type.Structure()
	if s.Kind != model.KindMap {
		return FieldPlan{}, false
	}
	elem := s.Elem

	switch t.Trait {
	case directive.PartialEq:
		if fn, ok := elemFunc(r.derived, directive.PartialEq, elem); ok {
			return newPlan(t, StrategyStdlib, "maps.EqualFunc("+t.X+", "+t.Y+", "+fn+")"), true
		}
		if isComparable(elem) {
			return newPlan(t, StrategyStdlib, "maps.Equal("+t.X+", "+t.Y+")"), true
		}
		return unsupported(t, fmt.Sprintf("value type %s is not comparable", elem)), true
	case directive.PartialOrd, directive.Ord, directive.Hash:
		return unsupported(t, "maps have no iteration order"), true
	case directive.Clone:
		if fn, ok := elemFunc(r.derived, directive.Clone, elem); ok {
			return newPlan(t, StrategyHelper, helperCloneMap+"("+t.X+", "+fn+")", helperCloneMap), true
		}
		return newPlan(t, StrategyStdlib, "maps.Clone("+t.X+")"), true
	}
	return FieldPlan{}, false
}

// PointerRule: pointers compare, hash and clone their pointees.
type PointerRule struct {
	derived DerivedSet
}

func (r *PointerRule) Name() string { return "pointer" }

func (r *PointerRule) SetDerivedSet(s DerivedSet) { r.derived = s }

func (r *PointerRule) Try(t Target) (FieldPlan, bool) {
	s := t.Field.Type.Structure()
	if s.Kind != model.KindPointer {
		return FieldPlan{}, false
	}
	elem := s.Elem

	switch t.Trait {
	case directive.PartialEq:
		fn, ok := elemFunc(r.derived, directive.PartialEq, elem)
		if !ok && isComparable(elem) {
			fn, ok = "func(a, b "+elem.Str+") bool { return a == b }", true
		}
		if ok {
			return newPlan(t, StrategyHelper, helperEqualPointer+"("+t.X+", "+t.Y+", "+fn+")", helperEqualPointer), true
		}
		return unsupported(t, fmt.Sprintf("pointee type %s is not comparable", elem)), true

	case directive.Hash:
		stmt, ok := hashElem(r.derived, t.H, "*"+t.X, elem)
		if !ok {
			return unsupported(t, fmt.Sprintf("pointee type %s cannot be hashed", elem)), true
		}
		code := writeComparable(t.H, t.X+" != nil") + "\nif " + t.X + " != nil {\n" + stmt + "\n}"
		return newPlan(t, StrategyStdlib, code), true

	case directive.PartialOrd, directive.Ord:
		return unsupported(t, "pointers have no order"), true

	case directive.Clone:
		if fn, ok := elemFunc(r.derived, directive.Clone, elem); ok {
			return newPlan(t, StrategyHelper, helperClonePointerFunc+"("+t.X+", "+fn+")", helperClonePointerFunc), true
		}
		return newPlan(t, StrategyHelper, helperClonePointer+"("+t.X+")", helperClonePointer), true
	}
	return FieldPlan{}, false
}

// BasicRule: comparable and ordered values use operators and package cmp.
type BasicRule struct{}

func (r *BasicRule) Name() string { return "basic" }

func (r *BasicRule) Try(t Target) (FieldPlan, bool) {
	typ := t.Field.Type
	switch t.Trait {
	case directive.PartialEq:
		if typ.Comparable {
			return newPlan(t, StrategyOperator, t.X+" == "+t.Y), true
		}
		return unsupported(t, fmt.Sprintf("type %s is not comparable", typ)), true

	case directive.PartialOrd:
		switch {
		case typ.Bool:
			return newPlan(t, StrategyHelper, helperCompareBool+"("+t.X+", "+t.Y+"), true", helperCompareBool), true
		case typ.Float && typ.Ordered:
			return newPlan(t, StrategyHelper, helperPartialCompareFloat+"("+t.X+", "+t.Y+")", helperPartialCompareFloat), true
		case typ.Ordered:
			return newPlan(t, StrategyStdlib, "cmp.Compare("+t.X+", "+t.Y+"), true"), true
		}
		return unsupported(t, fmt.Sprintf("type %s has no order", typ)), true

	case directive.Ord:
		switch {
		case typ.Bool:
			return newPlan(t, StrategyHelper, helperCompareBool+"("+t.X+", "+t.Y+")", helperCompareBool), true
		case typ.Ordered:
			return newPlan(t, StrategyStdlib, "cmp.Compare("+t.X+", "+t.Y+")"), true
		}
		return unsupported(t, fmt.Sprintf("type %s has no order", typ)), true

	case directive.Hash:
		if typ.Comparable {
			return newPlan(t, StrategyStdlib, writeComparable(t.H, t.X)), true
		}
		return unsupported(t, fmt.Sprintf("type %s is not comparable", typ)), true
	}
	return FieldPlan{}, false
}

// FallbackRule: what every type supports.
type FallbackRule struct{}

func (r *FallbackRule) Name() string { return "fallback" }

func (r *FallbackRule) Try(t Target) (FieldPlan, bool) {
	switch t.Trait {
	case directive.Debug:
		return newPlan(t, StrategyFormat, `fmt.Sprintf("%#v", `+t.X+")"), true
	case directive.Clone:
		return newPlan(t, StrategyCopy, t.X), true
	case directive.Default:
		return newPlan(t, StrategyZero, ""), true
	}
	return unsupported(t, fmt.Sprintf("%s is not supported for type %s", t.Trait, t.Field.Type)), true
}

func writeComparable(h, x string) string {
	return "maphash.WriteComparable(" + h + ", " + x + ")"
}

func isComparable(t *model.TypeExpr) bool {
	return t.Comparable || t.Kind == model.KindTypeParam
}

func isOrdered(t *model.TypeExpr) bool {
	return t.Ordered || t.Kind == model.KindTypeParam
}

// elemFunc returns a function value implementing trait for values of type
// elem: the generated function of a derived type, or a method expression.
func elemFunc(derived DerivedSet, trait directive.Trait, elem *model.TypeExpr) (string, bool) {
	if derived.Has(elem, trait) {
		return funcRef(trait, elem), true
	}
	var m model.Methods
	var name string
	switch trait {
	case directive.PartialEq:
		m, name = model.MethodEqual, "Equal"
	case directive.PartialOrd, directive.Ord:
		m, name = model.MethodCompare, "Compare"
	case directive.Clone:
		m, name = model.MethodClone, "Clone"
	default:
		return "", false
	}
	if elem.Kind == model.KindNamed && elem.Methods.Has(m) {
		return elem.Str + "." + name, true
	}
	return "", false
}

// hashElem returns the statement hashing v of type elem into h.
func hashElem(derived DerivedSet, h, v string, elem *model.TypeExpr) (string, bool) {
	switch {
	case derived.Has(elem, directive.Hash):
		return funcRef(directive.Hash, elem) + "(" + h + ", " + v + ")", true
	case elem.Methods.Has(model.MethodHash):
		if strings.HasPrefix(v, "*") {
			v = "(" + v + ")"
		}
		return v + ".Hash(" + h + ")", true
	case isComparable(elem):
		return writeComparable(h, v), true
	}
	return "", false
}
