package model

import (
	"strconv"
	"strings"
)

// TypeKind is a coarse-grained type category.
type TypeKind int

const (
	KindBasic TypeKind = iota
	KindNamed
	KindTypeParam
	KindPointer
	KindSlice
	KindArray
	KindMap
	KindChan
	KindFunc
	KindInterface
	KindStruct
)

func (k TypeKind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindNamed:
		return "named"
	case KindTypeParam:
		return "type parameter"
	case KindPointer:
		return "pointer"
	case KindSlice:
		return "slice"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindChan:
		return "chan"
	case KindFunc:
		return "func"
	case KindInterface:
		return "interface"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// Methods is the set of well-known methods a named type declares with a
// value receiver.
type Methods uint8

const (
	MethodEqual   Methods = 1 << iota // Equal(T) bool
	MethodCompare                     // Compare(T) int
	MethodHash                        // Hash(*maphash.Hash)
	MethodClone                       // Clone() T
	MethodString                      // String() string
)

// Has reports whether all methods of m are present.
func (s Methods) Has(m Methods) bool { return s&m == m }

// TypeExpr is the declared type of a field as an explicit tree.
type TypeExpr struct {
	Kind TypeKind

	// Name is the basic type name ("int"), the named type's name ("Point")
	// or the type parameter's name ("T").
	Name    string
	PkgPath string

	// Str is the type as written in the declaring package, e.g. "[]Box[T]".
	Str string

	// Args holds type arguments of a named type, parameter and result types
	// of a func, and field types of an anonymous struct.
	Args []*TypeExpr
	Elem *TypeExpr
	Key  *TypeExpr
	Len  int64

	// Under is the underlying type of a named type, such as the slice
	// behind `type Tags []string`. For a struct it is a KindStruct holding
	// the field types visible from the generated package. Nil for
	// interfaces and for a type already being expanded.
	Under *TypeExpr

	Comparable bool
	Ordered    bool // satisfies cmp.Ordered
	Float      bool // floating point or complex underlying type
	Bool       bool
	IsString   bool

	Methods Methods
}

// Children returns the direct sub-expressions in a stable order.
func (t *TypeExpr) Children() []*TypeExpr {
	if t == nil {
		return nil
	}
	out := make([]*TypeExpr, 0, len(t.Args)+2)
	if t.Key != nil {
		out = append(out, t.Key)
	}
	if t.Elem != nil {
		out = append(out, t.Elem)
	}
	return append(out, t.Args...)
}

// Reference reports whether values of the type share state when copied.
// Arrays, structs and named types are looked through.
func (t *TypeExpr) Reference() bool {
	return t.reference(map[*TypeExpr]bool{})
}

func (t *TypeExpr) reference(seen map[*TypeExpr]bool) bool {
	if t == nil || seen[t] {
		return false
	}
	seen[t] = true
	switch t.Kind {
	case KindPointer, KindSlice, KindMap, KindChan, KindFunc:
		return true
	case KindArray:
		return t.Elem.reference(seen)
	case KindNamed:
		return t.Under.reference(seen)
	case KindStruct:
		for _, a := range t.Args {
			if a.reference(seen) {
				return true
			}
		}
	}
	return false
}

// Structure returns the type itself, or the underlying type of a named
// non-struct type.
func (t *TypeExpr) Structure() *TypeExpr {
	if t.Kind == KindNamed && t.Under != nil && t.Under.Kind != KindStruct {
		return t.Under
	}
	return t
}

// HasFloat reports whether comparing values of the type compares floating
// point numbers, including those held by nested struct fields.
func (t *TypeExpr) HasFloat() bool {
	return t.hasFloat(map[*TypeExpr]bool{})
}

func (t *TypeExpr) hasFloat(seen map[*TypeExpr]bool) bool {
	if t == nil || seen[t] {
		return false
	}
	seen[t] = true
	if t.Float {
		return true
	}
	switch t.Kind {
	case KindSlice, KindArray, KindPointer:
		return t.Elem.hasFloat(seen)
	case KindMap:
		return t.Key.hasFloat(seen) || t.Elem.hasFloat(seen)
	case KindNamed:
		return t.Under.hasFloat(seen)
	case KindStruct:
		for _, a := range t.Args {
			if a.hasFloat(seen) {
				return true
			}
		}
	}
	return false
}

func (t *TypeExpr) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Str
}

// Basic returns a TypeExpr for a predeclared type.
func Basic(name string) *TypeExpr {
	t := &TypeExpr{Kind: KindBasic, Name: name, Str: name, Comparable: true}
	switch {
	case name == "bool":
		t.Bool = true
	case name == "string":
		t.IsString, t.Ordered = true, true
	case strings.HasPrefix(name, "float"):
		t.Float, t.Ordered = true, true
	case strings.HasPrefix(name, "complex"):
		t.Float = true
	case strings.Contains(name, "int"), name == "byte", name == "rune":
		t.Ordered = true
	default:
		t.Comparable = name != "any"
	}
	return t
}

// Param returns a TypeExpr referring to a type parameter.
func Param(name string) *TypeExpr {
	return &TypeExpr{Kind: KindTypeParam, Name: name, Str: name}
}

// SliceOf returns a slice TypeExpr.
func SliceOf(elem *TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: KindSlice, Elem: elem, Str: "[]" + elem.Str}
}

// ArrayOf returns an array TypeExpr.
func ArrayOf(n int64, elem *TypeExpr) *TypeExpr {
	return &TypeExpr{
		Kind: KindArray, Elem: elem, Len: n,
		Str:        "[" + strconv.FormatInt(n, 10) + "]" + elem.Str,
		Comparable: elem.Comparable,
	}
}

// MapOf returns a map TypeExpr.
func MapOf(key, elem *TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: KindMap, Key: key, Elem: elem, Str: "map[" + key.Str + "]" + elem.Str}
}

// PointerTo returns a pointer TypeExpr.
func PointerTo(elem *TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: KindPointer, Elem: elem, Str: "*" + elem.Str, Comparable: true}
}

// NamedOf returns a named TypeExpr in pkgPath instantiated with args.
func NamedOf(pkgPath, name string, args ...*TypeExpr) *TypeExpr {
	str := name
	if len(args) > 0 {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, a.Str)
		}
		str += "[" + strings.Join(parts, ", ") + "]"
	}
	return &TypeExpr{Kind: KindNamed, Name: name, PkgPath: pkgPath, Str: str, Args: args, Comparable: true}
}
