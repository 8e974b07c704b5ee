package parser

import (
	"go/types"

	"github.com/seitarof/gen-derive/internal/model"
)

// typeBuilder converts go/types types to the model's TypeExpr trees.
// Type strings are qualified relative to the package being generated.
type typeBuilder struct {
	pkg *types.Package

	// expanding guards the underlying types of recursive named types.
	expanding map[*types.TypeName]bool
}

func newTypeBuilder(pkg *types.Package) typeBuilder {
	return typeBuilder{pkg: pkg, expanding: map[*types.TypeName]bool{}}
}

func (b typeBuilder) qualifier(p *types.Package) string {
	if p == nil || p == b.pkg || (b.pkg != nil && p.Path() == b.pkg.Path()) {
		return ""
	}
	return p.Name()
}

func (b typeBuilder) typeString(t types.Type) string {
	return types.TypeString(t, b.qualifier)
}

func (b typeBuilder) build(t types.Type) *model.TypeExpr {
	switch v := t.(type) {
	case *types.Alias:
		return b.build(types.Unalias(v))
	case *types.Basic:
		return model.Basic(v.Name())
	case *types.TypeParam:
		return model.Param(v.Obj().Name())
	case *types.Pointer:
		return model.PointerTo(b.build(v.Elem()))
	case *types.Slice:
		return model.SliceOf(b.build(v.Elem()))
	case *types.Array:
		return model.ArrayOf(v.Len(), b.build(v.Elem()))
	case *types.Map:
		return model.MapOf(b.build(v.Key()), b.build(v.Elem()))
	case *types.Chan:
		return &model.TypeExpr{Kind: model.KindChan, Elem: b.build(v.Elem()), Str: b.typeString(v), Comparable: true}
	case *types.Signature:
		return &model.TypeExpr{Kind: model.KindFunc, Str: b.typeString(v)}
	case *types.Interface:
		return &model.TypeExpr{Kind: model.KindInterface, Str: b.typeString(v), Comparable: true}
	case *types.Struct:
		return b.structOf(v, func(*types.Var) bool { return true })
	case *types.Named:
		return b.named(v)
	default:
		return &model.TypeExpr{Kind: model.KindInterface, Str: b.typeString(t)}
	}
}

func (b typeBuilder) named(n *types.Named) *model.TypeExpr {
	obj := n.Obj()
	var args []*model.TypeExpr
	if targs := n.TypeArgs(); targs != nil {
		for i := 0; i < targs.Len(); i++ {
			args = append(args, b.build(targs.At(i)))
		}
	}
	pkgPath := ""
	if obj.Pkg() != nil {
		pkgPath = obj.Pkg().Path()
	}
	out := model.NamedOf(pkgPath, obj.Name(), args...)
	out.Str = b.typeString(n)
	out.Comparable = types.Comparable(n)
	out.Methods = methodsOf(n)

	switch under := n.Underlying().(type) {
	case *types.Interface:
	case *types.Struct:
		if !b.expanding[obj] {
			b.expanding[obj] = true
			out.Under = b.structOf(under, b.visible)
			delete(b.expanding, obj)
		}
	case *types.Basic:
		basic := model.Basic(under.Name())
		out.Under = basic
		out.Ordered, out.Float, out.Bool, out.IsString = basic.Ordered, basic.Float, basic.Bool, basic.IsString
	default:
		if !b.expanding[obj] {
			b.expanding[obj] = true
			out.Under = b.build(under)
			delete(b.expanding, obj)
		}
	}
	return out
}

func (b typeBuilder) structOf(st *types.Struct, keep func(*types.Var) bool) *model.TypeExpr {
	out := &model.TypeExpr{Kind: model.KindStruct, Str: b.typeString(st), Comparable: types.Comparable(st)}
	for i := 0; i < st.NumFields(); i++ {
		if f := st.Field(i); keep(f) {
			out.Args = append(out.Args, b.build(f.Type()))
		}
	}
	return out
}

// visible reports whether generated code could read the field: unexported
// fields of other packages are opaque.
func (b typeBuilder) visible(f *types.Var) bool {
	return f.Exported() || (f.Pkg() != nil && b.pkg != nil && f.Pkg().Path() == b.pkg.Path())
}

// methodsOf reports the well-known methods n declares with a value
// receiver and the expected signature.
func methodsOf(n *types.Named) model.Methods {
	var m model.Methods
	lookup := func(name string) *types.Signature {
		obj, _, _ := types.LookupFieldOrMethod(n, false, n.Obj().Pkg(), name)
		fn, ok := obj.(*types.Func)
		if !ok {
			return nil
		}
		return fn.Type().(*types.Signature)
	}
	self := func(t types.Type) bool { return types.Identical(t, n) }
	is := func(t types.Type, kind types.BasicKind) bool {
		b, ok := t.(*types.Basic)
		return ok && b.Kind() == kind
	}

	if sig := lookup("Equal"); sig != nil && sig.Params().Len() == 1 && sig.Results().Len() == 1 &&
		self(sig.Params().At(0).Type()) && is(sig.Results().At(0).Type(), types.Bool) {
		m |= model.MethodEqual
	}
	if sig := lookup("Compare"); sig != nil && sig.Params().Len() == 1 && sig.Results().Len() == 1 &&
		self(sig.Params().At(0).Type()) && is(sig.Results().At(0).Type(), types.Int) {
		m |= model.MethodCompare
	}
	if sig := lookup("Hash"); sig != nil && sig.Params().Len() == 1 && sig.Results().Len() == 0 &&
		types.TypeString(sig.Params().At(0).Type(), nil) == "*hash/maphash.Hash" {
		m |= model.MethodHash
	}
	if sig := lookup("Clone"); sig != nil && sig.Params().Len() == 0 && sig.Results().Len() == 1 &&
		self(sig.Results().At(0).Type()) {
		m |= model.MethodClone
	}
	if sig := lookup("String"); sig != nil && sig.Params().Len() == 0 && sig.Results().Len() == 1 &&
		is(sig.Results().At(0).Type(), types.String) {
		m |= model.MethodString
	}
	return m
}
