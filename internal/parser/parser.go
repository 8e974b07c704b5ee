package parser

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"

	"golang.org/x/tools/go/packages"

	"github.com/seitarof/gen-derive/internal/diag"
	"github.com/seitarof/gen-derive/internal/directive"
	"github.com/seitarof/gen-derive/internal/model"
)

// BuildTag is set while loading so that a stale generated file, which is
// guarded by `//go:build !derivegen`, never takes part in type checking.
const BuildTag = "derivegen"

// Parser extracts annotated type declarations from a Go package.
type Parser interface {
	Parse(pattern string) (*Package, error)
}

// Package is the result of parsing one package.
type Package struct {
	Name string
	Path string
	Dir  string

	// Decls are the well-formed annotated declarations in source order.
	Decls []*model.TypeDecl

	// Problems joins the diagnostics of the declarations that were
	// skipped.
	Problems error
}

type parserImpl struct{}

// New returns the default parser.
func New() Parser {
	return &parserImpl{}
}

func (p *parserImpl) Parse(pattern string) (*Package, error) {
	pkg, err := p.loadPackage(pattern)
	if err != nil {
		return nil, err
	}
	if pkg.Types == nil || pkg.TypesInfo == nil {
		return nil, fmt.Errorf("type info unavailable for package %q", pattern)
	}

	out := &Package{Name: pkg.Name, Path: pkg.PkgPath}
	if len(pkg.GoFiles) > 0 {
		out.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	s := newScanner(pkg)
	decls, errs := s.scan()
	out.Decls = decls
	out.Problems = diag.Join(errs)
	return out, nil
}

func (p *parserImpl) loadPackage(pattern string) (*packages.Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedSyntax |
			packages.NeedTypes |
			packages.NeedTypesInfo |
			packages.NeedModule,
		BuildFlags: []string{"-tags=" + BuildTag},
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("load package %q: %w", pattern, err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("package %q has compilation errors", pattern)
	}
	switch len(pkgs) {
	case 0:
		return nil, fmt.Errorf("package %q not found", pattern)
	case 1:
		return pkgs[0], nil
	default:
		return nil, fmt.Errorf("pattern %q matches %d packages, want one", pattern, len(pkgs))
	}
}

// typeSpec is one type declaration of the package with its directives.
type typeSpec struct {
	spec  *ast.TypeSpec
	obj   *types.TypeName
	own   []directive.Line
	field []directive.Line
}

func (t *typeSpec) annotated() bool { return len(t.own) > 0 || len(t.field) > 0 }

func (t *typeSpec) pos(fset *token.FileSet) token.Position { return fset.Position(t.spec.Name.Pos()) }

type scanner struct {
	pkg   *packages.Package
	fset  *token.FileSet
	specs []*typeSpec
	types typeBuilder
}

func newScanner(pkg *packages.Package) *scanner {
	return &scanner{
		pkg:   pkg,
		fset:  pkg.Fset,
		types: newTypeBuilder(pkg.Types),
	}
}

func (s *scanner) scan() ([]*model.TypeDecl, []*diag.Error) {
	s.collect()

	// Variants of an annotated enum carry variant directives, so they are
	// never declarations of their own.
	variantOf := map[*typeSpec]bool{}
	var enums []*typeSpec
	for _, ts := range s.specs {
		if ts.annotated() && isInterface(ts.spec) {
			enums = append(enums, ts)
		}
	}
	variants := map[*typeSpec][]*typeSpec{}
	for _, e := range enums {
		vs := s.variantsOf(e)
		variants[e] = vs
		for _, v := range vs {
			variantOf[v] = true
		}
	}

	var (
		decls []*model.TypeDecl
		errs  []*diag.Error
	)
	for _, ts := range s.specs {
		if !ts.annotated() || variantOf[ts] {
			continue
		}
		var (
			decl *model.TypeDecl
			derr []*diag.Error
		)
		if isInterface(ts.spec) {
			decl, derr = s.enumDecl(ts, variants[ts])
		} else {
			decl, derr = s.structDecl(ts)
		}
		if len(derr) > 0 {
			for _, e := range derr {
				errs = append(errs, e.WithType(ts.spec.Name.Name))
			}
			continue
		}
		decls = append(decls, decl)
	}
	return decls, errs
}

// collect records every package-level type declaration in source order.
func (s *scanner) collect() {
	for _, file := range s.pkg.Syntax {
		for _, d := range file.Decls {
			gen, ok := d.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, sp := range gen.Specs {
				spec := sp.(*ast.TypeSpec)
				doc := spec.Doc
				if doc == nil && !gen.Lparen.IsValid() {
					doc = gen.Doc
				}
				obj, _ := s.pkg.TypesInfo.Defs[spec.Name].(*types.TypeName)
				if obj == nil {
					continue
				}
				own, field := directive.Lines(s.fset, doc)
				s.specs = append(s.specs, &typeSpec{spec: spec, obj: obj, own: own, field: field})
			}
		}
	}
	sort.SliceStable(s.specs, func(i, j int) bool {
		return s.specs[i].spec.Pos() < s.specs[j].spec.Pos()
	})
}

func isInterface(spec *ast.TypeSpec) bool {
	_, ok := spec.Type.(*ast.InterfaceType)
	return ok && !spec.Assign.IsValid()
}

func (s *scanner) base(ts *typeSpec) (*model.TypeDecl, []*diag.Error) {
	decl := &model.TypeDecl{
		Name:    ts.spec.Name.Name,
		PkgPath: s.pkg.PkgPath,
		PkgName: s.pkg.Name,
		Pos:     ts.pos(s.fset),
	}
	if ts.spec.Assign.IsValid() {
		return nil, []*diag.Error{diag.Errorf(diag.CodeInvalidDeclaration, decl.Pos,
			"`%s` is an alias; derive on the aliased type instead", decl.Name)}
	}
	decl.Params = typeParams(ts.spec)

	cfg, err := directive.Parse(directive.ContextType, ts.own)
	if err != nil {
		return nil, diag.Flatten(err)
	}
	if !cfg.Pos.IsValid() {
		cfg.Pos = decl.Pos
	}
	decl.Config = cfg
	return decl, nil
}

func typeParams(spec *ast.TypeSpec) []model.TypeParam {
	if spec.TypeParams == nil {
		return nil
	}
	var out []model.TypeParam
	for _, f := range spec.TypeParams.List {
		c := types.ExprString(f.Type)
		for _, n := range f.Names {
			out = append(out, model.TypeParam{Name: n.Name, Constraint: c})
		}
	}
	return out
}

func (s *scanner) structDecl(ts *typeSpec) (*model.TypeDecl, []*diag.Error) {
	decl, errs := s.base(ts)
	if len(errs) > 0 {
		return nil, errs
	}
	v, errs := s.variant(ts, decl.Name, decl.ArgList(), directive.Config{})
	if len(errs) > 0 {
		return nil, errs
	}
	decl.Shape = &model.Shape{Kind: model.ShapeStruct, Variants: []*model.Variant{v}}
	return decl, nil
}

func (s *scanner) enumDecl(ts *typeSpec, variants []*typeSpec) (*model.TypeDecl, []*diag.Error) {
	decl, errs := s.base(ts)
	if len(errs) > 0 {
		return nil, errs
	}
	if len(variants) == 0 {
		return nil, []*diag.Error{diag.Errorf(diag.CodeInvalidDeclaration, decl.Pos,
			"enum `%s` has no variants; declare an unexported marker method and implement it on each variant", decl.Name)}
	}

	shape := &model.Shape{Kind: model.ShapeEnum}
	for i, vs := range variants {
		if err := sameParams(decl, vs.spec); err != nil {
			errs = append(errs, diag.Errorf(diag.CodeInvalidDeclaration, vs.pos(s.fset), "%s", err))
			continue
		}
		cfg, err := directive.Parse(directive.ContextVariant, vs.own)
		if err != nil {
			errs = append(errs, diag.Flatten(err)...)
			continue
		}
		if !cfg.Pos.IsValid() {
			cfg.Pos = vs.pos(s.fset)
		}
		v, verrs := s.variant(vs, vs.spec.Name.Name, decl.ArgList(), cfg)
		if len(verrs) > 0 {
			errs = append(errs, verrs...)
			continue
		}
		v.Ordinal = i
		shape.Variants = append(shape.Variants, v)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	decl.Shape = shape
	return decl, nil
}

// sameParams checks that a variant declares exactly the type parameters
// of its enum, so the enum's argument list instantiates it.
func sameParams(decl *model.TypeDecl, spec *ast.TypeSpec) error {
	got := typeParams(spec)
	if len(got) != len(decl.Params) {
		return fmt.Errorf("variant `%s` must declare the type parameters of `%s`", spec.Name.Name, decl.TypeString())
	}
	for i, p := range got {
		if p.Name != decl.Params[i].Name {
			return fmt.Errorf("variant `%s` must declare the type parameters of `%s`", spec.Name.Name, decl.TypeString())
		}
	}
	return nil
}

// variant builds the single variant of a struct or defined type, or one
// variant of an enum.
func (s *scanner) variant(ts *typeSpec, name, args string, cfg directive.Config) (*model.Variant, []*diag.Error) {
	v := &model.Variant{
		Name:    name,
		TypeStr: name + args,
		Config:  cfg,
		Pos:     ts.pos(s.fset),
	}

	if st, ok := ts.spec.Type.(*ast.StructType); ok {
		fields, errs := s.fields(st)
		if len(errs) > 0 {
			return nil, errs
		}
		v.Fields = fields
		v.Layout = model.LayoutNamed
		if len(fields) == 0 {
			v.Layout = model.LayoutUnit
		}
		return v, nil
	}

	rhs := s.pkg.TypesInfo.TypeOf(ts.spec.Type)
	if rhs == nil {
		return nil, []*diag.Error{diag.Errorf(diag.CodeInvalidDeclaration, v.Pos, "no type information for `%s`", name)}
	}
	fcfg, err := directive.Parse(directive.ContextField, ts.field)
	if err != nil {
		return nil, diag.Flatten(err)
	}
	v.Layout = model.LayoutPositional
	v.Underlying = s.types.typeString(rhs)
	v.Fields = []*model.Field{{
		Index:  0,
		Type:   s.types.build(rhs),
		Config: fcfg,
		Pos:    v.Pos,
	}}
	return v, nil
}

func (s *scanner) fields(st *ast.StructType) ([]*model.Field, []*diag.Error) {
	tst, ok := s.pkg.TypesInfo.TypeOf(st).(*types.Struct)
	if !ok {
		return nil, []*diag.Error{diag.Errorf(diag.CodeInvalidDeclaration, s.fset.Position(st.Pos()), "no type information for struct")}
	}

	var (
		out  []*model.Field
		errs []*diag.Error
		idx  int
	)
	for _, af := range st.Fields.List {
		own, _ := directive.Lines(s.fset, af.Doc, af.Comment)
		n := len(af.Names)
		if n == 0 {
			n = 1
		}
		for range n {
			tf := tst.Field(idx)
			idx++
			if tf.Name() == "_" {
				continue
			}
			cfg, err := directive.Parse(directive.ContextField, own)
			if err != nil {
				errs = append(errs, diag.Flatten(err)...)
				continue
			}
			out = append(out, &model.Field{
				Name:   tf.Name(),
				Index:  len(out),
				Type:   s.types.build(tf.Type()),
				Config: cfg,
				Pos:    s.fset.Position(tf.Pos()),
			})
		}
	}
	return out, errs
}

// variantsOf returns the types implementing the enum's marker method with a
// value receiver, in declaration order.
func (s *scanner) variantsOf(enum *typeSpec) []*typeSpec {
	iface, ok := enum.obj.Type().Underlying().(*types.Interface)
	if !ok {
		return nil
	}
	var markers []string
	for i := 0; i < iface.NumExplicitMethods(); i++ {
		m := iface.ExplicitMethod(i)
		sig := m.Type().(*types.Signature)
		if !m.Exported() && sig.Params().Len() == 0 && sig.Results().Len() == 0 {
			markers = append(markers, m.Name())
		}
	}
	if len(markers) == 0 {
		return nil
	}

	var out []*typeSpec
	for _, ts := range s.specs {
		if ts == enum || isInterface(ts.spec) || ts.spec.Assign.IsValid() {
			continue
		}
		if hasValueMethods(ts.obj, markers) {
			out = append(out, ts)
		}
	}
	return out
}

func hasValueMethods(obj *types.TypeName, names []string) bool {
	for _, name := range names {
		m, _, _ := types.LookupFieldOrMethod(obj.Type(), false, obj.Pkg(), name)
		fn, ok := m.(*types.Func)
		if !ok {
			return false
		}
		if fn.Type().(*types.Signature).Recv() == nil {
			return false
		}
	}
	return true
}
