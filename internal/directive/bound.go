package directive

import (
	"errors"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strings"
)

// ParseBound parses the body of a type parameter list, such as
// "T comparable, U interface{ ~int | ~string }". An empty string yields an
// empty, non-nil list.
func ParseBound(s string) ([]Predicate, error) {
	if strings.TrimSpace(s) == "" {
		return []Predicate{}, nil
	}

	fset := token.NewFileSet()
	src := "package p\nfunc _[" + s + "]() {}\n"
	f, err := parser.ParseFile(fset, "", src, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}
	if len(f.Decls) != 1 {
		return nil, errors.New("expected a single type parameter list")
	}
	fn, ok := f.Decls[0].(*ast.FuncDecl)
	if !ok || fn.Type.TypeParams == nil || fn.Type.Params.NumFields() != 0 {
		return nil, errors.New("expected a single type parameter list")
	}

	var preds []Predicate
	for _, field := range fn.Type.TypeParams.List {
		var b strings.Builder
		if err := format.Node(&b, fset, field.Type); err != nil {
			return nil, err
		}
		for _, name := range field.Names {
			preds = append(preds, Predicate{Param: name.Name, Constraint: b.String()})
		}
	}
	return preds, nil
}
