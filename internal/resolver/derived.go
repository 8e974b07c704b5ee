package resolver

import (
	"github.com/seitarof/gen-derive/internal/directive"
	"github.com/seitarof/gen-derive/internal/model"
)

// DerivedKey identifies one declaration of the generated package.
type DerivedKey struct {
	PkgPath string
	Name    string
}

// DerivedSet maps the declarations of the package to the traits generated
// for them. Fields of those types call the generated functions.
type DerivedSet map[DerivedKey]directive.TraitSet

// NewDerivedSet records the requested traits of decls.
func NewDerivedSet(decls []*model.TypeDecl) DerivedSet {
	set := make(DerivedSet, len(decls))
	for _, d := range decls {
		set[DerivedKey{PkgPath: d.PkgPath, Name: d.Name}] = d.Config.Traits()
	}
	return set
}

// Has reports whether trait is generated for the named type t.
func (s DerivedSet) Has(t *model.TypeExpr, trait directive.Trait) bool {
	if t == nil || t.Kind != model.KindNamed {
		return false
	}
	return s[DerivedKey{PkgPath: t.PkgPath, Name: t.Name}].Has(trait)
}

// Drop removes trait from the declaration.
func (s DerivedSet) Drop(key DerivedKey, trait directive.Trait) {
	traits, ok := s[key]
	if !ok {
		return
	}
	s[key] = traits.Without(trait)
}

// DerivedAware can consume the derived set.
type DerivedAware interface {
	SetDerivedSet(DerivedSet)
}
