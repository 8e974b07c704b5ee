// Package emit turns annotated declarations into the Go source of their
// trait implementations.
package emit

import (
	"github.com/seitarof/gen-derive/internal/bound"
	"github.com/seitarof/gen-derive/internal/diag"
	"github.com/seitarof/gen-derive/internal/directive"
	"github.com/seitarof/gen-derive/internal/model"
	"github.com/seitarof/gen-derive/internal/resolver"
)

// Fragment is the generated code of one trait of one type.
type Fragment struct {
	Type  string
	Trait directive.Trait
	// Code holds one or more top-level function declarations.
	Code string
	// Helpers are emitted once per file, however many fragments use them.
	Helpers []resolver.Helper
}

// Context carries what every emitter needs besides the declaration.
type Context struct {
	Resolver resolver.Resolver
	Derived  resolver.DerivedSet
	Markers  []string

	// CloneFrom marks the declarations with an in-place clone function.
	CloneFrom map[resolver.DerivedKey]bool
}

// NewContext returns a context using the default rule chain.
func NewContext(markers []string) *Context {
	if len(markers) == 0 {
		markers = bound.DefaultMarkers
	}
	return &Context{
		Resolver:  resolver.New(resolver.DefaultRules()...),
		Derived:   resolver.DerivedSet{},
		Markers:   markers,
		CloneFrom: map[resolver.DerivedKey]bool{},
	}
}

func (c *Context) generics(decl *model.TypeDecl, t directive.Trait) bound.Generics {
	return bound.Infer(decl, t, bound.For(t, c.Markers))
}

// Emitter generates one trait.
type Emitter interface {
	Trait() directive.Trait
	Emit(decl *model.TypeDecl, ctx *Context) (Fragment, error)
}

// DefaultEmitters returns one emitter per trait. Eq comes after PartialEq
// because it depends on its outcome.
func DefaultEmitters() []Emitter {
	return []Emitter{
		cloneEmitter{},
		copyEmitter{},
		debugEmitter{},
		defaultEmitter{},
		partialEqEmitter{},
		eqEmitter{},
		ordEmitter{trait: directive.PartialOrd},
		ordEmitter{trait: directive.Ord},
		hashEmitter{},
	}
}

// Expand generates every requested trait of decl. A configuration error
// aborts the whole type. Trait errors only block the trait they belong to,
// so the returned fragments may be non-empty alongside an error.
func Expand(decl *model.TypeDecl, ctx *Context, emitters []Emitter) ([]Fragment, error) {
	if err := bound.Validate(decl); err != nil {
		return nil, tag(err, decl, "")
	}

	var (
		frags []Fragment
		errs  []*diag.Error
		done  directive.TraitSet
	)
	for _, e := range emitters {
		t := e.Trait()
		if !decl.Requested(t) {
			continue
		}
		if err := prerequisites(decl, t, done); err != nil {
			errs = append(errs, err.WithType(decl.Name).WithTrait(t.String()))
			continue
		}
		frag, err := e.Emit(decl, ctx)
		if err != nil {
			errs = append(errs, diag.Flatten(tag(err, decl, t.String()))...)
			continue
		}
		done = done.With(t)
		frags = append(frags, frag)
	}
	return frags, diag.Join(errs)
}

func prerequisites(decl *model.TypeDecl, t directive.Trait, done directive.TraitSet) *diag.Error {
	switch t {
	case directive.PartialEq, directive.PartialOrd, directive.Ord:
		if decl.IsEnum() && !decl.Config.Get(t).AllowEnum {
			return diag.Errorf(diag.CodeEnumNotOptedIn, decl.Config.Pos,
				"%s on an enum needs `%s(feature_allow_slow_enum)`", t, t)
		}
	case directive.Eq:
		if !decl.Requested(directive.PartialEq) {
			return diag.Errorf(diag.CodeMissingPrerequisite, decl.Config.Pos, "Eq needs PartialEq")
		}
		if !done.Has(directive.PartialEq) {
			return diag.Errorf(diag.CodeMissingPrerequisite, decl.Config.Pos, "Eq needs PartialEq, which could not be generated")
		}
	}
	return nil
}

func tag(err error, decl *model.TypeDecl, trait string) error {
	list := diag.Flatten(err)
	for i, e := range list {
		e = e.WithType(decl.Name)
		if e.Trait == "" && trait != "" {
			e = e.WithTrait(trait)
		}
		list[i] = e
	}
	return diag.Join(list)
}

// ExpandAll expands decls of one package. A trait that fails on a type is
// withdrawn from the derived set and the package is expanded again, so no
// fragment calls a function that was never generated.
func ExpandAll(decls []*model.TypeDecl, ctx *Context, emitters []Emitter) ([]Fragment, error) {
	scoped := *ctx
	scoped.Derived = resolver.NewDerivedSet(decls)
	scoped.CloneFrom = map[resolver.DerivedKey]bool{}
	for _, d := range decls {
		if d.Config.Get(directive.Clone).CloneFrom {
			scoped.CloneFrom[resolver.DerivedKey{PkgPath: d.PkgPath, Name: d.Name}] = true
		}
	}

	for {
		var (
			frags   []Fragment
			errs    []*diag.Error
			changed bool
		)
		for _, d := range decls {
			fs, err := Expand(d, &scoped, emitters)
			frags = append(frags, fs...)
			key := resolver.DerivedKey{PkgPath: d.PkgPath, Name: d.Name}
			for _, e := range diag.Flatten(err) {
				errs = append(errs, e)
				changed = withdraw(scoped.Derived, key, e) || changed
			}
		}
		if !changed {
			return frags, diag.Join(errs)
		}
	}
}

func withdraw(set resolver.DerivedSet, key resolver.DerivedKey, e *diag.Error) bool {
	before := set[key]
	if e.Code.IsConfiguration() {
		set[key] = 0
		return before != 0
	}
	t, ok := directive.ParseTrait(e.Trait)
	if !ok {
		return false
	}
	set.Drop(key, t)
	return set[key] != before
}
