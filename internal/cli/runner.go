package cli

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/seitarof/gen-derive/internal/bound"
	"github.com/seitarof/gen-derive/internal/diag"
	"github.com/seitarof/gen-derive/internal/emit"
	"github.com/seitarof/gen-derive/internal/generator"
	"github.com/seitarof/gen-derive/internal/model"
	"github.com/seitarof/gen-derive/internal/parser"
	"github.com/seitarof/gen-derive/internal/resolver"
)

// ErrDiagnostics is returned after a run that reported at least one
// diagnostic. Whatever could be generated has been written by then.
var ErrDiagnostics = errors.New("diagnostics reported")

// Runner orchestrates parser/emit/generator layers.
type Runner interface {
	Run(cfg *Config) error
}

type runnerImpl struct {
	parser    parser.Parser
	resolver  resolver.Resolver
	emitters  []emit.Emitter
	generator generator.Generator
}

// NewRunner creates a default runner implementation.
func NewRunner(
	p parser.Parser,
	r resolver.Resolver,
	emitters []emit.Emitter,
	g generator.Generator,
) Runner {
	return &runnerImpl{
		parser:    p,
		resolver:  r,
		emitters:  emitters,
		generator: g,
	}
}

// Run executes a single generation cycle.
func (r *runnerImpl) Run(cfg *Config) error {
	pkg, err := r.parser.Parse(cfg.Package)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	problems := logDiagnostics(pkg.Problems)
	decls := selectDecls(pkg.Decls, cfg.Types)
	if len(decls) == 0 {
		log.Printf("gen-derive: warning: no annotated types in %s", pkg.Path)
		return diagnosticsError(problems)
	}

	ctx := &emit.Context{
		Resolver: r.resolver,
		Markers:  markers(cfg.Markers),
	}
	frags, err := emit.ExpandAll(decls, ctx, r.emitters)
	problems += logDiagnostics(err)
	if len(frags) == 0 {
		log.Printf("gen-derive: warning: nothing to generate for %s", pkg.Path)
		return diagnosticsError(problems)
	}

	out := *cfg
	if out.Output == "" {
		out.Output = filepath.Join(pkg.Dir, generator.DefaultFilename)
	}
	if err := r.generator.Generate(&out, generator.File{Package: pkg.Name, Fragments: frags}); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	return diagnosticsError(problems)
}

func selectDecls(decls []*model.TypeDecl, names []string) []*model.TypeDecl {
	if len(names) == 0 {
		return decls
	}
	byName := make(map[string]*model.TypeDecl, len(decls))
	for _, d := range decls {
		byName[d.Name] = d
	}
	out := make([]*model.TypeDecl, 0, len(names))
	for _, name := range names {
		d, ok := byName[name]
		if !ok {
			log.Printf("gen-derive: warning: type %q is not an annotated type, skipped", name)
			continue
		}
		out = append(out, d)
	}
	return out
}

func markers(extra []string) []string {
	out := make([]string, 0, len(bound.DefaultMarkers)+len(extra))
	out = append(out, bound.DefaultMarkers...)
	return append(out, extra...)
}

func logDiagnostics(err error) int {
	list := diag.Flatten(err)
	for _, e := range list {
		log.Printf("gen-derive: error: %v", e)
	}
	return len(list)
}

func diagnosticsError(n int) error {
	if n == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d problem(s)", ErrDiagnostics, n)
}
