package cli

import (
	"os"

	"github.com/samber/do"

	"github.com/seitarof/gen-derive/internal/emit"
	"github.com/seitarof/gen-derive/internal/generator"
	"github.com/seitarof/gen-derive/internal/parser"
	"github.com/seitarof/gen-derive/internal/resolver"
)

// NewInjector registers the production layers for cfg. A dry run swaps
// the file writer for one printing to stdout.
func NewInjector(cfg *Config) *do.Injector {
	i := do.New()

	do.Provide(i, func(*do.Injector) (parser.Parser, error) {
		return parser.New(), nil
	})
	do.Provide(i, func(*do.Injector) (resolver.Resolver, error) {
		return resolver.New(resolver.DefaultRules()...), nil
	})
	do.Provide(i, func(*do.Injector) ([]emit.Emitter, error) {
		return emit.DefaultEmitters(), nil
	})
	do.Provide(i, func(*do.Injector) (generator.FileWriter, error) {
		if cfg.DryRun {
			return generator.NewStreamWriter(os.Stdout), nil
		}
		return generator.NewFileWriter(), nil
	})
	do.Provide(i, func(i *do.Injector) (generator.Generator, error) {
		w, err := do.Invoke[generator.FileWriter](i)
		if err != nil {
			return nil, err
		}
		return generator.New(generator.NewGoimportsFormatter(), w), nil
	})
	do.Provide(i, func(i *do.Injector) (Runner, error) {
		p, err := do.Invoke[parser.Parser](i)
		if err != nil {
			return nil, err
		}
		r, err := do.Invoke[resolver.Resolver](i)
		if err != nil {
			return nil, err
		}
		emitters, err := do.Invoke[[]emit.Emitter](i)
		if err != nil {
			return nil, err
		}
		g, err := do.Invoke[generator.Generator](i)
		if err != nil {
			return nil, err
		}
		return NewRunner(p, r, emitters, g), nil
	})
	return i
}
