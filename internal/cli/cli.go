package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// ParseArgs parses command line arguments into Config. Options from a
// --config file apply unless the matching flag is given.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}
	var typesRaw, markersRaw string

	fs := pflag.NewFlagSet("gen-derive", pflag.ContinueOnError)
	fs.StringVarP(&cfg.Package, "pkg", "p", ".", "package to generate for")
	fs.StringVarP(&cfg.Output, "output", "o", "", "output file (default derive_gen.go in the package directory)")
	fs.StringVar(&typesRaw, "types", "", "comma-separated type names to generate; all annotated types when empty")
	fs.StringVar(&markersRaw, "marker", "", "comma-separated marker type names whose type arguments need no constraint")
	fs.StringVar(&cfg.ConfigFile, "config", "", "TOML config file")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "print the generated code instead of writing it")
	fs.BoolVarP(&cfg.ShowVersion, "version", "v", false, "show version")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.ShowVersion {
		return cfg, nil
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg.Types = splitCommaList(typesRaw)
	cfg.Markers = splitCommaList(markersRaw)

	if cfg.ConfigFile != "" {
		fc, err := loadFileConfig(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
		fc.merge(cfg, fs.Changed)
	}

	if strings.TrimSpace(cfg.Package) == "" {
		return nil, fmt.Errorf("--pkg is required")
	}
	return cfg, nil
}

func splitCommaList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
