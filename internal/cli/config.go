package cli

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config stores CLI options for a single generation run.
type Config struct {
	Package     string
	Output      string
	Types       []string
	Markers     []string
	ConfigFile  string
	DryRun      bool
	ShowVersion bool
}

// OutputFilename returns destination file path for generator layer.
func (c *Config) OutputFilename() string {
	return c.Output
}

// fileConfig is the TOML form of Config.
type fileConfig struct {
	Package string   `toml:"package"`
	Output  string   `toml:"output"`
	Types   []string `toml:"types"`
	Markers []string `toml:"markers"`
	DryRun  *bool    `toml:"dry_run"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

// merge fills the options that were not given on the command line.
func (fc *fileConfig) merge(cfg *Config, changed func(flag string) bool) {
	if fc.Package != "" && !changed("pkg") {
		cfg.Package = fc.Package
	}
	if fc.Output != "" && !changed("output") {
		cfg.Output = fc.Output
	}
	if len(fc.Types) > 0 && !changed("types") {
		cfg.Types = fc.Types
	}
	if len(fc.Markers) > 0 && !changed("marker") {
		cfg.Markers = fc.Markers
	}
	if fc.DryRun != nil && !changed("dry-run") {
		cfg.DryRun = *fc.DryRun
	}
}
