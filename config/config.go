// Package config loads duoc.yaml: the project-level defaults for the
// bundle mode and the Tailwind binary, so a project need not repeat
// the same CLI flags on every invocation. It also parses import roots
// and a metrics switch, which the rest of duoc does not read. Grounded on ext.Config's own yaml.v3 struct-tag layout
// and LoadConfig/validate/setDefaults shape.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level duoc.yaml document.
type Config struct {
	// Roots lists import root directories. It is parsed but no module
	// lookup consults it: a module path is opened exactly as given.
	Roots []string `yaml:"roots,omitempty"`

	// BundleMode is the default --bundle-mode value ("loader" or
	// "native") when the flag is omitted. Defaults to "loader".
	BundleMode string `yaml:"bundle_mode,omitempty"`

	// CSSBin overrides the Tailwind-compatible binary name used for
	// CSS generation. Defaults to "tailwindcss".
	CSSBin string `yaml:"css_bin,omitempty"`

	// DisableMetrics is parsed but not read: metrics are disabled only
	// by --disable-metrics or DUOC_DISABLE_METRICS.
	DisableMetrics bool `yaml:"disable_metrics,omitempty"`
}

// Load reads and parses a duoc.yaml file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses duoc.yaml content from bytes. path is used only for
// error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// Find searches for duoc.yaml starting from dir and walking up to
// parent directories, the same way funxy.yaml is located. Returns an
// empty path and nil error when no config file exists anywhere above
// dir — callers then fall back to built-in defaults.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		for _, name := range []string{"duoc.yaml", "duoc.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) validate(path string) error {
	switch c.BundleMode {
	case "", "loader", "native":
	default:
		return fmt.Errorf("%s: bundle_mode: must be \"loader\" or \"native\", got %q", path, c.BundleMode)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.BundleMode == "" {
		c.BundleMode = "loader"
	}
	if c.CSSBin == "" {
		c.CSSBin = "tailwindcss"
	}
}
