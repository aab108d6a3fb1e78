package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/fmured/pkg/fmured"
)

// ReductionConfig drives a batch reduction run over one directory of FMU
// archives. It is loaded from fmured.yaml in that directory.
type ReductionConfig struct {
	// Causality restricts reduction to variables with this causality.
	// Defaults to "parameter" when empty.
	Causality string `yaml:"causality,omitempty"`

	// Delete lists glob patterns of variable names to remove.
	Delete []string `yaml:"delete"`

	// Keep lists glob patterns of variable names to retain. Keep wins
	// over Delete when both match a name.
	Keep []string `yaml:"keep,omitempty"`

	// OutputDir, when set, receives the reduced archives instead of
	// overwriting the sources in place.
	OutputDir string `yaml:"output_dir,omitempty"`

	// Suffix is inserted before the .fmu extension of each written
	// archive, e.g. "_reduced".
	Suffix string `yaml:"suffix,omitempty"`

	// RefreshGUID recomputes the model description guid of every
	// modified archive before saving.
	RefreshGUID bool `yaml:"refresh_guid,omitempty"`
}

// InPlace reports whether the run overwrites source archives.
func (c *ReductionConfig) InPlace() bool {
	return c.OutputDir == "" && c.Suffix == ""
}

// Causalities the config accepts for its filter. The empty string means
// the default.
var validCausalities = map[string]bool{
	"":                    true,
	"parameter":           true,
	"calculatedParameter": true,
	"input":               true,
	"output":              true,
	"local":               true,
	"independent":         true,
}

// Load reads fmured.yaml from sourcePath and validates it. Fails with
// ErrConfigNotFound when the file does not exist and ErrInvalidConfig
// when it cannot be parsed or fails validation.
func Load(sourcePath string) (*ReductionConfig, error) {
	configPath := filepath.Join(sourcePath, fmured.ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmured.ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ReductionConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", fmured.ErrInvalidConfig, fmured.ConfigFileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config for structural problems: no delete patterns,
// malformed globs, or an unknown causality.
func (c *ReductionConfig) Validate() error {
	if len(c.Delete) == 0 {
		return fmt.Errorf("%w: delete patterns are required", fmured.ErrInvalidConfig)
	}
	for _, pattern := range append(append([]string{}, c.Delete...), c.Keep...) {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("%w: empty glob pattern", fmured.ErrInvalidConfig)
		}
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w: malformed glob pattern %q", fmured.ErrInvalidConfig, pattern)
		}
	}
	if !validCausalities[c.Causality] {
		return fmt.Errorf("%w: unknown causality %q", fmured.ErrInvalidConfig, c.Causality)
	}
	return nil
}

// EffectiveCausality returns the causality filter with the default applied.
func (c *ReductionConfig) EffectiveCausality() fmured.Causality {
	if c.Causality == "" {
		return fmured.CausalityParameter
	}
	return fmured.Causality(c.Causality)
}
