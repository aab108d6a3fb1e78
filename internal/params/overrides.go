package params

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vvka-141/fmured/internal/config"
	"github.com/vvka-141/fmured/pkg/fmured"
)

// Environment variables that override fmured.yaml settings. Process
// environment wins over the .env file, which wins over the config file.
const (
	EnvOutputDir = "FMURED_OUTPUT_DIR"
	EnvSuffix    = "FMURED_SUFFIX"
	EnvForce     = "FMURED_FORCE"
)

// Overrides holds the environment-sourced settings for a reduction run.
type Overrides struct {
	// OutputDir overrides ReductionConfig.OutputDir when non-empty.
	OutputDir string

	// Suffix overrides ReductionConfig.Suffix when non-empty.
	Suffix string

	// Force skips interactive approval for in-place runs.
	Force bool
}

// LoadOverrides reads the optional .env file in sourcePath and merges it
// with the process environment. A missing .env file is not an error.
func LoadOverrides(sourcePath string) (Overrides, error) {
	fileVars := map[string]string{}

	envPath := filepath.Join(sourcePath, fmured.EnvFileName)
	if _, err := os.Stat(envPath); err == nil {
		fileVars, err = godotenv.Read(envPath)
		if err != nil {
			return Overrides{}, fmt.Errorf("%w: %s: %v", fmured.ErrInvalidConfig, fmured.EnvFileName, err)
		}
	}

	get := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileVars[key]
	}

	o := Overrides{
		OutputDir: get(EnvOutputDir),
		Suffix:    get(EnvSuffix),
	}

	if raw := get(EnvForce); raw != "" {
		force, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return Overrides{}, fmt.Errorf("%w: %s must be a boolean, got %q", fmured.ErrInvalidConfig, EnvForce, raw)
		}
		o.Force = force
	}
	return o, nil
}

// Apply merges the overrides into cfg. Non-empty override values replace
// the corresponding config fields.
func (o Overrides) Apply(cfg *config.ReductionConfig) {
	if o.OutputDir != "" {
		cfg.OutputDir = o.OutputDir
	}
	if o.Suffix != "" {
		cfg.Suffix = o.Suffix
	}
}
