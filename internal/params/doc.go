// Package params provides environment-driven overrides for reduction runs.
//
// A run is configured by fmured.yaml in the model directory; the optional
// .env file next to it and the process environment can override selected
// settings. Precedence, highest first:
//
//  1. Process environment
//  2. .env file in the model directory
//  3. fmured.yaml
//
// Recognized variables:
//   - FMURED_OUTPUT_DIR: directory for reduced archives
//   - FMURED_SUFFIX: filename suffix for reduced archives
//   - FMURED_FORCE: skip interactive approval for in-place runs
//
// The package also parses name=value assignment lists from CLI flags.
//
// # Thread Safety
//
// All functions are safe for concurrent use.
package params
