package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequireArchivePath validates that exactly one fmu_path argument is provided.
// Returns a helpful error message with usage and examples if missing or too many.
func RequireArchivePath(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <fmu_path>

Usage: %s <fmu_path>

Example:
  %s ./models/plant.fmu`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}

// RequireDirectoryPath validates that exactly one directory argument is provided.
// Returns a helpful error message with usage and examples if missing or too many.
func RequireDirectoryPath(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <directory>

Usage: %s <directory>

Example:
  %s ./models --force

The directory must contain at least one .fmu archive and an fmured.yaml.`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}

// RequireArchiveAndVariables validates an fmu_path plus at least one
// variable name. Returns a helpful error message with usage and examples.
func RequireArchiveAndVariables(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf(`missing required arguments: <fmu_path> <variable_name>...

Usage: %s <fmu_path> <variable_name>...

Example:
  %s ./models/plant.fmu debug_trace debug_level

Use 'fmured inspect <fmu_path>' to list variable names.`, cmd.UseLine(), cmd.CommandPath())
	}
	return nil
}
