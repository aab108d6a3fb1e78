package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/fmured/internal/archive"
	"github.com/vvka-141/fmured/internal/tui"
	"github.com/vvka-141/fmured/pkg/fmured"
)

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate <fmu_path>",
	Short: "Validate an FMU's model description against the FMI 2.0 schema",
	Long: `Validate the modelDescription.xml inside an FMU archive.

The command:
1. Opens the archive and parses the embedded model description
2. Checks it against the bundled fmi2ModelDescription.xsd
3. Reports every finding with its line number

An invalid document exits with code 13; the archive itself is never
modified. This is the same check 'fmured set', 'delete' and 'reduce'
run before saving.

Examples:
  fmured validate ./models/plant.fmu
  fmured validate ./models/plant.fmu --json`,
	Args: RequireArchivePath,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output validation result as JSON")
}

func runValidate(cmd *cobra.Command, args []string) error {
	fmuPath := args[0]
	verbose := getVerboseFlag(cmd)

	if verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] Archive: %s\n", fmuPath)
	}

	fmu, err := archive.Open(fmuPath)
	if err != nil {
		return err
	}
	defer fmu.Close()

	result, err := fmu.Validate()
	if err != nil {
		return err
	}

	if validateJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Fprintf(os.Stderr, "%s %s: modelDescription.xml is valid\n", tui.SuccessStyle.Render(tui.SymbolCheck), fmuPath)
	} else {
		fmt.Fprintf(os.Stderr, "%s %s: %d finding(s)\n", tui.ErrorStyle.Render(tui.SymbolCross), fmuPath, len(result.Diagnostics))
		for _, d := range result.Diagnostics {
			fmt.Fprintf(os.Stderr, "  %s\n", d)
		}
	}

	if !result.Valid {
		return fmt.Errorf("%w: %s has %d finding(s)", fmured.ErrSchemaValidation, fmuPath, len(result.Diagnostics))
	}
	return nil
}
