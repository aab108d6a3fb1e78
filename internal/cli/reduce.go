package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/fmured/internal/logging"
	"github.com/vvka-141/fmured/internal/reducer"
	"github.com/vvka-141/fmured/internal/tui"
	"github.com/vvka-141/fmured/internal/ui"
	"github.com/vvka-141/fmured/pkg/fmured"
)

var (
	reduceForce bool
	reduceJSON  bool
)

var reduceCmd = &cobra.Command{
	Use:   "reduce <directory>",
	Short: "Batch-reduce every FMU in a directory",
	Long: `Batch-reduce every FMU archive in a directory.

The command:
1. Loads fmured.yaml from the directory (plus optional .env overrides)
2. Scans the directory for .fmu archives (non-recursive)
3. Deletes the variables matching the configured delete patterns,
   keeping anything a keep pattern also matches
4. Validates and saves each archive; a failed file is reported and the
   batch continues

When neither output_dir nor suffix is configured the reduction is
IN-PLACE: the source archives are overwritten. In-place runs require
interactive confirmation, or a forced countdown with --force.

Configuration can also come from the environment:
  FMURED_OUTPUT_DIR  - overrides output_dir
  FMURED_SUFFIX      - overrides suffix
  FMURED_FORCE       - same as --force

Examples:
  # Reduce into a sibling directory per fmured.yaml
  fmured reduce ./models

  # In-place, skipping the interactive prompt (CI)
  fmured reduce ./models --force

  # Machine-readable batch report
  fmured reduce ./models --json`,
	Args: RequireDirectoryPath,
	RunE: runReduce,
}

func init() {
	rootCmd.AddCommand(reduceCmd)

	reduceCmd.Flags().BoolVar(&reduceForce, "force", false, "Skip interactive approval for in-place reduction (countdown instead)")
	reduceCmd.Flags().BoolVar(&reduceJSON, "json", false, "Output batch report as JSON")
}

func runReduce(cmd *cobra.Command, args []string) error {
	directory := args[0]
	verbose := getVerboseFlag(cmd)

	var logger fmured.Logger = logging.NewConsoleLogger(verbose)
	if reduceJSON {
		logger = logging.NewNullLogger()
	}

	service := reducer.NewService(ui.NewInteractiveApprover(), ui.NewForcedApprover(), logger)

	result, err := service.Run(cmd.Context(), directory, reduceForce)
	if err != nil {
		return err
	}

	if reduceJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return err
		}
	} else {
		printReduceSummary(result)
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", result.Failed, len(result.Files))
	}
	return nil
}

func printReduceSummary(result fmured.ReduceResult) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "%s %d reduced, %d unchanged, %d failed\n",
		summarySymbol(result), result.Reduced, result.Unchanged, result.Failed)

	for _, file := range result.Files {
		if file.Outcome == fmured.OutcomeFailed {
			fmt.Fprintf(os.Stderr, "  %s %s: %s\n",
				tui.ErrorStyle.Render(tui.SymbolCross), file.Source, file.Error)
		}
	}
}

func summarySymbol(result fmured.ReduceResult) string {
	if result.Failed > 0 {
		return tui.ErrorStyle.Render(tui.SymbolCross)
	}
	return tui.SuccessStyle.Render(tui.SymbolCheck)
}
