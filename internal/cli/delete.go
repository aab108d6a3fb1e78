package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/fmured/internal/archive"
	"github.com/vvka-141/fmured/internal/tui"
)

var (
	deleteOutput      string
	deleteRefreshGUID bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete <fmu_path> <variable_name>...",
	Short: "Remove scalar variables from an FMU",
	Long: `Remove scalar variables from an FMU's model description.

The command:
1. Opens the archive and parses the embedded model description
2. Removes each named ScalarVariable element
3. Validates the reduced document against the FMI 2.0 schema
4. Saves the archive, copying every other member byte for byte

A name that does not exist aborts the whole run with exit code 14 and
nothing is written. Deleting a variable other variables reference (for
example in derivative attributes) can make the document schema-invalid;
the save is then refused and the source archive stays untouched.

Examples:
  # Overwrite in place
  fmured delete ./models/plant.fmu debug_trace debug_level

  # Write a reduced copy, re-deriving the guid
  fmured delete ./models/plant.fmu debug_trace --output ./out/plant.fmu --refresh-guid`,
	Args: RequireArchiveAndVariables,
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringVar(&deleteOutput, "output", "", "Write the result to this path instead of overwriting the source")
	deleteCmd.Flags().BoolVar(&deleteRefreshGUID, "refresh-guid", false, "Re-derive the model guid from the reduced content")
}

func runDelete(cmd *cobra.Command, args []string) error {
	fmuPath := args[0]
	names := args[1:]
	verbose := getVerboseFlag(cmd)

	fmu, err := archive.Open(fmuPath)
	if err != nil {
		return err
	}
	defer fmu.Close()

	for _, name := range names {
		if err := fmu.Delete(name); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "[VERBOSE] Deleted %s\n", name)
		}
	}

	if deleteRefreshGUID {
		guid, err := fmu.RefreshGUID()
		if err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "[VERBOSE] New guid: %s\n", guid)
		}
	}

	if err := fmu.Save(deleteOutput); err != nil {
		return err
	}

	target := deleteOutput
	if target == "" {
		target = fmuPath
	}
	fmt.Fprintf(os.Stderr, "%s Removed %d variable(s) from %s\n",
		tui.SuccessStyle.Render(tui.SymbolCheck), len(names), target)
	return nil
}
