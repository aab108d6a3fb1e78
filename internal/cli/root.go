package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const asciiLogo = `  __                              _
 / _|_ __ ___  _   _ _ __ ___  __| |
| |_| '_ ` + "`" + ` _ \| | | | '__/ _ \/ _` + "`" + ` |
|  _| | | | | | |_| | | |  __/ (_| |
|_| |_| |_| |_|\__,_|_|  \___|\__,_|`

var rootCmd = &cobra.Command{
	Use:   "fmured",
	Short: "FMU model-description toolkit",
	Long: asciiLogo + `

fmured inspects, edits and reduces the modelDescription.xml inside FMU
archives without touching any other archive member. Every save validates
against the bundled FMI 2.0 schema first and copies untouched members
byte for byte, so binaries, resources and checksums survive intact.

Point 'fmured reduce' at a directory of FMUs with an fmured.yaml and it
strips the variables you no longer want to expose, in batch.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid reduction configuration
  11 - Archive missing, unreadable, or not an FMU
  12 - User denied in-place overwrite approval
  13 - Model description invalid (parse or schema)
  14 - Requested scalar variable not found`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for fmured")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
