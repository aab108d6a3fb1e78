package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/fmured/internal/archive"
	"github.com/vvka-141/fmured/internal/model"
	"github.com/vvka-141/fmured/internal/tui"
	"github.com/vvka-141/fmured/pkg/fmured"
)

var (
	inspectJSON      bool
	inspectCausality string
	inspectName      string
	inspectType      string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <fmu_path>",
	Short: "List the scalar variables of an FMU",
	Long: `List the scalar variables declared in an FMU's modelDescription.xml.

The command:
1. Opens the archive and parses the embedded model description
2. Applies the optional --causality, --name and --type filters
3. Prints the matching variables in declaration order

Variables are never modified; inspect is read-only.

Examples:
  # All variables, human-readable table
  fmured inspect ./models/plant.fmu

  # Tunable parameters only
  fmured inspect ./models/plant.fmu --causality parameter

  # Name glob, machine-readable
  fmured inspect ./models/plant.fmu --name 'debug_*' --json`,
	Args: RequireArchivePath,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Output variables as JSON")
	inspectCmd.Flags().StringVar(&inspectCausality, "causality", "", "Only variables with this causality (parameter, input, output, ...)")
	inspectCmd.Flags().StringVar(&inspectName, "name", "", "Only variables whose name matches this glob pattern")
	inspectCmd.Flags().StringVar(&inspectType, "type", "", "Only variables of this value type (Real, Integer, Boolean, String, Enumeration)")
}

// inspectReport is the JSON shape of an inspect run.
type inspectReport struct {
	Path       string            `json:"path"`
	ModelName  string            `json:"modelName,omitempty"`
	FMIVersion string            `json:"fmiVersion,omitempty"`
	GUID       string            `json:"guid,omitempty"`
	Total      int               `json:"total"`
	Variables  []fmured.Variable `json:"variables"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	fmuPath := args[0]
	verbose := getVerboseFlag(cmd)

	if verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] Archive: %s\n", fmuPath)
		fmt.Fprintf(os.Stderr, "[VERBOSE] Filters: causality=%q name=%q type=%q\n",
			inspectCausality, inspectName, inspectType)
	}

	query, err := buildInspectQuery()
	if err != nil {
		return err
	}

	fmu, err := archive.Open(fmuPath)
	if err != nil {
		return err
	}
	defer fmu.Close()

	variables, err := fmu.Query(query)
	if err != nil {
		return err
	}

	doc, err := fmu.Document()
	if err != nil {
		return err
	}

	if inspectJSON {
		report := inspectReport{
			Path:       fmu.Path(),
			ModelName:  doc.ModelName(),
			FMIVersion: doc.FMIVersion(),
			GUID:       doc.GUID(),
			Total:      doc.Len(),
			Variables:  variables,
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	printInspectHeader(fmu.Path(), doc.ModelName(), doc.FMIVersion(), doc.GUID())
	printVariableTable(variables, doc.Len())
	return nil
}

func buildInspectQuery() (fmured.Query, error) {
	var query fmured.Query

	causality, err := fmured.ParseCausality(inspectCausality)
	if err != nil {
		return query, err
	}
	query.Causality = causality
	query.NamePattern = inspectName

	if inspectType != "" {
		valueType, err := fmured.ParseValueType(inspectType)
		if err != nil {
			return query, err
		}
		query.ValueType = valueType
	}
	return query, nil
}

func printInspectHeader(path, modelName, fmiVersion, guid string) {
	fmt.Fprintln(os.Stderr, tui.TitleStyle.Render(modelName))
	if fmiVersion != "" {
		fmt.Fprintln(os.Stderr, tui.SubtitleStyle.Render("FMI "+fmiVersion))
	}
	if guid != "" {
		fmt.Fprintln(os.Stderr, tui.SubtitleStyle.Render("guid "+guid))
	}
	fmt.Fprintln(os.Stderr, tui.SubtitleStyle.Render(path))
	fmt.Fprintln(os.Stderr)
}

func printVariableTable(variables []fmured.Variable, total int) {
	if len(variables) == 0 {
		fmt.Fprintf(os.Stderr, "No variables match (%d in document)\n", total)
		return
	}

	nameWidth := len("NAME")
	for _, v := range variables {
		if len(v.Name) > nameWidth {
			nameWidth = len(v.Name)
		}
	}

	header := fmt.Sprintf("%-*s  %-11s  %-19s  %-11s  %-12s  %s",
		nameWidth, "NAME", "TYPE", "CAUSALITY", "VARIABILITY", "START", "UNIT")
	fmt.Println(tui.TableHeaderStyle.Render(header))

	for _, v := range variables {
		row := fmt.Sprintf("%-*s  %-11s  %-19s  %-11s  %-12s  %s",
			nameWidth, v.Name, v.ValueType, v.Causality, v.Variability,
			startDisplay(v), v.Unit)
		fmt.Println(tui.TableCellStyle.Render(row))
	}

	fmt.Fprintf(os.Stderr, "\n%d of %d variable(s)\n", len(variables), total)
}

// startDisplay renders a start value for table output.
// Variables without a start value show as "-".
func startDisplay(v fmured.Variable) string {
	if v.Start == nil {
		return "-"
	}
	text, err := model.FormatStart(v.ValueType, v.Start)
	if err != nil {
		return fmt.Sprintf("%v", v.Start)
	}
	return text
}
