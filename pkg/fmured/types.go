package fmured

import "fmt"

// Causality classifies how a variable participates in simulation,
// per the FMI 2.0 standard.
type Causality string

const (
	CausalityParameter           Causality = "parameter"
	CausalityCalculatedParameter Causality = "calculatedParameter"
	CausalityInput               Causality = "input"
	CausalityOutput              Causality = "output"
	CausalityLocal               Causality = "local"
	CausalityIndependent         Causality = "independent"
)

// ParseCausality converts an attribute value to a Causality.
// The empty string is valid and means "not declared" (FMI defaults to local).
func ParseCausality(s string) (Causality, error) {
	switch Causality(s) {
	case "", CausalityParameter, CausalityCalculatedParameter, CausalityInput,
		CausalityOutput, CausalityLocal, CausalityIndependent:
		return Causality(s), nil
	}
	return "", fmt.Errorf("%w: unknown causality %q", ErrParse, s)
}

// Variability is the FMI 2.0 update-frequency class of a variable.
type Variability string

const (
	VariabilityConstant   Variability = "constant"
	VariabilityFixed      Variability = "fixed"
	VariabilityTunable    Variability = "tunable"
	VariabilityDiscrete   Variability = "discrete"
	VariabilityContinuous Variability = "continuous"
)

// ParseVariability converts an attribute value to a Variability.
// The empty string means "not declared" (FMI defaults to continuous).
func ParseVariability(s string) (Variability, error) {
	switch Variability(s) {
	case "", VariabilityConstant, VariabilityFixed, VariabilityTunable,
		VariabilityDiscrete, VariabilityContinuous:
		return Variability(s), nil
	}
	return "", fmt.Errorf("%w: unknown variability %q", ErrParse, s)
}

// Initial describes how the start value of a variable is to be interpreted.
type Initial string

const (
	InitialExact      Initial = "exact"
	InitialApprox     Initial = "approx"
	InitialCalculated Initial = "calculated"
)

// ParseInitial converts an attribute value to an Initial.
// The empty string means "not declared".
func ParseInitial(s string) (Initial, error) {
	switch Initial(s) {
	case "", InitialExact, InitialApprox, InitialCalculated:
		return Initial(s), nil
	}
	return "", fmt.Errorf("%w: unknown initial %q", ErrParse, s)
}

// ValueType identifies the typed value child of a ScalarVariable element.
// Enumeration variables carry integer start values; they are a distinct
// element in the schema, so they get a distinct tag here.
type ValueType string

const (
	TypeReal        ValueType = "Real"
	TypeInteger     ValueType = "Integer"
	TypeBoolean     ValueType = "Boolean"
	TypeString      ValueType = "String"
	TypeEnumeration ValueType = "Enumeration"
)

// ParseValueType converts a value-child element name to a ValueType.
// Unlike the enum parsers above there is no empty default: every
// ScalarVariable must have exactly one typed value child.
func ParseValueType(s string) (ValueType, error) {
	switch ValueType(s) {
	case TypeReal, TypeInteger, TypeBoolean, TypeString, TypeEnumeration:
		return ValueType(s), nil
	}
	return "", fmt.Errorf("%w: unknown value type %q", ErrParse, s)
}

// Variable is an immutable snapshot of one ScalarVariable as exposed to
// callers. Mutations go through the adapter operations, never through
// this struct.
type Variable struct {
	// Name is the unique variable name within the model description.
	Name string `json:"name"`

	// ValueReference is the FMI handle of the variable (xs:unsignedInt).
	// It is not guaranteed unique across variables.
	ValueReference uint32 `json:"valueReference"`

	// Description is the optional human-readable description attribute.
	Description string `json:"description,omitempty"`

	// Causality is empty when the source XML did not declare it.
	Causality Causality `json:"causality,omitempty"`

	// Variability is empty when the source XML did not declare it.
	Variability Variability `json:"variability,omitempty"`

	// Initial is empty when the source XML did not declare it.
	Initial Initial `json:"initial,omitempty"`

	// ValueType names the typed value child (Real, Integer, ...).
	ValueType ValueType `json:"valueType"`

	// Unit is the declared unit of a Real variable, if any.
	Unit string `json:"unit,omitempty"`

	// Start is the typed start value: float64 for Real, int32 for
	// Integer/Enumeration, bool for Boolean, string for String.
	// Nil when the variable declares no start value.
	Start any `json:"start,omitempty"`
}

// Query selects ScalarVariables by example. Zero-valued fields are not
// matched; NamePattern uses path.Match glob syntax against the variable
// name, Name is an exact match.
type Query struct {
	Name           string
	NamePattern    string
	ValueReference *uint32
	Causality      Causality
	Variability    Variability
	Initial        Initial
	ValueType      ValueType
	Unit           string
}

// Diagnostic is one schema-validation finding, positioned by line in the
// serialized document. Line is 0 when no position is known.
type Diagnostic struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d: %s", d.Line, d.Message)
	}
	return d.Message
}

// ValidationResult is the outcome of validating a model description
// against the bundled FMI 2.0 schema. An invalid-but-well-formed document
// is a reportable result, not an error.
type ValidationResult struct {
	Valid       bool         `json:"valid"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// AddError appends a diagnostic and marks the result invalid.
func (r *ValidationResult) AddError(line int, format string, args ...interface{}) {
	r.Valid = false
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

// FileOutcome classifies what the batch reducer did with one FMU file.
type FileOutcome string

const (
	OutcomeReduced   FileOutcome = "reduced"
	OutcomeUnchanged FileOutcome = "unchanged"
	OutcomeFailed    FileOutcome = "failed"
)

// FileResult reports the reduction of a single FMU file.
type FileResult struct {
	// Source is the path of the input archive.
	Source string `json:"source"`

	// Target is the path the (possibly) reduced archive was written to.
	// Empty when the file failed before saving.
	Target string `json:"target,omitempty"`

	Outcome FileOutcome `json:"outcome"`

	// Deleted lists the names of removed variables, in declaration order.
	Deleted []string `json:"deleted,omitempty"`

	// SourceDigest and TargetDigest are SHA-256 hex digests of the
	// archive bytes before and after reduction.
	SourceDigest string `json:"sourceDigest,omitempty"`
	TargetDigest string `json:"targetDigest,omitempty"`

	// Err carries the per-file failure, if any. Batch processing
	// continues past failed files.
	Err error `json:"-"`

	// Error is the string form of Err for JSON output.
	Error string `json:"error,omitempty"`
}

// ReduceResult summarizes a batch reduction over one directory.
type ReduceResult struct {
	Directory string       `json:"directory"`
	Files     []FileResult `json:"files"`
	Reduced   int          `json:"reduced"`
	Unchanged int          `json:"unchanged"`
	Failed    int          `json:"failed"`
}
