package fmured

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure modes of the core. These enable callers
// to distinguish error kinds using errors.Is() and decide per kind whether
// to skip-and-continue or abort — the core never makes that call itself.
//
// Example usage:
//
//	err := fmu.Delete(name)
//	if errors.Is(err, fmured.ErrVariableNotFound) {
//	    // Recoverable: skip this variable and continue the batch.
//	}
var (
	// ErrArchiveNotFound indicates the FMU path does not exist.
	ErrArchiveNotFound = errors.New("fmu archive not found")

	// ErrArchiveFormat indicates the file is not a valid zip archive or
	// lacks the modelDescription.xml member.
	ErrArchiveFormat = errors.New("invalid fmu archive")

	// ErrMalformedXML indicates the model description is not well-formed XML.
	ErrMalformedXML = errors.New("malformed model description xml")

	// ErrParse indicates well-formed XML that violates structural
	// expectations (missing required attributes, duplicate names,
	// unrecognized value type).
	ErrParse = errors.New("model description parse error")

	// ErrVariableNotFound indicates the requested variable name does not
	// exist in the document. Always recoverable by the caller.
	ErrVariableNotFound = errors.New("scalar variable not found")

	// ErrInvalidValue indicates a supplied value does not match the
	// variable's declared type.
	ErrInvalidValue = errors.New("invalid value for declared type")

	// ErrSchemaValidation indicates the document failed schema validation
	// at save time. The save did not happen.
	ErrSchemaValidation = errors.New("schema validation failed")

	// ErrApprovalDenied indicates the user denied approval for an
	// in-place overwrite.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrInvalidConfig indicates the reduction configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConfigNotFound indicates no fmured.yaml exists in the source
	// directory of a batch run.
	ErrConfigNotFound = errors.New("configuration file not found")
)

// SchemaValidationError is returned when a save is refused because the
// document fails schema validation. It carries the full diagnostic list so
// the caller can act programmatically. Unwraps to ErrSchemaValidation.
type SchemaValidationError struct {
	Path        string
	Diagnostics []Diagnostic
}

func (e *SchemaValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "schema validation failed for %s (%d findings)", e.Path, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		b.WriteString("\n  ")
		b.WriteString(d.String())
	}
	return b.String()
}

func (e *SchemaValidationError) Unwrap() error { return ErrSchemaValidation }

// ValueError is returned when a start value does not parse as the
// variable's declared type. Unwraps to ErrInvalidValue.
type ValueError struct {
	Name      string
	ValueType ValueType
	Value     string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s variable %q", e.Value, e.ValueType, e.Name)
}

func (e *ValueError) Unwrap() error { return ErrInvalidValue }

// NotFoundError identifies which variable name was missing. Unwraps to
// ErrVariableNotFound.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("scalar variable %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrVariableNotFound }

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrConfigNotFound):
		return ExitConfigError
	case errors.Is(err, ErrArchiveNotFound), errors.Is(err, ErrArchiveFormat):
		return ExitArchiveError
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrSchemaValidation),
		errors.Is(err, ErrMalformedXML),
		errors.Is(err, ErrParse),
		errors.Is(err, ErrInvalidValue):
		return ExitValidationFailed
	case errors.Is(err, ErrVariableNotFound):
		return ExitVariableMissing
	}

	// Check for common CLI misuse patterns surfaced by the flag parser
	errStr := err.Error()
	if strings.Contains(errStr, "unknown flag") ||
		strings.Contains(errStr, "unknown shorthand flag") ||
		strings.Contains(errStr, "invalid argument") ||
		strings.Contains(errStr, "required flag") ||
		strings.Contains(errStr, "missing required argument") ||
		strings.Contains(errStr, "accepts ") {
		return ExitUsageError
	}

	return ExitGeneralError
}
