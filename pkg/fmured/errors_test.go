package fmured_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vvka-141/fmured/pkg/fmured"
)

func TestExitCodeForError_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown flag", errors.New("unknown flag --foo"), fmured.ExitUsageError},
		{"unknown shorthand flag", errors.New("unknown shorthand flag: 'x'"), fmured.ExitUsageError},
		{"accepts args", errors.New("accepts 1 arg(s), received 0"), fmured.ExitUsageError},
		{"missing argument", errors.New("missing required argument: <fmu_path>"), fmured.ExitUsageError},
		{"invalid argument", errors.New("invalid argument \"abc\" for \"--force\""), fmured.ExitUsageError},
		{"general error", errors.New("something went wrong"), fmured.ExitGeneralError},
		{"nil error", nil, fmured.ExitSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmured.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeForError_Sentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"config", fmured.ErrInvalidConfig, fmured.ExitConfigError},
		{"config missing", fmured.ErrConfigNotFound, fmured.ExitConfigError},
		{"archive not found", fmured.ErrArchiveNotFound, fmured.ExitArchiveError},
		{"archive format", fmured.ErrArchiveFormat, fmured.ExitArchiveError},
		{"approval denied", fmured.ErrApprovalDenied, fmured.ExitApprovalDenied},
		{"schema validation", fmured.ErrSchemaValidation, fmured.ExitValidationFailed},
		{"malformed xml", fmured.ErrMalformedXML, fmured.ExitValidationFailed},
		{"parse", fmured.ErrParse, fmured.ExitValidationFailed},
		{"invalid value", fmured.ErrInvalidValue, fmured.ExitValidationFailed},
		{"variable missing", fmured.ErrVariableNotFound, fmured.ExitVariableMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmured.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
			// Wrapping must not change the classification.
			wrapped := fmt.Errorf("context: %w", tt.err)
			if got := fmured.ExitCodeForError(wrapped); got != tt.want {
				t.Errorf("ExitCodeForError(wrapped %v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestSchemaValidationError(t *testing.T) {
	err := &fmured.SchemaValidationError{
		Path: "plant.fmu",
		Diagnostics: []fmured.Diagnostic{
			{Line: 2, Message: "missing required attribute \"guid\""},
			{Message: "document has no root element"},
		},
	}

	if !errors.Is(err, fmured.ErrSchemaValidation) {
		t.Error("SchemaValidationError must unwrap to ErrSchemaValidation")
	}
	if got := fmured.ExitCodeForError(err); got != fmured.ExitValidationFailed {
		t.Errorf("exit code = %d, want %d", got, fmured.ExitValidationFailed)
	}

	msg := err.Error()
	for _, fragment := range []string{"plant.fmu", "2 findings", "line 2", "guid"} {
		if !strings.Contains(msg, fragment) {
			t.Errorf("error message missing %q: %s", fragment, msg)
		}
	}
}

func TestValueError(t *testing.T) {
	err := &fmured.ValueError{Name: "gain", ValueType: fmured.TypeReal, Value: "fast"}

	if !errors.Is(err, fmured.ErrInvalidValue) {
		t.Error("ValueError must unwrap to ErrInvalidValue")
	}
	for _, fragment := range []string{"gain", "Real", "fast"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("error message missing %q: %s", fragment, err.Error())
		}
	}
}

func TestNotFoundError(t *testing.T) {
	err := &fmured.NotFoundError{Name: "debug_trace"}

	if !errors.Is(err, fmured.ErrVariableNotFound) {
		t.Error("NotFoundError must unwrap to ErrVariableNotFound")
	}
	if got := fmured.ExitCodeForError(err); got != fmured.ExitVariableMissing {
		t.Errorf("exit code = %d, want %d", got, fmured.ExitVariableMissing)
	}
}
