package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vvka-141/fmured/internal/tui"
	"github.com/vvka-141/fmured/internal/tui/components"
	"github.com/vvka-141/fmured/pkg/fmured"
)

// InteractiveApprover implements the Approver interface for console-based
// interactive confirmation. It prompts the user to type the directory
// name to confirm an in-place reduction that overwrites source archives.
type InteractiveApprover struct {
	// input and output default to stdin/stderr; tests inject buffers.
	input  io.Reader
	output io.Writer

	// runPrompt runs the TUI confirmation; tests stub it out.
	runPrompt func(ctx context.Context, title, warning, expected string) (bool, error)
}

// NewInteractiveApprover creates a new InteractiveApprover.
func NewInteractiveApprover() fmured.Approver {
	a := &InteractiveApprover{
		input:  os.Stdin,
		output: os.Stderr,
	}
	a.runPrompt = a.teaPrompt
	return a
}

// RequestApproval prompts the user to type the directory base name to
// confirm. A full TUI prompt is used on a terminal; piped input falls
// back to a plain line read.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, directory string) (bool, error) {
	expected := filepath.Base(directory)

	if tui.IsInteractive() {
		return a.runPrompt(ctx,
			"In-place reduction",
			fmt.Sprintf("Archives in '%s' will be overwritten. This cannot be undone.", directory),
			expected)
	}
	return a.linePrompt(ctx, directory, expected)
}

func (a *InteractiveApprover) teaPrompt(ctx context.Context, title, warning, expected string) (bool, error) {
	model, err := tui.RunModel(ctx, components.NewConfirm(title, warning, expected))
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	confirm, ok := model.(components.Confirm)
	if !ok {
		return false, fmt.Errorf("confirmation prompt returned unexpected model %T", model)
	}
	return confirm.Confirmed(), nil
}

// linePrompt reads one line with context cancellation support.
func (a *InteractiveApprover) linePrompt(ctx context.Context, directory, expected string) (bool, error) {
	fmt.Fprintf(a.output, "\n⚠️  WARNING: You are about to OVERWRITE the FMU archives in '%s'\n", directory)
	fmt.Fprintln(a.output, "The original model descriptions will be permanently replaced!")
	fmt.Fprintf(a.output, "\nTo confirm, type the directory name '%s' and press Enter: ", expected)

	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(a.input)
		line, err := reader.ReadString('\n')
		if err != nil {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(line)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case line := <-inputChan:
		if line == expected {
			fmt.Fprintln(a.output, "✓ Confirmed. Proceeding with in-place reduction...")
			return true, nil
		}
		fmt.Fprintf(a.output, "✗ Input '%s' does not match directory name '%s'. Operation cancelled.\n", line, expected)
		return false, nil
	}
}

// Verify InteractiveApprover implements the Approver interface at compile time
var _ fmured.Approver = (*InteractiveApprover)(nil)
