package ui

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/vvka-141/fmured/pkg/fmured"
)

//go:embed assets/warning.txt
var dangerBanner string

// ForcedApprover implements the Approver interface for forced
// (non-interactive) approval. It displays a countdown and automatically
// approves afterwards, used when the --force flag is provided.
type ForcedApprover struct {
	// output defaults to stderr; tests inject a buffer.
	output io.Writer

	// sleepFn defaults to time.Sleep; tests replace it.
	sleepFn func(time.Duration)
}

// NewForcedApprover creates a new ForcedApprover.
func NewForcedApprover() fmured.Approver {
	return &ForcedApprover{
		output:  os.Stderr,
		sleepFn: time.Sleep,
	}
}

// RequestApproval displays a countdown and automatically approves after it.
func (a *ForcedApprover) RequestApproval(ctx context.Context, directory string) (bool, error) {
	warningText := strings.ReplaceAll(dangerBanner, "${directory}", directory)
	fmt.Fprintln(a.output)
	fmt.Fprint(a.output, warningText)
	fmt.Fprintln(a.output)

	countdownSeconds := int(fmured.DefaultForceApprovalCountdown.Seconds())
	for i := countdownSeconds; i > 0; i-- {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
			fmt.Fprintf(a.output, "\rOverwriting in: %d seconds... (Press Ctrl+C to cancel)", i)
			a.sleepFn(1 * time.Second)
		}
	}

	fmt.Fprintf(a.output, "\r✓ Proceeding with in-place reduction...                              \n")
	return true, nil
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ fmured.Approver = (*ForcedApprover)(nil)
