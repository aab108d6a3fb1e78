package fmured

import "context"

// Approver handles user interaction for approval workflows, particularly
// for overwriting FMU archives in place during a batch reduction.
//
// Implementations:
//   - ForcedApprover: Shows countdown and automatically approves
//   - InteractiveApprover: Prompts user to confirm the target directory
type Approver interface {
	// RequestApproval prompts for confirmation before FMU files under the
	// named directory are overwritten in place.
	//
	// Returns:
	//   - bool: true if approved, false if denied
	//   - error: Any error that occurred during the approval process
	RequestApproval(ctx context.Context, directory string) (bool, error)
}
