package fmured

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess          = 0  // Operation completed successfully
	ExitGeneralError     = 1  // Unknown or unclassified error
	ExitUsageError       = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic            = 3  // Internal panic (unexpected crash)
	ExitConfigError      = 10 // Invalid reduction configuration
	ExitArchiveError     = 11 // Archive missing, unreadable, or not an FMU
	ExitApprovalDenied   = 12 // User denied in-place overwrite approval
	ExitValidationFailed = 13 // Model description invalid (parse or schema)
	ExitVariableMissing  = 14 // Requested scalar variable not found
)

const (
	// ModelDescriptionMember is the archive member holding the model
	// description, at the archive root per the FMI standard.
	ModelDescriptionMember = "modelDescription.xml"

	// ArchiveSuffix is the file extension of FMU archives.
	ArchiveSuffix = ".fmu"

	// ConfigFileName is the reduction config expected in an FMU directory.
	ConfigFileName = "fmured.yaml"

	// EnvFileName is the optional override file next to the config.
	EnvFileName = ".env"

	// DefaultForceApprovalCountdown is the countdown duration before a
	// forced in-place overwrite proceeds.
	DefaultForceApprovalCountdown = 5 * time.Second
)
