// Package reducer implements batch reduction of FMU archives.
//
// A run targets one directory: every .fmu archive directly inside it is
// opened, variables matching the configured causality and delete globs
// (minus the keep globs) are removed, and the archive is saved in place
// or to the configured output location. Failures of individual archives
// are recorded and the batch continues; the summary reports reduced,
// unchanged, and failed counts with content digests before and after.
//
// In-place runs overwrite their sources and are gated behind an approver.
package reducer
