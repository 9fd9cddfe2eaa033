// Package errors provides typed errors with exit codes for tljh-itest.
//
// # Error Types
//
// HarnessError is the base error type that wraps an error with an exit code:
//
//	type HarnessError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// CommandError carries the argv, exit status and captured stderr of a
// container runtime command that exited nonzero. Lifecycle errors wrap it,
// so callers can recover the details with errors.As.
//
// # Exit Codes
//
//	ExitSuccess           = 0  // Success
//	ExitGeneralError      = 1  // General/unknown errors
//	ExitNoRuntimeFound    = 2  // Neither docker nor podman on PATH
//	ExitCommandFailed     = 3  // Runtime command exited nonzero
//	ExitBuildFailed       = 4  // Image build failed
//	ExitRunFailed         = 5  // Container start failed
//	ExitStopFailed        = 6  // Container removal failed
//	ExitExecFailed        = 7  // Command inside the container failed
//	ExitCopyFailed        = 8  // Copy into the container failed
//	ExitContainerNotReady = 9  // Readiness probe timed out
//	ExitConfigError       = 10 // Configuration error
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
