package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"

	shellquote "github.com/kballard/go-shellquote"
)

// Exit codes for tljh-itest
const (
	ExitSuccess           = 0
	ExitGeneralError      = 1
	ExitNoRuntimeFound    = 2
	ExitCommandFailed     = 3
	ExitBuildFailed       = 4
	ExitRunFailed         = 5
	ExitStopFailed        = 6
	ExitExecFailed        = 7
	ExitCopyFailed        = 8
	ExitContainerNotReady = 9
	ExitConfigError       = 10
)

// HarnessError is the base error type for tljh-itest
type HarnessError struct {
	Code    int
	Message string
	Cause   error
}

func (e *HarnessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *HarnessError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *HarnessError) ExitCode() int {
	return e.Code
}

// New creates a new HarnessError
func New(code int, message string) *HarnessError {
	return &HarnessError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a HarnessError
func Wrap(code int, message string, cause error) *HarnessError {
	return &HarnessError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CommandError describes a runtime command that exited nonzero.
type CommandError struct {
	Argv     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q exited with status %d", shellquote.Join(e.Argv...), e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// Common error constructors

// NoRuntimeFound returns an error when none of the tried engines is on PATH
func NoRuntimeFound(tried []string) *HarnessError {
	return New(ExitNoRuntimeFound, fmt.Sprintf("no container runtime found, tried: %s", strings.Join(tried, " ")))
}

// CommandFailed returns an error for a runtime command with a nonzero exit
func CommandFailed(argv []string, exitCode int, stderr string) *HarnessError {
	return Wrap(ExitCommandFailed, "runtime command failed", &CommandError{
		Argv:     argv,
		ExitCode: exitCode,
		Stderr:   stderr,
	})
}

// BuildFailed returns an error for a failed image build
func BuildFailed(image string, cause error) *HarnessError {
	return Wrap(ExitBuildFailed, fmt.Sprintf("building image %s failed", image), cause)
}

// RunFailed returns an error for a container that could not be started
func RunFailed(container string, cause error) *HarnessError {
	return Wrap(ExitRunFailed, fmt.Sprintf("starting container %s failed", container), cause)
}

// StopFailed returns an error for a container that could not be removed
func StopFailed(container string, cause error) *HarnessError {
	return Wrap(ExitStopFailed, fmt.Sprintf("stopping container %s failed", container), cause)
}

// ExecFailed returns an error for a command that failed inside a container
func ExecFailed(container string, cause error) *HarnessError {
	return Wrap(ExitExecFailed, fmt.Sprintf("command in container %s failed", container), cause)
}

// CopyFailed returns an error for a failed copy into a container
func CopyFailed(container, src string, cause error) *HarnessError {
	return Wrap(ExitCopyFailed, fmt.Sprintf("copying %s into container %s failed", src, container), cause)
}

// ContainerNotReady returns an error when the readiness probe times out
func ContainerNotReady(container string, timeout time.Duration, cause error) *HarnessError {
	return Wrap(ExitContainerNotReady, fmt.Sprintf("container %s hasn't started within %s", container, timeout), cause)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *HarnessError {
	return Wrap(ExitConfigError, message, cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *HarnessError {
	return New(ExitGeneralError, message)
}

// GetExitCode extracts the exit code from an error.
// The outermost HarnessError wins, so a BuildFailed wrapping a
// CommandFailed reports ExitBuildFailed.
func GetExitCode(err error) int {
	var harnessErr *HarnessError
	if errors.As(err, &harnessErr) {
		return harnessErr.ExitCode()
	}
	return ExitGeneralError
}

// HasCode reports whether any HarnessError in err's chain carries code.
func HasCode(err error, code int) bool {
	for err != nil {
		var harnessErr *HarnessError
		if !errors.As(err, &harnessErr) {
			return false
		}
		if harnessErr.Code == code {
			return true
		}
		err = harnessErr.Cause
	}
	return false
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
