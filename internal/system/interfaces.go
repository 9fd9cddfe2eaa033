// Package system provides abstractions for OS operations to enable testing.
package system

import (
	"context"
	"io/fs"
	"os"
)

// FileSystem abstracts the file system reads the harness performs.
type FileSystem interface {
	// ReadFile reads the named file and returns the contents.
	ReadFile(path string) ([]byte, error)

	// Stat returns file info for the named file.
	Stat(path string) (fs.FileInfo, error)

	// Exists returns true if the path exists.
	Exists(path string) bool

	// IsDir returns true if the path is a directory.
	IsDir(path string) bool
}

// Command describes one process invocation.
type Command struct {
	Name string
	Args []string

	// Capture collects stdout into Result.Stdout instead of streaming it
	// to the terminal.
	Capture bool

	// MergeStderr sends stderr to the same destination as stdout.
	MergeStderr bool
}

// Argv returns the full argument vector including the program name.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// Result holds the outcome of a process that ran to completion.
type Result struct {
	ExitCode int
	Stdout   []byte

	// Stderr is recorded in both modes. When streaming it is teed to the
	// terminal as well. Empty when MergeStderr is set.
	Stderr []byte
}

// CommandExecutor abstracts command execution for testability.
type CommandExecutor interface {
	// Run executes a command. A nonzero exit status is reported through
	// Result.ExitCode, not as an error; err is non-nil only when the
	// process could not be started or was interrupted.
	Run(ctx context.Context, cmd Command) (*Result, error)

	// LookPath searches PATH for an executable.
	LookPath(file string) (string, error)
}

// Default instances using real OS operations.
var (
	defaultFS       FileSystem      = &osFileSystem{}
	defaultExecutor CommandExecutor = &osExecutor{stdout: os.Stdout, stderr: os.Stderr}
)

// DefaultFS returns the default FileSystem implementation using real OS operations.
func DefaultFS() FileSystem {
	return defaultFS
}

// DefaultExecutor returns the default CommandExecutor implementation.
func DefaultExecutor() CommandExecutor {
	return defaultExecutor
}

// SetDefaultFS sets the default FileSystem (useful for testing).
func SetDefaultFS(fs FileSystem) {
	defaultFS = fs
}

// SetDefaultExecutor sets the default CommandExecutor (useful for testing).
func SetDefaultExecutor(exec CommandExecutor) {
	defaultExecutor = exec
}

// ResetDefaults restores the default OS implementations.
func ResetDefaults() {
	defaultFS = &osFileSystem{}
	defaultExecutor = &osExecutor{stdout: os.Stdout, stderr: os.Stderr}
}

// osFileSystem implements FileSystem using real OS operations.
type osFileSystem struct{}

func (f *osFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (f *osFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (f *osFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (f *osFileSystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
