package system

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
)

// osExecutor implements CommandExecutor using real OS operations.
type osExecutor struct {
	stdout io.Writer
	stderr io.Writer
}

// NewExecutor returns a CommandExecutor that streams non-captured output
// to the given writers.
func NewExecutor(stdout, stderr io.Writer) CommandExecutor {
	return &osExecutor{stdout: stdout, stderr: stderr}
}

func (e *osExecutor) Run(ctx context.Context, c Command) (*Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)

	var stdout, stderr bytes.Buffer
	if c.Capture {
		cmd.Stdout = &stdout
	} else {
		cmd.Stdout = e.stdout
	}

	switch {
	case c.MergeStderr:
		cmd.Stderr = cmd.Stdout
	case c.Capture:
		cmd.Stderr = &stderr
	default:
		cmd.Stderr = io.MultiWriter(e.stderr, &stderr)
	}

	err := cmd.Run()

	result := &Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}

	return result, nil
}

func (e *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
