package runtime

import (
	"context"
	"fmt"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/jupyterhub/tljh-itest/internal/errors"
	"github.com/jupyterhub/tljh-itest/internal/logging"
	"github.com/jupyterhub/tljh-itest/internal/system"
)

// ExecOptions controls how a runtime subcommand is run
type ExecOptions struct {
	// Capture collects output instead of streaming it to the terminal
	Capture bool

	// CheckExitCode turns a nonzero exit into a CommandFailed error
	CheckExitCode bool

	// MergeStderr sends stderr wherever stdout goes
	MergeStderr bool
}

// Output holds the result of a runtime subcommand
type Output struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// String returns the captured stdout
func (o *Output) String() string {
	if o == nil {
		return ""
	}
	return string(o.Stdout)
}

// CLI runs subcommands of a resolved container engine
type CLI struct {
	Engine Engine
	exec   system.CommandExecutor
}

// NewCLI creates a CLI for the given engine.
func NewCLI(engine Engine, exec system.CommandExecutor) *CLI {
	return &CLI{Engine: engine, exec: exec}
}

// CommandLine returns the shell-quoted command line for a subcommand.
func (c *CLI) CommandLine(subcommand string, args ...string) string {
	return shellquote.Join(c.argv(subcommand, args)...)
}

func (c *CLI) argv(subcommand string, args []string) []string {
	argv := make([]string, 0, len(args)+2)
	argv = append(argv, string(c.Engine), subcommand)
	return append(argv, args...)
}

// Execute runs `<engine> <subcommand> <args...>`. The command line is always
// logged before the process starts.
func (c *CLI) Execute(ctx context.Context, subcommand string, args []string, opts ExecOptions) (*Output, error) {
	argv := c.argv(subcommand, args)
	logging.Info("executing", "command", shellquote.Join(argv...))

	res, err := c.exec.Run(ctx, system.Command{
		Name:        argv[0],
		Args:        argv[1:],
		Capture:     opts.Capture,
		MergeStderr: opts.MergeStderr,
	})
	if err != nil {
		return nil, fmt.Errorf("running %s %s: %w", c.Engine, subcommand, err)
	}

	out := &Output{
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
	}

	if opts.CheckExitCode && out.ExitCode != 0 {
		stderr := string(out.Stderr)
		if opts.MergeStderr {
			stderr = string(out.Stdout)
		}
		return out, errors.CommandFailed(argv, out.ExitCode, strings.TrimSpace(stderr))
	}

	return out, nil
}
