package health

import (
	"context"
	"fmt"
	"strings"

	"github.com/jupyterhub/tljh-itest/internal/logging"
	"github.com/jupyterhub/tljh-itest/internal/runtime"
)

// Collector gathers diagnostics after a failed readiness check.
type Collector interface {
	Collect(ctx context.Context, name string, cause error)
}

// Diagnostics prints inspect metadata and console logs of a container.
// Every read is best effort: its error is logged and dropped so it can
// never replace the failure being diagnosed.
type Diagnostics struct {
	Runtime runtime.Runtime
}

// NewDiagnostics creates a collector backed by rt.
func NewDiagnostics(rt runtime.Runtime) *Diagnostics {
	return &Diagnostics{Runtime: rt}
}

// Collect logs cause, then the inspect output and state summary, then
// the container logs.
func (d *Diagnostics) Collect(ctx context.Context, name string, cause error) {
	logging.Warn("container not ready", "container", name, "error", cause)

	if raw, err := d.Runtime.Inspect(ctx, name); err != nil {
		logging.Warn("failed to inspect container", "container", name, "error", err)
	} else {
		logging.Banner("Inspect output of the container: %s", name)
		printBlock(raw)
	}

	if state, err := d.Runtime.InspectState(ctx, name); err != nil {
		logging.Debug("failed to decode container state", "container", name, "error", err)
	} else {
		logging.Info("container state",
			"container", name,
			"status", state.Status,
			"running", state.Running,
			"exit_code", state.ExitCode,
			"started_at", state.StartedAt,
			"error", state.Error,
		)
	}

	if err := d.PrintLogs(ctx, name); err != nil {
		logging.Warn("failed to fetch container logs", "container", name, "error", err)
	}
}

// PrintLogs writes the container logs between start and end banners.
func (d *Diagnostics) PrintLogs(ctx context.Context, name string) error {
	logs, err := d.Runtime.Logs(ctx, name)
	if err != nil {
		return err
	}
	logging.Banner("Start of logs from the container: %s", name)
	printBlock(logs)
	logging.Banner("End of logs from the container: %s", name)
	return nil
}

func printBlock(s string) {
	if s == "" {
		return
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	fmt.Fprint(logging.Stdout, s)
}
