package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jupyterhub/tljh-itest/internal/app"
	"github.com/jupyterhub/tljh-itest/internal/audit"
	"github.com/jupyterhub/tljh-itest/internal/harness"
)

// request is implemented by one struct per subcommand.
type request interface {
	request()
}

type buildImageRequest struct {
	BuildArgs []string
}

type stopContainerRequest struct {
	Name string
}

type startContainerRequest struct {
	Name             string
	BootstrapPipSpec string
}

type runRequest struct {
	Name    string
	Command string
}

type copyRequest struct {
	Name string
	Src  string
	Dest string
}

type runTestRequest struct {
	Invocation harness.Invocation
}

type showLogsRequest struct {
	Name string
}

type eventsRequest struct {
	Name  string
	JSON  bool
	Clear bool
}

func (buildImageRequest) request()     {}
func (stopContainerRequest) request()  {}
func (startContainerRequest) request() {}
func (runRequest) request()            {}
func (copyRequest) request()           {}
func (runTestRequest) request()        {}
func (showLogsRequest) request()       {}
func (eventsRequest) request()         {}

// dispatch routes a request to its operation. out receives command output
// that is data rather than status (the events listing).
func dispatch(ctx context.Context, out io.Writer, req request) error {
	// the journal is readable without a container engine
	var orch *harness.Orchestrator
	if _, ok := req.(eventsRequest); !ok {
		var err error
		if orch, err = app.Default.Orchestrator(); err != nil {
			return err
		}
	}

	switch r := req.(type) {
	case eventsRequest:
		return showEvents(out, app.Default.Journal(), r)

	case buildImageRequest:
		logInfo("Building image %s from %s", app.Default.Config.Image, app.Default.Config.BuildContext)
		if err := orch.BuildImage(ctx, r.BuildArgs); err != nil {
			return err
		}
		logSuccess("Built image %s", app.Default.Config.Image)

	case stopContainerRequest:
		if err := orch.StopContainer(ctx, r.Name); err != nil {
			return err
		}
		logSuccess("Container %s is gone", r.Name)

	case startContainerRequest:
		logInfo("Starting container %s", r.Name)
		if err := orch.StartContainer(ctx, r.Name, r.BootstrapPipSpec); err != nil {
			return err
		}
		logSuccess("Started container %s", r.Name)

	case runRequest:
		return orch.Exec(ctx, r.Name, r.Command)

	case copyRequest:
		return orch.Copy(ctx, r.Name, r.Src, r.Dest)

	case runTestRequest:
		logInfo("Running %s", r.Invocation.TestName)
		if err := orch.RunTest(ctx, r.Invocation); err != nil {
			return err
		}
		logSuccess("Test run %s passed", r.Invocation.TestName)

	case showLogsRequest:
		return orch.ShowLogs(ctx, r.Name)

	default:
		return fmt.Errorf("unhandled request %T", req)
	}
	return nil
}

func showEvents(out io.Writer, journal *audit.Logger, r eventsRequest) error {
	if r.Clear {
		if err := journal.Remove(r.Name); err != nil {
			return fmt.Errorf("failed to clear run journal: %w", err)
		}
		logSuccess("Cleared run journal for %s", r.Name)
		return nil
	}

	events, err := journal.Events(r.Name)
	if err != nil {
		return fmt.Errorf("failed to read run journal: %w", err)
	}

	if len(events) == 0 {
		logInfo("No events found for test %s", r.Name)
		return nil
	}

	if r.JSON {
		enc := json.NewEncoder(out)
		for _, e := range events {
			if err := enc.Encode(e); err != nil {
				return fmt.Errorf("failed to marshal event: %w", err)
			}
		}
		return nil
	}

	for _, run := range audit.Runs(events) {
		fmt.Fprintf(out, "run %s\n", run[0].RunID)
		for _, e := range run {
			ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
			if e.Details != "" {
				fmt.Fprintf(out, "  [%s] %-10s %-7s (%s)\n", ts, e.Step, e.Outcome, e.Details)
			} else {
				fmt.Fprintf(out, "  [%s] %-10s %s\n", ts, e.Step, e.Outcome)
			}
		}
	}

	return nil
}
