package runtime

import (
	"context"
)

// BootstrapPipSpecEnv is the variable the installer reads to override
// where it installs itself from.
const BootstrapPipSpecEnv = "TLJH_BOOTSTRAP_PIP_SPEC"

// DefaultMemory is the container memory ceiling. It matches the documented
// minimum footprint of the product under test.
const DefaultMemory = "900m"

// BuildOptions holds options for building an image
type BuildOptions struct {
	Tag     string
	Context string

	// BuildArgs are KEY=VALUE pairs passed in order.
	BuildArgs []string
}

// RunOptions holds options for launching a container
type RunOptions struct {
	Image  string
	Name   string
	Memory string // defaults to DefaultMemory

	// BootstrapPipSpec is injected as TLJH_BOOTSTRAP_PIP_SPEC when non-empty
	BootstrapPipSpec string
}

// ContainerState is a short summary of a container's inspect metadata
type ContainerState struct {
	ID         string
	Name       string
	Image      string
	Status     string
	Running    bool
	ExitCode   int
	StartedAt  string
	Error      string
	Privileged bool
	Memory     int64
}

// Runtime is the container lifecycle surface the harness needs.
type Runtime interface {
	// Engine returns the resolved engine
	Engine() Engine

	// BuildImage builds and tags an image
	BuildImage(ctx context.Context, opts BuildOptions) error

	// Run launches a detached, privileged container
	Run(ctx context.Context, opts RunOptions) error

	// Stop removes a container. A container that does not exist is not an error.
	Stop(ctx context.Context, name string) error

	// Exec runs a shell command inside a container, streaming its output
	Exec(ctx context.Context, name, command string) error

	// Copy copies a host path into a container
	Copy(ctx context.Context, name, src, dest string) error

	// Logs returns the container's console output
	Logs(ctx context.Context, name string) (string, error)

	// Inspect returns the raw inspect JSON for a container
	Inspect(ctx context.Context, name string) (string, error)

	// InspectState decodes inspect output into a ContainerState
	InspectState(ctx context.Context, name string) (*ContainerState, error)

	// Probe issues a liveness command inside the container. The exit code is
	// returned in the Output and is not treated as an error.
	Probe(ctx context.Context, name string) (*Output, error)
}
