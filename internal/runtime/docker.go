package runtime

import (
	"context"
	"fmt"

	"github.com/jupyterhub/tljh-itest/internal/errors"
	"github.com/jupyterhub/tljh-itest/internal/logging"
	"github.com/jupyterhub/tljh-itest/internal/system"
)

// DockerRuntime implements the Runtime interface using Docker or Podman.
// Both engines accept the same flags for every subcommand used here.
type DockerRuntime struct {
	cli *CLI
}

// NewDockerRuntime creates a runtime bound to an already resolved engine.
func NewDockerRuntime(engine Engine, exec system.CommandExecutor) *DockerRuntime {
	return &DockerRuntime{cli: NewCLI(engine, exec)}
}

// New resolves the engine through the selector and returns a runtime for it.
func New(sel *Selector, exec system.CommandExecutor) (*DockerRuntime, error) {
	engine, err := sel.Select()
	if err != nil {
		return nil, err
	}
	return NewDockerRuntime(engine, exec), nil
}

// Engine returns the runtime identifier
func (r *DockerRuntime) Engine() Engine {
	return r.cli.Engine
}


var (
	streamed = ExecOptions{CheckExitCode: true}
	captured = ExecOptions{Capture: true, CheckExitCode: true}
)

// BuildImage builds the image with `build -t=<tag> <context> --build-arg=...`.
func (r *DockerRuntime) BuildImage(ctx context.Context, opts BuildOptions) error {
	logging.Debug("building image", "tag", opts.Tag, "context", opts.Context, "build_args", len(opts.BuildArgs))

	args := []string{"-t=" + opts.Tag, opts.Context}
	for _, ba := range opts.BuildArgs {
		args = append(args, "--build-arg="+ba)
	}

	if _, err := r.cli.Execute(ctx, "build", args, streamed); err != nil {
		return errors.BuildFailed(opts.Tag, err)
	}
	return nil
}

// Run launches a privileged, detached container with a memory ceiling.
func (r *DockerRuntime) Run(ctx context.Context, opts RunOptions) error {
	memory := opts.Memory
	if memory == "" {
		memory = DefaultMemory
	}
	logging.Debug("starting container", "name", opts.Name, "image", opts.Image, "memory", memory)

	args := []string{
		"--privileged",
		"--detach",
		"--name=" + opts.Name,
		"--memory=" + memory,
	}
	if opts.BootstrapPipSpec != "" {
		args = append(args, "-e", fmt.Sprintf("%s=%s", BootstrapPipSpecEnv, opts.BootstrapPipSpec))
	}
	args = append(args, opts.Image)

	if _, err := r.cli.Execute(ctx, "run", args, streamed); err != nil {
		return errors.RunFailed(opts.Name, err)
	}
	return nil
}

// Stop inspects the container and force-removes it if it exists.
func (r *DockerRuntime) Stop(ctx context.Context, name string) error {
	logging.Debug("stopping container", "name", name)

	// --type=container so an image with the same name is not matched
	out, err := r.cli.Execute(ctx, "inspect", []string{"--type=container", name}, ExecOptions{
		Capture:       true,
		CheckExitCode: true,
		MergeStderr:   true,
	})
	if err != nil {
		if out != nil && isNotFound(out.String()) {
			logging.Debug("container does not exist, nothing to stop", "name", name)
			return nil
		}
		return errors.StopFailed(name, err)
	}

	if _, err := r.cli.Execute(ctx, "rm", []string{"-f", name}, captured); err != nil {
		return errors.StopFailed(name, err)
	}
	return nil
}

// Exec runs command through /bin/bash -c inside the container.
func (r *DockerRuntime) Exec(ctx context.Context, name, command string) error {
	args := []string{"-t", name, "/bin/bash", "-c", command}
	if _, err := r.cli.Execute(ctx, "exec", args, streamed); err != nil {
		return errors.ExecFailed(name, err)
	}
	return nil
}

// Copy copies src on the host to dest inside the container.
func (r *DockerRuntime) Copy(ctx context.Context, name, src, dest string) error {
	args := []string{src, name + ":" + dest}
	if _, err := r.cli.Execute(ctx, "cp", args, streamed); err != nil {
		return errors.CopyFailed(name, src, err)
	}
	return nil
}

// Logs returns the console output of the container.
func (r *DockerRuntime) Logs(ctx context.Context, name string) (string, error) {
	out, err := r.cli.Execute(ctx, "logs", []string{name}, ExecOptions{
		Capture:       true,
		CheckExitCode: true,
		MergeStderr:   true,
	})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// Inspect returns the raw inspect JSON.
func (r *DockerRuntime) Inspect(ctx context.Context, name string) (string, error) {
	out, err := r.cli.Execute(ctx, "inspect", []string{name}, captured)
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// InspectState returns the decoded state of the container.
func (r *DockerRuntime) InspectState(ctx context.Context, name string) (*ContainerState, error) {
	out, err := r.cli.Execute(ctx, "inspect", []string{name}, captured)
	if err != nil {
		return nil, err
	}
	return parseInspect(out.Stdout)
}

// Probe runs `id` inside the container.
func (r *DockerRuntime) Probe(ctx context.Context, name string) (*Output, error) {
	return r.cli.Execute(ctx, "exec", []string{"-t", name, "id"}, ExecOptions{Capture: true})
}
