// Package runtime provides the container lifecycle primitives for tljh-itest.
//
// Supported engines:
//   - docker
//   - podman
//
// Both are driven through their CLI with an identical flag subset, so a
// single DockerRuntime serves either one.
//
// # Engine selection
//
// A Selector looks for docker, then podman, on PATH and caches the first
// hit. The resolved Engine is passed explicitly into NewDockerRuntime; there
// is no process-wide runtime instance.
//
// # Command execution
//
// CLI.Execute prepends the engine binary, logs the composed command line and
// runs it either captured or streamed. With CheckExitCode set, a nonzero exit
// becomes a CommandFailed error carrying argv, exit status and stderr.
//
// # Runtime Interface
//
//   - BuildImage, Run, Stop: image and container lifecycle
//   - Exec, Copy: work inside a running container
//   - Logs, Inspect, InspectState: diagnostic reads
//   - Probe: liveness check used by the readiness probe
//
// Stop is idempotent: a container that does not exist is not an error.
//
// # Mock Runtime
//
// For testing, use NewMockRuntime() to create a mock implementation that
// records every call and can be configured to fail specific operations.
package runtime
