package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jupyterhub/tljh-itest/internal/config"
	"github.com/jupyterhub/tljh-itest/internal/runtime"
	"github.com/jupyterhub/tljh-itest/internal/system"
	"github.com/jupyterhub/tljh-itest/internal/testutil"
)

const (
	// EnableEnv must be "1" for tests that drive a real engine.
	EnableEnv = "TLJH_ITEST_INTEGRATION"

	// RuntimeEnv optionally pins the engine (docker or podman).
	RuntimeEnv = "TLJH_ITEST_RUNTIME"

	// TestImage is the tag built by BuildTestImage.
	TestImage = "tljh-itest-integration"
)

// testDockerfile produces a long-running image with bash, id and python3.
const testDockerfile = `FROM python:3.12-slim
RUN pip install --no-cache-dir pytest
CMD ["sleep", "infinity"]
`

// TestHarness provides utilities for integration testing with real containers.
type TestHarness struct {
	t          *testing.T
	tempDir    string
	sourceRoot string
	cfg        *config.Config
	rt         *runtime.DockerRuntime
	containers []string // Track created containers for cleanup
}

// NewHarness creates a new test harness.
// It will skip the test unless TLJH_ITEST_INTEGRATION=1 and an engine is
// on PATH.
func NewHarness(t *testing.T) *TestHarness {
	t.Helper()

	if os.Getenv(EnableEnv) != "1" {
		t.Skipf("integration tests disabled (set %s=1 to enable)", EnableEnv)
	}

	engine, err := runtime.ParseEngine(os.Getenv(RuntimeEnv))
	if err != nil {
		t.Fatalf("invalid %s: %v", RuntimeEnv, err)
	}

	exec := system.NewExecutor(testWriter{t}, testWriter{t})
	rt, err := runtime.New(runtime.NewSelector(exec.LookPath, engine), exec)
	if err != nil {
		t.Skipf("no container runtime available: %v", err)
	}

	tempDir := t.TempDir()
	sourceRoot := filepath.Join(tempDir, "src")
	testutil.WriteSourceTree(t, sourceRoot)

	cfg := config.Default()
	cfg.Image = TestImage
	cfg.BuildContext = filepath.Join(tempDir, "image")
	cfg.SourceRoot = sourceRoot
	cfg.StateDir = filepath.Join(tempDir, "state")
	cfg.HubPython = "/usr/local/bin/python3"
	cfg.ReadyTimeout = 30 * time.Second
	cfg.PollInterval = time.Second

	h := &TestHarness{
		t:          t,
		tempDir:    tempDir,
		sourceRoot: sourceRoot,
		cfg:        cfg,
		rt:         rt,
		containers: make([]string, 0),
	}

	t.Cleanup(h.Cleanup)

	return h
}

// Config returns the harness configuration.
func (h *TestHarness) Config() *config.Config {
	return h.cfg
}

// Runtime returns the container runtime.
func (h *TestHarness) Runtime() *runtime.DockerRuntime {
	return h.rt
}

// SourceRoot returns the fixture checkout copied into containers.
func (h *TestHarness) SourceRoot() string {
	return h.sourceRoot
}

// WriteSource adds or replaces a file in the fixture checkout.
func (h *TestHarness) WriteSource(rel, content string) {
	h.t.Helper()

	path, err := h.cfg.SourcePath(rel)
	if err != nil {
		h.t.Fatalf("Failed to resolve %s: %v", rel, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		h.t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// BuildTestImage builds TestImage from testDockerfile.
func (h *TestHarness) BuildTestImage(ctx context.Context) {
	h.t.Helper()

	if err := os.MkdirAll(h.cfg.BuildContext, 0755); err != nil {
		h.t.Fatalf("Failed to create build context: %v", err)
	}
	if err := os.WriteFile(filepath.Join(h.cfg.BuildContext, "Dockerfile"), []byte(testDockerfile), 0644); err != nil {
		h.t.Fatalf("Failed to write Dockerfile: %v", err)
	}

	if err := h.rt.BuildImage(ctx, runtime.BuildOptions{Tag: TestImage, Context: h.cfg.BuildContext}); err != nil {
		h.t.Fatalf("Failed to build %s: %v", TestImage, err)
	}
}

// TrackContainer tracks a container for cleanup.
func (h *TestHarness) TrackContainer(name string) {
	h.containers = append(h.containers, name)
}

// Cleanup removes all tracked containers.
func (h *TestHarness) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for _, name := range h.containers {
		if err := h.rt.Stop(ctx, name); err != nil {
			h.t.Logf("Warning: failed to remove container %s: %v", name, err)
		}
	}
	h.containers = nil
}

// RequireRunning fails the test if the named container is not running.
func (h *TestHarness) RequireRunning(name string) {
	h.t.Helper()

	state, err := h.rt.InspectState(context.Background(), name)
	if err != nil {
		h.t.Fatalf("failed to inspect %s: %v", name, err)
	}
	if !state.Running {
		h.t.Fatalf("container %s is not running (status %s)", name, state.Status)
	}
}

// testWriter forwards streamed engine output to the test log.
type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
