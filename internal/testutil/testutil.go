// Package testutil provides test utilities for integration tests
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jupyterhub/tljh-itest/internal/app"
	"github.com/jupyterhub/tljh-itest/internal/config"
	"github.com/jupyterhub/tljh-itest/internal/harness"
	"github.com/jupyterhub/tljh-itest/internal/logging"
	"github.com/jupyterhub/tljh-itest/internal/runtime"
)

// TestEnv holds the test environment
type TestEnv struct {
	T          *testing.T
	TmpDir     string
	SourceRoot string
	Config     *config.Config
	Runtime    *runtime.MockRuntime
	App        *app.App
	cleanup    func()
}

// NewTestEnv creates a new test environment with mock runtime. The source
// root holds the bootstrap and integration-tests trees, the state dir is
// empty and the readiness probe polls without sleeping.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()
	sourceRoot := filepath.Join(tmpDir, "src")
	WriteSourceTree(t, sourceRoot)

	cfg := config.Default()
	cfg.SourceRoot = sourceRoot
	cfg.StateDir = filepath.Join(tmpDir, "state")
	cfg.ReadyTimeout = time.Second
	cfg.PollInterval = time.Millisecond

	if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", cfg.StateDir, err)
	}

	mockRuntime := runtime.NewMockRuntime()

	testApp := app.New(
		app.WithConfig(cfg),
		app.WithRuntime(mockRuntime),
		app.WithHarnessOptions(harness.WithRunID(func() string { return "test-run" })),
	)

	// Save original default and set test app
	originalDefault := app.Default
	app.SetDefault(testApp)

	env := &TestEnv{
		T:          t,
		TmpDir:     tmpDir,
		SourceRoot: sourceRoot,
		Config:     cfg,
		Runtime:    mockRuntime,
		App:        testApp,
		cleanup: func() {
			app.SetDefault(originalDefault)
		},
	}
	t.Cleanup(env.Cleanup)

	return env
}

// Cleanup restores the original app default
func (e *TestEnv) Cleanup() {
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
}

// CaptureOutput redirects user-facing output into a buffer until the test
// ends and returns a function reading what was written so far.
func (e *TestEnv) CaptureOutput() func() string {
	e.T.Helper()

	buf := &syncBuffer{}
	old := logging.Stdout
	logging.Stdout = buf
	e.T.Cleanup(func() { logging.Stdout = old })
	return buf.String
}

// WriteConfig writes content to a file in the temp dir and returns its path.
func (e *TestEnv) WriteConfig(content string) string {
	e.T.Helper()

	path := filepath.Join(e.TmpDir, config.DefaultFile)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.T.Fatalf("Failed to write config: %v", err)
	}
	return path
}

// Journal returns the events recorded for test.
func (e *TestEnv) Journal(test string) []string {
	e.T.Helper()

	events, err := e.App.Journal().Events(test)
	if err != nil {
		e.T.Fatalf("Failed to read journal: %v", err)
	}
	var out []string
	for _, ev := range events {
		out = append(out, ev.Step+":"+string(ev.Outcome))
	}
	return out
}
