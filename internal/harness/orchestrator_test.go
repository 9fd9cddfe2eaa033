package harness

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupyterhub/tljh-itest/internal/audit"
	"github.com/jupyterhub/tljh-itest/internal/config"
	harnesserrors "github.com/jupyterhub/tljh-itest/internal/errors"
	"github.com/jupyterhub/tljh-itest/internal/logging"
	"github.com/jupyterhub/tljh-itest/internal/runtime"
)

// stubWaiter records Wait calls against the mock runtime's call log so the
// relative order of probe and runtime calls can be checked.
type stubWaiter struct {
	rt  *runtime.MockRuntime
	err error
}

func (w *stubWaiter) Wait(ctx context.Context, name string) error {
	w.rt.CallLog = append(w.rt.CallLog, runtime.MockCall{Method: "Wait", Args: []interface{}{name}})
	return w.err
}

type memJournal struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
}

func (j *memJournal) LogStep(runID, test, step string, outcome audit.Outcome, details string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, audit.Event{RunID: runID, Test: test, Step: step, Outcome: outcome, Details: details})
	return j.err
}

func (j *memJournal) outcomes() []string {
	var out []string
	for _, e := range j.events {
		out = append(out, e.Step+":"+string(e.Outcome))
	}
	return out
}

type fixture struct {
	rt      *runtime.MockRuntime
	waiter  *stubWaiter
	journal *memJournal
	cfg     *config.Config
	orch    *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	old := logging.Stdout
	logging.Stdout = &strings.Builder{}
	t.Cleanup(func() { logging.Stdout = old })

	cfg := config.Default()
	cfg.SourceRoot = t.TempDir()
	cfg.StateDir = t.TempDir()

	rt := runtime.NewMockRuntime()
	f := &fixture{
		rt:      rt,
		waiter:  &stubWaiter{rt: rt},
		journal: &memJournal{},
		cfg:     cfg,
	}
	f.orch = New(cfg, rt,
		WithProbe(f.waiter),
		WithJournal(f.journal),
		WithRunID(func() string { return "run-1" }),
	)
	return f
}

func basicInvocation() Invocation {
	return Invocation{
		Image:     "tljh-systemd",
		TestName:  "t1",
		TestFiles: []string{"a.py"},
	}
}

func TestRunTest_StepOrderWithoutUpgrade(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.orch.RunTest(context.Background(), basicInvocation()))

	assert.Equal(t, []string{
		"Stop", "Run", "Wait", "Copy", "Copy", "Logs",
		"Exec", "Exec", "Exec", "Exec",
	}, f.rt.Methods())

	cmds := f.rt.ExecCommands()
	require.Len(t, cmds, 4)
	assert.Equal(t, "python3 /srv/src/bootstrap.py", cmds[0])
	assert.Equal(t, "/opt/tljh/hub/bin/python3 -m pip install -r /srv/src/integration-tests/requirements.txt", cmds[1])
	assert.Equal(t, "/opt/tljh/hub/bin/python3 -m pip freeze", cmds[2])
	assert.Equal(t, "/opt/tljh/hub/bin/python3 -m pytest --verbose --maxfail=2 --color=yes --durations=10 --capture=no /srv/src/integration-tests/a.py", cmds[3])
	for _, c := range cmds {
		assert.NotContains(t, c, "curl", "upgrade step must be skipped")
	}

	assert.Contains(t, f.journal.outcomes(), "upgrade:skipped")
}

func TestRunTest_WithUpgrade(t *testing.T) {
	f := newFixture(t)
	inv := basicInvocation()
	inv.UpgradeFrom = "0.2.0"
	inv.InstallerArgs = "--admin admin:admin"

	require.NoError(t, f.orch.RunTest(context.Background(), inv))

	cmds := f.rt.ExecCommands()
	require.Len(t, cmds, 5)
	assert.Equal(t, "curl -L https://tljh.jupyter.org/bootstrap.py | python3 - --version=0.2.0", cmds[0])
	assert.Equal(t, "python3 /srv/src/bootstrap.py --admin admin:admin", cmds[1])
}

func TestRunTest_StopBeforeRunSameName(t *testing.T) {
	f := newFixture(t)
	f.rt.AddContainer("t1")

	require.NoError(t, f.orch.RunTest(context.Background(), basicInvocation()))

	calls := f.rt.GetCalls()
	require.GreaterOrEqual(t, len(calls), 2)
	assert.Equal(t, "Stop", calls[0].Method)
	assert.Equal(t, "t1", calls[0].Args[0])
	assert.Equal(t, "Run", calls[1].Method)

	opts := calls[1].Args[0].(runtime.RunOptions)
	assert.Equal(t, "t1", opts.Name)
	assert.Equal(t, "tljh-systemd", opts.Image)
	assert.Equal(t, "900m", opts.Memory)
}

func TestRunTest_BootstrapPipSpecPassedToRun(t *testing.T) {
	f := newFixture(t)
	inv := basicInvocation()
	inv.BootstrapPipSpec = "/srv/src"

	require.NoError(t, f.orch.RunTest(context.Background(), inv))

	runs := f.rt.GetCallsFor("Run")
	require.Len(t, runs, 1)
	assert.Equal(t, "/srv/src", runs[0].Args[0].(runtime.RunOptions).BootstrapPipSpec)
}

func TestRunTest_CopiesFixturesInOrder(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.orch.RunTest(context.Background(), basicInvocation()))

	copies := f.rt.GetCallsFor("Copy")
	require.Len(t, copies, 2)
	assert.Equal(t, filepath.Join(f.cfg.SourceRoot, "bootstrap")+"/.", copies[0].Args[1])
	assert.Equal(t, filepath.Join(f.cfg.SourceRoot, "integration-tests")+"/", copies[1].Args[1])
	for _, c := range copies {
		assert.Equal(t, "/srv/src", c.Args[2])
	}
}

func TestRunTest_AbortsOnFirstFailure(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		setup     func(f *fixture)
		wantLast  string
		wantSteps int
	}{
		{
			name:      "stop",
			setup:     func(f *fixture) { f.rt.SetError("Stop", harnesserrors.StopFailed("t1", boom)) },
			wantLast:  "Stop",
			wantSteps: 1,
		},
		{
			name:      "run",
			setup:     func(f *fixture) { f.rt.SetError("Run", harnesserrors.RunFailed("t1", boom)) },
			wantLast:  "Run",
			wantSteps: 2,
		},
		{
			name:      "wait-ready",
			setup:     func(f *fixture) { f.waiter.err = harnesserrors.ContainerNotReady("t1", 0, boom) },
			wantLast:  "Wait",
			wantSteps: 3,
		},
		{
			name:      "copy",
			setup:     func(f *fixture) { f.rt.SetError("Copy", harnesserrors.CopyFailed("t1", "bootstrap", boom)) },
			wantLast:  "Copy",
			wantSteps: 4,
		},
		{
			name:      "install",
			setup:     func(f *fixture) { f.rt.SetExecError("bootstrap.py", harnesserrors.ExecFailed("t1", boom)) },
			wantLast:  "Exec",
			wantSteps: 7,
		},
		{
			name:      "deps",
			setup:     func(f *fixture) { f.rt.SetExecError("pip install", harnesserrors.ExecFailed("t1", boom)) },
			wantLast:  "Exec",
			wantSteps: 8,
		},
		{
			name:      "verify",
			setup:     func(f *fixture) { f.rt.SetExecError("pytest", harnesserrors.ExecFailed("t1", boom)) },
			wantLast:  "Exec",
			wantSteps: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			err := f.orch.RunTest(context.Background(), basicInvocation())
			require.Error(t, err)
			require.ErrorIs(t, err, boom)

			methods := f.rt.Methods()
			assert.Len(t, methods, tt.wantSteps)
			assert.Equal(t, tt.wantLast, methods[len(methods)-1])

			outcomes := f.journal.outcomes()
			assert.True(t, strings.HasSuffix(outcomes[len(outcomes)-1], ":failed"), "last journal entry should be the failure, got %v", outcomes)
		})
	}
}

func TestRunTest_NothingBeforeSuccessfulRun(t *testing.T) {
	f := newFixture(t)
	f.rt.SetError("Run", harnesserrors.RunFailed("t1", errors.New("conflict")))

	err := f.orch.RunTest(context.Background(), basicInvocation())
	require.Error(t, err)
	assert.Equal(t, harnesserrors.ExitRunFailed, harnesserrors.GetExitCode(err))

	for _, m := range []string{"Wait", "Copy", "Exec"} {
		assert.NotContains(t, f.rt.Methods(), m)
	}
}

func TestRunTest_LogsFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.rt.SetError("Logs", errors.New("logs unavailable"))

	require.NoError(t, f.orch.RunTest(context.Background(), basicInvocation()))
	assert.Len(t, f.rt.ExecCommands(), 4)
}

func TestRunTest_JournalFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.journal.err = errors.New("disk full")

	require.NoError(t, f.orch.RunTest(context.Background(), basicInvocation()))
}

func TestRunTest_Journal(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.orch.RunTest(context.Background(), basicInvocation()))

	for _, e := range f.journal.events {
		assert.Equal(t, "run-1", e.RunID)
		assert.Equal(t, "t1", e.Test)
	}
	assert.Equal(t, []string{
		"stop:start", "stop:ok",
		"run:start", "run:ok",
		"wait-ready:start", "wait-ready:ok",
		"copy:start", "copy:ok",
		"logs:start", "logs:ok",
		"upgrade:skipped",
		"install:start", "install:ok",
		"deps:start", "deps:ok",
		"freeze:start", "freeze:ok",
		"verify:start", "verify:ok",
	}, f.journal.outcomes())
}

func TestRunTest_MaxFail(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.orch.RunTest(context.Background(), basicInvocation()))

	verify := f.rt.ExecCommands()[3]
	assert.Contains(t, verify, "--maxfail=2")
}

func TestRunTest_FilePatternsReachShell(t *testing.T) {
	f := newFixture(t)
	inv := basicInvocation()
	inv.TestFiles = []string{"test_hub.py", "test_*.py"}

	require.NoError(t, f.orch.RunTest(context.Background(), inv))

	cmds := f.rt.ExecCommands()
	require.Len(t, cmds, 4)
	assert.True(t, strings.HasSuffix(cmds[3],
		" /srv/src/integration-tests/test_hub.py /srv/src/integration-tests/test_*.py"), cmds[3])
}

func TestRunTest_InvalidInvocation(t *testing.T) {
	tests := []struct {
		name string
		inv  Invocation
	}{
		{"no files", Invocation{Image: "img", TestName: "t1"}},
		{"bad name", Invocation{Image: "img", TestName: "bad name", TestFiles: []string{"a.py"}}},
		{"empty file", Invocation{Image: "img", TestName: "t1", TestFiles: []string{""}}},
		{"no image", Invocation{TestName: "t1", TestFiles: []string{"a.py"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			err := f.orch.RunTest(context.Background(), tt.inv)
			require.Error(t, err)
			assert.Empty(t, f.rt.GetCalls(), "nothing should reach the runtime")
		})
	}
}

func TestNewInvocation_CopiesFiles(t *testing.T) {
	files := []string{"a.py"}
	inv, err := NewInvocation(Invocation{Image: "img", TestName: "t1", TestFiles: files})
	require.NoError(t, err)

	files[0] = "changed.py"
	assert.Equal(t, "a.py", inv.TestFiles[0])
}

func TestBuildImage(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.orch.BuildImage(context.Background(), []string{"A=1", "B=2"}))

	builds := f.rt.GetCallsFor("BuildImage")
	require.Len(t, builds, 1)
	opts := builds[0].Args[0].(runtime.BuildOptions)
	assert.Equal(t, "tljh-systemd", opts.Tag)
	assert.Equal(t, "integration-tests", opts.Context)
	assert.Equal(t, []string{"A=1", "B=2"}, opts.BuildArgs)
}

func TestStartContainer(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.orch.StartContainer(context.Background(), "t1", "tljh==1.0"))

	assert.Equal(t, []string{"Stop", "Run"}, f.rt.Methods())
	opts := f.rt.GetCallsFor("Run")[0].Args[0].(runtime.RunOptions)
	assert.Equal(t, "tljh==1.0", opts.BootstrapPipSpec)

	err := f.orch.StartContainer(context.Background(), "bad/name", "")
	require.Error(t, err)
}

func TestShowLogs(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.orch.ShowLogs(context.Background(), "t1"))
	assert.Equal(t, []string{
		"journalctl --no-pager",
		"systemctl --no-pager status jupyterhub traefik",
	}, f.rt.ExecCommands())

	f = newFixture(t)
	f.rt.SetExecError("journalctl", errors.New("boom"))
	require.Error(t, f.orch.ShowLogs(context.Background(), "t1"))
	assert.Len(t, f.rt.ExecCommands(), 1)
}

func TestNew_DefaultsUseConfig(t *testing.T) {
	cfg := config.Default()
	cfg.StateDir = t.TempDir()
	orch := New(cfg, runtime.NewMockRuntime())

	assert.NotNil(t, orch.probe)
	assert.IsType(t, &audit.Logger{}, orch.journal)
	assert.NotEmpty(t, orch.newRunID())
}
