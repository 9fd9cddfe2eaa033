package harness

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strconv"

	"github.com/google/uuid"
	shellquote "github.com/kballard/go-shellquote"

	"github.com/jupyterhub/tljh-itest/internal/audit"
	"github.com/jupyterhub/tljh-itest/internal/config"
	"github.com/jupyterhub/tljh-itest/internal/errors"
	"github.com/jupyterhub/tljh-itest/internal/health"
	"github.com/jupyterhub/tljh-itest/internal/logging"
	"github.com/jupyterhub/tljh-itest/internal/runtime"
)

// Step names as they appear in logs and the run journal.
const (
	StepStop      = "stop"
	StepRun       = "run"
	StepWaitReady = "wait-ready"
	StepCopy      = "copy"
	StepLogs      = "logs"
	StepUpgrade   = "upgrade"
	StepInstall   = "install"
	StepDeps      = "deps"
	StepFreeze    = "freeze"
	StepVerify    = "verify"
)

// Fixture directories copied from the source root into the container.
const (
	BootstrapDir        = "bootstrap"
	IntegrationTestsDir = "integration-tests"
)

// Waiter blocks until a container is ready.
type Waiter interface {
	Wait(ctx context.Context, name string) error
}

// Journal records step events.
type Journal interface {
	LogStep(runID, test, step string, outcome audit.Outcome, details string) error
}

// Orchestrator drives test runs against a container runtime.
type Orchestrator struct {
	cfg      *config.Config
	rt       runtime.Runtime
	probe    Waiter
	diag     *health.Diagnostics
	journal  Journal
	newRunID func() string
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithProbe sets the readiness probe
func WithProbe(w Waiter) Option {
	return func(o *Orchestrator) {
		o.probe = w
	}
}

// WithJournal sets the run journal
func WithJournal(j Journal) Option {
	return func(o *Orchestrator) {
		o.journal = j
	}
}

// WithRunID sets the run id generator
func WithRunID(fn func() string) Option {
	return func(o *Orchestrator) {
		o.newRunID = fn
	}
}

// New creates an Orchestrator. Unless overridden, the probe uses the
// configured timeout and interval and the journal lives in the state dir.
func New(cfg *config.Config, rt runtime.Runtime, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		rt:       rt,
		diag:     health.NewDiagnostics(rt),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.probe == nil {
		probe := health.NewProbe(rt)
		probe.Timeout = cfg.ReadyTimeout
		probe.Interval = cfg.PollInterval
		o.probe = probe
	}
	if o.journal == nil {
		o.journal = audit.NewLogger(cfg.StateDir)
	}

	return o
}

type step struct {
	name    string
	skip    bool
	details string
	run     func(ctx context.Context) error
}

// RunTest runs the full install-and-verify sequence for inv. The first
// failing step aborts the run and its error is returned.
func (o *Orchestrator) RunTest(ctx context.Context, inv Invocation) error {
	inv, err := NewInvocation(inv)
	if err != nil {
		return err
	}

	runID := o.newRunID()
	log := logging.With("run_id", runID, "test", inv.TestName)
	log.Info("starting test run", "image", inv.Image, "files", len(inv.TestFiles), "upgrade_from", inv.UpgradeFrom)

	name := inv.TestName
	steps := []step{
		{name: StepStop, run: func(ctx context.Context) error {
			return o.rt.Stop(ctx, name)
		}},
		{name: StepRun, details: inv.Image, run: func(ctx context.Context) error {
			return o.rt.Run(ctx, o.runOptions(inv.Image, name, inv.BootstrapPipSpec))
		}},
		{name: StepWaitReady, run: func(ctx context.Context) error {
			return o.probe.Wait(ctx, name)
		}},
		{name: StepCopy, run: func(ctx context.Context) error {
			return o.copyFixtures(ctx, name)
		}},
		{name: StepLogs, run: func(ctx context.Context) error {
			if err := o.diag.PrintLogs(ctx, name); err != nil {
				log.Warn("failed to fetch container logs", "error", err)
			}
			return nil
		}},
		{name: StepUpgrade, skip: inv.UpgradeFrom == "", details: inv.UpgradeFrom, run: func(ctx context.Context) error {
			return o.rt.Exec(ctx, name, o.UpgradeCommand(inv.UpgradeFrom))
		}},
		{name: StepInstall, details: inv.InstallerArgs, run: func(ctx context.Context) error {
			return o.rt.Exec(ctx, name, o.InstallCommand(inv.InstallerArgs))
		}},
		{name: StepDeps, run: func(ctx context.Context) error {
			return o.rt.Exec(ctx, name, o.DepsCommand())
		}},
		{name: StepFreeze, run: func(ctx context.Context) error {
			return o.rt.Exec(ctx, name, o.FreezeCommand())
		}},
		{name: StepVerify, details: shellquote.Join(inv.TestFiles...), run: func(ctx context.Context) error {
			return o.rt.Exec(ctx, name, o.VerifyCommand(inv.TestFiles))
		}},
	}

	for _, s := range steps {
		if s.skip {
			log.Debug("skipping step", "step", s.name)
			o.record(log, runID, name, s.name, audit.OutcomeSkipped, "")
			continue
		}

		log.Info("running step", "step", s.name)
		o.record(log, runID, name, s.name, audit.OutcomeStart, s.details)

		if err := s.run(ctx); err != nil {
			log.Error("step failed", "step", s.name, "error", err)
			o.record(log, runID, name, s.name, audit.OutcomeFailed, err.Error())
			return err
		}
		o.record(log, runID, name, s.name, audit.OutcomeOK, "")
	}

	log.Info("test run passed")
	return nil
}

// record appends to the journal. Journal failures never abort a run.
func (o *Orchestrator) record(log *slog.Logger, runID, test, stepName string, outcome audit.Outcome, details string) {
	if err := o.journal.LogStep(runID, test, stepName, outcome, details); err != nil {
		log.Warn("failed to write run journal", "step", stepName, "error", err)
	}
}

func (o *Orchestrator) runOptions(image, name, pipSpec string) runtime.RunOptions {
	return runtime.RunOptions{
		Image:            image,
		Name:             name,
		Memory:           o.cfg.Memory,
		BootstrapPipSpec: pipSpec,
	}
}

// FixtureSources returns the host paths copied into the container, in
// order: the installer sources, then the integration tests.
func (o *Orchestrator) FixtureSources() ([]string, error) {
	bootstrap, err := o.cfg.SourcePath(BootstrapDir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", BootstrapDir, err)
	}
	tests, err := o.cfg.SourcePath(IntegrationTestsDir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", IntegrationTestsDir, err)
	}
	// "/." copies the directory contents rather than the directory
	return []string{bootstrap + "/.", tests + "/"}, nil
}

func (o *Orchestrator) copyFixtures(ctx context.Context, name string) error {
	sources, err := o.FixtureSources()
	if err != nil {
		return errors.CopyFailed(name, o.cfg.SourceRoot, err)
	}
	for _, src := range sources {
		if err := o.rt.Copy(ctx, name, src, o.cfg.ContainerSrc); err != nil {
			return err
		}
	}
	return nil
}

// UpgradeCommand installs a released version through the published
// bootstrap script.
// TODO: fetch the bootstrap script matching version instead of the one
// published from the main branch.
func (o *Orchestrator) UpgradeCommand(version string) string {
	return fmt.Sprintf("curl -L %s | python3 - %s",
		shellquote.Join(o.cfg.BootstrapURL), shellquote.Join("--version="+version))
}

// InstallCommand runs the copied installer. args are passed verbatim.
func (o *Orchestrator) InstallCommand(args string) string {
	cmd := shellquote.Join("python3", path.Join(o.cfg.ContainerSrc, "bootstrap.py"))
	if args != "" {
		cmd += " " + args
	}
	return cmd
}

// DepsCommand installs the test requirements into the hub environment.
func (o *Orchestrator) DepsCommand() string {
	return shellquote.Join(o.cfg.HubPython, "-m", "pip", "install", "-r",
		path.Join(o.cfg.ContainerSrc, IntegrationTestsDir, "requirements.txt"))
}

// FreezeCommand lists the packages resolved in the hub environment.
func (o *Orchestrator) FreezeCommand() string {
	return shellquote.Join(o.cfg.HubPython, "-m", "pip", "freeze")
}

// VerifyCommand runs pytest on the copied test files and stops after
// max_fail failures. File paths are left unquoted so the container shell
// expands patterns such as test_*.py.
func (o *Orchestrator) VerifyCommand(files []string) string {
	argv := []string{
		o.cfg.HubPython, "-m", "pytest",
		"--verbose",
		"--maxfail=" + strconv.Itoa(o.cfg.MaxFail),
		"--color=yes",
		"--durations=10",
		"--capture=no",
	}
	cmd := shellquote.Join(argv...)
	for _, f := range files {
		cmd += " " + path.Join(o.cfg.ContainerSrc, IntegrationTestsDir, f)
	}
	return cmd
}

// BuildImage builds the configured image from the configured context.
func (o *Orchestrator) BuildImage(ctx context.Context, buildArgs []string) error {
	return o.rt.BuildImage(ctx, runtime.BuildOptions{
		Tag:       o.cfg.Image,
		Context:   o.cfg.BuildContext,
		BuildArgs: buildArgs,
	})
}

// StartContainer replaces any container called name with a fresh one from
// the configured image.
func (o *Orchestrator) StartContainer(ctx context.Context, name, pipSpec string) error {
	if err := config.ValidateTestName(name); err != nil {
		return errors.ValidationError(err.Error())
	}
	if err := o.rt.Stop(ctx, name); err != nil {
		return err
	}
	return o.rt.Run(ctx, o.runOptions(o.cfg.Image, name, pipSpec))
}

// StopContainer removes name if it exists.
func (o *Orchestrator) StopContainer(ctx context.Context, name string) error {
	return o.rt.Stop(ctx, name)
}

// Exec runs a shell command in the container.
func (o *Orchestrator) Exec(ctx context.Context, name, command string) error {
	return o.rt.Exec(ctx, name, command)
}

// Copy copies a host path into the container.
func (o *Orchestrator) Copy(ctx context.Context, name, src, dest string) error {
	return o.rt.Copy(ctx, name, src, dest)
}

// ShowLogs prints the systemd journal and the status of the hub services.
func (o *Orchestrator) ShowLogs(ctx context.Context, name string) error {
	if err := o.rt.Exec(ctx, name, "journalctl --no-pager"); err != nil {
		return err
	}
	return o.rt.Exec(ctx, name, "systemctl --no-pager status jupyterhub traefik")
}
