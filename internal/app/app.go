package app

import (
	"sync"

	"github.com/jupyterhub/tljh-itest/internal/audit"
	"github.com/jupyterhub/tljh-itest/internal/config"
	"github.com/jupyterhub/tljh-itest/internal/errors"
	"github.com/jupyterhub/tljh-itest/internal/harness"
	"github.com/jupyterhub/tljh-itest/internal/runtime"
	"github.com/jupyterhub/tljh-itest/internal/system"
)

// App holds the application dependencies
type App struct {
	// Config is the loaded harness configuration
	Config *config.Config

	// FS reads the config file
	FS system.FileSystem

	// Executor runs the container engine binary
	Executor system.CommandExecutor

	// Runtime is the container runtime. When nil it is resolved on first
	// use from Config.Runtime and the executor's PATH lookup.
	Runtime runtime.Runtime

	// HarnessOptions are passed to every orchestrator the app builds
	HarnessOptions []harness.Option

	mu sync.Mutex
}

// Option is a function that configures the App
type Option func(*App)

// WithConfig sets a custom configuration
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithFS sets a custom filesystem
func WithFS(fs system.FileSystem) Option {
	return func(a *App) {
		a.FS = fs
	}
}

// WithExecutor sets a custom command executor
func WithExecutor(exec system.CommandExecutor) Option {
	return func(a *App) {
		a.Executor = exec
	}
}

// WithRuntime sets a custom runtime
func WithRuntime(r runtime.Runtime) Option {
	return func(a *App) {
		a.Runtime = r
	}
}

// WithHarnessOptions appends orchestrator options
func WithHarnessOptions(opts ...harness.Option) Option {
	return func(a *App) {
		a.HarnessOptions = append(a.HarnessOptions, opts...)
	}
}

// New creates a new App with the given options.
// Missing dependencies fall back to the built-in config and the OS.
func New(opts ...Option) *App {
	app := &App{}

	for _, opt := range opts {
		opt(app)
	}

	if app.Config == nil {
		app.Config = config.Default()
	}
	if app.FS == nil {
		app.FS = system.DefaultFS()
	}
	if app.Executor == nil {
		app.Executor = system.DefaultExecutor()
	}

	return app
}

// LoadConfig replaces the app config with the file at path. An empty path
// loads the default file when present and otherwise keeps the current
// config.
func (a *App) LoadConfig(path string) error {
	if path == "" && !a.FS.Exists(config.DefaultFile) {
		return nil
	}
	cfg, err := config.Load(a.FS, path)
	if err != nil {
		return err
	}
	a.Config = cfg
	return nil
}

// ResolveRuntime returns the runtime, selecting the engine on first use.
func (a *App) ResolveRuntime() (runtime.Runtime, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.Runtime != nil {
		return a.Runtime, nil
	}

	engine, err := runtime.ParseEngine(a.Config.Runtime)
	if err != nil {
		return nil, errors.ConfigError("invalid runtime", err)
	}
	rt, err := runtime.New(runtime.NewSelector(a.Executor.LookPath, engine), a.Executor)
	if err != nil {
		return nil, err
	}
	a.Runtime = rt
	return rt, nil
}

// Orchestrator returns a test orchestrator bound to the resolved runtime.
func (a *App) Orchestrator() (*harness.Orchestrator, error) {
	rt, err := a.ResolveRuntime()
	if err != nil {
		return nil, err
	}
	return harness.New(a.Config, rt, a.HarnessOptions...), nil
}

// Journal returns the run journal under the configured state dir.
func (a *App) Journal() *audit.Logger {
	return audit.NewLogger(a.Config.StateDir)
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
