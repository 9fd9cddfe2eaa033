// Package app provides the application context for tljh-itest.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Config   *config.Config          // Harness settings
//	    FS       system.FileSystem       // Config file access
//	    Executor system.CommandExecutor  // Runs docker or podman
//	    Runtime  runtime.Runtime         // Resolved lazily when nil
//	}
//
// # Creating an App
//
//	// Production usage
//	a := app.New()
//	if err := a.LoadConfig(path); err != nil { ... }
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithConfig(cfg),
//	    app.WithRuntime(runtime.NewMockRuntime()),
//	)
//
// The container engine is not looked up until ResolveRuntime or
// Orchestrator is called, so commands that never touch a container (such as
// events) work on hosts without docker or podman.
package app
