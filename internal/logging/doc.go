// Package logging provides logging utilities for tljh-itest.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings.
// Text output is rendered by a charmbracelet/log handler; --json switches
// to slog's JSON handler for machine consumption in CI:
//
//	logging.Info("running", "cmd", "docker inspect t1")
//	logging.Warn("fetching logs failed", "container", name, "error", err)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Waiting for container %s...", name)
//	logging.UserSuccess("Test run %s passed", name)
//	logging.UserWarning("Could not fetch logs for %s", name)
//	logging.UserError("%v", err)
//	logging.Banner("Start of logs from the container: %s", name)
//
// Output destinations:
//   - UserInfo, UserSuccess, Banner: stdout
//   - UserWarning, UserError: stderr
//
// # Status Indicators
//
// User functions prepend status indicators:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
