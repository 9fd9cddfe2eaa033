// Package integration holds end-to-end tests of the harness.
//
// workflow_test.go drives whole command paths against the mock runtime and
// always runs. docker_test.go drives a real engine and is skipped unless
// TLJH_ITEST_INTEGRATION=1. Those tests need:
//   - docker or podman on PATH (TLJH_ITEST_RUNTIME pins one)
//   - permission to run privileged containers
//   - network access to pull python:3.12-slim and pytest
//
// # Test Harness
//
// TestHarness manages a real-engine environment:
//
//	func TestMyIntegration(t *testing.T) {
//	    h := integration.NewHarness(t) // Skips if disabled
//	    h.BuildTestImage(ctx)
//	    h.TrackContainer("my-test")
//	    // start, probe, exec...
//	    // Cleanup is automatic via t.Cleanup
//	}
//
// # Running Integration Tests
//
//	TLJH_ITEST_INTEGRATION=1 go test -v ./internal/integration/...
package integration
