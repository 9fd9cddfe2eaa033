// Package testutil provides a mock-backed environment for command tests.
//
// NewTestEnv builds a temp source root containing the bootstrap and
// integration-tests trees, points a config at it, wires a MockRuntime into
// an app.App and installs that app as app.Default for the test's lifetime:
//
//	func TestRunTest(t *testing.T) {
//	    env := testutil.NewTestEnv(t)
//	    out := env.CaptureOutput()
//	    ... run a command ...
//	    calls := env.Runtime.Methods()
//	    steps := env.Journal("t1")
//	}
//
// SampleConfig and SourceFiles are fixtures usable without an env.
package testutil
