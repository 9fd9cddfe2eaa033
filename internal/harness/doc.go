// Package harness sequences integration test runs.
//
// Orchestrator.RunTest drives one Invocation through a fixed order of
// steps:
//
//	stop        remove any leftover container with the test name
//	run         launch the image, detached and privileged
//	wait-ready  poll until systemd answers
//	copy        bootstrap/. and integration-tests/ into /srv/src
//	logs        print the container logs (best effort)
//	upgrade     install the --upgrade-from release first (only when set)
//	install     run the copied bootstrap.py with the installer args
//	deps        pip install the test requirements into the hub environment
//	freeze      pip freeze, for the record
//	verify      pytest with --maxfail
//
// A failing step ends the run with that step's error; no later step runs.
// Every step is journalled with the run id through the audit package.
//
// The orchestrator also exposes the single operations behind the other CLI
// subcommands: BuildImage, StartContainer, StopContainer, Exec, Copy and
// ShowLogs.
package harness
