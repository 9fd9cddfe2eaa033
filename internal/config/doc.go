// Package config provides configuration loading for tljh-itest.
//
// # Configuration File
//
// Settings are read from an optional TOML file (tljh-itest.toml in the
// working directory, or the path given with --config) and layered over
// Default():
//
//	image         = "tljh-systemd"
//	build_context = "integration-tests"
//	runtime       = "auto"              # auto, docker or podman
//	memory        = "900m"
//	source_root   = "."
//	container_src = "/srv/src"
//	hub_python    = "/opt/tljh/hub/bin/python3"
//	bootstrap_url = "https://tljh.jupyter.org/bootstrap.py"
//	ready_timeout = "60s"
//	poll_interval = "5s"
//	max_fail      = 2
//	state_dir     = ".tljh-itest"
//
// Unknown keys are rejected so typos do not silently fall back to defaults.
//
// # Validation
//
// Config.Validate and the package-level Validate use go-playground/validator
// struct tags. Field names in error messages are the TOML keys. The extra
// container_name tag checks test names against what container engines
// accept.
package config
