package main

import (
	"os"

	"github.com/jupyterhub/tljh-itest/cmd"
	"github.com/jupyterhub/tljh-itest/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
