package harness

import (
	"github.com/jupyterhub/tljh-itest/internal/config"
	"github.com/jupyterhub/tljh-itest/internal/errors"
)

// Invocation describes one run-test request.
type Invocation struct {
	// Image is the image to launch (required)
	Image string `validate:"required"`

	// TestName doubles as the container name (required)
	TestName string `validate:"required,container_name"`

	// BootstrapPipSpec overrides where the installer installs itself from (optional)
	BootstrapPipSpec string

	// TestFiles are paths relative to the integration-tests directory (at least one)
	TestFiles []string `validate:"min=1,dive,required"`

	// UpgradeFrom installs this released version first when set (optional)
	UpgradeFrom string

	// InstallerArgs are passed verbatim to the installer (optional)
	InstallerArgs string
}

// NewInvocation validates inv and returns a copy that does not share the
// caller's slice.
func NewInvocation(inv Invocation) (Invocation, error) {
	inv.TestFiles = append([]string(nil), inv.TestFiles...)
	if err := inv.Validate(); err != nil {
		return Invocation{}, err
	}
	return inv, nil
}

// Validate checks the invocation fields.
func (inv Invocation) Validate() error {
	if err := config.Validate(inv); err != nil {
		return errors.ValidationError(err.Error())
	}
	return nil
}
