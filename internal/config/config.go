package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/go-playground/validator/v10"

	"github.com/jupyterhub/tljh-itest/internal/errors"
	"github.com/jupyterhub/tljh-itest/internal/system"
)

const (
	// DefaultFile is loaded when no --config flag is given and it exists.
	DefaultFile = "tljh-itest.toml"

	DefaultImage        = "tljh-systemd"
	DefaultBuildContext = "integration-tests"
	DefaultMemory       = "900m"
	DefaultContainerSrc = "/srv/src"
	DefaultHubPython    = "/opt/tljh/hub/bin/python3"
	DefaultBootstrapURL = "https://tljh.jupyter.org/bootstrap.py"
	DefaultStateDir     = ".tljh-itest"
	DefaultMaxFail      = 2
	DefaultReadyTimeout = 60 * time.Second
	DefaultPollInterval = 5 * time.Second
)

// containerNameRegex matches names docker and podman accept for containers.
var containerNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// Config holds harness settings.
type Config struct {
	Image        string        `toml:"image" validate:"required"`
	BuildContext string        `toml:"build_context" validate:"required"`
	Runtime      string        `toml:"runtime" validate:"oneof=auto docker podman"`
	Memory       string        `toml:"memory" validate:"required"`
	SourceRoot   string        `toml:"source_root" validate:"required"`
	ContainerSrc string        `toml:"container_src" validate:"required,startswith=/"`
	HubPython    string        `toml:"hub_python" validate:"required,startswith=/"`
	BootstrapURL string        `toml:"bootstrap_url" validate:"required,url"`
	ReadyTimeout time.Duration `toml:"ready_timeout" validate:"gt=0"`
	PollInterval time.Duration `toml:"poll_interval" validate:"gt=0"`
	MaxFail      int           `toml:"max_fail" validate:"min=1"`
	StateDir     string        `toml:"state_dir" validate:"required"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Image:        DefaultImage,
		BuildContext: DefaultBuildContext,
		Runtime:      "auto",
		Memory:       DefaultMemory,
		SourceRoot:   ".",
		ContainerSrc: DefaultContainerSrc,
		HubPython:    DefaultHubPython,
		BootstrapURL: DefaultBootstrapURL,
		ReadyTimeout: DefaultReadyTimeout,
		PollInterval: DefaultPollInterval,
		MaxFail:      DefaultMaxFail,
		StateDir:     DefaultStateDir,
	}
}

// Load reads path over the defaults and validates the result. An empty
// path means DefaultFile, which may be absent.
func Load(fsys system.FileSystem, path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
		if !fsys.Exists(path) {
			return cfg, nil
		}
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to read config file %s", path), err)
	}

	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to parse config file %s", path), err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.ConfigError(fmt.Sprintf("unknown keys in %s: %s", path, strings.Join(keys, ", ")), nil)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("invalid config file %s", path), err)
	}

	return cfg, nil
}

// Validate checks every field against its rules.
func (c *Config) Validate() error {
	return Validate(c)
}

// RunsDir returns the directory holding run journals.
func (c *Config) RunsDir() string {
	return filepath.Join(c.StateDir, "runs")
}

// SourcePath resolves rel under the source root without escaping it.
func (c *Config) SourcePath(rel string) (string, error) {
	return securejoin.SecureJoin(c.SourceRoot, rel)
}

// ValidateTestName checks if a test name can be used as a container name.
func ValidateTestName(name string) error {
	if name == "" {
		return fmt.Errorf("test name cannot be empty")
	}
	if !containerNameRegex.MatchString(name) {
		return fmt.Errorf("invalid test name %q: must start with a letter or digit and contain only letters, digits, underscores, periods, or hyphens", name)
	}
	return nil
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	if err := validate.RegisterValidation("container_name", func(fl validator.FieldLevel) bool {
		return containerNameRegex.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("registering container_name validation: %v", err))
	}
}

// Validate runs struct validation and returns a readable error.
// Besides the stock tags it understands container_name.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validation failed: %w", err)
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	if len(msgs) == 1 {
		return fmt.Errorf("validation error: %s", msgs[0])
	}
	return fmt.Errorf("validation errors: %s", strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required but missing", field)
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("field '%s' must be a valid URL", field)
	case "startswith":
		return fmt.Sprintf("field '%s' must be an absolute path", field)
	case "gt":
		return fmt.Sprintf("field '%s' must be greater than %s", field, e.Param())
	case "min":
		return fmt.Sprintf("field '%s' must be at least %s", field, e.Param())
	case "container_name":
		return fmt.Sprintf("field '%s' is not a valid container name: %q", field, e.Value())
	default:
		return fmt.Sprintf("field '%s' failed validation (%s)", field, e.Tag())
	}
}
