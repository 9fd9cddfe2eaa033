package runtime

import (
	"fmt"
	"sync"

	"github.com/jupyterhub/tljh-itest/internal/errors"
	"github.com/jupyterhub/tljh-itest/internal/logging"
)

// Engine identifies which container runtime binary to drive
type Engine string

const (
	EngineDocker Engine = "docker"
	EnginePodman Engine = "podman"
	EngineAuto   Engine = "auto"
)

// Preference is the order in which engines are probed on PATH.
var Preference = []Engine{EngineDocker, EnginePodman}

// ParseEngine converts a configured runtime name into an Engine.
// The empty string means auto-detection.
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case "", EngineAuto:
		return EngineAuto, nil
	case EngineDocker, EnginePodman:
		return Engine(s), nil
	default:
		return "", fmt.Errorf("unknown runtime %q (want auto, docker or podman)", s)
	}
}

// LookPathFunc searches PATH for an executable.
type LookPathFunc func(file string) (string, error)

// Selector resolves the container engine once and caches the result.
type Selector struct {
	lookPath LookPathFunc
	override Engine

	mu       sync.Mutex
	resolved Engine
}

// NewSelector creates a selector. An override other than EngineAuto skips
// the preference order but still requires the binary to be present.
func NewSelector(lookPath LookPathFunc, override Engine) *Selector {
	if override == "" {
		override = EngineAuto
	}
	return &Selector{lookPath: lookPath, override: override}
}

// Candidates returns the engines Select will try, in order.
func (s *Selector) Candidates() []Engine {
	if s.override != EngineAuto {
		return []Engine{s.override}
	}
	return Preference
}

// Select returns the first available engine. A successful result is cached
// for the lifetime of the selector; failures are not.
func (s *Selector) Select() (Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resolved != "" {
		return s.resolved, nil
	}

	candidates := s.Candidates()
	tried := make([]string, 0, len(candidates))
	for _, engine := range candidates {
		tried = append(tried, string(engine))
		path, err := s.lookPath(string(engine))
		if err != nil {
			logging.Debug("runtime not on PATH", "engine", engine, "error", err)
			continue
		}
		logging.Debug("detected container runtime", "engine", engine, "path", path)
		s.resolved = engine
		return engine, nil
	}

	return "", errors.NoRuntimeFound(tried)
}
