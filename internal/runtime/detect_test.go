package runtime

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jupyterhub/tljh-itest/internal/errors"
)

// fakeLookPath reports the given binaries as present and counts lookups.
func fakeLookPath(present ...string) (LookPathFunc, *int) {
	calls := 0
	return func(file string) (string, error) {
		calls++
		for _, p := range present {
			if p == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", fmt.Errorf("%s: not found", file)
	}, &calls
}

func TestParseEngine(t *testing.T) {
	tests := []struct {
		in      string
		want    Engine
		wantErr bool
	}{
		{"", EngineAuto, false},
		{"auto", EngineAuto, false},
		{"docker", EngineDocker, false},
		{"podman", EnginePodman, false},
		{"nspawn", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEngine(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEngine(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseEngine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSelector_Preference(t *testing.T) {
	tests := []struct {
		name    string
		present []string
		want    Engine
	}{
		{"both present prefers docker", []string{"docker", "podman"}, EngineDocker},
		{"docker only", []string{"docker"}, EngineDocker},
		{"podman only", []string{"podman"}, EnginePodman},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookPath, _ := fakeLookPath(tt.present...)
			got, err := NewSelector(lookPath, EngineAuto).Select()
			if err != nil {
				t.Fatalf("Select() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Select() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelector_NoRuntimeFound(t *testing.T) {
	lookPath, _ := fakeLookPath()
	_, err := NewSelector(lookPath, EngineAuto).Select()
	if err == nil {
		t.Fatal("Select() should fail when no engine is present")
	}
	if errors.GetExitCode(err) != errors.ExitNoRuntimeFound {
		t.Errorf("exit code = %d, want %d", errors.GetExitCode(err), errors.ExitNoRuntimeFound)
	}
	if !strings.Contains(err.Error(), "docker podman") {
		t.Errorf("error %q should name the engines tried", err)
	}
}

func TestSelector_CachesResolution(t *testing.T) {
	lookPath, calls := fakeLookPath("podman")
	sel := NewSelector(lookPath, EngineAuto)

	for i := 0; i < 3; i++ {
		got, err := sel.Select()
		if err != nil {
			t.Fatalf("Select() error: %v", err)
		}
		if got != EnginePodman {
			t.Errorf("Select() = %q, want podman", got)
		}
	}

	// docker miss + podman hit, once
	if *calls != 2 {
		t.Errorf("lookPath called %d times, want 2", *calls)
	}
}

func TestSelector_Override(t *testing.T) {
	lookPath, _ := fakeLookPath("docker", "podman")
	got, err := NewSelector(lookPath, EnginePodman).Select()
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if got != EnginePodman {
		t.Errorf("Select() = %q, want podman", got)
	}

	lookPath, _ = fakeLookPath("docker")
	_, err = NewSelector(lookPath, EnginePodman).Select()
	if err == nil {
		t.Fatal("override to a missing engine should fail")
	}
	if !strings.Contains(err.Error(), "tried: podman") {
		t.Errorf("error %q should only name the override", err)
	}
}
