package runtime

import (
	"context"
	"testing"

	"github.com/jupyterhub/tljh-itest/internal/system"
)

const inspectFixture = `[{
	"Id": "4f1b2c",
	"Name": "/t1",
	"Image": "sha256:abc",
	"State": {
		"Status": "running",
		"Running": true,
		"ExitCode": 0,
		"StartedAt": "2024-01-01T00:00:00Z",
		"Error": ""
	},
	"HostConfig": {
		"Privileged": true,
		"Memory": 943718400
	},
	"Config": {
		"Image": "tljh-systemd"
	}
}]`

func TestParseInspect(t *testing.T) {
	state, err := parseInspect([]byte(inspectFixture))
	if err != nil {
		t.Fatalf("parseInspect error: %v", err)
	}

	if state.ID != "4f1b2c" {
		t.Errorf("ID = %q", state.ID)
	}
	if state.Name != "t1" {
		t.Errorf("Name = %q, want leading slash trimmed", state.Name)
	}
	if state.Image != "tljh-systemd" {
		t.Errorf("Image = %q, want config image", state.Image)
	}
	if state.Status != "running" || !state.Running {
		t.Errorf("Status = %q Running = %v", state.Status, state.Running)
	}
	if !state.Privileged {
		t.Error("Privileged = false, want true")
	}
	if state.Memory != 900*1024*1024 {
		t.Errorf("Memory = %d, want 900MiB", state.Memory)
	}
}

func TestParseInspect_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "Error: No such object: t1"},
		{"empty array", "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseInspect([]byte(tt.data)); err == nil {
				t.Error("parseInspect should fail")
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		output string
		want   bool
	}{
		{"Error: No such object: t1", true},
		{"Error: No such container: t1", true},
		{`Error: no such object: "t1"`, true},
		{"Cannot connect to the Docker daemon", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isNotFound(tt.output); got != tt.want {
			t.Errorf("isNotFound(%q) = %v, want %v", tt.output, got, tt.want)
		}
	}
}

func TestDockerRuntime_InspectState(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.AddResponse("docker inspect", system.MockResponse{Stdout: []byte(inspectFixture)})
	rt := NewDockerRuntime(EngineDocker, exec)

	state, err := rt.InspectState(context.Background(), "t1")
	if err != nil {
		t.Fatalf("InspectState error: %v", err)
	}
	if state.Name != "t1" || !state.Running {
		t.Errorf("state = %+v", state)
	}
}
