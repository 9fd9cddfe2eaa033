package system

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestOSExecutor_Capture(t *testing.T) {
	requireShell(t)
	e := NewExecutor(&bytes.Buffer{}, &bytes.Buffer{})

	res, err := e.Run(context.Background(), Command{
		Name:    "sh",
		Args:    []string{"-c", "echo out; echo err >&2; exit 3"},
		Capture: true,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if strings.TrimSpace(string(res.Stdout)) != "out" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "out")
	}
	if strings.TrimSpace(string(res.Stderr)) != "err" {
		t.Errorf("Stderr = %q, want %q", res.Stderr, "err")
	}
}

func TestOSExecutor_CaptureMergeStderr(t *testing.T) {
	requireShell(t)
	e := NewExecutor(&bytes.Buffer{}, &bytes.Buffer{})

	res, err := e.Run(context.Background(), Command{
		Name:        "sh",
		Args:        []string{"-c", "echo err >&2"},
		Capture:     true,
		MergeStderr: true,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if strings.TrimSpace(string(res.Stdout)) != "err" {
		t.Errorf("Stdout = %q, want merged stderr", res.Stdout)
	}
	if len(res.Stderr) != 0 {
		t.Errorf("Stderr = %q, want empty", res.Stderr)
	}
}

func TestOSExecutor_StreamTeesStderr(t *testing.T) {
	requireShell(t)
	var stdout, stderr bytes.Buffer
	e := NewExecutor(&stdout, &stderr)

	res, err := e.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2"},
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if strings.TrimSpace(stdout.String()) != "out" {
		t.Errorf("streamed stdout = %q", stdout.String())
	}
	if len(res.Stdout) != 0 {
		t.Errorf("Result.Stdout = %q, want empty when streaming", res.Stdout)
	}
	if strings.TrimSpace(stderr.String()) != "err" || strings.TrimSpace(string(res.Stderr)) != "err" {
		t.Errorf("stderr not teed: terminal=%q result=%q", stderr.String(), res.Stderr)
	}
}

func TestOSExecutor_MissingBinary(t *testing.T) {
	e := NewExecutor(&bytes.Buffer{}, &bytes.Buffer{})

	_, err := e.Run(context.Background(), Command{Name: "definitely-not-a-real-binary-tljh"})
	if err == nil {
		t.Error("Run should fail for a missing binary")
	}
}
