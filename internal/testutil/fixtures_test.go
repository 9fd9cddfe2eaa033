package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jupyterhub/tljh-itest/internal/config"
	"github.com/jupyterhub/tljh-itest/internal/system"
)

func TestSampleConfigLoads(t *testing.T) {
	fs := system.NewMockFS()
	fs.AddFile("itest.toml", []byte(SampleConfig))

	cfg, err := config.Load(fs, "itest.toml")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Image != "tljh-test" {
		t.Errorf("Image = %q, want %q", cfg.Image, "tljh-test")
	}
	if cfg.MaxFail != 3 {
		t.Errorf("MaxFail = %d, want 3", cfg.MaxFail)
	}
}

func TestWriteSourceTree(t *testing.T) {
	root := t.TempDir()
	WriteSourceTree(t, root)

	for rel := range SourceFiles {
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			t.Errorf("%s not written: %v", rel, err)
		}
	}
}

func TestNewTestEnv(t *testing.T) {
	env := NewTestEnv(t)

	if env.Config.SourceRoot != env.SourceRoot {
		t.Errorf("SourceRoot = %q, want %q", env.Config.SourceRoot, env.SourceRoot)
	}
	rt, err := env.App.ResolveRuntime()
	if err != nil {
		t.Fatalf("ResolveRuntime() error: %v", err)
	}
	if rt != env.Runtime {
		t.Error("app should use the mock runtime")
	}
	if len(env.Journal("anything")) != 0 {
		t.Error("journal should start empty")
	}
}
