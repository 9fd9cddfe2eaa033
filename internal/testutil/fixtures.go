package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleConfig is a complete config file overriding every default.
const SampleConfig = `image = "tljh-test"
build_context = "ci/image"
runtime = "podman"
memory = "1g"
source_root = "."
container_src = "/srv/src"
hub_python = "/opt/tljh/hub/bin/python3"
bootstrap_url = "https://tljh.jupyter.org/bootstrap.py"
ready_timeout = "30s"
poll_interval = "2s"
max_fail = 3
state_dir = ".state"
`

// SourceFiles is the checkout layout copied into test containers.
var SourceFiles = map[string]string{
	"bootstrap/bootstrap.py":                "print('bootstrap')\n",
	"integration-tests/requirements.txt":    "pytest\n",
	"integration-tests/test_hub.py":         "def test_hub():\n    pass\n",
	"integration-tests/test_installer.py":   "def test_installer():\n    pass\n",
	"integration-tests/Dockerfile":          "FROM ubuntu:22.04\n",
	"integration-tests/plugins/__init__.py": "",
}

// WriteSourceTree writes SourceFiles under root.
func WriteSourceTree(t *testing.T, root string) {
	t.Helper()

	for rel, content := range SourceFiles {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}
}
