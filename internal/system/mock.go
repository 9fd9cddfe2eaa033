package system

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// MockFS implements FileSystem for testing.
type MockFS struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool

	// Error injection
	ReadFileErr error
	StatErr     error
}

// NewMockFS creates a new MockFS with an empty filesystem.
func NewMockFS() *MockFS {
	return &MockFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// AddFile adds a file to the mock filesystem.
func (m *MockFS) AddFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	// Ensure parent directories exist
	dir := filepath.Dir(path)
	for dir != "." && dir != "/" {
		m.dirs[dir] = true
		dir = filepath.Dir(dir)
	}
}

// AddDir adds a directory to the mock filesystem.
func (m *MockFS) AddDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[path] = true
}

func (m *MockFS) ReadFile(path string) ([]byte, error) {
	if m.ReadFileErr != nil {
		return nil, m.ReadFileErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MockFS) Stat(path string) (fs.FileInfo, error) {
	if m.StatErr != nil {
		return nil, m.StatErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if data, ok := m.files[path]; ok {
		return &mockFileInfo{name: filepath.Base(path), size: int64(len(data)), mode: 0644}, nil
	}
	if _, ok := m.dirs[path]; ok {
		return &mockFileInfo{name: filepath.Base(path), isDir: true, mode: fs.ModeDir | 0755}, nil
	}
	return nil, fs.ErrNotExist
}

func (m *MockFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, fileOk := m.files[path]
	_, dirOk := m.dirs[path]
	return fileOk || dirOk
}

func (m *MockFS) IsDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.dirs[path]
	return ok
}

// mockFileInfo implements fs.FileInfo for testing.
type mockFileInfo struct {
	name  string
	size  int64
	mode  fs.FileMode
	isDir bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return time.Now() }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }

// MockExecutor implements CommandExecutor for testing.
type MockExecutor struct {
	mu sync.Mutex

	// Commands records all executed commands for verification.
	Commands []Command

	// Responses maps command patterns to queued responses. A pattern is
	// either the full argv joined by spaces, "name subcommand", or "name".
	// The most specific pattern wins. Queued responses are consumed in
	// order; the last one repeats.
	Responses map[string][]MockResponse

	// DefaultResponse is used when no matching response is found.
	DefaultResponse MockResponse

	// Paths maps executable names to the path LookPath reports.
	// Names not present are reported as missing.
	Paths map[string]string
}

// MockResponse defines the response for a command.
type MockResponse struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Err      error
}

// NewMockExecutor creates a new MockExecutor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Commands:  make([]Command, 0),
		Responses: make(map[string][]MockResponse),
		Paths:     make(map[string]string),
	}
}

// AddResponse queues responses for a specific command pattern.
func (m *MockExecutor) AddResponse(pattern string, responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[pattern] = append(m.Responses[pattern], responses...)
}

// AddPath marks an executable as present on PATH.
func (m *MockExecutor) AddPath(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Paths[name] = "/usr/bin/" + name
}

func (m *MockExecutor) Run(ctx context.Context, cmd Command) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd.Args = append([]string(nil), cmd.Args...)
	m.Commands = append(m.Commands, cmd)

	resp := m.next(cmd)
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Result{
		ExitCode: resp.ExitCode,
		Stdout:   resp.Stdout,
		Stderr:   resp.Stderr,
	}, nil
}

// next pops the response for the most specific matching pattern.
// Callers must hold m.mu.
func (m *MockExecutor) next(cmd Command) MockResponse {
	keys := []string{strings.Join(cmd.Argv(), " ")}
	if len(cmd.Args) > 0 {
		keys = append(keys, cmd.Name+" "+cmd.Args[0])
	}
	keys = append(keys, cmd.Name)

	for _, key := range keys {
		queue, ok := m.Responses[key]
		if !ok || len(queue) == 0 {
			continue
		}
		resp := queue[0]
		if len(queue) > 1 {
			m.Responses[key] = queue[1:]
		}
		return resp
	}
	return m.DefaultResponse
}

func (m *MockExecutor) LookPath(file string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if path, ok := m.Paths[file]; ok {
		return path, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", file)
}

// LastCommand returns the most recently executed command.
func (m *MockExecutor) LastCommand() (Command, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Commands) == 0 {
		return Command{}, false
	}
	return m.Commands[len(m.Commands)-1], true
}

// Subcommands returns the first argument of every recorded command,
// which for container runtimes is the subcommand.
func (m *MockExecutor) Subcommands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := make([]string, 0, len(m.Commands))
	for _, c := range m.Commands {
		if len(c.Args) > 0 {
			subs = append(subs, c.Args[0])
		}
	}
	return subs
}

// Reset clears all recorded commands.
func (m *MockExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = make([]Command, 0)
}
