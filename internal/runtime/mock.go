package runtime

import (
	"context"
	"strings"
	"sync"
)

// MockRuntime is a mock implementation of Runtime for testing
type MockRuntime struct {
	mu sync.RWMutex

	// Containers tracks which mock containers exist
	Containers map[string]bool

	// Errors allows injecting errors for specific operations
	Errors map[string]error

	// ExecErrors fails Exec calls whose command contains the key
	ExecErrors map[string]error

	// ProbeExitCodes are consumed in order by Probe; the last one repeats.
	// An empty queue answers 0.
	ProbeExitCodes []int

	// LogsOutput and InspectOutput are returned by Logs and Inspect
	LogsOutput    string
	InspectOutput string

	// CallLog records all method calls for verification
	CallLog []MockCall

	engine Engine
}

// MockCall represents a recorded method call
type MockCall struct {
	Method string
	Args   []interface{}
}

// NewMockRuntime creates a new mock runtime
func NewMockRuntime() *MockRuntime {
	return &MockRuntime{
		Containers: make(map[string]bool),
		Errors:     make(map[string]error),
		ExecErrors: make(map[string]error),
		CallLog:    make([]MockCall, 0),
		engine:     EngineDocker,
	}
}

func (m *MockRuntime) record(method string, args ...interface{}) {
	m.CallLog = append(m.CallLog, MockCall{Method: method, Args: args})
}

// SetError sets an error to be returned for a specific operation
func (m *MockRuntime) SetError(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[operation] = err
}

// SetExecError fails any Exec whose command contains substr
func (m *MockRuntime) SetExecError(substr string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExecErrors[substr] = err
}

// AddContainer adds an existing container to the mock
func (m *MockRuntime) AddContainer(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Containers[name] = true
}

// HasContainer reports whether the mock container exists
func (m *MockRuntime) HasContainer(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Containers[name]
}

// GetCalls returns all recorded calls
func (m *MockRuntime) GetCalls() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	calls := make([]MockCall, len(m.CallLog))
	copy(calls, m.CallLog)
	return calls
}

// GetCallsFor returns all calls for a specific method
func (m *MockRuntime) GetCallsFor(method string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var calls []MockCall
	for _, call := range m.CallLog {
		if call.Method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

// Methods returns the method names of all recorded calls in order
func (m *MockRuntime) Methods() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	methods := make([]string, len(m.CallLog))
	for i, call := range m.CallLog {
		methods[i] = call.Method
	}
	return methods
}

// ExecCommands returns the commands passed to Exec in order
func (m *MockRuntime) ExecCommands() []string {
	var cmds []string
	for _, call := range m.GetCallsFor("Exec") {
		cmds = append(cmds, call.Args[1].(string))
	}
	return cmds
}

// Reset clears all state
func (m *MockRuntime) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Containers = make(map[string]bool)
	m.Errors = make(map[string]error)
	m.ExecErrors = make(map[string]error)
	m.ProbeExitCodes = nil
	m.CallLog = make([]MockCall, 0)
}

// Engine returns the runtime identifier
func (m *MockRuntime) Engine() Engine {
	return m.engine
}

func (m *MockRuntime) BuildImage(ctx context.Context, opts BuildOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("BuildImage", opts)
	return m.Errors["BuildImage"]
}

func (m *MockRuntime) Run(ctx context.Context, opts RunOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Run", opts)

	if err, ok := m.Errors["Run"]; ok {
		return err
	}
	m.Containers[opts.Name] = true
	return nil
}

func (m *MockRuntime) Stop(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Stop", name)

	if err, ok := m.Errors["Stop"]; ok {
		return err
	}
	delete(m.Containers, name)
	return nil
}

func (m *MockRuntime) Exec(ctx context.Context, name, command string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Exec", name, command)

	if err, ok := m.Errors["Exec"]; ok {
		return err
	}
	for substr, err := range m.ExecErrors {
		if strings.Contains(command, substr) {
			return err
		}
	}
	return nil
}

func (m *MockRuntime) Copy(ctx context.Context, name, src, dest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Copy", name, src, dest)
	return m.Errors["Copy"]
}

func (m *MockRuntime) Logs(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Logs", name)

	if err, ok := m.Errors["Logs"]; ok {
		return "", err
	}
	return m.LogsOutput, nil
}

func (m *MockRuntime) Inspect(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Inspect", name)

	if err, ok := m.Errors["Inspect"]; ok {
		return "", err
	}
	return m.InspectOutput, nil
}

func (m *MockRuntime) InspectState(ctx context.Context, name string) (*ContainerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("InspectState", name)

	if err, ok := m.Errors["InspectState"]; ok {
		return nil, err
	}
	return &ContainerState{Name: name, Status: "running", Running: m.Containers[name]}, nil
}

func (m *MockRuntime) Probe(ctx context.Context, name string) (*Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Probe", name)

	if err, ok := m.Errors["Probe"]; ok {
		return nil, err
	}

	code := 0
	if len(m.ProbeExitCodes) > 0 {
		code = m.ProbeExitCodes[0]
		if len(m.ProbeExitCodes) > 1 {
			m.ProbeExitCodes = m.ProbeExitCodes[1:]
		}
	}
	return &Output{ExitCode: code, Stdout: []byte("uid=0(root) gid=0(root) groups=0(root)\n")}, nil
}

// Ensure MockRuntime implements Runtime
var _ Runtime = (*MockRuntime)(nil)
