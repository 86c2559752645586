package executor

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"sync"
	"time"
)

// ErrNotExecutable is returned by Run when the path does not name a runnable program
var ErrNotExecutable = errors.New("executable not found or not executable")

// RunResult holds the separately captured streams and exit status of a command
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner is the capability used to invoke external executables
type Runner interface {
	// Run executes path with args until it exits or ctx is done.
	// A non-zero exit is reported in RunResult.ExitCode with a nil error;
	// the error is reserved for failures to start or wait on the process.
	Run(ctx context.Context, path string, args ...string) (RunResult, error)

	// LookPath searches for an executable in the directories named by the PATH
	LookPath(file string) (string, error)
}

const waitDelay = 500 * time.Millisecond

// SystemRunner implements Runner using os/exec
type SystemRunner struct{}

// NewSystemRunner creates a new SystemRunner
func NewSystemRunner() *SystemRunner {
	return &SystemRunner{}
}

// Run executes the command, capturing stdout and stderr separately
func (r *SystemRunner) Run(ctx context.Context, path string, args ...string) (RunResult, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// daemonized children that inherit the pipes must not hold Wait open
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	result := RunResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if isNotExecutable(err) {
		return result, errors.Join(ErrNotExecutable, err)
	}
	return result, err
}

// LookPath searches for an executable
func (r *SystemRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func isNotExecutable(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission)
}

// MockRunner is a mock implementation for testing
type MockRunner struct {
	RunFunc      func(ctx context.Context, path string, args ...string) (RunResult, error)
	LookPathFunc func(file string) (string, error)

	mu    sync.Mutex
	Calls []CommandCall
}

// CommandCall records a command execution for verification
type CommandCall struct {
	Name string
	Args []string
}

// Run records the call and invokes the mock function
func (m *MockRunner) Run(ctx context.Context, path string, args ...string) (RunResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, CommandCall{Name: path, Args: args})
	m.mu.Unlock()
	if m.RunFunc != nil {
		return m.RunFunc(ctx, path, args...)
	}
	return RunResult{}, nil
}

// CallCount returns the number of recorded Run calls
func (m *MockRunner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LookPath calls the mock function
func (m *MockRunner) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}
