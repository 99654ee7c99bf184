package process

import (
	"context"
	"errors"
)

// MockRunner is a mock implementation of Runner for testing.
type MockRunner struct {
	// RunFunc allows tests to provide custom behavior
	RunFunc func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

	// CallCount tracks how many times Run was called
	CallCount int

	// LastName stores the last command name passed to Run
	LastName string

	// LastArgs stores the last args passed to Run
	LastArgs []string
}

// Run executes the mock behavior.
func (m *MockRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	m.CallCount++
	m.LastName = name
	m.LastArgs = args

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	if m.RunFunc != nil {
		return m.RunFunc(ctx, name, args...)
	}

	// Default: empty success
	return nil, nil, nil
}

// NewMockRunner creates a new mock runner.
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// NewErrorMockRunner creates a mock that fails with errMsg on stderr.
func NewErrorMockRunner(errMsg string) *MockRunner {
	return &MockRunner{
		RunFunc: func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
			return nil, []byte(errMsg), errors.New(errMsg)
		},
	}
}

// NewSuccessMockRunner creates a mock that returns stdout.
func NewSuccessMockRunner(stdout []byte) *MockRunner {
	return &MockRunner{
		RunFunc: func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
			return stdout, nil, nil
		},
	}
}
