// Package mocks provides testify mocks of the pipeline interfaces.
package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/hyperterse/sqlgeneric/core/dialect"
	"github.com/hyperterse/sqlgeneric/core/domain"
)

// MockTemplateStore mocks interfaces.TemplateStore
type MockTemplateStore struct {
	mock.Mock
}

// NewMockTemplateStore creates a mock whose expectations are asserted on cleanup
func NewMockTemplateStore(t *testing.T) *MockTemplateStore {
	m := &MockTemplateStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTemplateStore) Resolve(ctx context.Context, name string) (domain.Template, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.Template), args.Error(1)
}

// MockProber mocks interfaces.Prober
type MockProber struct {
	mock.Mock
}

// NewMockProber creates a mock whose expectations are asserted on cleanup
func NewMockProber(t *testing.T) *MockProber {
	m := &MockProber{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockProber) Probe(ctx context.Context, host string, port int, timeout time.Duration) domain.ProbeResult {
	args := m.Called(ctx, host, port, timeout)
	return args.Get(0).(domain.ProbeResult)
}

// MockEngine mocks interfaces.Engine
type MockEngine struct {
	mock.Mock
}

// NewMockEngine creates a mock whose expectations are asserted on cleanup
func NewMockEngine(t *testing.T) *MockEngine {
	m := &MockEngine{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockEngine) Execute(ctx context.Context, cfg dialect.Config, conn domain.ConnectionInfo, stmt domain.Statement) (any, error) {
	args := m.Called(ctx, cfg, conn, stmt)
	return args.Get(0), args.Error(1)
}

// MockExecutor mocks interfaces.Executor
type MockExecutor struct {
	mock.Mock
}

// NewMockExecutor creates a mock whose expectations are asserted on cleanup
func NewMockExecutor(t *testing.T) *MockExecutor {
	m := &MockExecutor{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockExecutor) Execute(ctx context.Context, req domain.ExecutionRequest) (domain.ExecutionOutcome, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.ExecutionOutcome), args.Error(1)
}

func (m *MockExecutor) Render(ctx context.Context, req domain.ExecutionRequest) (domain.Statement, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Statement), args.Error(1)
}

// MockHandlerService mocks interfaces.HandlerService
type MockHandlerService struct {
	mock.Mock
}

// NewMockHandlerService creates a mock whose expectations are asserted on cleanup
func NewMockHandlerService(t *testing.T) *MockHandlerService {
	m := &MockHandlerService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockHandlerService) Handle(ctx context.Context, input domain.HostInput) (domain.ExecutionOutcome, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.ExecutionOutcome), args.Error(1)
}

func (m *MockHandlerService) Preview(ctx context.Context, input domain.HostInput) (domain.Statement, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.Statement), args.Error(1)
}
