package usecase

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hello-world/internal/domain"
	"hello-world/internal/infrastructure/external"
	"hello-world/internal/infrastructure/storage/memory"
)

type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, args ...any) { m.Called(msg, args) }
func (m *MockLogger) Info(msg string, args ...any)  { m.Called(msg, args) }
func (m *MockLogger) Warn(msg string, args ...any)  { m.Called(msg, args) }
func (m *MockLogger) Error(msg string, args ...any) { m.Called(msg, args) }

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) ObserveSelf(path, method string, statusCode int, seconds float64) {
	m.Called(path, method, statusCode, seconds)
}

func (m *MockMetrics) ObserveDependencyA(statusCode int, seconds float64) {
	m.Called(statusCode, seconds)
}

func (m *MockMetrics) ObserveDependencyB(statusCode int, seconds float64) {
	m.Called(statusCode, seconds)
}

type MockAudit struct {
	mock.Mock
}

func (m *MockAudit) Call(ctx context.Context, call domain.DependencyCall) error {
	args := m.Called(ctx, call)
	return args.Error(0)
}

func newMockLogger() *MockLogger {
	mockLogger := new(MockLogger)
	mockLogger.On("Debug", mock.Anything, mock.Anything).Maybe()
	mockLogger.On("Info", mock.Anything, mock.Anything).Maybe()
	mockLogger.On("Warn", mock.Anything, mock.Anything).Maybe()
	mockLogger.On("Error", mock.Anything, mock.Anything).Maybe()
	return mockLogger
}

func TestComplexService_Run_Success(t *testing.T) {
	mockMetrics := new(MockMetrics)
	mockMetrics.On("ObserveDependencyA", http.StatusOK, mock.AnythingOfType("float64")).Once()
	mockMetrics.On("ObserveDependencyB", http.StatusOK, mock.AnythingOfType("float64")).Once()

	service := NewComplexService(memory.NewDatabase(), external.NewSimulatedAudit(), mockMetrics, time.Second, newMockLogger())

	resp, err := service.Run(context.Background(), domain.ComplexRequest{
		Database: domain.DependencyCall{Sleep: 10 * time.Millisecond},
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.GreaterOrEqual(t, resp.DatabaseSeconds, 0.01)
	mockMetrics.AssertExpectations(t)
}

func TestComplexService_Run_DatabaseError(t *testing.T) {
	db := memory.NewDatabase()
	mockAudit := new(MockAudit)
	mockMetrics := new(MockMetrics)
	mockMetrics.On("ObserveDependencyA", http.StatusInternalServerError, mock.AnythingOfType("float64")).Once()

	service := NewComplexService(db, mockAudit, mockMetrics, time.Second, newMockLogger())

	_, err := service.Run(context.Background(), domain.ComplexRequest{
		Database: domain.DependencyCall{Fail: true},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDatabaseFailure)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrCodeDependencyFailed, appErr.Code)

	mockMetrics.AssertExpectations(t)
	mockMetrics.AssertNotCalled(t, "ObserveDependencyB", mock.Anything, mock.Anything)
	mockAudit.AssertNotCalled(t, "Call", mock.Anything, mock.Anything)
	assert.Equal(t, int64(1), db.Queries())
}

func TestComplexService_Run_AuditError(t *testing.T) {
	mockMetrics := new(MockMetrics)
	mockMetrics.On("ObserveDependencyA", http.StatusOK, mock.AnythingOfType("float64")).Once()
	mockMetrics.On("ObserveDependencyB", http.StatusInternalServerError, mock.AnythingOfType("float64")).Once()

	service := NewComplexService(memory.NewDatabase(), external.NewSimulatedAudit(), mockMetrics, time.Second, newMockLogger())

	_, err := service.Run(context.Background(), domain.ComplexRequest{
		Audit: domain.DependencyCall{Fail: true},
	})

	assert.ErrorIs(t, err, domain.ErrAuditFailure)
	mockMetrics.AssertExpectations(t)
}

func TestComplexService_Run_UpstreamStatus(t *testing.T) {
	mockAudit := new(MockAudit)
	mockAudit.On("Call", mock.Anything, mock.Anything).Return(&domain.UpstreamError{Service: "audit", StatusCode: http.StatusServiceUnavailable})
	mockMetrics := new(MockMetrics)
	mockMetrics.On("ObserveDependencyA", http.StatusOK, mock.AnythingOfType("float64")).Once()
	mockMetrics.On("ObserveDependencyB", http.StatusServiceUnavailable, mock.AnythingOfType("float64")).Once()

	service := NewComplexService(memory.NewDatabase(), mockAudit, mockMetrics, time.Second, newMockLogger())

	_, err := service.Run(context.Background(), domain.ComplexRequest{})

	assert.Error(t, err)
	mockMetrics.AssertExpectations(t)
}

func TestComplexService_Run_Timeout(t *testing.T) {
	mockMetrics := new(MockMetrics)
	mockMetrics.On("ObserveDependencyA", http.StatusGatewayTimeout, mock.AnythingOfType("float64")).Once()

	service := NewComplexService(memory.NewDatabase(), external.NewSimulatedAudit(), mockMetrics, time.Minute, newMockLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := service.Run(ctx, domain.ComplexRequest{
		Database: domain.DependencyCall{Sleep: time.Minute},
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	mockMetrics.AssertExpectations(t)
}

func TestComplexService_Run_ClampsSleep(t *testing.T) {
	mockAudit := new(MockAudit)
	mockAudit.On("Call", mock.Anything, domain.DependencyCall{Sleep: 20 * time.Millisecond}).Return(nil).Once()

	service := NewComplexService(memory.NewDatabase(), mockAudit, nil, 20*time.Millisecond, newMockLogger())

	resp, err := service.Run(context.Background(), domain.ComplexRequest{
		Audit: domain.DependencyCall{Sleep: time.Hour},
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	mockAudit.AssertExpectations(t)
}

func TestStatusCode(t *testing.T) {
	expired, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-expired.Done()

	tests := []struct {
		name     string
		ctx      context.Context
		err      error
		expected int
	}{
		{name: "success", ctx: context.Background(), err: nil, expected: http.StatusOK},
		{name: "failure", ctx: context.Background(), err: domain.ErrDatabaseFailure, expected: http.StatusInternalServerError},
		{name: "upstream", ctx: context.Background(), err: &domain.UpstreamError{StatusCode: 502}, expected: http.StatusBadGateway},
		{name: "deadline error", ctx: context.Background(), err: context.DeadlineExceeded, expected: http.StatusGatewayTimeout},
		{name: "expired context", ctx: expired, err: domain.NewDatabaseError("sleep", context.DeadlineExceeded), expected: http.StatusGatewayTimeout},
		{name: "wrapped driver deadline", ctx: context.Background(), err: fmt.Errorf("database: %w", domain.NewDatabaseError("sleep", context.DeadlineExceeded)), expected: http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusCode(tt.ctx, tt.err))
		})
	}
}
