package observability

import (
	"context"
	"errors"

	"github.com/snow-ghost/ideation/pkg/logging"
	"github.com/snow-ghost/ideation/pkg/metrics"
	"github.com/snow-ghost/ideation/pkg/tracing"
)

// Manager manages all observability components
type Manager struct {
	metrics *metrics.PrometheusMetrics
	tracer  *tracing.Tracer
	logger  *logging.Logger
}

// Config holds observability configuration
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	JaegerEndpoint string
	LogLevel       string
	LogFormat      string
}

// NewManager creates a new observability manager. Logs go to stderr so
// reports printed on stdout stay machine-readable.
func NewManager(config Config) (*Manager, error) {
	tracer, err := tracing.NewTracer(tracing.Config{
		ServiceName:    config.ServiceName,
		ServiceVersion: config.ServiceVersion,
		JaegerEndpoint: config.JaegerEndpoint,
		Environment:    config.Environment,
	})
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:     config.LogLevel,
		Format:    config.LogFormat,
		Output:    "stderr",
		AddCaller: true,
	})
	if err != nil {
		return nil, errors.Join(err, tracer.Shutdown(context.Background()))
	}

	return &Manager{
		metrics: metrics.NewPrometheusMetrics(),
		tracer:  tracer,
		logger:  logger,
	}, nil
}

// NewNopManager returns a manager that records metrics but discards logs and spans.
func NewNopManager() *Manager {
	return &Manager{
		metrics: metrics.NewPrometheusMetrics(),
		tracer:  tracing.NewNoopTracer(),
		logger:  logging.NewNop(),
	}
}

// GetMetrics returns the metrics instance
func (m *Manager) GetMetrics() *metrics.PrometheusMetrics {
	return m.metrics
}

// GetTracer returns the tracer instance
func (m *Manager) GetTracer() *tracing.Tracer {
	return m.tracer
}

// GetLogger returns the logger instance
func (m *Manager) GetLogger() *logging.Logger {
	return m.logger
}

// SessionLogger returns the logger bound to the session carried by ctx.
func (m *Manager) SessionLogger(ctx context.Context) *logging.Logger {
	if id := GetSessionIDFromContext(ctx); id != "" {
		return m.logger.WithSessionID(ctx, id)
	}
	return m.logger
}

// Shutdown flushes spans and syncs the logger
func (m *Manager) Shutdown(ctx context.Context) error {
	if err := m.tracer.Shutdown(ctx); err != nil {
		return err
	}
	// Syncing stderr fails on some platforms; that is not worth reporting.
	_ = m.logger.Sync()
	return nil
}

type contextKey string

const sessionIDKey contextKey = "session_id"

// WithSessionID adds the ideation session to ctx
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// GetSessionIDFromContext extracts the session from ctx
func GetSessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}
