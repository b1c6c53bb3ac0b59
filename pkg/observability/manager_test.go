package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	m, err := NewManager(Config{
		ServiceName:    "ideaeval",
		ServiceVersion: "test",
		Environment:    "test",
		LogLevel:       "error",
		LogFormat:      "json",
	})
	require.NoError(t, err)

	assert.NotNil(t, m.GetMetrics())
	assert.NotNil(t, m.GetTracer())
	assert.NotNil(t, m.GetLogger())
	assert.NoError(t, m.Shutdown(context.Background()))
}

func TestNewManagerRejectsBadLogFormat(t *testing.T) {
	_, err := NewManager(Config{ServiceName: "ideaeval", LogFormat: "xml"})
	require.Error(t, err)
}

func TestSessionContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetSessionIDFromContext(ctx))

	ctx = WithSessionID(ctx, "s-42")
	assert.Equal(t, "s-42", GetSessionIDFromContext(ctx))

	m := NewNopManager()
	assert.NotSame(t, m.GetLogger(), m.SessionLogger(ctx))
	assert.Same(t, m.GetLogger(), m.SessionLogger(context.Background()))
}
