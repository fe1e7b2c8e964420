package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskkeeper/backend/pkg/logger"
)

func TestNew_ToleratesUnknownLevel(t *testing.T) {
	log, err := logger.New(logger.Config{Level: "noisy", Encoding: "console"})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := logger.ContextWithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", logger.RequestID(ctx))
	assert.Empty(t, logger.RequestID(context.Background()))
}

func TestWithRequestID(t *testing.T) {
	base, err := logger.New(logger.Config{Level: "info"})
	require.NoError(t, err)

	ctx := logger.ContextWithRequestID(context.Background(), "req-7")
	assert.NotSame(t, base, logger.WithRequestID(ctx, base))
	assert.Same(t, base, logger.WithRequestID(context.Background(), base))
}
