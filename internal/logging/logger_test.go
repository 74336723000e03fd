package logging

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerSetsComponentAndDefaults(t *testing.T) {
	logger := NewLogger("manager-worker")
	require.NotNil(t, logger)
	assert.Equal(t, "manager-worker", logger.component)
}

func TestWithCorrelationIDDoesNotMutateParent(t *testing.T) {
	base := NewLogger("capture")
	withID := base.WithCorrelationID("abc-123")

	assert.Empty(t, base.correlationID)
	assert.Equal(t, "abc-123", withID.correlationID)
}

func TestGetCorrelationIDFromContextRoundTrips(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "trace-1")
	assert.Equal(t, "trace-1", GetCorrelationIDFromContext(ctx))
	assert.Empty(t, GetCorrelationIDFromContext(context.Background()))
}

func TestSetupLoggingFallsBackToInfoOnBadLevel(t *testing.T) {
	err := SetupLogging(&LoggingConfig{Level: "not-a-level", ConsoleEnabled: true})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, defaultLogger().GetLevel())
}

func TestGenerateCorrelationIDIsUnique(t *testing.T) {
	a := GenerateCorrelationID()
	b := GenerateCorrelationID()
	assert.NotEqual(t, a, b)
}
