package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/IPBooks-Bridge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/IPBooks-Bridge/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	assert.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLoggerWithReturnsSameRecorder(t *testing.T) {
	logger := testutil.NewMockLogger()

	derived := logger.With(logging.String("run_id", "abc"))
	derived.Warn("derived warning")

	assert.True(t, logger.HasMessage("warn", "derived warning"))
}

func TestMockLoggerSatisfiesLoggerInterface(t *testing.T) {
	var logger logging.Logger = testutil.NewMockLogger()

	named := logger.Named("engine")
	named.Info("named entry")

	recorder, ok := named.(*testutil.MockLogger)
	assert.True(t, ok)
	assert.True(t, recorder.HasMessage("info", "named entry"))
}
