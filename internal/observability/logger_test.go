package observability

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewCLILoggerVerbose(t *testing.T) {
	logger := NewCLILogger(false)
	require.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger = NewCLILogger(true)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewServerLogger(t *testing.T) {
	logger, err := NewServerLogger("warn", "json")
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNewServerLoggerRejectsBadInput(t *testing.T) {
	_, err := NewServerLogger("loud", "json")
	require.Error(t, err)

	_, err = NewServerLogger("info", "xml")
	require.Error(t, err)
}
