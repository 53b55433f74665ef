package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		logger, err := New("info", format)
		require.NoError(t, err, format)
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel), format)
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel), format)
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New("info", "xml")
	assert.ErrorContains(t, err, "xml")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("loud"))
}
