package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestShouldEnableColor(t *testing.T) {
	t.Setenv("LOG_COLOR", "0")
	assert.False(t, shouldEnableColor())

	t.Setenv("LOG_COLOR", "true")
	assert.True(t, shouldEnableColor())

	t.Setenv("NO_COLOR", "")
	assert.False(t, shouldEnableColor())
}

func TestNew_Formats(t *testing.T) {
	for _, cfg := range []Config{
		{Level: "debug", Format: "json"},
		{Level: "info", Format: "console"},
		{Level: "info", Format: "console", EnableColor: true, Output: "stderr"},
	} {
		l, level, err := New(cfg)
		require.NoError(t, err)
		assert.NotNil(t, l)
		assert.Equal(t, parseLevel(cfg.Level), level.Level())
	}
}

func TestInitialize_ReplacesGlobal(t *testing.T) {
	require.NoError(t, Initialize(Config{Level: "error", Format: "json", Output: "stderr"}))
	assert.False(t, Get().Core().Enabled(zapcore.InfoLevel))

	SetLevel("debug")
	assert.True(t, Get().Core().Enabled(zapcore.DebugLevel))
	assert.Same(t, Get(), zap.L())
}

func TestColoredConsoleEncoder(t *testing.T) {
	enc := NewColoredConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	buf, err := enc.EncodeEntry(zapcore.Entry{Message: "hello"}, []zapcore.Field{zap.String("provider", "groq")})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "groq")
}
