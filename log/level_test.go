package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelString(t *testing.T) {
	assert.Equal(t, "TRACE", TraceLevel.String())
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "INFO", InfoLevel.String())
	assert.Equal(t, "WARN", WarnLevel.String())
	assert.Equal(t, "ERROR", ErrorLevel.String())
	assert.Equal(t, "FATAL", FatalLevel.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, TraceLevel, ParseLevel("trace"))
	assert.Equal(t, ErrorLevel, ParseLevel("ERROR"))
	assert.Equal(t, WarnLevel, ParseLevel("Warn"))
	assert.Equal(t, InfoLevel, ParseLevel("nonsense"), "unknown names fail safe to info")
}
