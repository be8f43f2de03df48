package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelChangeLookup(t *testing.T) {
	lc := newLevelChange([]LevelChangeEntry{
		{FileName: "sink/retry.go", LineNum: 120, LogLevel: int(TraceLevel)},
		{FileName: "syslog/syslog.go", LineNum: 0, LogLevel: int(ErrorLevel)},
	})

	assert.False(t, lc.Empty())

	// Exact line match wins.
	assert.Equal(t, TraceLevel, lc.GetLevel("sink/retry.go", 120, InfoLevel))
	// Other lines in the same file keep the original level.
	assert.Equal(t, InfoLevel, lc.GetLevel("sink/retry.go", 7, InfoLevel))
	// A line-0 rule covers the whole file.
	assert.Equal(t, ErrorLevel, lc.GetLevel("syslog/syslog.go", 33, DebugLevel))
	// Unlisted files are untouched.
	assert.Equal(t, WarnLevel, lc.GetLevel("log/event.go", 1, WarnLevel))
}

func TestLevelChangeEmpty(t *testing.T) {
	lc := newLevelChange(nil)
	assert.True(t, lc.Empty())
	assert.Equal(t, DebugLevel, lc.GetLevel("any.go", 1, DebugLevel))
}

func TestLevelChangeOverwrite(t *testing.T) {
	lc := newLevelChange(nil)
	lc.AddChange(LevelChangeEntry{FileName: "a.go", LineNum: 5, LogLevel: int(InfoLevel)})
	lc.AddChange(LevelChangeEntry{FileName: "a.go", LineNum: 5, LogLevel: int(ErrorLevel)})
	assert.Equal(t, ErrorLevel, lc.GetLevel("a.go", 5, DebugLevel))
}
