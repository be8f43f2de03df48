package relog

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linchenxuan/relog/log"
)

func TestNewDefaults(t *testing.T) {
	// The default configuration writes a local file; point it somewhere
	// disposable.
	cfg := log.DefaultCfg()
	cfg.LogPath = filepath.Join(t.TempDir(), "relog.log")
	cfg.ConsoleAppender = false

	app, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.NotNil(t, app.Logger)

	assert.NotPanics(t, func() { app.Stop() })
}

func TestNewRejectsInvalidCfg(t *testing.T) {
	app, err := New(&log.LogCfg{LogLevel: log.Level(99)})
	assert.Error(t, err)
	assert.Nil(t, app)
}

func TestNewUnknownSinkKind(t *testing.T) {
	app, err := New(&log.LogCfg{
		LogLevel: log.InfoLevel,
		Sinks: map[string]map[string]any{
			"made-up": {},
		},
	})
	assert.Error(t, err)
	assert.Nil(t, app)
}

func TestNewWithSyslogSink(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	logFile := filepath.Join(t.TempDir(), "relog.log")
	cfg := &log.LogCfg{
		LogPath:      logFile,
		LogLevel:     log.InfoLevel,
		FileSplitMB:  10,
		FileAppender: true,
		Sinks: map[string]map[string]any{
			"syslog": {
				"network":  "udp",
				"address":  pc.LocalAddr().String(),
				"facility": "local0",
				"tag":      "relogtest",
			},
		},
	}

	app, err := New(cfg)
	require.NoError(t, err)
	defer app.Stop()

	app.Logger.Error().Str("reason", "test").Msg("pipeline check")

	readDatagram := func() string {
		require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
		buf := make([]byte, 2048)
		n, _, err := pc.ReadFrom(buf)
		require.NoError(t, err)
		return string(buf[:n])
	}

	// New announces itself through the pipeline before the test message.
	assert.Contains(t, readDatagram(), "pipeline initialized")

	msg := readDatagram()
	assert.Contains(t, msg, "<131>", "local0 facility with error severity")
	assert.Contains(t, msg, "pipeline check")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "pipeline check")
}
