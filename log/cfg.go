package log

import (
	"fmt"
	"path/filepath"
)

// LogCfg is the logging configuration. It covers the output destinations
// (console, file, registered record sinks), level filtering, file rotation
// and the asynchronous write behavior of the file appender.
type LogCfg struct {
	// LogPath specifies the target log file path for file-based logging.
	// Relative and absolute paths are supported; missing directories are
	// created automatically.
	LogPath string `mapstructure:"path"`

	// LogLevel defines the minimum log level for filtering log entries.
	// Valid levels: Trace, Debug, Info, Warn, Error, Fatal.
	LogLevel Level `mapstructure:"level"`

	// FileSplitMB determines the file rotation threshold in megabytes.
	// When the log file exceeds this size a rotation creates a new file.
	FileSplitMB int `mapstructure:"splitMB"`

	// FileSplitHour specifies the hour of day (0-23) for time-based file
	// rotation.
	FileSplitHour int `mapstructure:"splitHour"`

	// IsAsync enables asynchronous log writing so producers never block
	// on file I/O.
	IsAsync bool `mapstructure:"isAsync"`

	// AsyncCacheSize limits the maximum buffered log entries in async
	// mode. Default: 1024 entries when async mode is enabled.
	AsyncCacheSize int `mapstructure:"asyncCacheSize"`

	// AsyncWriteMillSec defines the async write interval in milliseconds.
	// Default: 200ms.
	AsyncWriteMillSec int `mapstructure:"asyncWriteMillSec"`

	// CallerSkip specifies the number of stack frames to skip for caller
	// information, for wrapper functions or middleware layers.
	CallerSkip int `mapstructure:"callerSkip"`

	// FileAppender enables file-based logging output.
	FileAppender bool `mapstructure:"fileAppender"`

	// ConsoleAppender enables console (stdout) logging output.
	ConsoleAppender bool `mapstructure:"consoleAppender"`

	// LevelChange enables fine-grained log level control for specific
	// code locations. Each entry maps a file path and line number to a
	// specific log level, allowing targeted verbosity without a restart.
	LevelChange []LevelChangeEntry `mapstructure:"levelChange"`

	// EnabledCallerInfo controls whether file/function/line information
	// is captured for every event.
	EnabledCallerInfo bool `mapstructure:"enabledCallerInfo"`

	// Sinks configures record-oriented sinks by kind, e.g.
	//
	//	sinks:
	//	  syslog:
	//	    network: udp
	//	    address: logs.example.com:514
	//
	// Each entry is decoded by the factory registered for that kind and
	// attached to the logger behind its own delivery pipeline.
	Sinks map[string]map[string]any `mapstructure:"sinks"`
}

// Validate validates the logging configuration for correctness and
// consistency.
func (cfg *LogCfg) Validate() error {
	if cfg.LogLevel < TraceLevel || cfg.LogLevel > FatalLevel {
		return fmt.Errorf("invalid log level: %d, must be between %d (Trace) and %d (Fatal)",
			cfg.LogLevel, TraceLevel, FatalLevel)
	}

	if cfg.FileAppender {
		if cfg.FileSplitMB < 1 || cfg.FileSplitMB > 1024 {
			return fmt.Errorf("file split size must be between 1MB and 1024MB, got %dMB", cfg.FileSplitMB)
		}

		if cfg.FileSplitHour < 0 || cfg.FileSplitHour > 23 {
			return fmt.Errorf("file split hour must be between 0 and 23, got %d", cfg.FileSplitHour)
		}
	}

	if cfg.IsAsync && cfg.AsyncCacheSize < 1 {
		return fmt.Errorf("async cache size must be at least 1 when async mode is enabled, got %d", cfg.AsyncCacheSize)
	}

	if cfg.IsAsync && cfg.AsyncWriteMillSec < 10 {
		return fmt.Errorf("async write interval must be at least 10ms, got %dms", cfg.AsyncWriteMillSec)
	}

	if cfg.CallerSkip < 0 {
		return fmt.Errorf("caller skip must be non-negative, got %d", cfg.CallerSkip)
	}

	if cfg.FileAppender && cfg.LogPath == "" {
		return fmt.Errorf("log path cannot be empty when file appender is enabled")
	}

	if cfg.FileAppender && cfg.LogPath != "" {
		cfg.LogPath = filepath.Clean(cfg.LogPath)
	}

	if !cfg.FileAppender && !cfg.ConsoleAppender && len(cfg.Sinks) == 0 {
		return fmt.Errorf("at least one output (file, console or sink) must be enabled")
	}

	return nil
}

var _defaultCfg = &LogCfg{
	LogPath:           "./relog.log",
	LogLevel:          DebugLevel,
	FileSplitMB:       50,
	FileSplitHour:     0,
	IsAsync:           true,
	AsyncCacheSize:    1024,
	AsyncWriteMillSec: 200,
	CallerSkip:        1,
	FileAppender:      true,
	ConsoleAppender:   true,
	EnabledCallerInfo: true,
}

func getDefaultCfg() *LogCfg {
	return _defaultCfg
}

// DefaultCfg returns a copy of the default configuration, suitable as a
// starting point for callers that only want to tweak a few fields.
func DefaultCfg() *LogCfg {
	cfg := *_defaultCfg
	return &cfg
}
