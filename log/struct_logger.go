package log

import (
	"runtime"
	"strings"
	"sync"
	"time"
)

// StructLogger provides a thread-safe logging interface with configurable
// appenders and formatting. It supports level filtering with per-location
// overrides, cached caller information, and efficient event reuse through
// sync.Pool, keeping the hot logging path allocation-free.
//
// Example usage:
//
//	logger := NewLogger(&LogCfg{
//	    LogLevel:        InfoLevel,
//	    ConsoleAppender: true,
//	})
//
//	logger.Info().Str("module", "ingest").Int("connections", 42).Msg("started")
type StructLogger struct {
	appenders         []LogAppender // Appenders responsible for log output
	minLevel          Level         // Minimum log level that will be processed
	callerSkip        int           // Stack frames to skip when capturing caller info
	eventPool         *sync.Pool    // Pool of LogEvent instances to minimize GC
	levelChange       *levelChange  // Per-file/per-line log level overrides
	callerCache       sync.Map      // Cache of resolved caller information
	enabledCallerInfo bool          // Whether caller information is captured
}

// NewLogger creates a new StructLogger with the provided configuration. If
// cfg is nil, default configuration values are used. Appenders are set up
// according to the configuration flags.
func NewLogger(cfg *LogCfg) *StructLogger {
	if cfg == nil {
		cfg = getDefaultCfg()
	}

	logger := &StructLogger{
		minLevel:          cfg.LogLevel,
		callerSkip:        cfg.CallerSkip,
		levelChange:       newLevelChange(cfg.LevelChange),
		enabledCallerInfo: cfg.EnabledCallerInfo,
	}

	logger.eventPool = &sync.Pool{
		New: func() any {
			return newEvent(logger)
		},
	}

	if cfg.FileAppender {
		logger.AddAppender(NewFileAppender(cfg))
	}

	if cfg.ConsoleAppender {
		logger.AddAppender(NewConsoleAppender())
	}

	return logger
}

// checkLevel reports whether a log level passes the minimum level filter.
func (x *StructLogger) checkLevel(level Level) bool {
	return x.minLevel <= level
}

// AddAppender adds a new log appender to the logger. Multiple appenders can
// be added, sending every log line to multiple destinations simultaneously.
func (x *StructLogger) AddAppender(appender LogAppender) {
	x.appenders = append(x.appenders, appender)
}

// GetAppender returns the appenders currently registered with the logger.
func (x *StructLogger) GetAppender() []LogAppender {
	return x.appenders
}

// Refresh triggers a refresh operation on all registered appenders, forcing
// buffered output to be written.
func (x *StructLogger) Refresh() {
	for _, appender := range x.appenders {
		appender.Refresh()
	}
}

// Close closes all registered appenders, flushing any buffered logs.
func (x *StructLogger) Close() {
	for _, appender := range x.appenders {
		appender.Close()
	}
}

// IgnoreCheckLevel determines if log level filtering should be bypassed.
// StructLogger always applies level filtering.
func (x *StructLogger) IgnoreCheckLevel() bool {
	return false
}

// newEvent obtains a clean LogEvent from the object pool.
func (x *StructLogger) newEvent() *LogEvent {
	e := x.eventPool.Get().(*LogEvent)
	e.Reset()
	return e
}

// OnEventEnd routes a finished event to every appender and returns it to
// the pool. Appenders implementing LevelWriter receive the event severity
// alongside the formatted line. Fatal events panic after delivery.
func (x *StructLogger) OnEventEnd(e *LogEvent) {
	for _, appender := range x.appenders {
		if lw, ok := appender.(LevelWriter); ok {
			lw.WriteLevel(e.level, e.buf.Bytes())
		} else {
			appender.Write(e.buf.Bytes())
		}
	}

	if e.level == FatalLevel {
		panic("fatal log event")
	}

	x.eventPool.Put(e)
}

// Trace creates a new trace-level log event, or nil if filtered out.
func (x *StructLogger) Trace() *LogEvent {
	return x.log(TraceLevel)
}

// Debug creates a new debug-level log event, or nil if filtered out.
func (x *StructLogger) Debug() *LogEvent {
	return x.log(DebugLevel)
}

// Info creates a new info-level log event, or nil if filtered out.
func (x *StructLogger) Info() *LogEvent {
	return x.log(InfoLevel)
}

// Warn creates a new warning-level log event, or nil if filtered out.
func (x *StructLogger) Warn() *LogEvent {
	return x.log(WarnLevel)
}

// Error creates a new error-level log event, or nil if filtered out.
func (x *StructLogger) Error() *LogEvent {
	return x.log(ErrorLevel)
}

// Fatal creates a new fatal-level log event. After the event is written the
// logger panics.
func (x *StructLogger) Fatal() *LogEvent {
	return x.log(FatalLevel)
}

// getCallerInfo retrieves runtime information about the caller of the
// logging function: simplified file path, function name and line number.
// Resolved frames are cached by program counter.
func (x *StructLogger) getCallerInfo() *callerInfo {
	pc, file, line, ok := runtime.Caller(3 + x.callerSkip)
	if !ok {
		return _unknownCallerInfo
	}

	if cached, found := x.callerCache.Load(pc); found {
		return cached.(*callerInfo)
	}

	funcName := runtime.FuncForPC(pc).Name()
	var function string
	if dotIdx := strings.LastIndexByte(funcName, '.'); dotIdx != -1 {
		function = funcName[dotIdx+1:]
	} else {
		function = funcName
	}

	// Keep only the last two path elements of the file.
	if len(file) > 0 {
		lastSlash := strings.LastIndexByte(file, '/')
		if lastSlash > 0 {
			secondLastSlash := strings.LastIndexByte(file[:lastSlash], '/')
			if secondLastSlash >= 0 {
				file = file[secondLastSlash+1:]
			}
		}
	}

	c := newCallerInfo(file, function, line)

	x.callerCache.Store(pc, c)

	return c
}

// log prepares a new log event with the common fields (timestamp, level and
// optionally caller info). It handles level filtering and per-location
// level overrides before returning an event ready for additional fields.
func (x *StructLogger) log(level Level) *LogEvent {
	var info *callerInfo
	if !x.IgnoreCheckLevel() {
		if !x.checkLevel(level) {
			// Not enabled globally; per-location overrides may still
			// raise the effective level for this call site.
			if x.levelChange.Empty() {
				return nil
			}
			info = x.getCallerInfo()
			lv := x.levelChange.GetLevel(info.file, info.line, level)
			level = lv
		}
	}

	if !x.checkLevel(level) {
		return nil
	}

	e := x.newEvent()
	e.level = level

	t := time.Now()
	e.Time("time", &t)
	e.Str("level", level.String())

	if x.enabledCallerInfo {
		if info == nil {
			info = x.getCallerInfo()
		}
		e.Str("caller", info.String())
	}

	return e
}
