package log

import "strings"

// Level is the severity of a log event. Levels are ordered; higher values
// indicate more critical events and stricter output filtering.
type Level int8

const (
	// TraceLevel provides extremely detailed diagnostic information for
	// deep debugging, such as tracing request flows or protocol exchanges.
	TraceLevel Level = iota + 1

	// DebugLevel contains debugging information useful during development
	// and troubleshooting.
	DebugLevel

	// InfoLevel contains general informational messages about normal
	// operation: lifecycle events, configuration changes, reconnects.
	InfoLevel

	// WarnLevel indicates potentially harmful situations that do not
	// prevent operation.
	WarnLevel

	// ErrorLevel indicates serious problems that require attention, such
	// as failed operations or lost connections.
	ErrorLevel

	// FatalLevel represents critical errors that force immediate
	// termination.
	FatalLevel
)

// String returns the uppercase name of the level.
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level, case-insensitively. Unrecognized
// inputs return InfoLevel so that configuration mistakes fail safe.
func ParseLevel(levelStr string) Level {
	switch strings.ToUpper(levelStr) {
	case "TRACE":
		return TraceLevel
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	case "FATAL":
		return FatalLevel
	}
	return InfoLevel
}
