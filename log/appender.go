package log

// LogAppender is the interface for log output destinations (console, file,
// network, etc.). The logger fans every finished event out to all of its
// registered appenders.
//
// Implementations must be goroutine-safe; a single appender is shared by
// every goroutine that logs through the owning logger.
type LogAppender interface {
	// Write outputs one formatted log line to the destination.
	Write(buf []byte) (n int, err error)

	// Refresh forces any buffered log data to be written immediately.
	// It blocks until pending logs reach the underlying storage, which
	// matters for asynchronous appenders before critical operations
	// such as shutdown.
	Refresh() error

	// Close flushes any buffered logs and releases underlying resources.
	Close() error
}

// LevelWriter is an optional extension of LogAppender for destinations that
// need the event severity in addition to the formatted bytes, such as a
// syslog transport computing the message priority. The logger prefers
// WriteLevel over Write when an appender implements it.
type LevelWriter interface {
	LogAppender

	// WriteLevel outputs one formatted log line together with its severity.
	WriteLevel(level Level, buf []byte) (n int, err error)
}
