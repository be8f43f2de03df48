package log

import (
	"os"
)

// ConsoleAppender writes log entries directly to standard output without
// buffering. Suitable for development and containerized environments where
// logs are collected from stdout.
type ConsoleAppender struct {
}

// NewConsoleAppender creates a new ConsoleAppender. The returned instance
// holds no mutable state and is safe for concurrent use.
func NewConsoleAppender() *ConsoleAppender {
	return &ConsoleAppender{}
}

// Write writes the provided log buffer to standard output.
func (ca *ConsoleAppender) Write(buf []byte) (int, error) {
	return os.Stdout.Write(buf)
}

// Refresh is a no-op since console writes are unbuffered.
func (ca *ConsoleAppender) Refresh() error {
	return nil
}

// Close is a no-op for ConsoleAppender as there are no resources to
// release.
func (ca *ConsoleAppender) Close() error {
	return nil
}
