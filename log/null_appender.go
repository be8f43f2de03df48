package log

// NullAppender discards everything written to it. Useful for benchmarks and
// for configurations that keep the logging pipeline wired while producing
// no output.
type NullAppender struct {
}

// NewNullAppender creates a new NullAppender.
func NewNullAppender() *NullAppender {
	return &NullAppender{}
}

// Write reports success without writing anywhere.
func (na *NullAppender) Write(buf []byte) (int, error) {
	return len(buf), nil
}

// Refresh is a no-op.
func (na *NullAppender) Refresh() error {
	return nil
}

// Close is a no-op.
func (na *NullAppender) Close() error {
	return nil
}
