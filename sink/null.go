package sink

// NullSink accepts and discards every record. It keeps a delivery pipeline
// fully wired while producing no output, which is useful in tests and for
// configurations that disable a destination without removing it.
type NullSink struct{}

// NewNullSink creates a NullSink.
func NewNullSink() *NullSink {
	return &NullSink{}
}

// Deliver discards the record and reports success.
func (*NullSink) Deliver(*Record) error {
	return nil
}
