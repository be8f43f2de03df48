// Package sink provides record-oriented log delivery: an abstract Sink
// capability, a Factory for (re)constructing sinks, and wrappers that add
// resilience, throttling and instrumentation around concrete sinks.
//
// Unlike the byte-oriented appenders in package log, sinks receive
// structured records. This matters for destinations like syslog that need
// the severity and tag of each message, and it lets wrappers synthesize
// their own diagnostic records.
package sink

import (
	"time"

	"github.com/linchenxuan/relog/log"
)

// Field is one structured key/value pair attached to a Record.
type Field struct {
	Key   string
	Value any
}

// Record is a single structured log record handed to a Sink.
type Record struct {
	Time   time.Time
	Level  log.Level
	Tag    string
	Msg    string
	Fields []Field
}

// Field returns the value of the named field and whether it is present.
func (r *Record) Field(key string) (any, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Sink delivers one record to an output destination. Implementations
// report delivery failure through the returned error; callers only
// distinguish success from failure and never inspect the error further.
//
// Sinks holding resources (sockets, file handles) should additionally
// implement io.Closer; wrappers propagate Close to the sink they own.
type Sink interface {
	Deliver(rec *Record) error
}

// Factory constructs a new Sink. It must be safe to call repeatedly: each
// call may succeed or fail independently, and each success may allocate new
// underlying resources. RetrySink uses the factory to reconnect after a
// delivery failure.
type Factory func() (Sink, error)
