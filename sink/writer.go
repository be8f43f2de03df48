package sink

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/linchenxuan/relog/log"
)

// WriterSink formats each record as a single JSON line and writes it to an
// io.Writer. It adapts byte destinations (files, pipes, test buffers) into
// the record-oriented pipeline, so a WriterSink can sit behind a RetrySink
// the same way a network sink does.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a WriterSink over w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Deliver formats the record with the shared JSON helpers and writes it as
// one line. A short write is reported as an error so resilience wrappers
// can react.
func (s *WriterSink) Deliver(rec *Record) error {
	var buf bytes.Buffer

	log.AppendBeginMarker(&buf)
	log.AppendKey(&buf, "time")
	log.AppendString(&buf, rec.Time.Format("2006-01-02 15:04:05.000"))
	log.AppendKey(&buf, "level")
	log.AppendString(&buf, rec.Level.String())
	if rec.Tag != "" {
		log.AppendKey(&buf, "tag")
		log.AppendString(&buf, rec.Tag)
	}
	log.AppendKey(&buf, "msg")
	log.AppendString(&buf, rec.Msg)
	for _, f := range rec.Fields {
		log.AppendKey(&buf, f.Key)
		appendFieldValue(&buf, f.Value)
	}
	log.AppendEndMarker(&buf)
	log.AppendLineBreak(&buf)

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.Write(buf.Bytes())
	return err
}

// appendFieldValue encodes a field value using the type-specific helper
// when one exists, falling back to JSON marshaling.
func appendFieldValue(buf *bytes.Buffer, v any) {
	switch val := v.(type) {
	case nil:
		log.AppendNil(buf)
	case string:
		log.AppendString(buf, val)
	case bool:
		log.AppendBool(buf, val)
	case int:
		log.AppendInt(buf, val)
	case int64:
		log.AppendInt64(buf, val)
	case uint64:
		log.AppendUint64(buf, val)
	case float64:
		log.AppendFloat64(buf, val)
	case error:
		log.AppendString(buf, val.Error())
	case fmt.Stringer:
		log.AppendStringer(buf, val)
	default:
		log.AppendInterface(buf, val)
	}
}
