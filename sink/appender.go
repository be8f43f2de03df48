package sink

import (
	"io"
	"strings"
	"time"

	"github.com/linchenxuan/relog/log"
)

// Appender bridges the structured logger to a record sink. It implements
// log.LevelWriter, so the logger hands it the event severity along with the
// formatted line; the appender wraps both into a Record and delivers it.
type Appender struct {
	tag string
	s   Sink
}

// NewAppender creates an appender routing log events into s. The tag names
// the producing logger on every record.
func NewAppender(s Sink, tag string) *Appender {
	return &Appender{tag: tag, s: s}
}

// Write delivers the line with Info severity. The logger calls WriteLevel
// instead; Write exists to satisfy log.LogAppender for callers that only
// have bytes.
func (a *Appender) Write(buf []byte) (int, error) {
	return a.WriteLevel(log.InfoLevel, buf)
}

// WriteLevel wraps the formatted line into a Record and delivers it.
func (a *Appender) WriteLevel(level log.Level, buf []byte) (int, error) {
	rec := &Record{
		Time:  time.Now(),
		Level: level,
		Tag:   a.tag,
		Msg:   strings.TrimRight(string(buf), "\n"),
	}
	if err := a.s.Deliver(rec); err != nil {
		return 0, err
	}
	return len(buf), nil
}

// Refresh is a no-op; record sinks deliver synchronously.
func (a *Appender) Refresh() error {
	return nil
}

// Close releases the wrapped sink when it holds resources.
func (a *Appender) Close() error {
	if c, ok := a.s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
