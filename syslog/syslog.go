package syslog

import (
	"bytes"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/linchenxuan/relog/sink"
)

// Sink writes RFC 3164 formatted messages to a syslog daemon over an open
// connection. A failed write is reported to the caller and the connection
// is considered dead; recovery is the job of the sink.RetrySink wrapping
// this one.
type Sink struct {
	conn     net.Conn
	facility Facility
	hostname string
	tag      string
	pid      int
	framed   bool // stream transports terminate each message with \n
}

// newSink dials the destination and returns a connected syslog sink.
func newSink(d Destination, facility Facility, hostname, tag string, pid int) (*Sink, error) {
	conn, err := d.dial()
	if err != nil {
		return nil, err
	}

	// The hostname field is only meaningful for remote servers; the
	// local daemon fills it in itself.
	if d.Network != "tcp" && d.Network != "udp" {
		hostname = ""
	}

	return &Sink{
		conn:     conn,
		facility: facility,
		hostname: hostname,
		tag:      tag,
		pid:      pid,
		framed:   d.stream(),
	}, nil
}

// Deliver formats and writes one record. The message body is the record's
// message followed by its structured fields as space-separated key=value
// pairs.
func (s *Sink) Deliver(rec *sink.Record) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "<%d>", priority(s.facility, rec.Level))
	buf.WriteString(rec.Time.Format(time.Stamp))
	buf.WriteByte(' ')
	if s.hostname != "" {
		buf.WriteString(s.hostname)
		buf.WriteByte(' ')
	}
	tag := s.tag
	if rec.Tag != "" {
		tag = rec.Tag
	}
	fmt.Fprintf(&buf, "%s[%d]: ", tag, s.pid)
	buf.WriteString(strings.TrimRight(rec.Msg, "\n"))
	for _, f := range rec.Fields {
		fmt.Fprintf(&buf, " %s=%v", f.Key, f.Value)
	}
	if s.framed {
		buf.WriteByte('\n')
	}

	_, err := s.conn.Write(buf.Bytes())
	return err
}

// Close releases the connection.
func (s *Sink) Close() error {
	return s.conn.Close()
}
