package syslog

import (
	"os"
	"path/filepath"
	"time"

	"github.com/linchenxuan/relog/sink"
)

// Builder configures and builds a resilient syslog sink. The zero-argument
// setters follow the usual chaining style; Build wraps the configured
// destination in a sink.RetrySink so the result survives daemon restarts
// and network failures.
//
// Destination setters that resolve addresses record their error instead of
// returning it, so chains stay readable; the first recorded error surfaces
// at Build.
type Builder struct {
	facility      Facility
	hostname      string
	tag           string
	pid           int
	dest          Destination
	retryInterval time.Duration
	deferred      error
}

// NewBuilder creates a Builder with the conventional defaults: the user
// facility, the local daemon, the machine hostname, the executable name as
// tag and the current process ID.
func NewBuilder() *Builder {
	hostname, _ := os.Hostname()
	return &Builder{
		facility:      FacilityUser,
		hostname:      hostname,
		tag:           filepath.Base(os.Args[0]),
		pid:           os.Getpid(),
		dest:          LocalDestination(),
		retryInterval: sink.DefaultRetryInterval,
	}
}

// Facility sets the syslog facility to send logs to.
func (b *Builder) Facility(f Facility) *Builder {
	b.facility = f
	return b
}

// Hostname sets the hostname that logs are reported as being sent from.
func (b *Builder) Hostname(hostname string) *Builder {
	b.hostname = hostname
	return b
}

// Tag sets the process name included with log messages.
func (b *Builder) Tag(tag string) *Builder {
	b.tag = tag
	return b
}

// PID sets a custom process ID to include with log messages.
func (b *Builder) PID(pid int) *Builder {
	b.pid = pid
	return b
}

// Destination sets the destination directly. The Unix, TCP and UDP methods
// are convenience aliases.
func (b *Builder) Destination(d Destination) *Builder {
	b.dest = d
	return b
}

// Unix sends log entries to the local daemon over the unix socket at path.
func (b *Builder) Unix(path string) *Builder {
	return b.Destination(UnixDestination(path))
}

// TCP sends log entries over TCP to a remote server. This method may block
// to perform a DNS lookup; when the server resolves to more than one
// address the first one is used.
func (b *Builder) TCP(server string) *Builder {
	return b.resolveDestination(TCPDestination(server))
}

// UDP sends log entries over UDP to a remote server. This method may block
// to perform a DNS lookup; when the server resolves to more than one
// address the first one is used.
func (b *Builder) UDP(server string) *Builder {
	return b.resolveDestination(UDPDestination(server))
}

// RetryInterval sets the minimum time between reconnection attempts of the
// resulting sink. The interval is fixed; there is no backoff escalation.
func (b *Builder) RetryInterval(d time.Duration) *Builder {
	b.retryInterval = d
	return b
}

func (b *Builder) resolveDestination(d Destination) *Builder {
	resolved, err := d.resolve()
	if err != nil {
		if b.deferred == nil {
			b.deferred = err
		}
		return b
	}
	return b.Destination(resolved)
}

// Build connects the first syslog sink and wraps it in a RetrySink. Any
// error deferred by a destination setter is returned here, as is a failure
// to establish the initial connection.
func (b *Builder) Build() (*sink.RetrySink, error) {
	if b.deferred != nil {
		return nil, b.deferred
	}

	dest := b.dest
	facility := b.facility
	hostname := b.hostname
	tag := b.tag
	pid := b.pid

	factory := func() (sink.Sink, error) {
		return newSink(dest, facility, hostname, tag, pid)
	}

	return sink.NewRetrySink(factory, sink.WithRetryInterval(b.retryInterval))
}

// Appender builds the sink and wraps it as a logger appender carrying the
// builder's tag.
func (b *Builder) Appender() (*sink.Appender, error) {
	rs, err := b.Build()
	if err != nil {
		return nil, err
	}
	return sink.NewAppender(rs, b.tag), nil
}
