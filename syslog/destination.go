package syslog

import (
	"net"

	"github.com/pkg/errors"
)

// Destination selects the transport used to reach the syslog daemon.
// The zero value is the local daemon.
type Destination struct {
	// Network is one of "" (local daemon), "unix", "tcp" or "udp".
	Network string
	// Addr is the unix socket path or the host:port of a remote server.
	// Ignored for the local daemon.
	Addr string
}

// localSocketPaths are the well-known local daemon sockets, tried in order.
var localSocketPaths = []string{"/dev/log", "/var/run/syslog", "/var/run/log"}

// localFallbackAddr is used when no local socket answers; many minimal
// environments only run a UDP listener.
const localFallbackAddr = "127.0.0.1:514"

// LocalDestination sends to the local syslog daemon.
func LocalDestination() Destination {
	return Destination{}
}

// UnixDestination sends to a local daemon at a specific unix socket path.
func UnixDestination(socket string) Destination {
	return Destination{Network: "unix", Addr: socket}
}

// TCPDestination sends to a remote server over TCP. Log transmission is not
// encrypted.
func TCPDestination(addr string) Destination {
	return Destination{Network: "tcp", Addr: addr}
}

// UDPDestination sends to a remote server over UDP. Log transmission is not
// encrypted.
func UDPDestination(addr string) Destination {
	return Destination{Network: "udp", Addr: addr}
}

// resolve performs the DNS lookup for network destinations, keeping the
// first resolved address. It may block on the lookup.
func (d Destination) resolve() (Destination, error) {
	switch d.Network {
	case "tcp":
		addr, err := net.ResolveTCPAddr("tcp", d.Addr)
		if err != nil {
			return d, errors.Wrapf(err, "resolve syslog server %q", d.Addr)
		}
		d.Addr = addr.String()
	case "udp":
		addr, err := net.ResolveUDPAddr("udp", d.Addr)
		if err != nil {
			return d, errors.Wrapf(err, "resolve syslog server %q", d.Addr)
		}
		d.Addr = addr.String()
	}
	return d, nil
}

// stream reports whether the transport is stream-oriented and therefore
// needs newline framing between messages.
func (d Destination) stream() bool {
	return d.Network == "tcp"
}

// dial connects to the destination. For the local daemon it tries the
// well-known unix sockets in both datagram and stream flavors before
// falling back to UDP on localhost.
func (d Destination) dial() (net.Conn, error) {
	switch d.Network {
	case "unix":
		return dialUnix(d.Addr)
	case "tcp", "udp":
		conn, err := net.Dial(d.Network, d.Addr)
		if err != nil {
			return nil, errors.Wrapf(err, "connect syslog server %q", d.Addr)
		}
		return conn, nil
	default:
		for _, p := range localSocketPaths {
			if conn, err := dialUnix(p); err == nil {
				return conn, nil
			}
		}
		conn, err := net.Dial("udp", localFallbackAddr)
		if err != nil {
			return nil, errors.Wrap(err, "connect local syslog daemon")
		}
		return conn, nil
	}
}

func dialUnix(path string) (net.Conn, error) {
	for _, network := range []string{"unixgram", "unix"} {
		if conn, err := net.Dial(network, path); err == nil {
			return conn, nil
		}
	}
	return nil, errors.Errorf("connect unix socket %q", path)
}
