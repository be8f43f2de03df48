package syslog

import (
	"time"

	"github.com/pkg/errors"

	"github.com/linchenxuan/relog/sink"
)

// Config is the configuration of the registered "syslog" sink kind.
type Config struct {
	// Network selects the transport: "local" (or empty), "unix", "tcp"
	// or "udp".
	Network string `mapstructure:"network"`

	// Address is the unix socket path or host:port of the server.
	Address string `mapstructure:"address"`

	// Facility is the syslog facility name, e.g. "daemon" or "local0".
	// Defaults to "user".
	Facility string `mapstructure:"facility"`

	// Tag overrides the process name included with messages.
	Tag string `mapstructure:"tag"`

	// Hostname overrides the reported hostname for remote servers.
	Hostname string `mapstructure:"hostname"`

	// RetryMillSec overrides the minimum reconnection interval in
	// milliseconds. Zero keeps the default.
	RetryMillSec int `mapstructure:"retryMillSec"`
}

type builderFactory struct{}

func (*builderFactory) Kind() string {
	return "syslog"
}

func (*builderFactory) ConfigType() any {
	return &Config{}
}

func (*builderFactory) Setup(conf any) (sink.Sink, error) {
	cfg := conf.(*Config)

	b := NewBuilder()

	if cfg.Facility != "" {
		f, err := ParseFacility(cfg.Facility)
		if err != nil {
			return nil, err
		}
		b.Facility(f)
	}
	if cfg.Tag != "" {
		b.Tag(cfg.Tag)
	}
	if cfg.Hostname != "" {
		b.Hostname(cfg.Hostname)
	}
	if cfg.RetryMillSec > 0 {
		b.RetryInterval(time.Duration(cfg.RetryMillSec) * time.Millisecond)
	}

	switch cfg.Network {
	case "", "local":
		b.Destination(LocalDestination())
	case "unix":
		b.Unix(cfg.Address)
	case "tcp":
		b.TCP(cfg.Address)
	case "udp":
		b.UDP(cfg.Address)
	default:
		return nil, errors.Errorf("unknown syslog network %q", cfg.Network)
	}

	return b.Build()
}

func init() {
	if err := sink.Register(&builderFactory{}); err != nil {
		panic(err)
	}
}
