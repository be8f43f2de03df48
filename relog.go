// Package relog assembles a structured logger with resilient delivery to
// external log services. The log package produces events, the sink package
// carries them to their destinations, and the syslog package speaks the
// syslog protocol; relog wires configuration into a running pipeline.
package relog

import (
	"fmt"

	"github.com/linchenxuan/relog/log"
	"github.com/linchenxuan/relog/sink"
	_ "github.com/linchenxuan/relog/syslog" // registers the "syslog" sink kind
)

// Relog is the assembled logging pipeline: a structured logger plus the
// appenders built from configuration.
type Relog struct {
	Logger log.Logger
}

// New builds a logging pipeline from cfg. A nil cfg uses the defaults
// (console plus a local file). Every entry of cfg.Sinks is built through
// the sink registry and attached to the logger as its own appender; a sink
// whose construction fails makes New fail, so a misconfigured destination
// is caught at startup instead of silently dropping logs forever.
func New(cfg *log.LogCfg) (*Relog, error) {
	if cfg == nil {
		cfg = log.DefaultCfg()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := log.NewLogger(cfg)

	for kind, conf := range cfg.Sinks {
		s, err := sink.Build(kind, conf)
		if err != nil {
			return nil, fmt.Errorf("build sink %q: %w", kind, err)
		}
		logger.AddAppender(sink.NewAppender(s, kind))
	}

	log.SetDefaultLogger(logger)

	r := &Relog{Logger: logger}
	logger.Info().Msg("relog pipeline initialized")
	return r, nil
}

// Stop flushes and closes every appender of the pipeline.
func (r *Relog) Stop() {
	r.Logger.Info().Msg("relog pipeline shutting down")
	for _, appender := range r.Logger.GetAppender() {
		_ = appender.Refresh()
		_ = appender.Close()
	}
}
