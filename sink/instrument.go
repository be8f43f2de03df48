package sink

import (
	"github.com/prometheus/client_golang/prometheus"
)

// InstrumentedSink wraps a sink with prometheus delivery counters. It sits
// outside RetrySink on purpose: the resilience core's only side effects are
// calls on its sink and factory, while instrumentation is an opt-in layer
// composed around it.
type InstrumentedSink struct {
	next      Sink
	delivered prometheus.Counter
	failed    prometheus.Counter
}

// NewInstrumentedSink wraps next and registers per-sink delivery counters
// on reg. The name labels the metrics so several instrumented sinks can
// share one registry.
func NewInstrumentedSink(next Sink, reg prometheus.Registerer, name string) (*InstrumentedSink, error) {
	s := &InstrumentedSink{
		next: next,
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "relog",
			Subsystem:   "sink",
			Name:        "delivered_total",
			Help:        "Records successfully delivered by this sink.",
			ConstLabels: prometheus.Labels{"sink": name},
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "relog",
			Subsystem:   "sink",
			Name:        "failed_total",
			Help:        "Record deliveries that returned an error.",
			ConstLabels: prometheus.Labels{"sink": name},
		}),
	}

	if reg != nil {
		if err := reg.Register(s.delivered); err != nil {
			return nil, err
		}
		if err := reg.Register(s.failed); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Deliver forwards the record and counts the outcome. The wrapped sink's
// error is passed through unchanged.
func (s *InstrumentedSink) Deliver(rec *Record) error {
	if err := s.next.Deliver(rec); err != nil {
		s.failed.Inc()
		return err
	}
	s.delivered.Inc()
	return nil
}
