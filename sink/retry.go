package sink

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/linchenxuan/relog/log"
)

// DefaultRetryInterval is the minimum time between reconnection attempts.
// The interval is fixed: there is no exponential backoff, which keeps the
// worst-case reconnection latency bounded and predictable.
const DefaultRetryInterval = 50 * time.Millisecond

// retryTag is the logger tag carried by synthesized accounting records.
const retryTag = "relog.sink"

// RetrySink wraps a sink factory and keeps delivery alive across transient
// failures without ever surfacing an error to the producer. When a delivery
// fails the broken sink is discarded and records are counted as dropped
// until a reconnection attempt succeeds; attempts are spaced at least one
// retry interval apart so a dead destination is not hammered. After a
// successful reconnection a single accounting record reports how many
// records were lost.
type RetrySink struct {
	factory  Factory
	interval time.Duration

	// The state below must change as a unit: the drop counter is reset
	// only after the accounting record went through a sink that is about
	// to be adopted. One mutex guards the whole Deliver call.
	mu      sync.Mutex
	current Sink
	dropped uint64
	lastTry time.Time
}

// RetryOption configures a RetrySink at construction.
type RetryOption func(*RetrySink)

// WithRetryInterval overrides the minimum time between reconnection
// attempts. The interval stays fixed for the sink's lifetime.
func WithRetryInterval(d time.Duration) RetryOption {
	return func(s *RetrySink) {
		if d > 0 {
			s.interval = d
		}
	}
}

// NewRetrySink builds the initial sink through factory and returns the
// wrapper. If the first construction fails the error is returned and no
// wrapper is created; a RetrySink never exists in a broken state.
func NewRetrySink(factory Factory, opts ...RetryOption) (*RetrySink, error) {
	if factory == nil {
		return nil, errors.New("sink: nil factory")
	}

	s := &RetrySink{
		factory:  factory,
		interval: DefaultRetryInterval,
	}
	for _, opt := range opts {
		opt(s)
	}

	first, err := factory()
	if err != nil {
		return nil, err
	}

	s.current = first
	s.lastTry = time.Now()
	return s, nil
}

// Deliver hands one record to the underlying sink. It never reports
// failure: a logging pipeline must not make its own breakage the
// producer's problem, so failures are absorbed into the drop counter.
// The returned error is always nil and exists only to satisfy Sink.
//
// The call blocks for as long as the underlying write or a factory
// reconnect blocks; callers needing non-blocking delivery should front
// this sink with their own queue.
func (s *RetrySink) Deliver(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Hot path: a live sink is present, use it.
	if s.current != nil {
		if s.current.Deliver(rec) == nil {
			return nil
		}
		// Failed. The broken sink is discarded, not retried.
		s.closeCurrent()
	}

	// Disconnected. Only one reconnection attempt per interval.
	if !s.shouldTryAgain() {
		s.incrDropped()
		return nil
	}

	next, err := s.factory()
	if err != nil {
		s.incrDropped()
		return nil
	}

	// If records were lost while disconnected, the accounting record must
	// go through before anything else. A candidate that cannot carry its
	// own accounting message is not trustworthy enough to keep.
	if s.dropped != 0 {
		if next.Deliver(s.accountingRecord()) != nil {
			s.incrDropped()
			discard(next)
			return nil
		}
		s.dropped = 0
	}

	if next.Deliver(rec) != nil {
		s.incrDropped()
		discard(next)
		return nil
	}

	s.current = next
	return nil
}

// Dropped returns the number of records lost since the last successful
// reconnection accounting.
func (s *RetrySink) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close releases the currently owned sink, if any.
func (s *RetrySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.current.(io.Closer); ok {
		s.current = nil
		return c.Close()
	}
	s.current = nil
	return nil
}

// shouldTryAgain checks whether a full retry interval has elapsed since the
// last reconnection attempt. If it has, the window is reset immediately so
// a failing reconnect cannot retry faster than the interval either.
func (s *RetrySink) shouldTryAgain() bool {
	now := time.Now()

	if now.Sub(s.lastTry) < s.interval {
		return false
	}
	s.lastTry = now
	return true
}

// incrDropped increments the drop counter, saturating instead of wrapping.
func (s *RetrySink) incrDropped() {
	if s.dropped < math.MaxUint64 {
		s.dropped++
	}
}

// accountingRecord synthesizes the record reporting how many messages were
// lost while disconnected.
func (s *RetrySink) accountingRecord() *Record {
	return &Record{
		Time:  time.Now(),
		Level: log.ErrorLevel,
		Tag:   retryTag,
		Msg:   fmt.Sprintf("disconnected from log service; %d messages dropped", s.dropped),
		Fields: []Field{
			{Key: "count", Value: s.dropped},
		},
	}
}

// closeCurrent drops the current sink, releasing its resources.
func (s *RetrySink) closeCurrent() {
	discard(s.current)
	s.current = nil
}

func discard(sk Sink) {
	if c, ok := sk.(io.Closer); ok {
		_ = c.Close()
	}
}
