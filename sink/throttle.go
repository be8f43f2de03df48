package sink

import (
	"sync/atomic"

	"golang.org/x/time/rate"
)

// ThrottleSink caps the rate of records flowing into the wrapped sink using
// a token bucket. Records arriving while the bucket is empty are dropped
// and counted rather than queued, so a runaway producer degrades its own
// log volume instead of the process.
type ThrottleSink struct {
	next      Sink
	limiter   *rate.Limiter
	throttled atomic.Uint64
}

// NewThrottleSink wraps next with a token bucket allowing perSecond records
// per second with the given burst size.
func NewThrottleSink(next Sink, perSecond float64, burst int) *ThrottleSink {
	return &ThrottleSink{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Deliver forwards the record when a token is available and silently drops
// it otherwise. Dropping reports success: throttling is a policy decision,
// not a delivery failure.
func (s *ThrottleSink) Deliver(rec *Record) error {
	if !s.limiter.Allow() {
		s.throttled.Add(1)
		return nil
	}
	return s.next.Deliver(rec)
}

// Throttled returns the number of records dropped by the rate limit.
func (s *ThrottleSink) Throttled() uint64 {
	return s.throttled.Load()
}
