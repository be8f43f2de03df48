package sink

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linchenxuan/relog/log"
)

var errBroken = errors.New("broken pipe")

// mockSink records every successful delivery. The script is consumed one
// error per Deliver call; past its end every call returns tail.
type mockSink struct {
	delivered []Record
	script    []error
	tail      error
	closed    bool
}

func (m *mockSink) Deliver(rec *Record) error {
	err := m.tail
	if len(m.script) > 0 {
		err = m.script[0]
		m.script = m.script[1:]
	}
	if err != nil {
		return err
	}
	m.delivered = append(m.delivered, *rec)
	return nil
}

func (m *mockSink) Close() error {
	m.closed = true
	return nil
}

// queueFactory hands out pre-built sinks in order and counts calls.
type queueFactory struct {
	calls int
	queue []*mockSink
	errs  []error
}

func (f *queueFactory) factory() (Sink, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	next := f.queue[0]
	if len(f.queue) > 1 {
		f.queue = f.queue[1:]
	}
	return next, nil
}

// expireWindow backdates the last reconnection attempt so the next Deliver
// is allowed to try again without sleeping through the real interval.
func expireWindow(s *RetrySink) {
	s.mu.Lock()
	s.lastTry = time.Now().Add(-2 * s.interval)
	s.mu.Unlock()
}

func rec(msg string) *Record {
	return &Record{Time: time.Now(), Level: log.InfoLevel, Msg: msg}
}

func TestNewRetrySinkNilFactory(t *testing.T) {
	s, err := NewRetrySink(nil)
	require.Error(t, err)
	assert.Nil(t, s)
}

func TestNewRetrySinkConstructionFailure(t *testing.T) {
	ctorErr := errors.New("dial tcp: connection refused")
	f := &queueFactory{errs: []error{ctorErr}, queue: []*mockSink{{}}}

	s, err := NewRetrySink(f.factory)
	require.ErrorIs(t, err, ctorErr)
	assert.Nil(t, s)
	assert.Equal(t, 1, f.calls)
}

func TestRetrySinkHealthyDelivery(t *testing.T) {
	target := &mockSink{}
	f := &queueFactory{queue: []*mockSink{target}}

	s, err := NewRetrySink(f.factory)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		require.NoError(t, s.Deliver(rec("hello")))
	}

	assert.Equal(t, 1, f.calls, "a healthy sink must never be rebuilt")
	assert.Len(t, target.delivered, 4)
	assert.Zero(t, s.Dropped())
}

func TestRetrySinkDropsWithinWindow(t *testing.T) {
	broken := &mockSink{tail: errBroken}
	f := &queueFactory{queue: []*mockSink{broken}}

	s, err := NewRetrySink(f.factory, WithRetryInterval(time.Hour))
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		require.NoError(t, s.Deliver(rec("lost")))
	}

	assert.Equal(t, 1, f.calls, "no reconnection attempt inside the interval")
	assert.Equal(t, uint64(4), s.Dropped())
	assert.True(t, broken.closed, "a failed sink is closed, not retried")
}

func TestRetrySinkFailingFactoryKeepsInterval(t *testing.T) {
	broken := &mockSink{tail: errBroken}
	f := &queueFactory{
		queue: []*mockSink{broken},
		errs:  []error{nil, errBroken, errBroken},
	}

	s, err := NewRetrySink(f.factory, WithRetryInterval(time.Hour))
	require.NoError(t, err)

	// First failure lands inside the window opened at construction.
	require.NoError(t, s.Deliver(rec("a")))
	assert.Equal(t, 1, f.calls)

	// Past the window the factory runs again, fails, and the record drops.
	expireWindow(s)
	require.NoError(t, s.Deliver(rec("b")))
	assert.Equal(t, 2, f.calls)

	// The failed attempt re-armed the window; no second attempt until it
	// elapses again.
	require.NoError(t, s.Deliver(rec("c")))
	assert.Equal(t, 2, f.calls)
	assert.Equal(t, uint64(3), s.Dropped())
}

func TestRetrySinkReconnectDeliversAccountingFirst(t *testing.T) {
	broken := &mockSink{tail: errBroken}
	fresh := &mockSink{}
	f := &queueFactory{queue: []*mockSink{broken, fresh}}

	s, err := NewRetrySink(f.factory, WithRetryInterval(time.Hour))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Deliver(rec("lost")))
	}
	require.Equal(t, uint64(5), s.Dropped())

	expireWindow(s)
	require.NoError(t, s.Deliver(rec("back online")))

	require.Len(t, fresh.delivered, 2)

	acct := fresh.delivered[0]
	assert.Equal(t, log.ErrorLevel, acct.Level)
	assert.Equal(t, "relog.sink", acct.Tag)
	assert.Equal(t, "disconnected from log service; 5 messages dropped", acct.Msg)
	count, ok := acct.Field("count")
	require.True(t, ok)
	assert.Equal(t, uint64(5), count)

	assert.Equal(t, "back online", fresh.delivered[1].Msg)
	assert.Zero(t, s.Dropped(), "the counter resets once accounting is delivered")

	// The fresh sink was adopted: further deliveries reuse it.
	require.NoError(t, s.Deliver(rec("again")))
	assert.Equal(t, 2, f.calls)
	assert.Len(t, fresh.delivered, 3)
}

func TestRetrySinkNoAccountingWithoutDrops(t *testing.T) {
	broken := &mockSink{tail: errBroken}
	fresh := &mockSink{}
	f := &queueFactory{queue: []*mockSink{broken, fresh}}

	s, err := NewRetrySink(f.factory)
	require.NoError(t, err)

	// The delivery that detects the failure reconnects in the same call
	// once the window has elapsed; nothing was dropped before it.
	expireWindow(s)
	require.NoError(t, s.Deliver(rec("only")))

	require.Len(t, fresh.delivered, 1)
	assert.Equal(t, "only", fresh.delivered[0].Msg)
	assert.Zero(t, s.Dropped())
}

func TestRetrySinkAccountingFailureDiscardsCandidate(t *testing.T) {
	broken := &mockSink{tail: errBroken}
	flaky := &mockSink{tail: errBroken}
	f := &queueFactory{queue: []*mockSink{broken, flaky}}

	s, err := NewRetrySink(f.factory, WithRetryInterval(time.Hour))
	require.NoError(t, err)

	require.NoError(t, s.Deliver(rec("lost")))
	require.Equal(t, uint64(1), s.Dropped())

	expireWindow(s)
	require.NoError(t, s.Deliver(rec("still lost")))

	assert.Equal(t, 2, f.calls)
	assert.Empty(t, flaky.delivered)
	assert.True(t, flaky.closed, "a candidate that cannot carry accounting is discarded")
	assert.Equal(t, uint64(2), s.Dropped(), "the counter keeps the old drops plus the new record")
}

func TestRetrySinkOriginalFailureAfterAccountingDiscardsCandidate(t *testing.T) {
	broken := &mockSink{tail: errBroken}
	// Accepts the accounting record, then breaks again.
	flaky := &mockSink{script: []error{nil}, tail: errBroken}
	f := &queueFactory{queue: []*mockSink{broken, flaky}}

	s, err := NewRetrySink(f.factory, WithRetryInterval(time.Hour))
	require.NoError(t, err)

	require.NoError(t, s.Deliver(rec("lost")))

	expireWindow(s)
	require.NoError(t, s.Deliver(rec("still lost")))

	require.Len(t, flaky.delivered, 1, "only the accounting record went through")
	assert.True(t, flaky.closed)
	assert.Equal(t, uint64(1), s.Dropped(), "accounted drops stay reset; only the new record counts")

	// Not adopted: the next reconnection builds a new sink.
	fresh := &mockSink{}
	f.queue = []*mockSink{fresh}
	expireWindow(s)
	require.NoError(t, s.Deliver(rec("recovered")))
	assert.Equal(t, 3, f.calls)
	require.Len(t, fresh.delivered, 2)
	assert.Equal(t, "disconnected from log service; 1 messages dropped", fresh.delivered[0].Msg)
}

func TestRetrySinkLifecycle(t *testing.T) {
	// Healthy for four deliveries, then persistently broken.
	flaky := &mockSink{script: []error{nil, nil, nil, nil}, tail: errBroken}
	fresh := &mockSink{}
	f := &queueFactory{
		queue: []*mockSink{flaky, fresh},
		errs:  []error{nil, errBroken},
	}

	s, err := NewRetrySink(f.factory, WithRetryInterval(time.Hour))
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		require.NoError(t, s.Deliver(rec("ok")))
	}
	assert.Equal(t, 1, f.calls)
	assert.Zero(t, s.Dropped())
	assert.Len(t, flaky.delivered, 4)

	// The destination went down; everything inside the window drops.
	for i := 0; i < 4; i++ {
		require.NoError(t, s.Deliver(rec("down")))
	}
	assert.Equal(t, 1, f.calls)
	assert.Equal(t, uint64(4), s.Dropped())

	// Past the window, reconnection is attempted but the factory fails.
	expireWindow(s)
	require.NoError(t, s.Deliver(rec("still down")))
	assert.Equal(t, 2, f.calls)
	assert.Equal(t, uint64(5), s.Dropped())

	// The destination comes back: accounting first, then the record.
	expireWindow(s)
	require.NoError(t, s.Deliver(rec("recovered")))
	assert.Equal(t, 3, f.calls)
	assert.Zero(t, s.Dropped())

	require.Len(t, fresh.delivered, 2)
	count, ok := fresh.delivered[0].Field("count")
	require.True(t, ok)
	assert.Equal(t, uint64(5), count)
	assert.Equal(t, "recovered", fresh.delivered[1].Msg)
}

func TestRetrySinkDroppedSaturates(t *testing.T) {
	f := &queueFactory{queue: []*mockSink{{}}}
	s, err := NewRetrySink(f.factory)
	require.NoError(t, err)

	s.mu.Lock()
	s.dropped = math.MaxUint64
	s.mu.Unlock()

	s.incrDropped()
	assert.Equal(t, uint64(math.MaxUint64), s.Dropped())
}

func TestWithRetryInterval(t *testing.T) {
	f := &queueFactory{queue: []*mockSink{{}}}

	s, err := NewRetrySink(f.factory, WithRetryInterval(200*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, s.interval)

	f2 := &queueFactory{queue: []*mockSink{{}}}
	s2, err := NewRetrySink(f2.factory, WithRetryInterval(-1))
	require.NoError(t, err)
	assert.Equal(t, DefaultRetryInterval, s2.interval, "non-positive overrides are ignored")
}

func TestRetrySinkClose(t *testing.T) {
	target := &mockSink{}
	f := &queueFactory{queue: []*mockSink{target}}

	s, err := NewRetrySink(f.factory)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.True(t, target.closed)
	require.NoError(t, s.Close(), "closing twice is harmless")
}
