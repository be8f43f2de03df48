package sink

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linchenxuan/relog/log"
)

func TestWriterSinkDeliver(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf)

	err := s.Deliver(&Record{
		Time:  time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
		Level: log.WarnLevel,
		Tag:   "relog.sink",
		Msg:   "disconnected from log service; 3 messages dropped",
		Fields: []Field{
			{Key: "count", Value: uint64(3)},
			{Key: "endpoint", Value: "logs.example.com:514"},
			{Key: "retrying", Value: true},
		},
	})
	require.NoError(t, err)

	line := buf.String()
	require.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")), "each record is one line")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &decoded))

	assert.Equal(t, "2026-08-25 10:30:00.000", decoded["time"])
	assert.Equal(t, "WARN", decoded["level"])
	assert.Equal(t, "relog.sink", decoded["tag"])
	assert.Equal(t, "disconnected from log service; 3 messages dropped", decoded["msg"])
	assert.Equal(t, float64(3), decoded["count"])
	assert.Equal(t, "logs.example.com:514", decoded["endpoint"])
	assert.Equal(t, true, decoded["retrying"])
}

func TestWriterSinkOmitsEmptyTag(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf)

	require.NoError(t, s.Deliver(&Record{Time: time.Now(), Level: log.InfoLevel, Msg: "hi"}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	_, present := decoded["tag"]
	assert.False(t, present)
}

func TestWriterSinkFieldValueKinds(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf)

	require.NoError(t, s.Deliver(&Record{
		Time:  time.Now(),
		Level: log.DebugLevel,
		Msg:   "kinds",
		Fields: []Field{
			{Key: "none", Value: nil},
			{Key: "n", Value: 7},
			{Key: "big", Value: int64(-9)},
			{Key: "ratio", Value: 0.5},
			{Key: "err", Value: errors.New("boom")},
			{Key: "dur", Value: 2 * time.Second},
		},
	}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Nil(t, decoded["none"])
	assert.Equal(t, float64(7), decoded["n"])
	assert.Equal(t, float64(-9), decoded["big"])
	assert.Equal(t, 0.5, decoded["ratio"])
	assert.Equal(t, "boom", decoded["err"])
	assert.Equal(t, "2s", decoded["dur"])
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriterSinkReportsWriteError(t *testing.T) {
	s := NewWriterSink(failingWriter{})
	err := s.Deliver(&Record{Time: time.Now(), Level: log.InfoLevel, Msg: "hi"})
	assert.Error(t, err)
}
