package logging

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud")
	require.Error(t, err)

	log, err := New("warn")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.InfoLevel))
	assert.True(t, log.Core().Enabled(zap.WarnLevel))
}

func TestErrorSinkReportsSource(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	sink := NewErrorSink(zap.New(core))

	sink.Report("rejected line", errors.New("bad input"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "rejected line", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "bad input", ctx["error"])
	assert.Contains(t, ctx["source"], "logging_test.go")
}

func TestSourceWithoutStack(t *testing.T) {
	_, ok := Source(plainError("x"))
	assert.False(t, ok)
}

type plainError string

func (e plainError) Error() string { return string(e) }
