//go:build darwin || linux

package gst

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireEngine initializes the engine or skips the test when the
// native libraries are not present.
func requireEngine(t *testing.T) {
	t.Helper()
	if _, err := Init(nil); err != nil {
		t.Skipf("GStreamer not available: %v", err)
	}
}

func TestVersion(t *testing.T) {
	requireEngine(t)

	v := Version()
	if v == "" {
		t.Error("Version returned empty string")
	}
	t.Logf("Engine version: %s", v)
}

func TestParseLaunchValid(t *testing.T) {
	requireEngine(t)

	pipeline, err := ParseLaunch("fakesrc num-buffers=1 ! fakesink")
	require.NoError(t, err)
	require.True(t, pipeline.IsValid())
	defer pipeline.Close()
}

func TestParseLaunchUnknownElement(t *testing.T) {
	requireEngine(t)

	pipeline, err := ParseLaunch("no_such_element_exists ! fakesink")
	require.Error(t, err)
	assert.Nil(t, pipeline)

	var lerr *LaunchError
	require.True(t, errors.As(err, &lerr))
	assert.NotEmpty(t, lerr.Reason)
	t.Logf("launch failure: %v", err)
}

func TestParseLaunchMalformedSyntax(t *testing.T) {
	requireEngine(t)

	_, err := ParseLaunch("fakesrc ! ! fakesink")
	require.Error(t, err)

	var lerr *LaunchError
	require.True(t, errors.As(err, &lerr))
	assert.NotEmpty(t, lerr.Reason)
}

func TestSetStateAndTeardown(t *testing.T) {
	requireEngine(t)

	pipeline, err := ParseLaunch("videotestsrc num-buffers=5 ! fakesink")
	require.NoError(t, err)
	defer pipeline.Close()

	ret, err := pipeline.SetState(StatePlaying)
	require.NoError(t, err)
	assert.NotEqual(t, StateChangeFailure, ret)

	// wait for the transition to settle, then observe the state
	cur, _, verdict := pipeline.CurrentState(ClockTimeFromDuration(5 * time.Second))
	assert.NotEqual(t, StateChangeFailure, verdict)
	assert.Equal(t, StatePlaying, cur)

	_, err = pipeline.SetState(StateNull)
	assert.NoError(t, err)
}

func TestBusEOS(t *testing.T) {
	requireEngine(t)

	pipeline, err := ParseLaunch("fakesrc num-buffers=5 ! fakesink")
	require.NoError(t, err)
	defer pipeline.Close()

	_, err = pipeline.SetState(StatePlaying)
	require.NoError(t, err)

	bus, err := pipeline.Bus()
	require.NoError(t, err)
	defer bus.Close()

	msg, err := bus.TimedPopFiltered(ClockTimeNone, MessageError|MessageEOS)
	require.NoError(t, err)
	defer msg.Close()

	assert.True(t, msg.Type().Has(MessageEOS), "got %s", msg.Type())

	// an end-of-stream message carries no error payload
	_, _, perr := msg.ParseError()
	require.Error(t, perr)
	t.Logf("parse error on eos message: %v", perr)

	_, err = pipeline.SetState(StateNull)
	assert.NoError(t, err)
}

func TestBusFilterExcludesOtherCategories(t *testing.T) {
	requireEngine(t)

	pipeline, err := ParseLaunch("fakesrc num-buffers=5 ! fakesink")
	require.NoError(t, err)
	defer pipeline.Close()

	_, err = pipeline.SetState(StatePlaying)
	require.NoError(t, err)

	bus, err := pipeline.Bus()
	require.NoError(t, err)
	defer bus.Close()

	// This pipeline ends in a clean end-of-stream and never posts an
	// error, so an error-only filter must time out rather than hand back
	// a non-matching message.
	msg, err := bus.TimedPopFiltered(ClockTimeFromDuration(2*time.Second), MessageError)
	require.ErrorIs(t, err, ErrPopTimeout)
	assert.Nil(t, msg)

	_, err = pipeline.SetState(StateNull)
	assert.NoError(t, err)
}

func TestBusErrorMessage(t *testing.T) {
	requireEngine(t)

	// A source pointing at a path that cannot exist: construction
	// succeeds, the failure arrives later through the bus.
	pipeline, err := ParseLaunch("filesrc location=/nonexistent/gst-test-no-such-file ! fakesink")
	require.NoError(t, err)
	defer pipeline.Close()

	// The transition may fail outright or go async with the error posted
	// on the bus; both are valid engine behaviors.
	if _, err := pipeline.SetState(StatePlaying); err != nil {
		t.Logf("transition rejected synchronously: %v", err)
		_, err = pipeline.SetState(StateNull)
		assert.NoError(t, err)
		return
	}

	bus, err := pipeline.Bus()
	require.NoError(t, err)
	defer bus.Close()

	msg, err := bus.TimedPopFiltered(ClockTimeFromDuration(10*time.Second), MessageError|MessageEOS)
	require.NoError(t, err)
	defer msg.Close()

	require.True(t, msg.Type().Has(MessageError), "got %s", msg.Type())
	assert.NotEmpty(t, msg.SourceName())

	errText, debugText, perr := msg.ParseError()
	require.NoError(t, perr)
	assert.NotEmpty(t, errText)
	t.Logf("element=%s error=%q debug=%q", msg.SourceName(), errText, debugText)

	_, err = pipeline.SetState(StateNull)
	assert.NoError(t, err)
}

func TestPostApplicationUnblocksInfiniteWait(t *testing.T) {
	requireEngine(t)

	// A live source never reaches end-of-stream on its own; the
	// application message is the only way out of the infinite wait.
	pipeline, err := ParseLaunch("videotestsrc is-live=true ! fakesink")
	require.NoError(t, err)
	defer pipeline.Close()

	_, err = pipeline.SetState(StatePlaying)
	require.NoError(t, err)

	bus, err := pipeline.Bus()
	require.NoError(t, err)
	defer bus.Close()

	go func() {
		time.Sleep(200 * time.Millisecond)
		if err := bus.PostApplication("stop"); err != nil {
			t.Errorf("PostApplication: %v", err)
		}
	}()

	msg, err := bus.TimedPopFiltered(ClockTimeNone, MessageError|MessageEOS|MessageApplication)
	require.NoError(t, err)
	defer msg.Close()
	assert.True(t, msg.Type().Has(MessageApplication), "got %s", msg.Type())

	_, err = pipeline.SetState(StateNull)
	assert.NoError(t, err)
}

func TestPostApplicationFlushingBus(t *testing.T) {
	requireEngine(t)

	pipeline, err := ParseLaunch("fakesrc ! fakesink")
	require.NoError(t, err)
	defer pipeline.Close()

	bus, err := pipeline.Bus()
	require.NoError(t, err)
	defer bus.Close()

	// A flushing bus refuses the post but still consumes the message;
	// repeated posts must keep failing cleanly.
	require.NoError(t, bus.SetFlushing(true))
	for i := 0; i < 3; i++ {
		err = bus.PostApplication("stop")
		assert.ErrorContains(t, err, "flushing")
	}

	// Back out of flushing mode the bus accepts posts again.
	require.NoError(t, bus.SetFlushing(false))
	require.NoError(t, bus.PostApplication("stop"))

	msg, err := bus.TimedPopFiltered(ClockTimeFromDuration(time.Second), MessageApplication)
	require.NoError(t, err)
	defer msg.Close()
	assert.True(t, msg.Type().Has(MessageApplication), "got %s", msg.Type())
}

func TestByName(t *testing.T) {
	requireEngine(t)

	pipeline, err := ParseLaunch("fakesrc num-buffers=1 ! fakesink name=out")
	require.NoError(t, err)
	defer pipeline.Close()

	sink, err := pipeline.ByName("out")
	require.NoError(t, err)
	assert.True(t, sink.IsValid())
	assert.NoError(t, sink.Close())

	_, err = pipeline.ByName("does-not-exist")
	assert.Error(t, err)
}
