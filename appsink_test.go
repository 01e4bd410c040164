//go:build darwin || linux

package gst

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppSinkPull(t *testing.T) {
	requireEngine(t)
	if !IsAppSinkAvailable() {
		t.Skip("libgstapp not available")
	}

	pipeline, err := ParseLaunch("videotestsrc num-buffers=3 ! appsink name=sink")
	require.NoError(t, err)
	defer pipeline.Close()

	sink, err := pipeline.AppSinkByName("sink")
	require.NoError(t, err)
	defer sink.Close()

	_, err = pipeline.SetState(StatePlaying)
	require.NoError(t, err)

	var pulled int
	for {
		data, err := sink.PullSample()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		assert.NotEmpty(t, data)
		pulled++
	}
	assert.Equal(t, 3, pulled)

	_, err = pipeline.SetState(StateNull)
	assert.NoError(t, err)
}

func TestAppSinkByNameMissing(t *testing.T) {
	requireEngine(t)
	if !IsAppSinkAvailable() {
		t.Skip("libgstapp not available")
	}

	pipeline, err := ParseLaunch("fakesrc num-buffers=1 ! fakesink")
	require.NoError(t, err)
	defer pipeline.Close()

	_, err = pipeline.AppSinkByName("sink")
	assert.Error(t, err)
}
