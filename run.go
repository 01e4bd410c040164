//go:build darwin || linux

package gst

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Outcome is the terminal result of driving a pipeline to completion.
// The business outcome (Err) and the teardown outcome (TeardownErr) are
// independent signals: a failed teardown does not override an already
// decided run result.
type Outcome struct {
	// Err is nil when the pipeline ended with a clean end-of-stream.
	Err error
	// SourceElement names the element that posted a domain error.
	SourceElement string
	// ErrorText is the engine-supplied error text for a domain error.
	ErrorText string
	// DebugText is the engine-supplied debug text, "" if unavailable.
	DebugText string
	// TeardownErr records a failed transition back to the null state.
	TeardownErr error
}

// Success reports whether the run ended with a clean end-of-stream.
func (o Outcome) Success() bool {
	return o.Err == nil
}

// Run drives a pipeline through its whole lifecycle: construct the graph
// from description, request playing, then block on the bus until the
// engine posts an error or end-of-stream, and finally tear the pipeline
// down to the null state. Every failure point is reported through log
// and short-circuits to teardown; teardown is attempted on every branch
// where a pipeline exists and is best-effort only.
//
// Run blocks the calling goroutine at the bus wait; the engine's own
// worker threads feed the bus. One Run per pipeline; concurrent
// pipelines belong on independent goroutines.
func Run(description string, log zerolog.Logger) Outcome {
	pipeline, err := ParseLaunch(description)
	if err != nil {
		log.Error().Err(err).Str("description", description).Msg("failed to create pipeline")
		return Outcome{Err: err}
	}
	defer pipeline.Close()

	if _, err := pipeline.SetState(StatePlaying); err != nil {
		log.Error().Err(err).Msg("unable to set the pipeline to the playing state")
		return Outcome{Err: err, TeardownErr: teardown(pipeline, log)}
	}

	bus, err := pipeline.Bus()
	if err != nil {
		log.Error().Err(err).Msg("unable to get the bus from the pipeline")
		return Outcome{Err: err, TeardownErr: teardown(pipeline, log)}
	}
	defer bus.Close()

	msg, err := bus.TimedPopFiltered(ClockTimeNone, MessageError|MessageEOS)
	if err != nil {
		log.Error().Err(err).Msg("unexpected null message from bus")
		return Outcome{Err: err, TeardownErr: teardown(pipeline, log)}
	}
	defer msg.Close()

	var outcome Outcome
	switch {
	case msg.Type().Has(MessageError):
		outcome.SourceElement = msg.SourceName()
		errText, debugText, perr := msg.ParseError()
		if perr != nil {
			log.Error().Err(perr).Msg("unable to parse error message")
			outcome.Err = perr
			break
		}
		outcome.ErrorText = errText
		outcome.DebugText = debugText
		outcome.Err = fmt.Errorf("error received from element %s: %s", outcome.SourceElement, errText)
		log.Error().
			Str("element", outcome.SourceElement).
			Str("debug", debugText).
			Msgf("error received from element %s: %s", outcome.SourceElement, errText)
	case msg.Type().Has(MessageEOS):
		log.Info().Msg("end-of-stream reached")
	}

	outcome.TeardownErr = teardown(pipeline, log)
	return outcome
}

// teardown requests the null state. Failure is reported but never
// retried; the caller records it alongside the business outcome.
func teardown(pipeline *Element, log zerolog.Logger) error {
	if _, err := pipeline.SetState(StateNull); err != nil {
		log.Warn().Err(err).Msg("unable to set the pipeline to the null state")
		return err
	}
	return nil
}
