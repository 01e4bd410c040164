//go:build darwin || linux

package gst

import (
	"errors"
	"fmt"
	"time"
)

// ClockTime is an engine timestamp or duration in nanoseconds.
type ClockTime uint64

// ClockTimeNone means "block forever" when used as a timeout.
const ClockTimeNone ClockTime = ^ClockTime(0)

// ClockTimeFromDuration converts a time.Duration into a ClockTime.
func ClockTimeFromDuration(d time.Duration) ClockTime {
	return ClockTime(d.Nanoseconds())
}

// LaunchError is the failure side of ParseLaunch. Reason carries the
// engine's error text, or "unknown error" when the engine produced no
// error object.
type LaunchError struct {
	Reason string
}

func (e *LaunchError) Error() string {
	return "failed to create pipeline: " + e.Reason
}

var (
	// ErrEmptyElement is returned by operations on an empty element wrapper.
	ErrEmptyElement = errors.New("element wrapper is empty")
	// ErrEmptyBus is returned by operations on an empty bus wrapper.
	ErrEmptyBus = errors.New("bus wrapper is empty")
	// ErrNoBus is returned when a pipeline yields no bus handle.
	ErrNoBus = errors.New("unable to get the bus from the pipeline")
	// ErrPopTimeout is returned by TimedPopFiltered when a finite timeout
	// elapses with no matching message.
	ErrPopTimeout = errors.New("timed out waiting for a bus message")
)

// ParseLaunch builds a pipeline from a textual graph description. On
// success the returned element exclusively owns the pipeline handle. On
// failure the engine's error object is consumed into a *LaunchError; a
// partially constructed pipeline, if the engine returned one alongside
// the error, is released before returning.
func ParseLaunch(description string) (*Element, error) {
	if err := loadCore(); err != nil {
		return nil, err
	}

	var gerrPtr uintptr
	elPtr := gstParseLaunch(description, &gerrPtr)

	if gerrPtr != 0 {
		gerr := GError{ptr: gerrPtr}
		defer gerr.Close()
		if elPtr != 0 {
			partial := Element{ptr: elPtr}
			_ = partial.Close()
		}
		reason := gerr.Message()
		if reason == "" {
			reason = "unknown error"
		}
		return nil, &LaunchError{Reason: reason}
	}

	if elPtr == 0 {
		return nil, &LaunchError{Reason: "unknown error"}
	}
	return &Element{ptr: elPtr}, nil
}

// SetState requests a transition to the target state. The returned
// StateChange is the engine's verdict; an outright rejection also
// returns an error so callers cannot mistake it for success. Async is
// not an error: completion is observed via the bus.
func (e *Element) SetState(target State) (StateChange, error) {
	if !e.IsValid() {
		return StateChangeFailure, ErrEmptyElement
	}
	ret := StateChange(gstElementSetState(e.ptr, int32(target)))
	if ret == StateChangeFailure {
		return ret, fmt.Errorf("unable to set the pipeline to the %s state", target)
	}
	return ret, nil
}

// CurrentState queries the element's state, waiting up to timeout for a
// pending transition to settle. Returns the current state, the pending
// state and the engine's verdict.
func (e *Element) CurrentState(timeout ClockTime) (current, pending State, verdict StateChange) {
	if !e.IsValid() {
		return StateVoidPending, StateVoidPending, StateChangeFailure
	}
	var cur, pen int32
	ret := gstElementGetState(e.ptr, &cur, &pen, uint64(timeout))
	return State(cur), State(pen), StateChange(ret)
}

// Bus returns the pipeline's message bus as an owned wrapper. A null bus
// handle is an engine-internal anomaly and surfaces as ErrNoBus.
func (e *Element) Bus() (*Bus, error) {
	if !e.IsValid() {
		return nil, ErrEmptyElement
	}
	busPtr := gstElementGetBus(e.ptr)
	if busPtr == 0 {
		return nil, ErrNoBus
	}
	return &Bus{ptr: busPtr}, nil
}

// ByName looks up a child element of the pipeline by name, returning an
// owned wrapper.
func (e *Element) ByName(name string) (*Element, error) {
	if !e.IsValid() {
		return nil, ErrEmptyElement
	}
	childPtr := gstBinGetByName(e.ptr, name)
	if childPtr == 0 {
		return nil, fmt.Errorf("no element named %q in pipeline", name)
	}
	return &Element{ptr: childPtr}, nil
}

// PostApplication posts an application-defined message on the bus,
// callable from any goroutine. Including MessageApplication in a wait
// filter turns this into the cancellation hook for an otherwise
// infinite TimedPopFiltered.
func (b *Bus) PostApplication(name string) error {
	if !b.IsValid() {
		return ErrEmptyBus
	}
	st := gstStructureNewEmpty(name)
	if st == 0 {
		return errors.New("unable to create message structure")
	}
	msgPtr := gstMessageNewApp(0, st)
	if msgPtr == 0 {
		gstStructureFree(st)
		return errors.New("unable to create application message")
	}
	if gstBusPost(b.ptr, msgPtr) == 0 {
		// the bus consumes the message even when it refuses the post
		return errors.New("bus is flushing, message not posted")
	}
	return nil
}

// SetFlushing puts the bus in or out of flushing mode. While flushing
// the bus discards queued messages and refuses new posts.
func (b *Bus) SetFlushing(flushing bool) error {
	if !b.IsValid() {
		return ErrEmptyBus
	}
	var f int32
	if flushing {
		f = 1
	}
	gstBusSetFlushing(b.ptr, f)
	return nil
}

// TimedPopFiltered blocks until a message whose category intersects
// filter arrives, or timeout elapses. ClockTimeNone blocks forever.
// Filtering happens inside the engine; a returned message always matches
// the filter. A nil pop under an infinite timeout is an engine-internal
// anomaly and is reported distinctly from a timeout.
func (b *Bus) TimedPopFiltered(timeout ClockTime, filter MessageType) (*Message, error) {
	if !b.IsValid() {
		return nil, ErrEmptyBus
	}
	msgPtr := gstBusTimedPopFilter(b.ptr, uint64(timeout), uint32(filter))
	if msgPtr == 0 {
		if timeout != ClockTimeNone {
			return nil, ErrPopTimeout
		}
		return nil, errors.New("no message received from bus")
	}
	return &Message{ptr: msgPtr}, nil
}
