//go:build darwin || linux

package gst

// State is a pipeline lifecycle state. The engine owns the state; this
// package only requests transitions and observes the outcome. Values
// match GstState.
type State int32

const (
	StateVoidPending State = 0
	StateNull        State = 1
	StateReady       State = 2
	StatePaused      State = 3
	StatePlaying     State = 4
)

func (s State) String() string {
	switch s {
	case StateVoidPending:
		return "void-pending"
	case StateNull:
		return "null"
	case StateReady:
		return "ready"
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// StateChange is the engine's verdict on a state transition request.
// Values match GstStateChangeReturn.
type StateChange int32

const (
	StateChangeFailure   StateChange = 0
	StateChangeSuccess   StateChange = 1
	StateChangeAsync     StateChange = 2
	StateChangeNoPreroll StateChange = 3
)

func (r StateChange) String() string {
	switch r {
	case StateChangeFailure:
		return "failure"
	case StateChangeSuccess:
		return "success"
	case StateChangeAsync:
		return "async"
	case StateChangeNoPreroll:
		return "no-preroll"
	default:
		return "unknown"
	}
}
