package session

import "fmt"

// State is the lifecycle state of one recording session.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateStopping
	StateUploading
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateStopping:
		return "stopping"
	case StateUploading:
		return "uploading"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// EventKind identifies a session event.
type EventKind int

const (
	// EventStart is the user-initiated start action. BookLoaded carries
	// the book context flag, sampled exactly once per attempt.
	EventStart EventKind = iota

	// EventDeviceAcquired signals that microphone access was granted and
	// capture has begun.
	EventDeviceAcquired

	// EventDeviceDenied signals that microphone access was refused or no
	// device is available.
	EventDeviceDenied

	// EventStop is the user-initiated stop action.
	EventStop

	// EventCaptureStopped signals that the device confirmed the stop and
	// the buffer has been finalized.
	EventCaptureStopped

	// EventUploadSucceeded signals a parsed 2xx answer response.
	EventUploadSucceeded

	// EventUploadFailed signals a non-2xx response or transport failure.
	EventUploadFailed
)

// Event is an input to the transition function.
type Event struct {
	Kind       EventKind
	BookLoaded bool
}

// Effect is a side effect the caller must perform after a transition.
// The transition function itself touches nothing.
type Effect int

const (
	EffectAcquireDevice Effect = iota
	EffectStartTimer
	EffectStopTimer
	EffectReleaseDevice
	EffectUpload
	EffectShowResult
	EffectShowError
	EffectResetControls
)

// Transition is the single transition function for the session state
// machine. It returns the next state and the effects to run. The state
// guard lives here, not in the UI: an event that is not valid in the
// current state either returns an error (invalid start) or is a no-op
// (stop while not recording).
func Transition(current State, ev Event) (State, []Effect, error) {
	switch ev.Kind {
	case EventStart:
		// A new start is only valid from an idle-equivalent state.
		if current != StateIdle && current != StateDone && current != StateFailed {
			return current, nil, &PreconditionError{Reason: "a session is already active"}
		}
		if !ev.BookLoaded {
			return current, nil, &PreconditionError{Reason: "no book loaded"}
		}
		return StateRecording, []Effect{EffectAcquireDevice}, nil

	case EventDeviceAcquired:
		if current != StateRecording {
			return current, nil, nil
		}
		return StateRecording, []Effect{EffectStartTimer}, nil

	case EventDeviceDenied:
		if current != StateRecording {
			return current, nil, nil
		}
		return StateFailed, []Effect{EffectShowError, EffectResetControls}, nil

	case EventStop:
		// A stop while not recording is a no-op.
		if current != StateRecording {
			return current, nil, nil
		}
		return StateStopping, []Effect{EffectStopTimer}, nil

	case EventCaptureStopped:
		if current != StateStopping {
			return current, nil, nil
		}
		// The device is released here unconditionally, before the upload
		// has a chance to fail.
		return StateUploading, []Effect{EffectReleaseDevice, EffectUpload}, nil

	case EventUploadSucceeded:
		if current != StateUploading {
			return current, nil, nil
		}
		return StateDone, []Effect{EffectShowResult, EffectResetControls}, nil

	case EventUploadFailed:
		if current != StateUploading {
			return current, nil, nil
		}
		return StateFailed, []Effect{EffectShowError, EffectResetControls}, nil

	default:
		return current, nil, fmt.Errorf("unknown event kind %d", ev.Kind)
	}
}
