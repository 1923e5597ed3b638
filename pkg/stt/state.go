package stt

// State is the connection state of a streaming session.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateEnding
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateEnding:
		return "ending"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// validTransitions encodes the session lifecycle. Close is the one forced
// transition handled outside this table: it lands in Closed from anywhere.
var validTransitions = map[State][]State{
	StateIdle:       {StateConnecting},
	StateConnecting: {StateOpen, StateFailed},
	StateOpen:       {StateEnding, StateClosed, StateFailed},
	StateEnding:     {StateClosed, StateFailed},
}

func transitionValid(from, to State) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
