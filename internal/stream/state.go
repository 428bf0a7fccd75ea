package stream

// State is the connection lifecycle phase.
type State string

const (
	// StateDisconnected means no connection and no retry scheduled.
	StateDisconnected State = "disconnected"
	// StateConnecting means a dial attempt is in flight.
	StateConnecting State = "connecting"
	// StateConnected means the stream is live.
	StateConnected State = "connected"
	// StateReconnectPending means the single reconnect timer is armed.
	StateReconnectPending State = "reconnect_pending"
)

// IsValid checks whether the state is one of the defined phases.
func (s State) IsValid() bool {
	switch s {
	case StateDisconnected, StateConnecting, StateConnected, StateReconnectPending:
		return true
	}
	return false
}

// String returns the state as a string.
func (s State) String() string {
	return string(s)
}
