package domain

// ExecutionStatus is the state of the engine state machine.
type ExecutionStatus string

const (
	StatusActive   ExecutionStatus = "active"   // cursor on a question, or an answer not yet observed
	StatusFinished ExecutionStatus = "finished" // terminal answer observed
)

// State is a serialisable snapshot of a session cursor.
type State struct {
	SessionID     string          `json:"session_id,omitempty"`
	System        string          `json:"system"`
	CurrentNodeID NodeID          `json:"current_node_id"`
	Status        ExecutionStatus `json:"status"`
	// History lists the nodes visited since the last reset, root first.
	History []NodeID `json:"history,omitempty"`
	// Sealed holds an encrypted snapshot. When set, the cursor fields are blank.
	Sealed string `json:"sealed,omitempty"`
}

// Finished reports whether the snapshot was taken in the Finished state.
func (s *State) Finished() bool { return s.Status == StatusFinished }

// Clone returns a deep copy of the snapshot.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	if s.History != nil {
		c.History = append([]NodeID(nil), s.History...)
	}
	return &c
}
