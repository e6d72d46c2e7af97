package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter EventType = "node_enter"
	EventAnswer    EventType = "answer"
	EventFinish    EventType = "finish"
	EventReset     EventType = "reset"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	System    string    `json:"system"`
}

// NodeEvent is emitted when the cursor moves onto a node, and on finish.
type NodeEvent struct {
	EventBase
	NodeID   NodeID   `json:"node_id"`
	NodeType NodeType `json:"node_type"`
}

// AnswerEvent is emitted for every submitted answer.
type AnswerEvent struct {
	EventBase
	NodeID   NodeID `json:"node_id"`
	Value    int    `json:"value"`
	Accepted bool   `json:"accepted"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnNodeEnter func(*NodeEvent)
	OnAnswer    func(*AnswerEvent)
	OnFinish    func(*NodeEvent)
	OnReset     func(*NodeEvent)
}

// Merge returns hooks that call h first and then o.
func (h LifecycleHooks) Merge(o LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnNodeEnter: chain(h.OnNodeEnter, o.OnNodeEnter),
		OnAnswer:    chain(h.OnAnswer, o.OnAnswer),
		OnFinish:    chain(h.OnFinish, o.OnFinish),
		OnReset:     chain(h.OnReset, o.OnReset),
	}
}

func chain[E any](a, b func(E)) func(E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e E) {
		a(e)
		b(e)
	}
}
