package domain

// NodeRecord is a question or answer as produced by a loader.
type NodeRecord struct {
	ID   NodeID
	Data string
}

// Connection declares a directed edge from Source to Target, active under Predicate.
type Connection struct {
	Source    NodeID
	Target    NodeID
	Predicate Predicate
}

// Definition is the coherent snapshot a loader produces.
// Questions keep file order: the first question becomes the root.
type Definition struct {
	Name        string
	Questions   []NodeRecord
	Answers     []NodeRecord
	Connections []Connection
}
