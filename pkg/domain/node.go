package domain

import "fmt"

// NodeID identifies a node. It is unique across a tree and never reused.
type NodeID int

// NodeType is the discriminator of the node variant.
// It is fixed when the node is created.
type NodeType int

const (
	// NodeQuestion presents a prompt and owns outgoing edges.
	NodeQuestion NodeType = iota
	// NodeAnswer presents a conclusion. It is terminal and has no edges.
	NodeAnswer
)

// String returns the configuration spelling of the type ("question" or "answer").
func (t NodeType) String() string {
	switch t {
	case NodeQuestion:
		return "question"
	case NodeAnswer:
		return "answer"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// ParseNodeType maps a configuration value to a NodeType.
func ParseNodeType(s string) (NodeType, bool) {
	switch s {
	case "question":
		return NodeQuestion, true
	case "answer":
		return NodeAnswer, true
	}
	return 0, false
}

// Edge is an outgoing connection of a question, taken iff Predicate accepts the answer.
type Edge struct {
	Target    *Node
	Predicate Predicate
}

// Node is a vertex of the decision tree.
// Use NewQuestion or NewAnswer; the zero value is not usable.
type Node struct {
	id    NodeID
	data  string
	kind  NodeType
	edges []Edge
}

// NewQuestion creates a question node without edges.
func NewQuestion(id NodeID, data string) *Node {
	return &Node{id: id, data: data, kind: NodeQuestion}
}

// NewAnswer creates a terminal answer node.
func NewAnswer(id NodeID, data string) *Node {
	return &Node{id: id, data: data, kind: NodeAnswer}
}

// ID returns the node identifier.
func (n *Node) ID() NodeID { return n.id }

// Data returns the text shown to the user.
func (n *Node) Data() string { return n.data }

// Type returns the node variant.
func (n *Node) Type() NodeType { return n.kind }

// IsQuestion reports whether the node is a question.
func (n *Node) IsQuestion() bool { return n.kind == NodeQuestion }

// Edges returns a copy of the outgoing edges in insertion order.
// Answers always return nil.
func (n *Node) Edges() []Edge {
	if len(n.edges) == 0 {
		return nil
	}
	out := make([]Edge, len(n.edges))
	copy(out, n.edges)
	return out
}

// AddEdge appends an edge to target guarded by p.
// Duplicates are not detected: both edges are kept and the first one wins.
func (n *Node) AddEdge(target *Node, p Predicate) error {
	if n.kind != NodeQuestion {
		return fmt.Errorf("node %d: %w", n.id, ErrNotAQuestion)
	}
	if target == nil {
		return fmt.Errorf("node %d: edge target is nil", n.id)
	}
	if p == nil {
		return fmt.Errorf("node %d: edge to %d has no predicate", n.id, target.id)
	}
	n.edges = append(n.edges, Edge{Target: target, Predicate: p})
	return nil
}

// Next returns the target of the first edge whose predicate accepts value.
// It returns ErrNoTransition when nothing matches and ErrNotAQuestion on answers.
func (n *Node) Next(value int) (*Node, error) {
	if n.kind != NodeQuestion {
		return nil, fmt.Errorf("node %d: %w", n.id, ErrNotAQuestion)
	}
	for _, e := range n.edges {
		if e.Predicate.Accept(value) {
			return e.Target, nil
		}
	}
	return nil, ErrNoTransition
}
