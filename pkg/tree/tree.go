// Package tree builds and owns the decision graph of an expert system.
package tree

import (
	"fmt"

	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
)

// Tree owns every node it creates. Nodes live in an insertion-ordered arena
// and are looked up by id through an index into it.
//
// A Tree is not safe for concurrent mutation; once built it is only read.
type Tree struct {
	nodes []*domain.Node
	index map[domain.NodeID]int
	root  *domain.Node
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{index: make(map[domain.NodeID]int)}
}

// Build creates a tree from a definition: questions, then answers, then connections.
// Record-level failures do not stop the build; they are returned alongside
// the tree so the caller can decide whether to log or reject them.
func Build(def *domain.Definition) (*Tree, []error) {
	t := New()
	var issues []error
	for _, q := range def.Questions {
		if err := t.AddQuestion(q.ID, q.Data); err != nil {
			issues = append(issues, err)
		}
	}
	for _, a := range def.Answers {
		if err := t.AddAnswer(a.ID, a.Data); err != nil {
			issues = append(issues, err)
		}
	}
	for _, c := range def.Connections {
		if err := t.AddConnection(c); err != nil {
			issues = append(issues, err)
		}
	}
	return t, issues
}

// AddQuestion registers a question node. The first question added becomes the root.
// A colliding id is rejected and the existing node is kept.
func (t *Tree) AddQuestion(id domain.NodeID, data string) error {
	n, err := t.register(domain.NewQuestion(id, data))
	if err != nil {
		return err
	}
	if t.root == nil {
		t.root = n
	}
	return nil
}

// AddAnswer registers a terminal answer node.
func (t *Tree) AddAnswer(id domain.NodeID, data string) error {
	_, err := t.register(domain.NewAnswer(id, data))
	return err
}

func (t *Tree) register(n *domain.Node) (*domain.Node, error) {
	if _, exists := t.index[n.ID()]; exists {
		return nil, fmt.Errorf("%s %d: %w", n.Type(), n.ID(), domain.ErrDuplicateNode)
	}
	t.index[n.ID()] = len(t.nodes)
	t.nodes = append(t.nodes, n)
	return n, nil
}

// AddConnection attaches an edge between two registered nodes.
// Both ends must already exist and the source must be a question.
func (t *Tree) AddConnection(c domain.Connection) error {
	src, ok := t.Node(c.Source)
	if !ok {
		return fmt.Errorf("connection %d->%d: source: %w", c.Source, c.Target, domain.ErrUnknownNode)
	}
	dst, ok := t.Node(c.Target)
	if !ok {
		return fmt.Errorf("connection %d->%d: target: %w", c.Source, c.Target, domain.ErrUnknownNode)
	}
	if err := src.AddEdge(dst, c.Predicate); err != nil {
		return fmt.Errorf("connection %d->%d: %w", c.Source, c.Target, err)
	}
	return nil
}

// Root returns the first question added.
func (t *Tree) Root() (*domain.Node, error) {
	if t.root == nil {
		return nil, domain.ErrNoRoot
	}
	return t.root, nil
}

// Node looks up a node by id.
func (t *Tree) Node(id domain.NodeID) (*domain.Node, bool) {
	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return t.nodes[i], true
}

// Nodes returns all nodes in insertion order.
func (t *Tree) Nodes() []*domain.Node {
	out := make([]*domain.Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Len returns the number of registered nodes.
func (t *Tree) Len() int { return len(t.nodes) }
