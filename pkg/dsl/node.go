package dsl

import "github.com/AndreyBuyanov/ExpertSystem/pkg/domain"

// NodeBuilder provides a fluent API for the outgoing edges of a question.
// Edges are tried in declaration order.
type NodeBuilder struct {
	id      domain.NodeID
	builder *Builder
}

// When adds an edge to target, taken when p accepts the answer.
func (n *NodeBuilder) When(p domain.Predicate, target domain.NodeID) *NodeBuilder {
	n.builder.def.Connections = append(n.builder.def.Connections, domain.Connection{
		Source:    n.id,
		Target:    target,
		Predicate: p,
	})
	return n
}

// Is adds an edge taken when the answer equals value.
func (n *NodeBuilder) Is(value int, target domain.NodeID) *NodeBuilder {
	return n.When(domain.Equals(value), target)
}

// Yes adds an edge taken on 1.
func (n *NodeBuilder) Yes(target domain.NodeID) *NodeBuilder {
	return n.Is(1, target)
}

// No adds an edge taken on 0.
func (n *NodeBuilder) No(target domain.NodeID) *NodeBuilder {
	return n.Is(0, target)
}

// Range adds an edge taken when minValue <= answer <= maxValue.
func (n *NodeBuilder) Range(minValue, maxValue int, target domain.NodeID) *NodeBuilder {
	return n.When(domain.Between(minValue, maxValue), target)
}

// AnyOf adds an edge taken when the answer is one of values.
func (n *NodeBuilder) AnyOf(target domain.NodeID, values ...int) *NodeBuilder {
	return n.When(domain.AnyOf(values...), target)
}

// Builder returns the parent builder.
func (n *NodeBuilder) Builder() *Builder {
	return n.builder
}
