package dsl

import (
	"errors"
	"fmt"

	"github.com/AndreyBuyanov/ExpertSystem/pkg/adapters/memory"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
)

// Builder manages the system construction.
type Builder struct {
	def  domain.Definition
	seen map[domain.NodeID]struct{}
	errs []error
}

// New creates a builder for a system called name.
func New(name string) *Builder {
	return &Builder{
		def:  domain.Definition{Name: name},
		seen: make(map[domain.NodeID]struct{}),
	}
}

func (b *Builder) claim(id domain.NodeID) {
	if _, ok := b.seen[id]; ok {
		b.errs = append(b.errs, fmt.Errorf("node %d declared twice", id))
		return
	}
	b.seen[id] = struct{}{}
}

// Question declares a question node and returns a builder for its edges.
func (b *Builder) Question(id domain.NodeID, text string) *NodeBuilder {
	b.claim(id)
	b.def.Questions = append(b.def.Questions, domain.NodeRecord{ID: id, Data: text})
	return &NodeBuilder{id: id, builder: b}
}

// Answer declares a terminal node.
func (b *Builder) Answer(id domain.NodeID, text string) *Builder {
	b.claim(id)
	b.def.Answers = append(b.def.Answers, domain.NodeRecord{ID: id, Data: text})
	return b
}

// Definition returns a copy of the declared system.
// Structural checks such as reachability are left to the engine.
func (b *Builder) Definition() (*domain.Definition, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	def := b.def
	def.Questions = append([]domain.NodeRecord(nil), b.def.Questions...)
	def.Answers = append([]domain.NodeRecord(nil), b.def.Answers...)
	def.Connections = append([]domain.Connection(nil), b.def.Connections...)
	return &def, nil
}

// Build compiles the system into a memory loader serving it under source.
func (b *Builder) Build(source string) (*memory.Loader, error) {
	def, err := b.Definition()
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return memory.NewFromDefinition(source, def), nil
}
