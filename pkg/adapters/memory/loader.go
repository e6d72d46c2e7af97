package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
)

// Loader implements ports.Loader over definitions registered in memory.
// Sources are arbitrary keys; Load returns a copy so callers cannot mutate the registry.
type Loader struct {
	mu   sync.RWMutex
	defs map[string]*domain.Definition
}

// NewLoader creates an empty in-memory loader.
func NewLoader() *Loader {
	return &Loader{defs: make(map[string]*domain.Definition)}
}

// NewFromDefinition creates a loader serving def under source.
// This keeps tests free of configuration files.
func NewFromDefinition(source string, def *domain.Definition) *Loader {
	l := NewLoader()
	l.Add(source, def)
	return l
}

// Add registers (or replaces) the definition served for source.
func (l *Loader) Add(source string, def *domain.Definition) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.defs[source] = cloneDefinition(def)
}

// Load returns the definition registered under source.
func (l *Loader) Load(ctx context.Context, source string) (*domain.Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	def, ok := l.defs[source]
	if !ok {
		return nil, domain.NewConfigurationError(source, "not found", nil)
	}
	return cloneDefinition(def), nil
}

// Sources returns the registered keys in sorted order.
func (l *Loader) Sources() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	keys := make([]string, 0, len(l.defs))
	for k := range l.defs {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys
}

func cloneDefinition(def *domain.Definition) *domain.Definition {
	if def == nil {
		return &domain.Definition{}
	}
	return &domain.Definition{
		Name:        def.Name,
		Questions:   append([]domain.NodeRecord(nil), def.Questions...),
		Answers:     append([]domain.NodeRecord(nil), def.Answers...),
		Connections: append([]domain.Connection(nil), def.Connections...),
	}
}
