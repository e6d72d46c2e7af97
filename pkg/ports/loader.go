package ports

import (
	"context"

	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
)

// Loader reads a configuration source and produces one coherent Definition.
// This allows the configuration format (XML, YAML, memory) to be decoupled.
type Loader interface {
	// Load parses source (usually a path).
	// Structural failures return a *domain.ConfigurationError.
	// Malformed records are skipped and reported through the loader's logger.
	Load(ctx context.Context, source string) (*domain.Definition, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, source string) (*domain.Definition, error)

func (f LoaderFunc) Load(ctx context.Context, source string) (*domain.Definition, error) {
	return f(ctx, source)
}
