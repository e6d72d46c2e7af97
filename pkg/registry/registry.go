// Package registry maps file extensions to the loaders that parse them.
package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/ports"
)

// Registry manages the available formats.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]ports.Loader
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		loaders: make(map[string]ports.Loader),
	}
}

// Register binds loader to each extension, with or without the leading dot.
// An extension registered twice is overwritten.
func (r *Registry) Register(loader ports.Loader, exts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range exts {
		r.loaders[normalize(ext)] = loader
	}
}

// Extensions lists the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.loaders))
	for ext := range r.loaders {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Load dispatches source to the loader registered for its extension.
func (r *Registry) Load(ctx context.Context, source string) (*domain.Definition, error) {
	ext := normalize(filepath.Ext(source))
	r.mu.RLock()
	loader, ok := r.loaders[ext]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.NewConfigurationError(source, fmt.Sprintf("unsupported format %q", ext), nil)
	}
	return loader.Load(ctx, source)
}

func normalize(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
