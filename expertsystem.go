package expertsystem

import (
	"context"
	"log/slog"

	"github.com/AndreyBuyanov/ExpertSystem/internal/logging"
	"github.com/AndreyBuyanov/ExpertSystem/internal/runtime"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/ports"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/tree"
)

// Engine is the high-level entry point of the library.
// It wraps the internal runtime and picks a loader by file extension unless one is injected.
//
// An Engine holds one cursor and is not safe for concurrent use;
// serve concurrent users with one Engine each (see pkg/session).
type Engine struct {
	runtime *runtime.Engine
	loader  ports.Loader
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	strict  bool
	policy  runtime.FinishPolicy
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom Loader, bypassing format detection.
func WithLoader(l ports.Loader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine and its default loaders.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithStrict rejects configurations that fail validation instead of skipping bad records.
func WithStrict(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithFinishOnTransition enters the Finished state as soon as an answer is reached,
// instead of when its text is first read. The answer text stays readable until Reset.
func WithFinishOnTransition() Option {
	return func(e *Engine) {
		e.policy = runtime.FinishOnTransition
	}
}

// New creates an engine with nothing loaded.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.loader == nil {
		eng.loader = NewFileLoader(eng.logger)
	}

	eng.runtime = runtime.NewEngine(eng.loader,
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithStrict(eng.strict),
		runtime.WithFinishPolicy(eng.policy),
	)
	return eng
}

// Open creates an engine and loads source into it.
func Open(ctx context.Context, source string, opts ...Option) (*Engine, error) {
	eng := New(opts...)
	if err := eng.Load(ctx, source); err != nil {
		return nil, err
	}
	return eng, nil
}

// Fork returns an engine on the same loaded configuration with a fresh cursor on the root.
// The tree is shared read-only, so forks of one engine may be used from different goroutines.
// opts override the logger, hooks and finish policy; WithLoader and WithStrict only affect later loads.
func (e *Engine) Fork(opts ...Option) *Engine {
	f := *e
	for _, opt := range opts {
		opt(&f)
	}
	if f.logger == nil {
		f.logger = logging.NewNop()
	}
	f.runtime = e.runtime.Fork(
		runtime.WithLogger(f.logger),
		runtime.WithLifecycleHooks(f.hooks),
		runtime.WithStrict(f.strict),
		runtime.WithFinishPolicy(f.policy),
	)
	return &f
}

// Load reads a configuration and resets the cursor to its root.
// On failure it returns a *domain.ConfigurationError and the previous configuration stays active.
func (e *Engine) Load(ctx context.Context, source string) error {
	return e.runtime.Load(ctx, source)
}

// Name returns the name of the loaded system, or "" if nothing is loaded.
func (e *Engine) Name() string { return e.runtime.Name() }

// CurrentData returns the current node's text.
// Reading an answer finishes the session; later reads return "" until Reset.
func (e *Engine) CurrentData() string { return e.runtime.CurrentData() }

// SetAnswer submits an integer answer and reports whether it was accepted.
func (e *Engine) SetAnswer(value int) bool { return e.runtime.SetAnswer(value) }

// IsFinished reports whether the session reached its terminal state.
func (e *Engine) IsFinished() bool { return e.runtime.IsFinished() }

// Reset returns to the root question.
func (e *Engine) Reset() { e.runtime.Reset() }

// State returns a serialisable snapshot of the cursor.
func (e *Engine) State() (*domain.State, error) { return e.runtime.State() }

// Restore applies a snapshot produced by State on an engine loaded with the same configuration.
func (e *Engine) Restore(state *domain.State) error { return e.runtime.Restore(state) }

// Inspect returns the loaded tree for visualization or introspection tools.
func (e *Engine) Inspect() (*tree.Tree, error) { return e.runtime.Inspect() }

// Loader returns the underlying Loader used by the engine.
func (e *Engine) Loader() ports.Loader { return e.loader }
