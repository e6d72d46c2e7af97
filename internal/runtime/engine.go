package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AndreyBuyanov/ExpertSystem/internal/logging"
	"github.com/AndreyBuyanov/ExpertSystem/internal/validator"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/ports"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/tree"
)

// FinishPolicy decides when a session enters the Finished state.
type FinishPolicy int

const (
	// FinishOnObserve arms the Finished state when CurrentData reads an answer.
	// After that CurrentData returns "".
	FinishOnObserve FinishPolicy = iota
	// FinishOnTransition arms the Finished state as soon as SetAnswer lands on an answer.
	// CurrentData keeps returning the answer text.
	FinishOnTransition
)

// Engine is the decision tree state machine.
// It walks one tree with one cursor and is not safe for concurrent use.
type Engine struct {
	loader ports.Loader
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	strict bool
	policy FinishPolicy
	now    func() time.Time

	name     string
	tree     *tree.Tree
	current  *domain.Node
	finished bool
	history  []domain.NodeID
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithStrict rejects configurations with validation errors instead of skipping the bad records.
func WithStrict(strict bool) EngineOption {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithFinishPolicy selects when the Finished state is entered.
func WithFinishPolicy(p FinishPolicy) EngineOption {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine that reads configurations through loader.
func NewEngine(loader ports.Loader, opts ...EngineOption) *Engine {
	e := &Engine{
		loader: loader,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load reads source and replaces the current tree, then resets the cursor to the root.
// On failure the previously loaded tree and cursor are left untouched.
// Every failure is a *domain.ConfigurationError.
func (e *Engine) Load(ctx context.Context, source string) error {
	def, err := e.loader.Load(ctx, source)
	if err != nil {
		if !errors.Is(err, domain.ErrConfiguration) {
			err = domain.NewConfigurationError(source, "loader failed", err)
		}
		e.logger.Error("load failed", "source", source, "error", err)
		return err
	}

	t, err := e.build(source, def)
	if err != nil {
		e.logger.Error("load failed", "source", source, "error", err)
		return err
	}
	root, err := t.Root()
	if err != nil {
		err = domain.NewConfigurationError(source, "cannot establish root", err)
		e.logger.Error("load failed", "source", source, "error", err)
		return err
	}

	e.name = def.Name
	e.tree = t
	e.moveToRoot()
	e.logger.Debug("configuration loaded", "source", source, "system", e.name, "nodes", t.Len(), "root", root.ID())
	e.emitNodeEnter(root)
	return nil
}

func (e *Engine) build(source string, def *domain.Definition) (*tree.Tree, error) {
	report := validator.Validate(def)
	if e.strict && report.HasErrors() {
		return nil, domain.NewConfigurationError(source, "validation failed", report.Err())
	}
	for _, f := range report.Findings {
		e.logger.Warn("configuration hazard", "source", source, "kind", f.Kind, "severity", f.Severity, "msg", f.Msg)
	}

	t, issues := tree.Build(def)
	for _, issue := range issues {
		e.logger.Debug("record ignored", "source", source, "error", issue)
	}
	return t, nil
}

// Name returns the name of the loaded system, or "" before the first load.
func (e *Engine) Name() string { return e.name }

// CurrentData returns the text of the current node.
//
// This is not a pure read: under FinishOnObserve, reading an answer arms the
// Finished state, and every later call returns "" until Reset.
func (e *Engine) CurrentData() string {
	if e.current == nil {
		return ""
	}
	if e.finished {
		if e.policy == FinishOnTransition {
			return e.current.Data()
		}
		return ""
	}
	data := e.current.Data()
	if e.current.Type() == domain.NodeAnswer {
		e.finish()
	}
	return data
}

// SetAnswer submits an answer to the current question.
// It returns true and advances the cursor if an edge accepts value.
// Otherwise the cursor does not move and false is returned; this also holds
// when finished, when no configuration is loaded, or when the cursor sits on
// an answer that was not observed yet.
func (e *Engine) SetAnswer(value int) bool {
	if e.current == nil || e.finished || e.current.Type() == domain.NodeAnswer {
		return false
	}
	from := e.current
	next, err := from.Next(value)
	if err != nil {
		e.logger.Debug("answer rejected", "node_id", from.ID(), "value", value, "error", err)
		e.emitAnswer(from.ID(), value, false)
		return false
	}

	e.current = next
	e.history = append(e.history, next.ID())
	e.logger.Debug("answer accepted", "node_id", from.ID(), "value", value, "next", next.ID())
	e.emitAnswer(from.ID(), value, true)
	e.emitNodeEnter(next)

	if e.policy == FinishOnTransition && next.Type() == domain.NodeAnswer {
		e.finish()
	}
	return true
}

// IsFinished reports whether the Finished state has been entered.
func (e *Engine) IsFinished() bool { return e.finished }

// Reset moves the cursor back to the root and clears the Finished state.
// The loaded tree is reused. It is a no-op before the first load.
func (e *Engine) Reset() {
	if e.tree == nil {
		return
	}
	e.moveToRoot()
	e.logger.Debug("session reset", "system", e.name)
	if e.hooks.OnReset != nil {
		e.hooks.OnReset(e.nodeEvent(domain.EventReset, e.current))
	}
}

func (e *Engine) moveToRoot() {
	root, _ := e.tree.Root()
	e.current = root
	e.finished = false
	e.history = []domain.NodeID{root.ID()}
}

func (e *Engine) finish() {
	e.finished = true
	e.logger.Debug("session finished", "system", e.name, "node_id", e.current.ID())
	if e.hooks.OnFinish != nil {
		e.hooks.OnFinish(e.nodeEvent(domain.EventFinish, e.current))
	}
}

// State returns a snapshot of the cursor.
func (e *Engine) State() (*domain.State, error) {
	if e.current == nil {
		return nil, domain.ErrNotLoaded
	}
	status := domain.StatusActive
	if e.finished {
		status = domain.StatusFinished
	}
	return &domain.State{
		System:        e.name,
		CurrentNodeID: e.current.ID(),
		Status:        status,
		History:       append([]domain.NodeID(nil), e.history...),
	}, nil
}

// Restore moves the cursor to a snapshot taken from an engine loaded with the same configuration.
func (e *Engine) Restore(state *domain.State) error {
	if e.tree == nil {
		return domain.ErrNotLoaded
	}
	if state == nil {
		return fmt.Errorf("restore: nil state")
	}
	if state.System != "" && state.System != e.name {
		return fmt.Errorf("restore: state belongs to system %q, loaded %q", state.System, e.name)
	}
	node, ok := e.tree.Node(state.CurrentNodeID)
	if !ok {
		return fmt.Errorf("restore: node %d: %w", state.CurrentNodeID, domain.ErrUnknownNode)
	}
	e.current = node
	e.finished = state.Status == domain.StatusFinished
	e.history = append([]domain.NodeID(nil), state.History...)
	if len(e.history) == 0 {
		e.history = []domain.NodeID{node.ID()}
	}
	return nil
}

// Fork returns an engine that shares the loaded tree and has its own cursor on the root.
// opts override the parent's settings. Forking emits no events and skips validation.
func (e *Engine) Fork(opts ...EngineOption) *Engine {
	f := &Engine{
		loader: e.loader,
		logger: e.logger,
		hooks:  e.hooks,
		strict: e.strict,
		policy: e.policy,
		now:    e.now,
		name:   e.name,
		tree:   e.tree,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.tree != nil {
		f.moveToRoot()
	}
	return f
}

// Inspect returns the loaded tree for visualization or introspection tools.
func (e *Engine) Inspect() (*tree.Tree, error) {
	if e.tree == nil {
		return nil, domain.ErrNotLoaded
	}
	return e.tree, nil
}

func (e *Engine) nodeEvent(typ domain.EventType, n *domain.Node) *domain.NodeEvent {
	return &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: typ, System: e.name},
		NodeID:    n.ID(),
		NodeType:  n.Type(),
	}
}

func (e *Engine) emitNodeEnter(n *domain.Node) {
	if e.hooks.OnNodeEnter != nil {
		e.hooks.OnNodeEnter(e.nodeEvent(domain.EventNodeEnter, n))
	}
}

func (e *Engine) emitAnswer(id domain.NodeID, value int, accepted bool) {
	if e.hooks.OnAnswer == nil {
		return
	}
	e.hooks.OnAnswer(&domain.AnswerEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventAnswer, System: e.name},
		NodeID:    id,
		Value:     value,
		Accepted:  accepted,
	})
}
