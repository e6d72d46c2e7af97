package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AndreyBuyanov/ExpertSystem/internal/logging"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/ports"
)

// Engine is the part of the decision engine a session drives.
// *expertsystem.Engine satisfies it.
type Engine interface {
	Name() string
	CurrentData() string
	SetAnswer(value int) bool
	IsFinished() bool
	Reset()
	State() (*domain.State, error)
	Restore(state *domain.State) error
}

// Factory returns an engine with the configuration already loaded.
type Factory func(ctx context.Context) (Engine, error)

// View is what a client sees of a session after an operation.
type View struct {
	ID       string        `json:"id"`
	System   string        `json:"system"`
	NodeID   domain.NodeID `json:"node_id"`
	Data     string        `json:"data"`
	Finished bool          `json:"finished"`
}

// lockEntry is a per-session mutex shared by its concurrent callers.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager runs sessions on top of a StateStore.
type Manager struct {
	store   ports.StateStore
	factory Factory
	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
	newID   func() string

	mu    sync.Mutex
	locks map[string]*lockEntry
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker serialises sessions across processes.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL bounds how long a crashed holder keeps a distributed lock. Default 30s.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithIDGenerator replaces the random UUID session ids.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// NewManager creates a Manager that persists to store and builds engines with factory.
func NewManager(store ports.StateStore, factory Factory, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		factory: factory,
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
		newID:   uuid.NewString,
		locks:   make(map[string]*lockEntry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start opens a new session on the root question.
func (m *Manager) Start(ctx context.Context) (*View, error) {
	id := m.newID()
	var view *View
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		eng, err := m.factory(ctx)
		if err != nil {
			return fmt.Errorf("build engine: %w", err)
		}
		view, err = m.commit(ctx, id, eng)
		return err
	})
	if err != nil {
		return nil, err
	}
	m.logger.Info("session started", "session_id", id, "system", view.System)
	return view, nil
}

// Get returns the current node of a session.
// Under the default finish policy reading an answer finishes the session.
func (m *Manager) Get(ctx context.Context, id string) (*View, error) {
	return m.apply(ctx, id, func(Engine) {})
}

// Answer submits value to the session's current question.
// The returned bool reports whether an edge accepted it.
func (m *Manager) Answer(ctx context.Context, id string, value int) (*View, bool, error) {
	var accepted bool
	view, err := m.apply(ctx, id, func(eng Engine) {
		accepted = eng.SetAnswer(value)
	})
	if err != nil {
		return nil, false, err
	}
	return view, accepted, nil
}

// Reset moves the session back to the root question.
func (m *Manager) Reset(ctx context.Context, id string) (*View, error) {
	return m.apply(ctx, id, func(eng Engine) {
		eng.Reset()
	})
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// Load returns the persisted state of a session.
func (m *Manager) Load(ctx context.Context, id string) (*domain.State, error) {
	var state *domain.State
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, id)
		return err
	})
	return state, err
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying state store.
func (m *Manager) Store() ports.StateStore {
	return m.store
}

func (m *Manager) apply(ctx context.Context, id string, op func(Engine)) (*View, error) {
	var view *View
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		state, err := m.store.Load(ctx, id)
		if err != nil {
			return err
		}
		eng, err := m.factory(ctx)
		if err != nil {
			return fmt.Errorf("build engine: %w", err)
		}
		if err := eng.Restore(state); err != nil {
			return fmt.Errorf("restore session %s: %w", id, err)
		}
		op(eng)
		view, err = m.commit(ctx, id, eng)
		return err
	})
	return view, err
}

// commit reads the current node, which may finish the session, and persists the result.
func (m *Manager) commit(ctx context.Context, id string, eng Engine) (*View, error) {
	data := eng.CurrentData()
	state, err := eng.State()
	if err != nil {
		return nil, err
	}
	state.SessionID = id
	if err := m.store.Save(ctx, id, state); err != nil {
		return nil, fmt.Errorf("save session %s: %w", id, err)
	}
	return &View{
		ID:       id,
		System:   eng.Name(),
		NodeID:   state.CurrentNodeID,
		Data:     data,
		Finished: eng.IsFinished(),
	}, nil
}

// acquire gets or creates the entry for id and takes a reference.
// Callers pair it with release.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[id]
	if !ok {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release drops a reference and forgets the entry when unused.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[id]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// WithLock runs fn while holding the session's local lock and, if configured, its distributed lock.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("lock session %s: %w", id, err)
		}
		defer func() {
			// Release even when the caller has already canceled ctx.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("failed to release distributed lock, it will expire",
					"session_id", id,
					"err", err,
				)
			}
		}()
	}

	err := fn(ctx)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		m.logger.Debug("session operation failed", "session_id", id, "err", err)
	}
	return err
}
