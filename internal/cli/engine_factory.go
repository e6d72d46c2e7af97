package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/AndreyBuyanov/ExpertSystem"
	"github.com/AndreyBuyanov/ExpertSystem/internal/config"
	"github.com/AndreyBuyanov/ExpertSystem/internal/logging"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/session"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/tree"
)

// NewLogger builds the application logger on stderr, keeping stdout for the dialog.
func NewLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(os.Stderr, level, cfg.LogFormat == "json"), nil
}

// EngineOptions maps the configuration onto engine options.
func EngineOptions(cfg *config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) []expertsystem.Option {
	opts := []expertsystem.Option{
		expertsystem.WithLogger(logger),
		expertsystem.WithLifecycleHooks(hooks),
		expertsystem.WithStrict(cfg.Strict),
	}
	if cfg.FinishPolicy == config.FinishOnTransition {
		opts = append(opts, expertsystem.WithFinishOnTransition())
	}
	return opts
}

// NewEngine opens the configured system.
func NewEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*expertsystem.Engine, error) {
	if cfg.System == "" {
		return nil, fmt.Errorf("no expert system configuration given")
	}
	return expertsystem.Open(ctx, cfg.System, EngineOptions(cfg, logger, hooks)...)
}

// NewSessionFactory loads the configured system once and returns a factory
// that forks a session engine from it. Hooks only fire on the forks.
func NewSessionFactory(ctx context.Context, cfg *config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) (session.Factory, error) {
	template, err := NewEngine(ctx, cfg, logger, domain.LifecycleHooks{})
	if err != nil {
		return nil, err
	}
	return forkFactory(template, hooks), nil
}

func forkFactory(template *expertsystem.Engine, hooks domain.LifecycleHooks) session.Factory {
	return func(ctx context.Context) (session.Engine, error) {
		return template.Fork(expertsystem.WithLifecycleHooks(hooks)), nil
	}
}

// Service is a session manager over the configured store and system.
type Service struct {
	Manager *session.Manager
	// Tree is the loaded decision tree, shared by every session.
	Tree        *tree.Tree
	persistence *Persistence
}

// Close releases the session store.
func (s *Service) Close() error {
	return s.persistence.Close()
}

// NewService opens the configured store and system and wires them into a session.Manager.
func NewService(ctx context.Context, cfg *config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*Service, error) {
	template, err := NewEngine(ctx, cfg, logger, domain.LifecycleHooks{})
	if err != nil {
		return nil, err
	}
	t, err := template.Inspect()
	if err != nil {
		return nil, err
	}

	p, err := NewPersistence(cfg)
	if err != nil {
		return nil, err
	}
	mgr := session.NewManager(p.Store, forkFactory(template, hooks),
		session.WithLocker(p.Locker),
		session.WithLogger(logger),
		session.WithLockTTL(cfg.Store.LockTTL),
	)
	return &Service{Manager: mgr, Tree: t, persistence: p}, nil
}
