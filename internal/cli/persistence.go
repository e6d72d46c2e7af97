package cli

import (
	"fmt"
	"path/filepath"

	backend "github.com/redis/go-redis/v9"

	"github.com/AndreyBuyanov/ExpertSystem/internal/adapters/file"
	"github.com/AndreyBuyanov/ExpertSystem/internal/config"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/adapters/memory"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/adapters/redis"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/adapters/sqlite"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/persistence/middleware"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/ports"
)

// Persistence is the session storage selected by the configuration.
type Persistence struct {
	Store ports.StateStore
	// Locker is nil unless the store is shared between processes.
	Locker ports.DistributedLocker
	close  func() error
}

// Close releases connections held by the store.
func (p *Persistence) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}

// NewPersistence builds the store named by cfg.Store.Kind, sealed when an
// encryption key is configured.
func NewPersistence(cfg *config.Config) (*Persistence, error) {
	p, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Store.EncryptionKey == "" {
		return p, nil
	}

	seal, err := newEncryption(cfg.Store)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	p.Store = seal(p.Store)
	return p, nil
}

func newEncryption(cfg config.StoreConfig) (middleware.Middleware, error) {
	active, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("store.encryption_key: %w", err)
	}
	mwCfg := middleware.EncryptionConfig{ActiveKey: active}
	for i, s := range cfg.FallbackKeys {
		key, err := middleware.ParseKey(s)
		if err != nil {
			return nil, fmt.Errorf("store.fallback_keys[%d]: %w", i, err)
		}
		mwCfg.FallbackKeys = append(mwCfg.FallbackKeys, key)
	}
	return middleware.NewEncryptionMiddleware(mwCfg)
}

func newBackend(cfg *config.Config) (*Persistence, error) {
	switch cfg.Store.Kind {
	case config.StoreMemory:
		return &Persistence{Store: memory.NewStore()}, nil
	case config.StoreFile:
		return &Persistence{Store: file.New(cfg.Store.Path)}, nil
	case config.StoreSQLite:
		store, err := sqlite.Open(filepath.Join(cfg.Store.Path, sqlite.DefaultFile))
		if err != nil {
			return nil, err
		}
		return &Persistence{Store: store, close: store.Close}, nil
	case config.StoreRedis:
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return &Persistence{
			Store:  redis.NewFromClient(client, redis.WithPrefix(cfg.Redis.Prefix), redis.WithTTL(cfg.Store.TTL)),
			Locker: redis.NewLocker(client, cfg.Redis.Prefix),
			close:  client.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}
}
