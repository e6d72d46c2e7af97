package cli_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyBuyanov/ExpertSystem/internal/adapters/file"
	"github.com/AndreyBuyanov/ExpertSystem/internal/cli"
	"github.com/AndreyBuyanov/ExpertSystem/internal/config"
	"github.com/AndreyBuyanov/ExpertSystem/internal/logging"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/session"
)

func TestNewEngine(t *testing.T) {
	cfg := config.Default()
	_, err := cli.NewEngine(context.Background(), cfg, logging.NewNop(), domain.LifecycleHooks{})
	assert.ErrorContains(t, err, "no expert system")

	cfg.System = headache
	cfg.FinishPolicy = config.FinishOnTransition
	eng, err := cli.NewEngine(context.Background(), cfg, logging.NewNop(), domain.LifecycleHooks{})
	require.NoError(t, err)
	require.True(t, eng.SetAnswer(1))
	assert.True(t, eng.IsFinished())
}

func TestNewSessionFactory(t *testing.T) {
	cfg := config.Default()
	cfg.System = "../../examples/systems/cold.yaml"
	cfg.Strict = true

	factory, err := cli.NewSessionFactory(context.Background(), cfg, logging.NewNop(), domain.LifecycleHooks{})
	require.NoError(t, err)

	a, err := factory(context.Background())
	require.NoError(t, err)
	b, err := factory(context.Background())
	require.NoError(t, err)

	require.True(t, a.SetAnswer(1))
	assert.Equal(t, "Do you have a fever?", b.CurrentData(), "engines do not share a cursor")

	cfg.System = "missing.xml"
	_, err = cli.NewSessionFactory(context.Background(), cfg, logging.NewNop(), domain.LifecycleHooks{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestNewPersistence(t *testing.T) {
	mr := miniredis.RunT(t)

	for _, kind := range []string{config.StoreMemory, config.StoreFile, config.StoreSQLite, config.StoreRedis} {
		t.Run(kind, func(t *testing.T) {
			cfg := config.Default()
			cfg.Store.Kind = kind
			cfg.Store.Path = t.TempDir()
			cfg.Redis.Addr = mr.Addr()

			p, err := cli.NewPersistence(cfg)
			require.NoError(t, err)
			defer p.Close()
			assert.Equal(t, kind == config.StoreRedis, p.Locker != nil)

			cfg.System = headache
			factory, err := cli.NewSessionFactory(context.Background(), cfg, logging.NewNop(), domain.LifecycleHooks{})
			require.NoError(t, err)
			mgr := session.NewManager(p.Store, factory, session.WithLocker(p.Locker))

			view, err := mgr.Start(context.Background())
			require.NoError(t, err)

			var out bytes.Buffer
			require.NoError(t, cli.ListSessions(context.Background(), p.Store, &out))
			assert.Contains(t, out.String(), view.ID)
			assert.Contains(t, out.String(), "Headache")

			out.Reset()
			require.NoError(t, cli.ShowSession(context.Background(), p.Store, view.ID, &out))
			assert.Contains(t, out.String(), `"current_node_id": 1`)

			out.Reset()
			require.NoError(t, cli.RemoveSession(context.Background(), p.Store, view.ID, &out))
			out.Reset()
			require.NoError(t, cli.ListSessions(context.Background(), p.Store, &out))
			assert.Equal(t, ">>> No sessions.\n", out.String())
		})
	}

	_, err := cli.NewPersistence(&config.Config{Store: config.StoreConfig{Kind: "tape"}})
	assert.Error(t, err)
}

func TestNewPersistence_Encrypted(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
	dir := t.TempDir()

	cfg := config.Default()
	cfg.System = headache
	cfg.Store.Kind = config.StoreFile
	cfg.Store.Path = dir
	cfg.Store.EncryptionKey = key

	p, err := cli.NewPersistence(cfg)
	require.NoError(t, err)
	factory, err := cli.NewSessionFactory(context.Background(), cfg, logging.NewNop(), domain.LifecycleHooks{})
	require.NoError(t, err)
	mgr := session.NewManager(p.Store, factory)

	view, err := mgr.Start(context.Background())
	require.NoError(t, err)
	answered, accepted, err := mgr.Answer(context.Background(), view.ID, 1)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, "see a doctor", answered.Data)

	raw, err := file.New(dir).Load(context.Background(), view.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, raw.Sealed)
	assert.Empty(t, raw.History)

	got, err := mgr.Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.True(t, got.Finished, "the finish latch survives the sealed round trip")
	assert.Empty(t, got.Data)

	cfg.Store.EncryptionKey = "c2hvcnQ="
	_, err = cli.NewPersistence(cfg)
	assert.ErrorContains(t, err, "store.encryption_key")
}

func TestNewService(t *testing.T) {
	cfg := config.Default()
	cfg.System = headache
	cfg.Store.Kind = config.StoreFile
	cfg.Store.Path = t.TempDir()

	var entered []domain.NodeID
	hooks := domain.LifecycleHooks{
		OnNodeEnter: func(e *domain.NodeEvent) { entered = append(entered, e.NodeID) },
	}
	svc, err := cli.NewService(context.Background(), cfg, logging.NewNop(), hooks)
	require.NoError(t, err)
	defer svc.Close()
	assert.Equal(t, 3, svc.Tree.Len())

	view, err := svc.Manager.Start(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entered, "forked session engines do not re-announce the root")

	view, accepted, err := svc.Manager.Answer(context.Background(), view.ID, 1)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, "see a doctor", view.Data)
	assert.Equal(t, []domain.NodeID{2}, entered)
}
