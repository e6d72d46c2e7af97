package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyBuyanov/ExpertSystem/pkg/adapters/sqlite"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
	contract "github.com/AndreyBuyanov/ExpertSystem/pkg/ports/tests"
)

func TestSQLiteStore_Contract(t *testing.T) {
	store, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	contract.StateStoreContractTest(t, store)
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", sqlite.DefaultFile)
	ctx := context.Background()

	store, err := sqlite.Open(path)
	require.NoError(t, err)
	state := &domain.State{
		SessionID:     "alpha",
		System:        "Headache",
		CurrentNodeID: 2,
		Status:        domain.StatusFinished,
		History:       []domain.NodeID{1, 2},
	}
	require.NoError(t, store.Save(ctx, "alpha", state))
	require.NoError(t, store.Close())

	reopened, err := sqlite.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, state, got)
}
