// Package tests provides reusable contract suites for ports implementations.
package tests

import (
	"context"
	"testing"
	"time"

	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// LoaderContractTest verifies that loading source yields want.
// Predicates are compared by behaviour over probe values, since functions are not comparable.
func LoaderContractTest(t *testing.T, loader ports.Loader, source string, want *domain.Definition, probes ...int) {
	t.Helper()
	ctx := context.Background()

	def, err := loader.Load(ctx, source)
	require.NoError(t, err, "Load should succeed for %s", source)
	require.NotNil(t, def)

	t.Run("Name", func(t *testing.T) {
		assert.Equal(t, want.Name, def.Name)
	})

	t.Run("Nodes", func(t *testing.T) {
		assert.Equal(t, want.Questions, def.Questions)
		assert.Equal(t, want.Answers, def.Answers)
	})

	t.Run("Connections", func(t *testing.T) {
		require.Len(t, def.Connections, len(want.Connections))
		for i, c := range def.Connections {
			w := want.Connections[i]
			assert.Equal(t, w.Source, c.Source, "connection %d source", i)
			assert.Equal(t, w.Target, c.Target, "connection %d target", i)
			require.NotNil(t, c.Predicate, "connection %d predicate", i)
			for _, v := range probes {
				assert.Equal(t, w.Predicate.Accept(v), c.Predicate.Accept(v), "connection %d predicate on %d", i, v)
			}
		}
	})

	t.Run("Snapshot Is Stable", func(t *testing.T) {
		again, err := loader.Load(ctx, source)
		require.NoError(t, err)
		assert.Equal(t, def.Name, again.Name)
		assert.Equal(t, def.Questions, again.Questions)
		assert.Equal(t, def.Answers, again.Answers)
		assert.Len(t, again.Connections, len(def.Connections))
	})
}

// StateStoreContractTest verifies the behaviour every ports.StateStore must share.
func StateStoreContractTest(t *testing.T, store ports.StateStore) {
	t.Helper()
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	newState := func(id string) *domain.State {
		return &domain.State{
			SessionID:     id,
			System:        "Headache",
			CurrentNodeID: 1,
			Status:        domain.StatusActive,
			History:       []domain.NodeID{1},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		state := newState(sessionID)
		state.CurrentNodeID = 2
		state.Status = domain.StatusFinished
		state.History = append(state.History, 2)

		require.NoError(t, store.Save(ctx, sessionID, state), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.CurrentNodeID, loaded.CurrentNodeID)
		assert.Equal(t, state.Status, loaded.Status)
		assert.Equal(t, state.System, loaded.System)
		assert.Equal(t, state.History, loaded.History)
	})

	t.Run("Saved State Is Isolated", func(t *testing.T) {
		state := newState(sessionID)
		require.NoError(t, store.Save(ctx, sessionID, state))
		state.CurrentNodeID = 99

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.NodeID(1), loaded.CurrentNodeID)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, newState(sessionID)))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, newState(id1)))
		require.NoError(t, store.Save(ctx, id2, newState(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
