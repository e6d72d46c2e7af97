package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyBuyanov/ExpertSystem/pkg/adapters/memory"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/persistence/middleware"
	contract "github.com/AndreyBuyanov/ExpertSystem/pkg/ports/tests"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, middleware.KeySize)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func sealed(t *testing.T, cfg middleware.EncryptionConfig) middleware.Middleware {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return mw
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := sealed(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	contract.StateStoreContractTest(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_HidesPath(t *testing.T) {
	underlying := memory.NewStore()
	secure := sealed(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	ctx := context.Background()

	state := &domain.State{
		SessionID:     "s1",
		System:        "Cold",
		CurrentNodeID: 11,
		Status:        domain.StatusFinished,
		History:       []domain.NodeID{1, 2, 11},
	}
	require.NoError(t, secure.Save(ctx, "s1", state))

	stored, err := underlying.Load(ctx, "s1")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Sealed)
	assert.Equal(t, "Cold", stored.System)
	assert.Equal(t, domain.StatusFinished, stored.Status)
	assert.Zero(t, stored.CurrentNodeID)
	assert.Empty(t, stored.History)

	loaded, err := secure.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)
	ctx := context.Background()

	oldStore := sealed(t, middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, oldStore.Save(ctx, "s1", &domain.State{System: "Cold", CurrentNodeID: 2}))

	rotated := sealed(t, middleware.EncryptionConfig{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}})(underlying)
	got, err := rotated.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID(2), got.CurrentNodeID)

	withoutFallback := sealed(t, middleware.EncryptionConfig{ActiveKey: newKey})(underlying)
	_, err = withoutFallback.Load(ctx, "s1")
	assert.ErrorContains(t, err, "decryption failed")
}

func TestEncryptionMiddleware_Errors(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	assert.ErrorContains(t, err, "must be 32 bytes")

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	assert.ErrorContains(t, err, "fallback key 0")

	underlying := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, "plain", &domain.State{System: "Cold", CurrentNodeID: 1}))
	secure := sealed(t, middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)

	_, err = secure.Load(ctx, "plain")
	assert.ErrorIs(t, err, middleware.ErrNotSealed)

	_, err = secure.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)
	got, err := middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = middleware.ParseKey("not base64!")
	assert.Error(t, err)

	_, err = middleware.ParseKey(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.ErrorContains(t, err, "32 bytes")
}
