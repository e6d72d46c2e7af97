package redis_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyBuyanov/ExpertSystem/pkg/adapters/redis"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
	contract "github.com/AndreyBuyanov/ExpertSystem/pkg/ports/tests"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestStore_Contract(t *testing.T) {
	_, client := newClient(t)
	contract.StateStoreContractTest(t, redis.NewFromClient(client))
}

func TestStore_TTL(t *testing.T) {
	mr, client := newClient(t)
	now := time.Unix(1_700_000_000, 0)
	store := redis.NewFromClient(client,
		redis.WithTTL(time.Minute),
		redis.WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", &domain.State{System: "Headache", CurrentNodeID: 1}))
	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)

	mr.FastForward(2 * time.Minute)
	now = now.Add(2 * time.Minute)

	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("triage:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", &domain.State{CurrentNodeID: 3}))
	assert.True(t, mr.Exists("triage:abc"))
	assert.True(t, mr.Exists("triage:index"))

	require.NoError(t, store.Delete(ctx, "abc"))
	assert.False(t, mr.Exists("triage:abc"))
	require.NoError(t, store.Delete(ctx, "abc"), "deleting twice is fine")
}

func TestStore_CorruptPayload(t *testing.T) {
	mr, client := newClient(t)
	require.NoError(t, mr.Set(redis.DefaultPrefix+"bad", "{not json"))

	_, err := redis.NewFromClient(client).Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestLocker_MutualExclusion(t *testing.T) {
	_, client := newClient(t)
	locker := redis.NewLocker(client, "", redis.WithRetryInterval(5*time.Millisecond))
	ctx := context.Background()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "session-1", time.Second)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			assert.NoError(t, unlock(ctx))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestLocker_ContextTimeout(t *testing.T) {
	_, client := newClient(t)
	locker := redis.NewLocker(client, "", redis.WithRetryInterval(5*time.Millisecond))

	unlock, err := locker.Lock(context.Background(), "busy", time.Minute)
	require.NoError(t, err)
	defer func() { _ = unlock(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "busy", time.Minute)
	assert.ErrorIs(t, err, redis.ErrLockAcquire)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocker_UnlockKeepsForeignLock(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "p:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "k", time.Second)
	require.NoError(t, err)

	// The lock expired and another holder took it over.
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("p:lock:k", "someone-else"))

	require.NoError(t, unlock(ctx))
	assert.True(t, mr.Exists("p:lock:k"))
}
