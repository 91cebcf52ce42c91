package chat

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carebot/internal/types"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("CAREBOT_TEST_REDIS")
	if addr == "" {
		t.Skip("CAREBOT_TEST_REDIS not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return rdb
}

func TestRedisSessionStore(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	store := NewRedisSessionStore(rdb, time.Minute)
	id := types.ID("redis-test-" + time.Now().Format("150405.000000"))
	t.Cleanup(func() { _ = store.Reset(ctx, id) })

	sess, err := store.Load(ctx, id)
	require.NoError(t, err)
	require.Len(t, sess.Turns, 1)
	assert.Equal(t, Greeting, sess.Turns[0].Text)

	require.NoError(t, store.Append(ctx, id,
		Turn{Text: "hi", FromUser: true, Timestamp: time.Now()},
		Turn{Text: "hello there", Timestamp: time.Now()},
	))
	sess, err = store.Load(ctx, id)
	require.NoError(t, err)
	require.Len(t, sess.Turns, 3)
	assert.Equal(t, "hi", sess.Turns[1].Text)
	assert.True(t, sess.Turns[1].FromUser)

	ttl, err := rdb.TTL(ctx, sessionKey(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Reset(ctx, id))
	sess, err = store.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, sess.Turns, 1)
}

func TestRedisSessionConcurrentFirstTurns(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	store := NewRedisSessionStore(rdb, time.Minute)
	id := types.ID("redis-race-" + time.Now().Format("150405.000000"))
	t.Cleanup(func() { _ = store.Reset(ctx, id) })

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Append(ctx, id, Turn{Text: "hi", FromUser: true, Timestamp: time.Now()}))
		}()
	}
	wg.Wait()

	sess, err := store.Load(ctx, id)
	require.NoError(t, err)
	require.Len(t, sess.Turns, n+1)
	greetings := 0
	for _, turn := range sess.Turns {
		if turn.Text == Greeting {
			greetings++
		}
	}
	assert.Equal(t, 1, greetings)
	assert.Equal(t, Greeting, sess.Turns[0].Text)
}

func TestRedisConfirmationGuard(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	guard := NewRedisConfirmationGuard(rdb, time.Minute)
	id := types.ID("guard-test-" + time.Now().Format("150405.000000"))
	t.Cleanup(func() {
		_ = rdb.Del(ctx, "carebot:confirm:"+confirmKey(id, types.ProductTV, types.PlanBasic)).Err()
	})

	ok, err := guard.Acquire(ctx, id, types.ProductTV, types.PlanBasic)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.Acquire(ctx, id, types.ProductTV, types.PlanBasic)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = guard.Acquire(ctx, id, types.ProductTV, types.PlanPremium)
	require.NoError(t, err)
	assert.True(t, ok)
	_ = rdb.Del(ctx, "carebot:confirm:"+confirmKey(id, types.ProductTV, types.PlanPremium)).Err()
}

func TestConfirmKeyDistinguishesFields(t *testing.T) {
	a := confirmKey("user1", types.ProductTV, types.PlanBasic)
	assert.Len(t, a, 64)
	assert.Equal(t, a, confirmKey("user1", types.ProductTV, types.PlanBasic))
	assert.NotEqual(t, a, confirmKey("user2", types.ProductTV, types.PlanBasic))
	assert.NotEqual(t, a, confirmKey("user1", types.ProductSIM, types.PlanBasic))
}
