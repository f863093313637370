package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newThrottle(t *testing.T, max int, window time.Duration) (*LoginThrottle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginThrottle(client, max, window), mr
}

func TestLoginThrottle_BlocksAfterMaxFailures(t *testing.T) {
	ctx := context.Background()
	th, _ := newThrottle(t, 3, time.Minute)

	for i := 0; i < 2; i++ {
		require.NoError(t, th.RecordFailure(ctx, "a@x.com"))
	}
	blocked, err := th.Blocked(ctx, "a@x.com")
	require.NoError(t, err)
	require.False(t, blocked)

	require.NoError(t, th.RecordFailure(ctx, "a@x.com"))
	blocked, err = th.Blocked(ctx, "a@x.com")
	require.NoError(t, err)
	require.True(t, blocked)

	other, err := th.Blocked(ctx, "b@x.com")
	require.NoError(t, err)
	require.False(t, other)
}

func TestLoginThrottle_WindowExpires(t *testing.T) {
	ctx := context.Background()
	th, mr := newThrottle(t, 1, time.Minute)

	require.NoError(t, th.RecordFailure(ctx, "a@x.com"))
	require.Equal(t, time.Minute, mr.TTL("login:failures:a@x.com"))

	mr.FastForward(time.Minute + time.Second)

	blocked, err := th.Blocked(ctx, "a@x.com")
	require.NoError(t, err)
	require.False(t, blocked)
}

func TestLoginThrottle_WindowNotExtendedByLaterFailures(t *testing.T) {
	ctx := context.Background()
	th, mr := newThrottle(t, 10, time.Minute)

	require.NoError(t, th.RecordFailure(ctx, "a@x.com"))
	mr.FastForward(30 * time.Second)
	require.NoError(t, th.RecordFailure(ctx, "a@x.com"))

	require.Equal(t, 30*time.Second, mr.TTL("login:failures:a@x.com"))
}

func TestLoginThrottle_EveryFailureLeavesATTL(t *testing.T) {
	ctx := context.Background()
	th, mr := newThrottle(t, 5, time.Minute)
	key := "login:failures:a@x.com"

	for i := 0; i < 5; i++ {
		require.NoError(t, th.RecordFailure(ctx, "a@x.com"))
		require.Positive(t, mr.TTL(key), "failure %d left the counter without expiry", i+1)
	}
}

func TestLoginThrottle_RestoresMissingTTL(t *testing.T) {
	ctx := context.Background()
	th, mr := newThrottle(t, 5, time.Minute)
	key := "login:failures:a@x.com"

	// A counter left without expiry, e.g. by an older writer.
	require.NoError(t, mr.Set(key, "4"))
	require.Zero(t, mr.TTL(key))

	require.NoError(t, th.RecordFailure(ctx, "a@x.com"))
	require.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(time.Minute + time.Second)
	blocked, err := th.Blocked(ctx, "a@x.com")
	require.NoError(t, err)
	require.False(t, blocked)
}

func TestLoginThrottle_Reset(t *testing.T) {
	ctx := context.Background()
	th, mr := newThrottle(t, 1, time.Minute)

	require.NoError(t, th.RecordFailure(ctx, "a@x.com"))
	require.NoError(t, th.Reset(ctx, "a@x.com"))
	require.False(t, mr.Exists("login:failures:a@x.com"))

	blocked, err := th.Blocked(ctx, "a@x.com")
	require.NoError(t, err)
	require.False(t, blocked)
}

func TestLoginThrottle_RedisDown(t *testing.T) {
	ctx := context.Background()
	th, mr := newThrottle(t, 1, time.Minute)
	mr.Close()

	_, err := th.Blocked(ctx, "a@x.com")
	require.Error(t, err)
	require.Error(t, th.RecordFailure(ctx, "a@x.com"))
}

func TestNewLoginThrottle_Defaults(t *testing.T) {
	th := NewLoginThrottle(nil, 0, 0)
	require.Equal(t, int64(defaultMaxFailures), th.maxFailures)
	require.Equal(t, defaultFailureWindow, th.window)
}
