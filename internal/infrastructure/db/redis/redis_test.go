package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestClientOptions_Defaults(t *testing.T) {
	opts := clientOptions(Config{Addr: "localhost:6379"})

	require.Equal(t, defaultPoolSize, opts.PoolSize)
	require.Equal(t, defaultTimeout, opts.DialTimeout)
	require.Equal(t, defaultTimeout, opts.ReadTimeout)
	require.Equal(t, defaultTimeout, opts.WriteTimeout)
}

func TestClientOptions_Overrides(t *testing.T) {
	opts := clientOptions(Config{Addr: "cache:6380", Password: "pw", DB: 2, PoolSize: 3, Timeout: time.Second})

	require.Equal(t, "cache:6380", opts.Addr)
	require.Equal(t, "pw", opts.Password)
	require.Equal(t, 2, opts.DB)
	require.Equal(t, 3, opts.PoolSize)
	require.Equal(t, time.Second, opts.ReadTimeout)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("secret")

	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), Password: "secret"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	require.Equal(t, "v", got)
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond})
	require.ErrorContains(t, err, "redis ping "+addr)
}

func TestConnect_WrongPassword(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("secret")

	_, err := Connect(context.Background(), Config{Addr: mr.Addr(), Password: "nope"})
	require.Error(t, err)
}
