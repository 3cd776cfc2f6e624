package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupClient(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	prev := GetClient()
	SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(prev) })
}

func TestSetGetDel(t *testing.T) {
	setupClient(t)
	ctx := context.Background()

	require.NoError(t, Set(ctx, "k", "v", time.Minute))

	got, err := Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", got)

	require.NoError(t, Del(ctx, "k"))
	_, err = Get(ctx, "k")
	require.ErrorIs(t, err, goredis.Nil)
}

func TestSetNX(t *testing.T) {
	setupClient(t)
	ctx := context.Background()

	ok, err := SetNX(ctx, "lock", "a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = SetNX(ctx, "lock", "b", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestInit_BadURL(t *testing.T) {
	require.Error(t, Init("not-a-url", ""))
}
