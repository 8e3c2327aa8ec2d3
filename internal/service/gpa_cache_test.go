package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisGPACache(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	cache := NewRedisGPACache(redis.NewClient(&redis.Options{Addr: mini.Addr()}), time.Minute)
	ctx := context.Background()

	lookup, err := cache.Get(ctx, "u0000001")
	require.NoError(t, err)
	require.False(t, lookup.Hit)
	require.Zero(t, lookup.Generation)

	stored, err := cache.Set(ctx, "u0000001", 3.7, lookup.Generation)
	require.NoError(t, err)
	require.True(t, stored)

	lookup, err = cache.Get(ctx, "u0000001")
	require.NoError(t, err)
	require.True(t, lookup.Hit)
	require.Equal(t, 3.7, lookup.GPA)

	mini.FastForward(2 * time.Minute)
	lookup, err = cache.Get(ctx, "u0000001")
	require.NoError(t, err)
	require.False(t, lookup.Hit)

	require.NoError(t, mini.Set(gpaCacheKey("u0000002"), "not-a-number"))
	_, err = cache.Get(ctx, "u0000002")
	require.Error(t, err)

	require.NoError(t, cache.Invalidate(ctx, "u0000002", "u0000003"))
	require.False(t, mini.Exists(gpaCacheKey("u0000002")))
	require.NoError(t, cache.Invalidate(ctx))
}

func TestRedisGPACacheRejectsStaleGeneration(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	cache := NewRedisGPACache(redis.NewClient(&redis.Options{Addr: mini.Addr()}), time.Minute)
	ctx := context.Background()

	before, err := cache.Get(ctx, "u0000001")
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(ctx, "u0000001"))
	generation, err := mini.Get(gpaGenerationKey("u0000001"))
	require.NoError(t, err)
	require.Equal(t, "1", generation)
	require.Greater(t, mini.TTL(gpaGenerationKey("u0000001")), time.Duration(0))

	stored, err := cache.Set(ctx, "u0000001", 4.0, before.Generation)
	require.NoError(t, err)
	require.False(t, stored)
	require.False(t, mini.Exists(gpaCacheKey("u0000001")))

	after, err := cache.Get(ctx, "u0000001")
	require.NoError(t, err)
	require.Equal(t, int64(1), after.Generation)

	stored, err = cache.Set(ctx, "u0000001", 0, after.Generation)
	require.NoError(t, err)
	require.True(t, stored)
	require.True(t, mini.Exists(gpaCacheKey("u0000001")))
}

func TestNewRedisGPACacheWithoutClientIsNil(t *testing.T) {
	require.Nil(t, NewRedisGPACache(nil, time.Minute))
	require.Nil(t, NewNATSGradePublisher(nil, "gema.grades"))
}
