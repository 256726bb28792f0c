package profilecache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/bazi/internal/domain/bazi"
)

func TestMemoryCacheExpiresEntries(t *testing.T) {
	now := time.Date(2024, 2, 4, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	profile := bazi.Profile{BirthTime: "1961-09-27 10:30", Score: 80}
	require.NoError(t, cache.Set(ctx, "short", profile, time.Minute))
	require.NoError(t, cache.Set(ctx, "forever", profile, 0))

	got, ok, err := cache.Get(ctx, "short")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 80, got.Score)

	now = now.Add(2 * time.Minute)
	_, ok, err = cache.Get(ctx, "short")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, cache.Len())

	_, ok, err = cache.Get(ctx, "forever")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = cache.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCacheIsolatesStoredProfiles(t *testing.T) {
	ctx := context.Background()
	moment, err := bazi.ParseBirthMoment("1961-09-27 10:30", 114.17, 22.32, bazi.DefaultYearRange)
	require.NoError(t, err)
	profile, _ := bazi.ComputeProfile(ctx, moment, nil, bazi.DefaultStrongThreshold)
	require.NotEmpty(t, profile.Favorable.Favorable)
	want := profile.Favorable.Favorable[0].Element

	cache := NewMemoryCache()
	require.NoError(t, cache.Set(ctx, "k", profile, time.Hour))
	profile.Favorable.Favorable[0].Element = bazi.Fire

	got, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got.Favorable.Favorable[0].Element)

	got.Favorable.Favorable[0].Element = bazi.Fire
	got.Favorable.Notes[0] = "changed"
	got.Polarity.SameType[0] = bazi.Fire

	again, _, _ := cache.Get(ctx, "k")
	require.Equal(t, want, again.Favorable.Favorable[0].Element)
	require.NotEqual(t, "changed", again.Favorable.Notes[0])
	require.NotEqual(t, got.Polarity.SameType[0], again.Polarity.SameType[0])
}
