package calendarrepo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setupSQLiteRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:calendar-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := OpenSQLite(dsn)
	require.NoError(t, err)
	repo := NewSQLiteRepository(db)
	require.NoError(t, repo.Migrate())
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteRepositoryLookup(t *testing.T) {
	repo := setupSQLiteRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, sampleRecords()...))

	rec, ok, err := repo.Lookup(ctx, day(t, "1961-09-27"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "辛丑", rec.YearPillar)
	require.Equal(t, "八月十八", rec.LunarShow)
	require.Equal(t, "牛", rec.Zodiac)

	_, ok, err = repo.Lookup(ctx, day(t, "2030-01-01"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSQLiteRepositoryUpsertReplaces(t *testing.T) {
	repo := setupSQLiteRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, sampleRecords()...))

	updated := sampleRecords()[2]
	updated.LunarShow = "辛丑年八月十八"
	require.NoError(t, repo.Upsert(ctx, updated))

	rec, ok, err := repo.Lookup(ctx, day(t, "1961-09-27"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "辛丑年八月十八", rec.LunarShow)
	require.NoError(t, repo.Upsert(ctx))
}

func TestSQLiteRepositoryLatestSolarTerm(t *testing.T) {
	repo := setupSQLiteRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, sampleRecords()...))

	term, ok, err := repo.LatestSolarTerm(ctx, day(t, "1961-09-27"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "秋分", term)

	_, ok, err = repo.LatestSolarTerm(ctx, day(t, "1961-01-01"))
	require.NoError(t, err)
	require.False(t, ok)
}
