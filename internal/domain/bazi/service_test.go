package bazi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	apperrors "github.com/yanqian/bazi/pkg/errors"
	"github.com/yanqian/bazi/pkg/metrics"
)

type stubCache struct {
	mu      sync.Mutex
	items   map[string]Profile
	getErr  error
	setErr  error
	setTTLs []time.Duration
}

func newStubCache() *stubCache {
	return &stubCache{items: map[string]Profile{}}
}

func (c *stubCache) Get(_ context.Context, key string) (Profile, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return Profile{}, false, c.getErr
	}
	p, ok := c.items[key]
	return p, ok, nil
}

func (c *stubCache) Set(_ context.Context, key string, profile Profile, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setTTLs = append(c.setTTLs, ttl)
	if c.setErr != nil {
		return c.setErr
	}
	c.items[key] = profile
	return nil
}

func newTestService(cal CalendarLookup, cache ProfileCache, stats *metrics.ResolutionStats) Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(Config{CacheTTL: time.Hour, BatchWorkers: 3}, cal, cache, stats, logger)
}

func ptr(v float64) *float64 { return &v }

func TestServiceComputeCachesProfiles(t *testing.T) {
	cache := newStubCache()
	stats := metrics.NewResolutionStats()
	svc := newTestService(nil, cache, stats)
	req := Request{BirthTime: "1961-09-27 10:30", Longitude: ptr(114.17), Latitude: ptr(22.32)}

	first, err := svc.Compute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "辛丑 丁酉 癸亥 丁巳", first.FourPillars.String())
	require.Len(t, cache.items, 1)
	require.Equal(t, []time.Duration{time.Hour}, cache.setTTLs)

	second, err := svc.Compute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, first, second)

	snap := stats.Snapshot()
	require.Equal(t, int64(1), snap.Computed)
	require.Equal(t, int64(1), snap.AnalyticFallbacks)
	require.Equal(t, int64(1), snap.CacheHits)
	require.Equal(t, int64(1), snap.CacheMisses)
}

func TestServiceComputeSurvivesCacheFailures(t *testing.T) {
	cache := newStubCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")
	svc := newTestService(nil, cache, nil)

	profile, err := svc.Compute(context.Background(), Request{BirthTime: "2024-02-05 10:00", Longitude: ptr(120), Latitude: ptr(30)})
	require.NoError(t, err)
	require.Equal(t, "甲辰", profile.FourPillars.Year.String())
}

func TestServiceComputeRecordsCalendarGaps(t *testing.T) {
	stats := metrics.NewResolutionStats()
	svc := newTestService(&stubCalendar{err: errors.New("no such table: wannianli")}, nil, stats)

	profile, err := svc.Compute(context.Background(), Request{BirthTime: "1961-09-27 10:30", Longitude: ptr(114.17), Latitude: ptr(22.32)})
	require.NoError(t, err)
	require.Equal(t, "辛丑 丁酉 癸亥 丁巳", profile.FourPillars.String())

	snap := stats.Snapshot()
	require.Equal(t, int64(1), snap.AnalyticFallbacks)
	require.Equal(t, int64(1), snap.DataGaps)
}

func TestServiceComputeValidation(t *testing.T) {
	stats := metrics.NewResolutionStats()
	svc := newTestService(nil, nil, stats)
	cases := []Request{
		{BirthTime: "1961-09-27 10:30", Latitude: ptr(22.32)},
		{BirthTime: "1961-09-27 10:30", Longitude: ptr(114.17)},
		{BirthTime: "1850-01-01 10:30", Longitude: ptr(114.17), Latitude: ptr(22.32)},
		{BirthTime: "yesterday", Longitude: ptr(114.17), Latitude: ptr(22.32)},
		{BirthTime: "1961-09-27 10:30", Longitude: ptr(214.17), Latitude: ptr(22.32)},
	}
	for _, req := range cases {
		_, err := svc.Compute(context.Background(), req)
		require.Error(t, err)
		require.True(t, apperrors.IsCode(err, CodeInvalidInput), req.BirthTime)
	}
	require.Equal(t, int64(len(cases)), stats.Snapshot().Failures)
}

func TestServiceComputeBatchIsolatesFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := newTestService(nil, nil, nil)
	reqs := []Request{
		{BirthTime: "1961-09-27 10:30", Longitude: ptr(114.17), Latitude: ptr(22.32)},
		{BirthTime: "not a time", Longitude: ptr(114.17), Latitude: ptr(22.32)},
		{BirthTime: "2024-02-03 10:00", Longitude: ptr(120), Latitude: ptr(30)},
		{BirthTime: "2024-02-05 10:00", Longitude: ptr(120), Latitude: ptr(30)},
		{BirthTime: "1953-01-03 08:00", Longitude: ptr(120), Latitude: ptr(30)},
	}

	results := svc.ComputeBatch(context.Background(), reqs)
	require.Len(t, results, len(reqs))

	ids := map[string]bool{}
	for i, r := range results {
		require.Equal(t, i, r.Index)
		require.NotEmpty(t, r.ID)
		ids[r.ID] = true
	}
	require.Len(t, ids, len(reqs))

	require.True(t, apperrors.IsCode(results[1].Err, CodeInvalidInput))
	require.Nil(t, results[1].Profile)
	require.Equal(t, "辛丑", results[0].Profile.FourPillars.Year.String())
	require.Equal(t, "癸卯", results[2].Profile.FourPillars.Year.String())
	require.Equal(t, "甲辰", results[3].Profile.FourPillars.Year.String())
	require.Equal(t, "壬子", results[4].Profile.FourPillars.Month.String())
}

func TestServiceComputeBatchHonoursCanceledContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := newTestService(nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := svc.ComputeBatch(ctx, []Request{{BirthTime: "1961-09-27 10:30", Longitude: ptr(114.17), Latitude: ptr(22.32)}})
	require.Len(t, results, 1)
	require.True(t, apperrors.IsCode(results[0].Err, CodeCanceled))
}

func TestServiceCalendar(t *testing.T) {
	cal := &stubCalendar{records: map[string]CalendarRecord{
		"1961-09-27": {Date: "1961-09-27", YearPillar: "辛丑", MonthPillar: "丁酉", DayPillar: "癸亥"},
	}}
	svc := newTestService(cal, nil, nil)

	rec, found, err := svc.Calendar(context.Background(), "1961-09-27")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "癸亥", rec.DayPillar)

	_, found, err = svc.Calendar(context.Background(), "1961-09-28")
	require.NoError(t, err)
	require.False(t, found)

	_, _, err = svc.Calendar(context.Background(), "27/09/1961")
	require.True(t, apperrors.IsCode(err, CodeInvalidInput))

	failing := newTestService(&stubCalendar{err: errors.New("boom")}, nil, nil)
	_, _, err = failing.Calendar(context.Background(), "1961-09-27")
	require.True(t, apperrors.IsCode(err, CodeCalendarError))
}

func TestProfileCacheKeyDistinguishesThresholds(t *testing.T) {
	moment := mustMoment(t, "1961-09-27 10:30", 114.17, 22.32)

	require.NotEqual(t, profileCacheKey(moment, 0.551), profileCacheKey(moment, 0.554))
	require.Equal(t, profileCacheKey(moment, 0.55), profileCacheKey(moment, 0.55))
	require.True(t, strings.HasSuffix(profileCacheKey(moment, 0.551), "|0.551"))
}
