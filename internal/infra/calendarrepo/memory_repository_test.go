package calendarrepo

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/bazi/internal/domain/bazi"
)

func sampleRecords() []bazi.CalendarRecord {
	return []bazi.CalendarRecord{
		{Date: "1961-09-08", YearPillar: "辛丑", MonthPillar: "丁酉", DayPillar: "甲辰", SolarTerm: "白露"},
		{Date: "1961-09-23", YearPillar: "辛丑", MonthPillar: "丁酉", DayPillar: "己未", SolarTerm: "秋分"},
		{Date: "1961-09-27", YearPillar: "辛丑", MonthPillar: "丁酉", DayPillar: "癸亥", LunarShow: "八月十八", Zodiac: "牛"},
	}
}

func day(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, raw)
	require.NoError(t, err)
	return d
}

func TestMemoryRepositoryLookup(t *testing.T) {
	repo := NewMemoryRepository(sampleRecords()...)
	require.Equal(t, 3, repo.Len())

	rec, ok, err := repo.Lookup(context.Background(), day(t, "1961-09-27"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "癸亥", rec.DayPillar)

	_, ok, err = repo.Lookup(context.Background(), day(t, "1961-09-28"))
	require.NoError(t, err)
	require.False(t, ok)

	repo.Put(bazi.CalendarRecord{Date: " 1961-09-27 ", YearPillar: "辛丑", MonthPillar: "丁酉", DayPillar: "癸亥", LunarShow: "八月十八日"})
	require.Equal(t, 3, repo.Len())
	rec, _, _ = repo.Lookup(context.Background(), day(t, "1961-09-27"))
	require.Equal(t, "八月十八日", rec.LunarShow)

	repo.Put(
		bazi.CalendarRecord{Date: "1961/09/28", YearPillar: "辛丑", MonthPillar: "丁酉", DayPillar: "甲子"},
		bazi.CalendarRecord{Date: "not a date", DayPillar: "乙丑"},
	)
	require.Equal(t, 4, repo.Len())
	rec, ok, _ = repo.Lookup(context.Background(), day(t, "1961-09-28"))
	require.True(t, ok)
	require.Equal(t, "1961-09-28", rec.Date)
}

func TestMemoryRepositoryLatestSolarTerm(t *testing.T) {
	repo := NewMemoryRepository(sampleRecords()...)
	ctx := context.Background()

	term, ok, err := repo.LatestSolarTerm(ctx, day(t, "1961-09-27"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "秋分", term)

	term, ok, _ = repo.LatestSolarTerm(ctx, day(t, "1961-09-08"))
	require.True(t, ok)
	require.Equal(t, "白露", term)

	_, ok, _ = repo.LatestSolarTerm(ctx, day(t, "1961-09-07"))
	require.False(t, ok)
}

func TestDecodeSnapshot(t *testing.T) {
	records, err := DecodeSnapshot(strings.NewReader(`[
		{"date":"1961-09-27","yearPillar":"辛丑","monthPillar":"丁酉","dayPillar":"癸亥","solarTerm":""}
	]`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "丁酉", records[0].MonthPillar)

	_, err = DecodeSnapshot(strings.NewReader(`{"date":`))
	require.Error(t, err)
}

func TestMemoryRepositoryFeedsProfiles(t *testing.T) {
	repo := NewMemoryRepository(sampleRecords()...)
	moment, err := bazi.ParseBirthMoment("1961-09-27 10:30", 114.17, 22.32, bazi.DefaultYearRange)
	require.NoError(t, err)

	profile, res := bazi.ComputeProfile(context.Background(), moment, repo, bazi.DefaultStrongThreshold)
	require.Equal(t, bazi.StrategyCalendar, res.Strategy)
	require.Equal(t, "八月十八", profile.LunarDate)
	require.Equal(t, "秋分", profile.SeasonalGuidance.SolarTerm)
}

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "abc.r2.cloudflarestorage.com", sanitizeEndpoint("https://abc.r2.cloudflarestorage.com/bucket"))
	require.Equal(t, "localhost:9000", sanitizeEndpoint(" http://localhost:9000 "))
	require.Empty(t, sanitizeEndpoint(""))
}
