package bazi

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestComputeStrengthConcreteChart(t *testing.T) {
	pillars, _ := ResolveFourPillars(context.Background(), mustMoment(t, "1961-09-27 10:30", 114.17, 22.32), NoCalendar)

	strength := ComputeStrength(pillars)
	require.Equal(t, ElementVector{300, 2700, 500, 3008, 2400}, strength)
	require.Equal(t, 8908, strength.Total())

	counts := CountElements(pillars)
	require.Equal(t, ElementVector{0, 3, 1, 2, 2}, counts)
	require.Equal(t, 8, counts.Total())
}

func TestHiddenStems(t *testing.T) {
	require.Equal(t, []Stem{StemGui}, HiddenStems(BranchZi))
	require.Equal(t, []Stem{StemGui, StemXin, StemJi}, HiddenStems(BranchChou))
	require.Equal(t, []Stem{StemJia, StemRen}, HiddenStems(BranchHai))
}

func TestElementVectorJSONIsOrdered(t *testing.T) {
	raw, err := json.Marshal(ElementVector{1, 2, 3, 4, 5})
	require.NoError(t, err)
	require.Equal(t, `{"wood":1,"fire":2,"earth":3,"metal":4,"water":5}`, string(raw))

	var decoded ElementVector
	require.NoError(t, json.Unmarshal([]byte(`{"水":9,"wood":1}`), &decoded))
	require.Equal(t, ElementVector{1, 0, 0, 0, 9}, decoded)
	require.Error(t, json.Unmarshal([]byte(`{"aether":1}`), &decoded))
}

func TestTierFor(t *testing.T) {
	require.Equal(t, TierVeryWeak, TierFor(0))
	require.Equal(t, TierVeryWeak, TierFor(99))
	require.Equal(t, TierWeak, TierFor(100))
	require.Equal(t, TierWeak, TierFor(499))
	require.Equal(t, TierModerate, TierFor(500))
	require.Equal(t, TierModerate, TierFor(1499))
	require.Equal(t, TierAbundant, TierFor(1500))
	require.Equal(t, "!", TierVeryWeak.Mark())
	require.Equal(t, "+", TierAbundant.Mark())
	require.Empty(t, TierModerate.Mark())
}

func TestClassifyPolarity(t *testing.T) {
	res := ClassifyPolarity(StemGui, ElementVector{300, 2700, 500, 3008, 2400})
	require.Equal(t, []Element{Water, Metal}, res.SameType)
	require.Equal(t, []Element{Wood, Fire, Earth}, res.OppositeType)
	require.Equal(t, 5408, res.SameStrength)
	require.Equal(t, 3500, res.OppositeStrength)
	require.InDelta(t, 0.6071, res.Ratio, 1e-4)

	empty := ClassifyPolarity(StemJia, ElementVector{})
	require.Zero(t, empty.Ratio)
	require.Zero(t, empty.OppositePercent())
}

func TestPolaritySumsMatchStrengthTotal(t *testing.T) {
	start := time.Date(1930, 1, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 365*80; day += 11 {
		date := start.AddDate(0, 0, day)
		moment, err := NewBirthMoment(date.Year(), int(date.Month()), date.Day(), (day*7)%24, 0, 116.4, 39.9, DefaultYearRange)
		require.NoError(t, err)
		pillars, _ := ResolveFourPillars(context.Background(), moment, NoCalendar)
		strength := ComputeStrength(pillars)
		res := ClassifyPolarity(pillars.DayMaster(), strength)
		require.Equal(t, strength.Total(), res.SameStrength+res.OppositeStrength)
		require.GreaterOrEqual(t, res.Ratio, 0.0)
		require.LessOrEqual(t, res.Ratio, 1.0)
		require.Len(t, res.SameType, 2)
		require.Len(t, res.OppositeType, 3)
	}
}
