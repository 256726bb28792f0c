package bazi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyBoundariesAreInclusive(t *testing.T) {
	strong := ClassifyPolarity(StemJia, ElementVector{550, 225, 225, 0, 0})
	require.Equal(t, Strong, Classify(strong.Ratio, DefaultStrongThreshold))

	weak := ClassifyPolarity(StemJia, ElementVector{450, 550, 0, 0, 0})
	require.Equal(t, Weak, Classify(weak.Ratio, DefaultStrongThreshold))

	require.Equal(t, Balanced, Classify(0.5, DefaultStrongThreshold))
	require.Equal(t, Balanced, Classify(0.549, DefaultStrongThreshold))
	require.Equal(t, Weak, Classify(0, DefaultStrongThreshold))
	require.Equal(t, Strong, Classify(0.6, 0.6))
}

func TestRoleOf(t *testing.T) {
	require.Equal(t, RolePeer, RoleOf(Water, Water))
	require.Equal(t, RoleSeal, RoleOf(Water, Metal))
	require.Equal(t, RoleOutput, RoleOf(Water, Wood))
	require.Equal(t, RoleWealth, RoleOf(Water, Fire))
	require.Equal(t, RoleOfficer, RoleOf(Water, Earth))
	require.Equal(t, "官杀", RoleOfficer.Label())
}

func TestResolveFavorableStrongExcludesAbundant(t *testing.T) {
	polarity := ClassifyPolarity(StemGui, ElementVector{300, 2700, 500, 3008, 2400})
	set := ResolveFavorable(StemGui, BranchYou, polarity, DefaultStrongThreshold)

	require.Equal(t, Strong, set.Classification)
	require.Equal(t, []Element{Wood, Earth}, set.FavorableElements())
	require.Equal(t, []Element{Water, Metal}, set.UnfavorableElements())
	require.True(t, set.Favorable[0].Core)
	require.Equal(t, RoleOutput, set.Favorable[0].Role)
	require.False(t, set.Favorable[1].Core)
	require.Equal(t, RoleOfficer, set.Favorable[1].Role)
	require.Nil(t, set.Climate)
	require.NotEmpty(t, set.Notes)
}

func TestResolveFavorableWeakPrefersSealThenPeer(t *testing.T) {
	polarity := ClassifyPolarity(StemJia, ElementVector{600, 1400, 1200, 1300, 300})
	set := ResolveFavorable(StemJia, BranchShen, polarity, DefaultStrongThreshold)

	require.Equal(t, Weak, set.Classification)
	require.Equal(t, []Element{Water, Wood}, set.FavorableElements())
	require.Equal(t, []Element{Metal, Fire, Earth}, set.UnfavorableElements())
}

func TestResolveFavorableBalancedWithoutClimateHasNoFavorable(t *testing.T) {
	polarity := ClassifyPolarity(StemJia, ElementVector{250, 250, 250, 0, 250})
	require.Equal(t, 0.5, polarity.Ratio)
	set := ResolveFavorable(StemJia, BranchShen, polarity, DefaultStrongThreshold)

	require.Equal(t, Balanced, set.Classification)
	require.Empty(t, set.Favorable)
	require.Empty(t, set.Unfavorable)
}

func TestResolveFavorableBalancedUsesClimateElement(t *testing.T) {
	polarity := ClassifyPolarity(StemJia, ElementVector{250, 250, 250, 0, 250})
	set := ResolveFavorable(StemJia, BranchZi, polarity, DefaultStrongThreshold)

	require.Equal(t, Balanced, set.Classification)
	require.NotNil(t, set.Climate)
	require.True(t, set.Climate.Applied)
	require.Equal(t, StemDing, set.Climate.Stem)
	require.Equal(t, []Element{Fire}, set.FavorableElements())
	require.True(t, set.Favorable[0].Climate)
}

func TestResolveFavorableBalancedSkipsAbundantClimateElement(t *testing.T) {
	polarity := ClassifyPolarity(StemJia, ElementVector{1600, 1600, 1600, 0, 1600})
	set := ResolveFavorable(StemJia, BranchZi, polarity, DefaultStrongThreshold)

	require.Equal(t, Balanced, set.Classification)
	require.NotNil(t, set.Climate)
	require.False(t, set.Climate.Applied)
	require.Empty(t, set.Favorable)
}

func TestResolveFavorablePromotesWinterClimateElement(t *testing.T) {
	// 1953-01-03 08:00 at 120E: 壬辰 壬子 甲寅 戊辰.
	pillars, _ := ResolveFourPillars(context.Background(), mustMoment(t, "1953-01-03 08:00", 120, 30), NoCalendar)
	require.Equal(t, "壬辰 壬子 甲寅 戊辰", pillars.String())

	strength := ComputeStrength(pillars)
	require.Equal(t, ElementVector{2760, 300, 2000, 0, 4080}, strength)

	polarity := ClassifyPolarity(pillars.DayMaster(), strength)
	set := ResolveFavorable(pillars.DayMaster(), pillars.Month.Branch, polarity, DefaultStrongThreshold)

	require.Equal(t, Strong, set.Classification)
	require.Equal(t, []Element{Fire, Metal}, set.FavorableElements())
	require.Equal(t, TierWeak, set.Favorable[0].Tier)
	require.True(t, set.Favorable[0].Climate)
	require.True(t, set.Climate.Applied)
	require.Equal(t, StemDing, set.Climate.Stem)
}

func TestResolveFavorableDoesNotPromoteModerateClimateElement(t *testing.T) {
	polarity := ClassifyPolarity(StemJia, ElementVector{3000, 800, 200, 50, 3000})
	set := ResolveFavorable(StemJia, BranchZi, polarity, DefaultStrongThreshold)

	require.Equal(t, Strong, set.Classification)
	require.Equal(t, []Element{Metal, Earth, Fire}, set.FavorableElements())
	require.False(t, set.Climate.Applied)
}

func TestResolveFavorableIgnoresInvalidThreshold(t *testing.T) {
	polarity := ClassifyPolarity(StemJia, ElementVector{550, 225, 225, 0, 0})
	require.Equal(t, Strong, ResolveFavorable(StemJia, BranchShen, polarity, 0.3).Classification)
	require.Equal(t, Strong, ResolveFavorable(StemJia, BranchShen, polarity, 1.2).Classification)
}
