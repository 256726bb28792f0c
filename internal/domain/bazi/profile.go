package bazi

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

const (
	civilLayout = "2006-01-02 15:04"
	solarLayout = "2006-01-02 15:04:05"
)

// Profile is the complete Four Pillars reading of a birth moment.
type Profile struct {
	BirthTime        string              `json:"birthTime"`
	TrueSolarTime    string              `json:"trueSolarTime"`
	Longitude        float64             `json:"longitude"`
	Latitude         float64             `json:"latitude"`
	FourPillars      FourPillars         `json:"fourPillars"`
	PillarElements   [4]string           `json:"pillarElements"`
	NaYin            [4]string           `json:"naYin"`
	DayMaster        Stem                `json:"dayMaster"`
	DayMasterElement Element             `json:"dayMasterElement"`
	ElementCounts    ElementVector       `json:"elementCounts"`
	Strength         ElementVector       `json:"strength"`
	Polarity         PolarityResult      `json:"polarity"`
	Favorable        FavorableElementSet `json:"favorable"`
	SeasonalGuidance SeasonalGuidance    `json:"seasonalGuidance"`
	Score            int                 `json:"score"`
	LunarDate        string              `json:"lunarDate,omitempty"`
	Zodiac           string              `json:"zodiac"`
	HourName         string              `json:"hourName"`
}

// Summary renders a one-line description, e.g. "辛丑 丁酉 癸亥 丁巳 | 癸水 身弱 | 喜金水".
func (p Profile) Summary() string {
	favorable := make([]string, 0, len(p.Favorable.Favorable))
	for _, f := range p.Favorable.Favorable {
		favorable = append(favorable, f.Element.Chinese())
	}
	return fmt.Sprintf("%s | %s%s %s | 喜%s",
		p.FourPillars, p.DayMaster, p.DayMasterElement.Chinese(),
		p.Favorable.Classification.Chinese(), strings.Join(favorable, ""))
}

// Clone returns a deep copy that shares no slices or pointers with p.
func (p Profile) Clone() Profile {
	out := p
	out.Polarity.SameType = slices.Clone(p.Polarity.SameType)
	out.Polarity.OppositeType = slices.Clone(p.Polarity.OppositeType)
	out.Favorable.Favorable = slices.Clone(p.Favorable.Favorable)
	out.Favorable.Unfavorable = slices.Clone(p.Favorable.Unfavorable)
	out.Favorable.Notes = slices.Clone(p.Favorable.Notes)
	if p.Favorable.Climate != nil {
		climate := *p.Favorable.Climate
		out.Favorable.Climate = &climate
	}
	g := &out.SeasonalGuidance
	if g.Mandatory != nil {
		mandatory := *g.Mandatory
		g.Mandatory = &mandatory
	}
	g.Beneficial = slices.Clone(g.Beneficial)
	g.Avoid = slices.Clone(g.Avoid)
	g.BadPatterns = slices.Clone(g.BadPatterns)
	return out
}

// ComputeProfile runs every stage for one birth moment: pillar resolution,
// strength, polarity, favorable elements, seasonal guidance and score.
// Calendar failures only degrade the result and are reported in the Resolution.
func ComputeProfile(ctx context.Context, moment BirthMoment, lookup CalendarLookup, threshold float64) (Profile, Resolution) {
	if lookup == nil {
		lookup = NoCalendar
	}
	pillars, res := ResolveFourPillars(ctx, moment, lookup)
	dayMaster := pillars.DayMaster()

	strength := ComputeStrength(pillars)
	counts := CountElements(pillars)
	polarity := ClassifyPolarity(dayMaster, strength)
	favorable := ResolveFavorable(dayMaster, pillars.Month.Branch, polarity, threshold)

	term := solarTermFor(ctx, moment, lookup, &res)
	guidance := ComposeSeasonalGuidance(dayMaster.Element(), term, moment.Civil().Month())

	solar := moment.TrueSolarTime()
	profile := Profile{
		BirthTime:        moment.Civil().Format(civilLayout),
		TrueSolarTime:    solar.Format(solarLayout),
		Longitude:        moment.Longitude(),
		Latitude:         moment.Latitude(),
		FourPillars:      pillars,
		DayMaster:        dayMaster,
		DayMasterElement: dayMaster.Element(),
		ElementCounts:    counts,
		Strength:         strength,
		Polarity:         polarity,
		Favorable:        favorable,
		SeasonalGuidance: guidance,
		Score:            Score(counts, len(favorable.Favorable)),
		Zodiac:           pillars.Year.Branch.Zodiac(),
		HourName:         pillars.Hour.Branch.HourName(),
	}
	for i, p := range pillars.All() {
		profile.PillarElements[i] = p.Elements()
		profile.NaYin[i] = p.NaYin()
	}
	if res.Record != nil {
		profile.LunarDate = firstNonEmpty(res.Record.LunarShow, res.Record.LunarDate)
		if z := strings.TrimSpace(res.Record.Zodiac); z != "" {
			profile.Zodiac = z
		}
	}
	return profile, res
}

// solarTermFor returns the day's own term, or the latest earlier one when the
// store can locate it. An empty result selects the civil month fallback.
func solarTermFor(ctx context.Context, moment BirthMoment, lookup CalendarLookup, res *Resolution) string {
	if res.Record != nil {
		if term := strings.TrimSpace(res.Record.SolarTerm); term != "" {
			return term
		}
	}
	locator, ok := lookup.(SolarTermLocator)
	if !ok {
		return ""
	}
	term, found, err := locator.LatestSolarTerm(ctx, moment.Date())
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("solar term lookup failed for %s: %v", DateKey(moment.Date()), err))
		return ""
	}
	if !found {
		return ""
	}
	return term
}

// Score rates the chart from 0 to 100: a base of 50, up to 30 for an even
// spread of visible elements and 5 per favorable element.
func Score(counts ElementVector, favorable int) int {
	lo, hi := counts[0], counts[0]
	for _, n := range counts[1:] {
		lo = min(lo, n)
		hi = max(hi, n)
	}
	score := 50
	switch spread := hi - lo; {
	case spread <= 2:
		score += 30
	case spread <= 4:
		score += 20
	default:
		score += 10
	}
	score += 5 * favorable
	return min(score, 100)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
