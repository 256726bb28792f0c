package bazi

import (
	"fmt"
	"strings"
	"time"
)

// Season is one of the four seasons.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

var seasonChinese = map[Season]string{
	Spring: "春季",
	Summer: "夏季",
	Autumn: "秋季",
	Winter: "冬季",
}

// Chinese returns the season label, e.g. 春季.
func (s Season) Chinese() string { return seasonChinese[s] }

// solarTermSeasons maps each of the 24 solar terms to its season, six per season.
var solarTermSeasons = map[string]Season{
	"立春": Spring, "雨水": Spring, "惊蛰": Spring, "春分": Spring, "清明": Spring, "谷雨": Spring,
	"立夏": Summer, "小满": Summer, "芒种": Summer, "夏至": Summer, "小暑": Summer, "大暑": Summer,
	"立秋": Autumn, "处暑": Autumn, "白露": Autumn, "秋分": Autumn, "寒露": Autumn, "霜降": Autumn,
	"立冬": Winter, "小雪": Winter, "大雪": Winter, "冬至": Winter, "小寒": Winter, "大寒": Winter,
}

// SeasonForSolarTerm resolves a solar term name; unknown terms report false.
func SeasonForSolarTerm(term string) (Season, bool) {
	season, ok := solarTermSeasons[strings.TrimSpace(term)]
	return season, ok
}

// SeasonForMonth is the coarse civil month fallback.
func SeasonForMonth(month time.Month) Season {
	switch {
	case month >= time.February && month <= time.April:
		return Spring
	case month >= time.May && month <= time.July:
		return Summer
	case month >= time.August && month <= time.October:
		return Autumn
	default:
		return Winter
	}
}

type seasonalRule struct {
	mandatory   Element
	beneficial  []Element
	avoid       []Element
	badPatterns []string
}

type seasonKey struct {
	element Element
	season  Season
}

// seasonalRules is the four-season reference (四季用神) by day master element.
var seasonalRules = map[seasonKey]seasonalRule{
	{Wood, Spring}:  {Fire, []Element{Metal, Earth}, []Element{Water, Wood}, []string{"水多木漂", "木多无火则郁"}},
	{Wood, Summer}:  {Water, []Element{Metal}, []Element{Fire, Earth}, []string{"火炎木焚"}},
	{Wood, Autumn}:  {Water, []Element{Wood, Fire}, []Element{Metal}, []string{"金重木折"}},
	{Wood, Winter}:  {Fire, []Element{Earth, Wood}, []Element{Water, Metal}, []string{"水寒木冻"}},
	{Fire, Spring}:  {Water, []Element{Metal, Earth}, []Element{Wood}, []string{"木多火炽"}},
	{Fire, Summer}:  {Water, []Element{Metal, Earth}, []Element{Fire, Wood}, []string{"炎上无水"}},
	{Fire, Autumn}:  {Wood, []Element{Fire}, []Element{Metal, Water}, []string{"金多火熄"}},
	{Fire, Winter}:  {Wood, []Element{Fire}, []Element{Water, Metal}, []string{"水旺火灭"}},
	{Earth, Spring}: {Fire, []Element{Earth}, []Element{Wood}, []string{"木旺土崩"}},
	{Earth, Summer}: {Water, []Element{Metal}, []Element{Fire}, []string{"火旺土焦"}},
	{Earth, Autumn}: {Fire, []Element{Earth}, []Element{Metal}, []string{"金多土虚"}},
	{Earth, Winter}: {Fire, []Element{Earth}, []Element{Water, Metal}, []string{"水寒土冻"}},
	{Metal, Spring}: {Earth, []Element{Metal}, []Element{Wood}, []string{"木旺金缺"}},
	{Metal, Summer}: {Water, []Element{Earth}, []Element{Fire}, []string{"火旺金熔"}},
	{Metal, Autumn}: {Fire, []Element{Water}, []Element{Metal, Earth}, []string{"刚锐太过"}},
	{Metal, Winter}: {Fire, []Element{Earth}, []Element{Water}, []string{"金寒水冷"}},
	{Water, Spring}: {Earth, []Element{Metal}, []Element{Wood}, []string{"木多水缩"}},
	{Water, Summer}: {Metal, []Element{Water}, []Element{Fire, Earth}, []string{"火旺水干"}},
	{Water, Autumn}: {Wood, []Element{Earth, Fire}, []Element{Metal}, []string{"金多水浊"}},
	{Water, Winter}: {Fire, []Element{Earth}, []Element{Water, Metal}, []string{"水寒成冰", "水泛无堤"}},
}

// SeasonalGuidance is the descriptive four-season reference for a chart.
type SeasonalGuidance struct {
	Element     Element   `json:"element"`
	Season      Season    `json:"season"`
	SolarTerm   string    `json:"solarTerm,omitempty"`
	Mandatory   *Element  `json:"mandatory,omitempty"`
	Beneficial  []Element `json:"beneficial,omitempty"`
	Avoid       []Element `json:"avoid,omitempty"`
	BadPatterns []string  `json:"badPatterns,omitempty"`
	Text        string    `json:"text"`
}

// ComposeSeasonalGuidance derives the season from the solar term, or from the
// civil month when no recognised term is given, and renders the reference text.
func ComposeSeasonalGuidance(dayMaster Element, solarTerm string, month time.Month) SeasonalGuidance {
	season, ok := SeasonForSolarTerm(solarTerm)
	if !ok {
		season = SeasonForMonth(month)
		solarTerm = ""
	}
	guidance := SeasonalGuidance{
		Element:   dayMaster,
		Season:    season,
		SolarTerm: strings.TrimSpace(solarTerm),
	}
	base := fmt.Sprintf("日主天干%s生于%s", dayMaster.Chinese(), season.Chinese())

	rule, ok := seasonalRules[seasonKey{dayMaster, season}]
	if !ok {
		guidance.Text = base
		return guidance
	}
	mandatory := rule.mandatory
	guidance.Mandatory = &mandatory
	guidance.Beneficial = append([]Element(nil), rule.beneficial...)
	guidance.Avoid = append([]Element(nil), rule.avoid...)
	guidance.BadPatterns = append([]string(nil), rule.badPatterns...)

	var b strings.Builder
	b.WriteString(base)
	fmt.Fprintf(&b, "：必用%s", mandatory.Chinese())
	if len(rule.beneficial) > 0 {
		fmt.Fprintf(&b, "；喜%s", joinChineseList(rule.beneficial))
	}
	if len(rule.avoid) > 0 {
		fmt.Fprintf(&b, "；忌%s", joinChineseList(rule.avoid))
	}
	if len(rule.badPatterns) > 0 {
		fmt.Fprintf(&b, "；慎防%s", strings.Join(rule.badPatterns, "、"))
	}
	b.WriteString("。")
	guidance.Text = b.String()
	return guidance
}

func joinChineseList(elements []Element) string {
	names := make([]string, 0, len(elements))
	for _, e := range elements {
		names = append(names, e.Chinese())
	}
	return strings.Join(names, "、")
}
