package bazi

import (
	"fmt"
	"math"
	"sort"
)

// DefaultStrongThreshold is the same-type ratio at or above which the day master is strong.
const DefaultStrongThreshold = 0.55

// ratioTolerance absorbs float rounding so boundary ratios classify inclusively.
const ratioTolerance = 1e-9

// Classification is the day master's balance verdict.
type Classification string

const (
	Strong   Classification = "strong"
	Weak     Classification = "weak"
	Balanced Classification = "balanced"
)

// Chinese returns 身强, 身弱 or 中和.
func (c Classification) Chinese() string {
	switch c {
	case Strong:
		return "身强"
	case Weak:
		return "身弱"
	default:
		return "中和"
	}
}

// Classify compares a same-type ratio against the strong threshold.
func Classify(ratio, threshold float64) Classification {
	switch {
	case ratio >= threshold-ratioTolerance:
		return Strong
	case ratio <= 1-threshold+ratioTolerance:
		return Weak
	default:
		return Balanced
	}
}

// TenGod is the descriptive role of an element relative to the day master.
type TenGod string

const (
	RolePeer    TenGod = "peer"
	RoleSeal    TenGod = "seal"
	RoleOutput  TenGod = "output"
	RoleWealth  TenGod = "wealth"
	RoleOfficer TenGod = "officer"
)

var tenGodLabels = map[TenGod]string{
	RolePeer:    "比劫",
	RoleSeal:    "印星",
	RoleOutput:  "食伤",
	RoleWealth:  "财星",
	RoleOfficer: "官杀",
}

// Label returns the Chinese role name.
func (r TenGod) Label() string { return tenGodLabels[r] }

// RoleOf labels element e relative to the day master's element.
func RoleOf(dayMaster, e Element) TenGod {
	switch e {
	case dayMaster:
		return RolePeer
	case dayMaster.GeneratedBy():
		return RoleSeal
	case dayMaster.Generates():
		return RoleOutput
	case dayMaster.Restrains():
		return RoleWealth
	default:
		return RoleOfficer
	}
}

// FavorableElement is one element of the favorable or unfavorable list.
type FavorableElement struct {
	Element   Element      `json:"element"`
	Role      TenGod       `json:"role"`
	RoleLabel string       `json:"roleLabel"`
	Strength  int          `json:"strength"`
	Tier      StrengthTier `json:"tier"`
	Core      bool         `json:"core"`
	Climate   bool         `json:"climate,omitempty"`
}

// ClimateAdjustment is the seasonal tempering element (调候) for the chart.
type ClimateAdjustment struct {
	Stem    Stem    `json:"stem"`
	Element Element `json:"element"`
	Applied bool    `json:"applied"`
}

// FavorableElementSet is the favorable (喜用) and unfavorable (忌) verdict.
type FavorableElementSet struct {
	Classification Classification     `json:"classification"`
	Favorable      []FavorableElement `json:"favorable"`
	Unfavorable    []FavorableElement `json:"unfavorable"`
	Climate        *ClimateAdjustment `json:"climate,omitempty"`
	Notes          []string           `json:"notes"`
}

// FavorableElements returns just the favorable elements in priority order.
func (s FavorableElementSet) FavorableElements() []Element {
	out := make([]Element, 0, len(s.Favorable))
	for _, f := range s.Favorable {
		out = append(out, f.Element)
	}
	return out
}

// UnfavorableElements returns just the unfavorable elements.
func (s FavorableElementSet) UnfavorableElements() []Element {
	out := make([]Element, 0, len(s.Unfavorable))
	for _, f := range s.Unfavorable {
		out = append(out, f.Element)
	}
	return out
}

// tiaohouStems lists the tempering stem for the depth of winter (子, 丑) and
// summer (午, 未) months, indexed by day master stem.
var tiaohouStems = map[Branch][stemCount]Stem{
	BranchZi:   {StemDing, StemBing, StemRen, StemJia, StemBing, StemBing, StemDing, StemBing, StemWu, StemBing},
	BranchChou: {StemDing, StemBing, StemRen, StemJia, StemBing, StemBing, StemBing, StemBing, StemBing, StemBing},
	BranchWu:   {StemGui, StemGui, StemRen, StemRen, StemRen, StemGui, StemRen, StemRen, StemGui, StemGeng},
	BranchWei:  {StemGui, StemGui, StemRen, StemJia, StemGui, StemGui, StemDing, StemRen, StemXin, StemGeng},
}

// ClimateStem looks up the tempering stem for a month branch and day master.
func ClimateStem(month Branch, dayMaster Stem) (Stem, bool) {
	row, ok := tiaohouStems[month]
	if !ok {
		return 0, false
	}
	return row[dayMaster], true
}

// ResolveFavorable classifies the day master and derives favorable and
// unfavorable elements, applying the seasonal tempering element when the
// month calls for one.
func ResolveFavorable(dayMaster Stem, month Branch, polarity PolarityResult, threshold float64) FavorableElementSet {
	if threshold <= 0.5 || threshold >= 1 {
		threshold = DefaultStrongThreshold
	}
	own := dayMaster.Element()
	set := FavorableElementSet{
		Classification: Classify(polarity.Ratio, threshold),
		Favorable:      []FavorableElement{},
		Unfavorable:    []FavorableElement{},
	}
	set.Notes = append(set.Notes, fmt.Sprintf("同类%s占比%.1f%%，%s",
		joinChinese(polarity.SameType), roundPercent(polarity.SamePercent()), set.Classification.Chinese()))

	var candidates, avoid []Element
	switch set.Classification {
	case Strong:
		candidates = []Element{own.RestrainedBy(), own.Generates(), own.Restrains()}
		avoid = []Element{own, own.GeneratedBy()}
		set.Notes = append(set.Notes, "日主偏强，喜克泄耗")
	case Weak:
		candidates = []Element{own.GeneratedBy(), own}
		avoid = []Element{own.RestrainedBy(), own.Generates(), own.Restrains()}
		set.Notes = append(set.Notes, "日主偏弱，喜生扶")
	default:
		set.Notes = append(set.Notes, "日主中和，顺其自然")
	}

	for _, e := range candidates {
		entry := newFavorableElement(own, e, polarity.Strength[e])
		if entry.Tier == TierAbundant {
			set.Notes = append(set.Notes, fmt.Sprintf("%s已旺(%d)，不再取用", e.Chinese(), entry.Strength))
			continue
		}
		set.Favorable = append(set.Favorable, entry)
	}
	sort.SliceStable(set.Favorable, func(i, j int) bool {
		return set.Favorable[i].Core && !set.Favorable[j].Core
	})
	for _, e := range avoid {
		entry := newFavorableElement(own, e, polarity.Strength[e])
		entry.Core = false
		set.Unfavorable = append(set.Unfavorable, entry)
	}

	applyClimate(&set, dayMaster, month, polarity.Strength)
	return set
}

func newFavorableElement(dayMaster, e Element, strength int) FavorableElement {
	role := RoleOf(dayMaster, e)
	tier := TierFor(strength)
	return FavorableElement{
		Element:   e,
		Role:      role,
		RoleLabel: role.Label(),
		Strength:  strength,
		Tier:      tier,
		Core:      tier == TierVeryWeak || tier == TierWeak,
	}
}

func applyClimate(set *FavorableElementSet, dayMaster Stem, month Branch, strength ElementVector) {
	stem, ok := ClimateStem(month, dayMaster)
	if !ok {
		return
	}
	tempering := stem.Element()
	set.Climate = &ClimateAdjustment{Stem: stem, Element: tempering}

	if set.Classification == Balanced {
		entry := newFavorableElement(dayMaster.Element(), tempering, strength[tempering])
		if entry.Tier == TierAbundant {
			set.Notes = append(set.Notes, fmt.Sprintf("调候用%s，但%s已旺", stem, tempering.Chinese()))
			return
		}
		entry.Climate = true
		set.Favorable = []FavorableElement{entry}
		set.Climate.Applied = true
		set.Notes = append(set.Notes, fmt.Sprintf("生于%s月，调候取%s(%s)", month, stem, tempering.Chinese()))
		return
	}

	for i, f := range set.Favorable {
		if f.Element != tempering || !f.Core {
			continue
		}
		f.Climate = true
		rest := append([]FavorableElement{}, set.Favorable[:i]...)
		rest = append(rest, set.Favorable[i+1:]...)
		set.Favorable = append([]FavorableElement{f}, rest...)
		set.Climate.Applied = true
		set.Notes = append(set.Notes, fmt.Sprintf("生于%s月，调候取%s(%s)为先", month, stem, tempering.Chinese()))
		return
	}
}

func joinChinese(elements []Element) string {
	out := ""
	for _, e := range elements {
		out += e.Chinese()
	}
	return out
}

func roundPercent(p float64) float64 {
	return math.Round(p*10) / 10
}
