package bazi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ElementVector maps each of the five elements to an integer. Indexing by
// Element keeps exactly five entries.
type ElementVector [5]int

// Get returns the value for an element.
func (v ElementVector) Get(e Element) int { return v[e] }

// Total sums all five entries.
func (v ElementVector) Total() int {
	total := 0
	for _, n := range v {
		total += n
	}
	return total
}

// MarshalJSON renders the vector as an object in generation order.
func (v ElementVector) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range Elements {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%d", e.String(), v[e])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form written by MarshalJSON.
func (v *ElementVector) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out ElementVector
	for key, n := range raw {
		e, err := ParseElement(key)
		if err != nil {
			return err
		}
		out[e] = n
	}
	*v = out
	return nil
}

// stemWeights is the visible stem strength, rows by month branch (子..亥),
// columns by stem (甲..癸).
var stemWeights = [branchCount][stemCount]int{
	{1200, 1200, 1000, 1000, 1000, 1000, 1000, 1000, 1200, 1200}, // 子
	{1060, 1060, 1000, 1000, 1100, 1100, 1140, 1140, 1100, 1100}, // 丑
	{1140, 1140, 1200, 1200, 1060, 1060, 1000, 1000, 1000, 1000}, // 寅
	{1200, 1200, 1200, 1200, 1000, 1000, 1000, 1000, 1000, 1000}, // 卯
	{1100, 1100, 1060, 1060, 1100, 1100, 1100, 1100, 1040, 1040}, // 辰
	{1000, 1000, 1140, 1140, 1140, 1140, 1060, 1060, 1060, 1060}, // 巳
	{1000, 1000, 1200, 1200, 1200, 1200, 1000, 1000, 1000, 1000}, // 午
	{1040, 1040, 1100, 1100, 1160, 1160, 1100, 1100, 1000, 1000}, // 未
	{1060, 1060, 1000, 1000, 1000, 1000, 1140, 1140, 1200, 1200}, // 申
	{1000, 1000, 1000, 1000, 1000, 1000, 1200, 1200, 1200, 1200}, // 酉
	{1000, 1000, 1040, 1040, 1140, 1140, 1160, 1160, 1060, 1060}, // 戌
	{1200, 1200, 1000, 1000, 1000, 1000, 1000, 1000, 1140, 1140}, // 亥
}

// hiddenStem is a stem stored inside a branch with its strength per month branch.
type hiddenStem struct {
	stem    Stem
	weights [branchCount]int
}

// hiddenStems lists the stems concealed in each branch (地支藏干), indexed by branch.
var hiddenStems = [branchCount][]hiddenStem{
	BranchZi: {
		{StemGui, [12]int{1200, 1100, 1000, 1000, 1040, 1060, 1000, 1000, 1200, 1200, 1060, 1140}},
	},
	BranchChou: {
		{StemGui, [12]int{360, 330, 300, 300, 312, 318, 300, 300, 360, 360, 318, 342}},
		{StemXin, [12]int{200, 228, 200, 200, 230, 212, 200, 220, 228, 248, 232, 200}},
		{StemJi, [12]int{500, 550, 530, 500, 550, 570, 600, 580, 500, 500, 570, 500}},
	},
	BranchYin: {
		{StemBing, [12]int{300, 300, 360, 360, 318, 342, 360, 330, 300, 300, 342, 318}},
		{StemJia, [12]int{840, 742, 798, 840, 770, 700, 700, 728, 742, 700, 700, 840}},
	},
	BranchMao: {
		{StemYi, [12]int{1200, 1060, 1140, 1200, 1100, 1000, 1000, 1040, 1060, 1000, 1000, 1200}},
	},
	BranchChen: {
		{StemYi, [12]int{360, 318, 342, 360, 330, 300, 300, 312, 318, 300, 300, 360}},
		{StemGui, [12]int{240, 220, 200, 200, 208, 200, 200, 200, 240, 240, 212, 228}},
		{StemWu, [12]int{500, 550, 530, 500, 550, 600, 600, 580, 500, 500, 570, 500}},
	},
	BranchSi: {
		{StemGeng, [12]int{300, 342, 300, 300, 330, 300, 300, 330, 342, 360, 348, 300}},
		{StemBing, [12]int{700, 700, 840, 840, 742, 840, 840, 798, 700, 700, 728, 742}},
	},
	BranchWu: {
		{StemDing, [12]int{1000, 1000, 1200, 1200, 1060, 1140, 1200, 1100, 1000, 1000, 1040, 1060}},
	},
	BranchWei: {
		{StemDing, [12]int{300, 300, 360, 360, 318, 342, 360, 330, 300, 300, 312, 318}},
		{StemYi, [12]int{240, 212, 228, 240, 220, 200, 200, 208, 212, 200, 200, 240}},
		{StemJi, [12]int{500, 550, 530, 500, 550, 570, 600, 580, 500, 500, 570, 500}},
	},
	BranchShen: {
		{StemRen, [12]int{360, 330, 300, 300, 312, 318, 300, 300, 360, 360, 318, 342}},
		{StemGeng, [12]int{700, 798, 700, 700, 770, 742, 700, 770, 798, 840, 812, 700}},
	},
	BranchYou: {
		{StemXin, [12]int{1000, 1140, 1000, 1000, 1100, 1060, 1000, 1100, 1140, 1200, 1160, 1000}},
	},
	BranchXu: {
		{StemXin, [12]int{300, 342, 300, 300, 330, 318, 300, 330, 342, 360, 348, 300}},
		{StemDing, [12]int{200, 200, 240, 240, 212, 228, 240, 220, 200, 200, 208, 212}},
		{StemWu, [12]int{500, 550, 530, 500, 550, 570, 600, 580, 500, 500, 570, 500}},
	},
	BranchHai: {
		{StemJia, [12]int{360, 318, 342, 360, 330, 300, 300, 312, 318, 300, 300, 360}},
		{StemRen, [12]int{840, 770, 700, 700, 728, 742, 700, 700, 840, 840, 724, 798}},
	},
}

// HiddenStems returns the stems concealed in a branch.
func HiddenStems(b Branch) []Stem {
	entries := hiddenStems[b]
	out := make([]Stem, 0, len(entries))
	for _, h := range entries {
		out = append(out, h.stem)
	}
	return out
}

// ComputeStrength sums visible stem weights and hidden stem weights for the
// month branch of the chart into per-element totals.
func ComputeStrength(pillars FourPillars) ElementVector {
	month := pillars.Month.Branch
	var v ElementVector
	for _, p := range pillars.All() {
		v[p.Stem.Element()] += stemWeights[month][p.Stem]
		for _, h := range hiddenStems[p.Branch] {
			v[h.stem.Element()] += h.weights[month]
		}
	}
	return v
}

// CountElements counts the visible element of each stem and branch (eight symbols).
func CountElements(pillars FourPillars) ElementVector {
	var v ElementVector
	for _, p := range pillars.All() {
		v[p.Stem.Element()]++
		v[p.Branch.Element()]++
	}
	return v
}

// StrengthTier grades a single element's measured strength.
type StrengthTier string

const (
	TierVeryWeak StrengthTier = "very_weak"
	TierWeak     StrengthTier = "weak"
	TierModerate StrengthTier = "moderate"
	TierAbundant StrengthTier = "abundant"
)

// TierFor applies the fixed thresholds 100, 500 and 1500.
func TierFor(strength int) StrengthTier {
	switch {
	case strength < 100:
		return TierVeryWeak
	case strength < 500:
		return TierWeak
	case strength < 1500:
		return TierModerate
	default:
		return TierAbundant
	}
}

// Mark is the single character used in compact strength listings.
func (t StrengthTier) Mark() string {
	switch t {
	case TierVeryWeak:
		return "!"
	case TierWeak:
		return "-"
	case TierAbundant:
		return "+"
	default:
		return ""
	}
}
