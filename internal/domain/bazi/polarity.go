package bazi

// PolarityResult splits the five elements into the day master's own side
// (同类: its element and the one generating it) and the opposing side (异类).
type PolarityResult struct {
	SameType         []Element     `json:"sameType"`
	SameStrength     int           `json:"sameStrength"`
	OppositeType     []Element     `json:"oppositeType"`
	OppositeStrength int           `json:"oppositeStrength"`
	Ratio            float64       `json:"ratio"`
	Strength         ElementVector `json:"strength"`
}

// SamePercent is the same-type share as a percentage.
func (p PolarityResult) SamePercent() float64 { return p.Ratio * 100 }

// OppositePercent is the opposite-type share as a percentage; 0 when nothing was measured.
func (p PolarityResult) OppositePercent() float64 {
	if p.SameStrength+p.OppositeStrength == 0 {
		return 0
	}
	return 100 - p.SamePercent()
}

// ClassifyPolarity sums the strength vector on each side of the day master.
// A zero total yields a ratio of 0.
func ClassifyPolarity(dayMaster Stem, v ElementVector) PolarityResult {
	own := dayMaster.Element()
	seal := own.GeneratedBy()
	res := PolarityResult{
		SameType: []Element{own, seal},
		Strength: v,
	}
	res.SameStrength = v[own] + v[seal]
	for _, e := range Elements {
		if e == own || e == seal {
			continue
		}
		res.OppositeType = append(res.OppositeType, e)
		res.OppositeStrength += v[e]
	}
	if total := res.SameStrength + res.OppositeStrength; total > 0 {
		res.Ratio = float64(res.SameStrength) / float64(total)
	}
	return res
}
