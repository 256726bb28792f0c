package metrics

import "sync/atomic"

// ResolutionStats counts how profiles were resolved. All methods are safe for
// concurrent use; a nil receiver records nothing.
type ResolutionStats struct {
	computed        atomic.Int64
	failures        atomic.Int64
	calendarHits    atomic.Int64
	analyticResults atomic.Int64
	dataGaps        atomic.Int64
	climateApplied  atomic.Int64
	cacheHits       atomic.Int64
	cacheMisses     atomic.Int64
}

// ResolutionSnapshot is a point-in-time copy of the counters.
type ResolutionSnapshot struct {
	Computed          int64 `json:"computed"`
	Failures          int64 `json:"failures"`
	CalendarHits      int64 `json:"calendarHits"`
	AnalyticFallbacks int64 `json:"analyticFallbacks"`
	DataGaps          int64 `json:"dataGaps"`
	ClimateApplied    int64 `json:"climateApplied"`
	CacheHits         int64 `json:"cacheHits"`
	CacheMisses       int64 `json:"cacheMisses"`
}

// NewResolutionStats returns zeroed counters.
func NewResolutionStats() *ResolutionStats {
	return &ResolutionStats{}
}

// RecordProfile notes one computed profile and how its date pillars were found.
func (s *ResolutionStats) RecordProfile(fromCalendar bool, gaps int, climateApplied bool) {
	if s == nil {
		return
	}
	s.computed.Add(1)
	if fromCalendar {
		s.calendarHits.Add(1)
	} else {
		s.analyticResults.Add(1)
	}
	s.dataGaps.Add(int64(gaps))
	if climateApplied {
		s.climateApplied.Add(1)
	}
}

// RecordFailure notes a rejected request.
func (s *ResolutionStats) RecordFailure() {
	if s == nil {
		return
	}
	s.failures.Add(1)
}

// RecordCache notes a profile cache lookup.
func (s *ResolutionStats) RecordCache(hit bool) {
	if s == nil {
		return
	}
	if hit {
		s.cacheHits.Add(1)
		return
	}
	s.cacheMisses.Add(1)
}

// Snapshot copies the current counter values.
func (s *ResolutionStats) Snapshot() ResolutionSnapshot {
	if s == nil {
		return ResolutionSnapshot{}
	}
	return ResolutionSnapshot{
		Computed:          s.computed.Load(),
		Failures:          s.failures.Load(),
		CalendarHits:      s.calendarHits.Load(),
		AnalyticFallbacks: s.analyticResults.Load(),
		DataGaps:          s.dataGaps.Load(),
		ClimateApplied:    s.climateApplied.Load(),
		CacheHits:         s.cacheHits.Load(),
		CacheMisses:       s.cacheMisses.Load(),
	}
}

// FallbackRatio is the share of computed profiles resolved analytically.
func (s ResolutionSnapshot) FallbackRatio() float64 {
	if s.Computed == 0 {
		return 0
	}
	return float64(s.AnalyticFallbacks) / float64(s.Computed)
}
