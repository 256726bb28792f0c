package bazi

import (
	"context"
	"fmt"
	"time"
)

// Strategy names recorded in a Resolution.
const (
	StrategyCalendar = "calendar"
	StrategyAnalytic = "analytic"
)

// datePillars are the three pillars that depend only on the civil date.
type datePillars struct {
	Year  Pillar
	Month Pillar
	Day   Pillar
}

// Resolution describes how the date pillars were obtained. It feeds logs and
// metrics only; a profile never carries it.
type Resolution struct {
	Strategy string
	Record   *CalendarRecord
	Warnings []string
}

// pillarStrategy is one step of the date pillar fallback chain.
type pillarStrategy interface {
	name() string
	attempt(ctx context.Context, moment BirthMoment, res *Resolution) (datePillars, bool)
}

// resolvePlan lists the strategies tried in order; the analytic one always succeeds.
func resolvePlan(lookup CalendarLookup) []pillarStrategy {
	plan := make([]pillarStrategy, 0, 2)
	if lookup != nil {
		plan = append(plan, calendarStrategy{lookup: lookup})
	}
	return append(plan, analyticStrategy{})
}

// ResolveFourPillars resolves the year, month, day and hour pillars of a birth moment.
func ResolveFourPillars(ctx context.Context, moment BirthMoment, lookup CalendarLookup) (FourPillars, Resolution) {
	var (
		res   Resolution
		dates datePillars
	)
	for _, strategy := range resolvePlan(lookup) {
		got, ok := strategy.attempt(ctx, moment, &res)
		if ok {
			dates = got
			res.Strategy = strategy.name()
			break
		}
	}
	return FourPillars{
		Year:  dates.Year,
		Month: dates.Month,
		Day:   dates.Day,
		Hour:  HourPillar(moment.TrueSolarTime(), dates.Day.Stem),
	}, res
}

type calendarStrategy struct {
	lookup CalendarLookup
}

func (calendarStrategy) name() string { return StrategyCalendar }

func (s calendarStrategy) attempt(ctx context.Context, moment BirthMoment, res *Resolution) (datePillars, bool) {
	key := DateKey(moment.Date())
	record, found, err := s.lookup.Lookup(ctx, moment.Date())
	switch {
	case err != nil:
		res.Warnings = append(res.Warnings, fmt.Sprintf("calendar lookup failed for %s: %v", key, err))
		return datePillars{}, false
	case !found:
		res.Warnings = append(res.Warnings, fmt.Sprintf("calendar has no record for %s", key))
		return datePillars{}, false
	}
	dates, err := record.pillars()
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("calendar record for %s is malformed: %v", key, err))
		return datePillars{}, false
	}
	res.Record = &record
	return dates, true
}

type analyticStrategy struct{}

func (analyticStrategy) name() string { return StrategyAnalytic }

func (analyticStrategy) attempt(_ context.Context, moment BirthMoment, _ *Resolution) (datePillars, bool) {
	date := moment.Date()
	year := YearPillar(date)
	return datePillars{
		Year:  year,
		Month: MonthPillar(date, year.Stem),
		Day:   DayPillar(date),
	}, true
}

// lichunDay approximates the 立春 solar term, which opens the solar year.
const lichunDay = 4

// YearPillar derives the year pillar, treating dates before Feb 4 as the prior solar year.
func YearPillar(date time.Time) Pillar {
	year := date.Year()
	if date.Month() == time.January || (date.Month() == time.February && date.Day() < lichunDay) {
		year--
	}
	return Pillar{Stem: StemAt(year - 4), Branch: BranchAt(year - 4)}
}

// monthBoundaries holds the approximate civil day on which each solar month
// opens; index 0 is the 寅 month starting Feb 4 (立春).
var monthBoundaries = [12]struct {
	month time.Month
	day   int
}{
	{time.February, 4},  // 寅 立春
	{time.March, 6},     // 卯 惊蛰
	{time.April, 5},     // 辰 清明
	{time.May, 6},       // 巳 立夏
	{time.June, 6},      // 午 芒种
	{time.July, 8},      // 未 小暑
	{time.August, 8},    // 申 立秋
	{time.September, 8}, // 酉 白露
	{time.October, 9},   // 戌 寒露
	{time.November, 8},  // 亥 立冬
	{time.December, 7},  // 子 大雪
	{time.January, 6},   // 丑 小寒
}

// firstMonthStem is the five-tiger rule (五虎遁): the stem of the 寅 month by year stem.
var firstMonthStem = [stemCount]Stem{
	StemBing, StemWu, StemGeng, StemRen, StemJia,
	StemBing, StemWu, StemGeng, StemRen, StemJia,
}

// solarMonthOrdinal returns 0 for the 寅 month through 11 for the 丑 month.
func solarMonthOrdinal(date time.Time) int {
	month, day := date.Month(), date.Day()
	for i := len(monthBoundaries) - 1; i >= 0; i-- {
		next := monthBoundaries[(i+1)%len(monthBoundaries)]
		start := monthBoundaries[i]
		if (month == start.month && day >= start.day) || (month == next.month && day < next.day) {
			return i
		}
	}
	return 11
}

// MonthPillar derives the month pillar from the solar month and the year stem.
func MonthPillar(date time.Time, yearStem Stem) Pillar {
	ordinal := solarMonthOrdinal(date)
	return Pillar{
		Stem:   StemAt(int(firstMonthStem[yearStem]) + ordinal),
		Branch: BranchAt(int(BranchYin) + ordinal),
	}
}

// dayEpoch is 2000-01-01, whose day pillar is 戊午 (cycle index 54).
var dayEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

const dayEpochCycle = 54

const secondsPerDay = 24 * 60 * 60

// DayPillar counts days from the epoch modulo sixty. Days are counted on Unix
// day numbers so the count never overflows a time.Duration.
func DayPillar(date time.Time) Pillar {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	days := (midnight.Unix() - dayEpoch.Unix()) / secondsPerDay
	return NewPillarFromCycle(dayEpochCycle + int(days%60))
}

// HourBranch maps a clock hour to its double-hour branch; 23:00 opens 子.
func HourBranch(hour int) Branch {
	return BranchAt((hour + 1) / 2)
}

// HourPillar derives the hour pillar from true solar time and the day stem (五鼠遁).
func HourPillar(solar time.Time, dayStem Stem) Pillar {
	branch := HourBranch(solar.Hour())
	return Pillar{
		Stem:   StemAt(int(dayStem)*2 + int(branch)),
		Branch: branch,
	}
}
