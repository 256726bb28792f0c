package bazi

import (
	"context"
	"time"
)

// CalendarRecord is one row of the perpetual calendar (万年历) keyed by Gregorian date.
// Pillars are kept as stored so a malformed row can be detected and skipped.
type CalendarRecord struct {
	Date        string `json:"date"`
	YearPillar  string `json:"yearPillar"`
	MonthPillar string `json:"monthPillar"`
	DayPillar   string `json:"dayPillar"`
	LunarDate   string `json:"lunarDate,omitempty"`
	LunarShow   string `json:"lunarShow,omitempty"`
	SolarTerm   string `json:"solarTerm,omitempty"`
	Zodiac      string `json:"zodiac,omitempty"`
}

// CalendarLookup resolves a Gregorian date to its calendar record.
// A missing date returns found=false and a nil error.
type CalendarLookup interface {
	Lookup(ctx context.Context, date time.Time) (CalendarRecord, bool, error)
}

// SolarTermLocator is implemented by calendar stores that can find the most
// recent solar term on or before a date.
type SolarTermLocator interface {
	LatestSolarTerm(ctx context.Context, date time.Time) (string, bool, error)
}

// DateKey formats the calendar key used by every store.
func DateKey(date time.Time) string {
	return date.Format(time.DateOnly)
}

// pillars parses the stored year, month and day pillars.
func (r CalendarRecord) pillars() (datePillars, error) {
	year, err := ParsePillar(r.YearPillar)
	if err != nil {
		return datePillars{}, err
	}
	month, err := ParsePillar(r.MonthPillar)
	if err != nil {
		return datePillars{}, err
	}
	day, err := ParsePillar(r.DayPillar)
	if err != nil {
		return datePillars{}, err
	}
	return datePillars{Year: year, Month: month, Day: day}, nil
}

type noCalendar struct{}

func (noCalendar) Lookup(context.Context, time.Time) (CalendarRecord, bool, error) {
	return CalendarRecord{}, false, nil
}

// NoCalendar is a lookup that never finds a record, forcing the analytic path.
var NoCalendar CalendarLookup = noCalendar{}
