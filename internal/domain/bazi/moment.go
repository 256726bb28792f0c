package bazi

import (
	"fmt"
	"strings"
	"time"
)

// YearRange bounds the birth years the calendar tables cover.
type YearRange struct {
	Min int
	Max int
}

// DefaultYearRange matches the perpetual calendar coverage.
var DefaultYearRange = YearRange{Min: 1900, Max: 2100}

// Clamp narrows r to DefaultYearRange. A zero or inverted range becomes the default.
func (r YearRange) Clamp() YearRange {
	r.Min = max(r.Min, DefaultYearRange.Min)
	if r.Max == 0 || r.Max > DefaultYearRange.Max {
		r.Max = DefaultYearRange.Max
	}
	if r.Min > r.Max {
		return DefaultYearRange
	}
	return r
}

// BirthMoment is a validated civil birth time plus location.
type BirthMoment struct {
	civil     time.Time
	longitude float64
	latitude  float64
}

// NewBirthMoment validates its inputs and builds a BirthMoment.
// The civil time carries no zone; it is stored as a UTC wall clock.
func NewBirthMoment(year, month, day, hour, minute int, longitude, latitude float64, years YearRange) (BirthMoment, error) {
	years = years.Clamp()
	if year < years.Min || year > years.Max {
		return BirthMoment{}, invalidInput(fmt.Sprintf("birth year %d outside supported range [%d, %d]", year, years.Min, years.Max))
	}
	if month < 1 || month > 12 {
		return BirthMoment{}, invalidInput(fmt.Sprintf("month %d out of range", month))
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return BirthMoment{}, invalidInput(fmt.Sprintf("time %02d:%02d out of range", hour, minute))
	}
	civil := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	if civil.Day() != day || int(civil.Month()) != month {
		return BirthMoment{}, invalidInput(fmt.Sprintf("%04d-%02d-%02d is not a calendar date", year, month, day))
	}
	if longitude < -180 || longitude > 180 {
		return BirthMoment{}, invalidInput(fmt.Sprintf("longitude %.4f out of range", longitude))
	}
	if latitude < -90 || latitude > 90 {
		return BirthMoment{}, invalidInput(fmt.Sprintf("latitude %.4f out of range", latitude))
	}
	return BirthMoment{civil: civil, longitude: longitude, latitude: latitude}, nil
}

// civilLayouts are the accepted birth time spellings.
var civilLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

// ParseBirthMoment parses a civil time string such as "1961-09-27 10:30".
func ParseBirthMoment(civil string, longitude, latitude float64, years YearRange) (BirthMoment, error) {
	clean := strings.TrimSpace(civil)
	if clean == "" {
		return BirthMoment{}, invalidInput("birth time cannot be empty")
	}
	for _, layout := range civilLayouts {
		ts, err := time.Parse(layout, clean)
		if err != nil {
			continue
		}
		return NewBirthMoment(ts.Year(), int(ts.Month()), ts.Day(), ts.Hour(), ts.Minute(), longitude, latitude, years)
	}
	return BirthMoment{}, invalidInput(fmt.Sprintf("birth time %q must be formatted as YYYY-MM-DD HH:MM", civil))
}

// Civil returns the civil clock time.
func (m BirthMoment) Civil() time.Time { return m.civil }

// Date returns the civil date at midnight.
func (m BirthMoment) Date() time.Time {
	y, mo, d := m.civil.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// Longitude in degrees east.
func (m BirthMoment) Longitude() float64 { return m.longitude }

// Latitude in degrees north.
func (m BirthMoment) Latitude() float64 { return m.latitude }

// TrueSolarTime applies the longitude correction to the civil time.
func (m BirthMoment) TrueSolarTime() time.Time {
	return TrueSolarTime(m.civil, m.longitude)
}

// Key is a canonical string used for caching identical inputs.
func (m BirthMoment) Key() string {
	return fmt.Sprintf("%s|%.4f|%.4f", m.civil.Format("2006-01-02T15:04"), m.longitude, m.latitude)
}
