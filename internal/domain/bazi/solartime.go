package bazi

import "time"

// referenceMeridian is the longitude (120°E) that civil China Standard Time is based on.
const referenceMeridian = 120.0

// TrueSolarTime shifts civil clock time by four minutes per degree of
// longitude away from the reference meridian. Callers validate the longitude.
func TrueSolarTime(civil time.Time, longitude float64) time.Time {
	offset := (longitude - referenceMeridian) * 4 * float64(time.Minute)
	return civil.Add(time.Duration(offset))
}
