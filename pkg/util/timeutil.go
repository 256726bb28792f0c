package util

import (
	"fmt"
	"strings"
	"time"
)

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

var dateLayouts = []string{time.DateOnly, "2006/01/02", "20060102", "2006-1-2", "2006/1/2"}

// NormalizeDate rewrites a calendar date in any of the common table layouts
// to YYYY-MM-DD.
func NormalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(time.DateOnly), nil
		}
	}
	return "", fmt.Errorf("unrecognised date %q", raw)
}
