// Package astrotime converts between calendar time and Julian Dates.
package astrotime

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

const (
	secondsPerDay = 86400.0
	// unixEpochJD is the Julian Date of 1970-01-01T00:00:00Z.
	unixEpochJD = 2440587.5
)

// Layouts accepted by Parse, tried in order.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// JulianDate converts t to a Julian Date in days. The underlying algorithm is
// valid for years 1900 through 2100.
func JulianDate(t time.Time) float64 {
	t = t.UTC()
	jd := satellite.JDay(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
	return jd + float64(t.Nanosecond())/1e9/secondsPerDay
}

// Time converts a Julian Date to UTC time, rounded to the microsecond.
func Time(jd float64) time.Time {
	sec := (jd - unixEpochJD) * secondsPerDay
	whole, frac := math.Modf(sec)
	t := time.Unix(int64(whole), int64(math.Round(frac*1e6))*1e3).UTC()
	return t
}

// Parse reads a calendar timestamp (RFC3339 or a plain date, UTC assumed)
// and returns its Julian Date.
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return JulianDate(t), nil
		}
	}
	return 0, fmt.Errorf("unrecognised timestamp %q", s)
}
