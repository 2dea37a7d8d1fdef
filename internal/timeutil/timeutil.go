// Package timeutil resolves schedule time-of-day strings against the
// operational day, which runs roughly 05:00-02:30 and therefore
// crosses midnight.
package timeutil

import (
	"strconv"
	"strings"
	"time"
)

// ParseSmart parses "HH:MM" or "HH:MM:SS" relative to a reference
// instant, applying midnight rollover: late-evening times seen in the
// small hours belong to the previous calendar day, and small-hour
// times seen late in the evening belong to the next one. Malformed
// input yields ok=false; callers treat that as "unknown, skip".
func ParseSmart(s string, ref time.Time) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return time.Time{}, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return time.Time{}, false
	}
	sec := 0
	if len(parts) == 3 {
		sec, err = strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return time.Time{}, false
		}
	}

	d := time.Date(ref.Year(), ref.Month(), ref.Day(), h, m, sec, 0, ref.Location())

	switch {
	case ref.Hour() < 5 && h >= 18:
		d = d.AddDate(0, 0, -1)
	case ref.Hour() >= 20 && h < 5:
		d = d.AddDate(0, 0, 1)
	}

	return d, true
}

// OperationalDate returns the service date the given instant belongs
// to. Hours before 03:00 still count as the previous operational day.
func OperationalDate(now time.Time) time.Time {
	if now.Hour() < 3 {
		now = now.AddDate(0, 0, -1)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// NormalizeClock pads a bare "HH:MM" with the given seconds suffix
// (":00" or ":30"); full "HH:MM:SS" strings pass through unchanged.
func NormalizeClock(s, fill string) string {
	switch len(s) {
	case 5:
		return s + fill
	case 8:
		return s
	}
	return ""
}

// FormatClock renders a time as "HH:MM:SS".
func FormatClock(t time.Time) string {
	return t.Format("15:04:05")
}

// FormatHHMM renders a time as "HH:MM".
func FormatHHMM(t time.Time) string {
	return t.Format("15:04")
}

// FormatDate renders the ISO date used by the upstream endpoint.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDisplayDate renders the day-first date used in output labels.
func FormatDisplayDate(t time.Time) string {
	return t.Format("02/01/2006")
}
