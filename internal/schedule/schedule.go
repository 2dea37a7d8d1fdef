// Package schedule holds the static timetable: two orderings of the
// same physical trips (arrival-oriented for delay math,
// departure-oriented for public display), plus the holiday set used
// to classify operational days.
package schedule

import (
	"strings"
	"time"

	"github.com/livetagus/fertagus-go/internal/models"
	"github.com/livetagus/fertagus-go/internal/timeutil"
)

// Index is loaded once at boot and immutable afterwards. Lookups scan
// the slices; at a few dozen trips per direction that is cheaper than
// maintaining keyed maps would be worth.
type Index struct {
	arrivals   []models.Trip
	departures []models.Trip
	holidays   map[string]bool
}

// NewIndex builds an index over the two trip collections. A nil
// holiday set means no holidays are known.
func NewIndex(arrivals, departures []models.Trip, holidays map[string]bool) *Index {
	if holidays == nil {
		holidays = map[string]bool{}
	}
	return &Index{arrivals: arrivals, departures: departures, holidays: holidays}
}

// Arrivals returns the arrival-oriented trips.
func (ix *Index) Arrivals() []models.Trip {
	return ix.arrivals
}

// DayTypeFor classifies an operational date as weekday or
// weekend/holiday.
func (ix *Index) DayTypeFor(date time.Time) models.DayType {
	wd := date.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return models.DayWeekend
	}
	if ix.holidays[timeutil.FormatDate(date)] {
		return models.DayWeekend
	}
	return models.DayWeekday
}

// DepartureFor finds the departure-oriented counterpart of an
// arrival-oriented trip. The two exports carry no shared id, so the
// match key is direction plus the terminal-station time to the
// minute, the same way the feed and the display timetable are paired
// upstream.
func (ix *Index) DepartureFor(trip *models.Trip) *models.Trip {
	key := minuteKey(trip.Time("roma_areeiro"))
	if key == "" {
		return nil
	}
	for i := range ix.departures {
		d := &ix.departures[i]
		if d.Direction == trip.Direction && minuteKey(d.Time("roma_areeiro")) == key {
			return d
		}
	}
	return nil
}

// InboundByTerminalArrival finds the lisboa-direction trip scheduled
// to reach the terminal at the given "HH:MM".
func (ix *Index) InboundByTerminalArrival(hhmm string) *models.Trip {
	if hhmm == "" {
		return nil
	}
	for i := range ix.arrivals {
		t := &ix.arrivals[i]
		if t.Direction != models.DirectionLisboa {
			continue
		}
		if strings.HasPrefix(t.Time("roma_areeiro"), hhmm) {
			return t
		}
	}
	return nil
}

// HasNeighborDeparture reports whether another trip in the same
// direction departs the terminal within the given window of the
// candidate time. Used as the peak-service gate: turnaround
// contention only matters when departures are tightly spaced.
func (ix *Index) HasNeighborDeparture(tripID string, dir models.Direction, departure string, window time.Duration, ref time.Time) bool {
	at, ok := timeutil.ParseSmart(departure, ref)
	if !ok {
		return false
	}
	counterpartSkipped := false
	for i := range ix.departures {
		d := &ix.departures[i]
		if d.Direction != dir || d.ID == tripID {
			continue
		}
		other, ok := timeutil.ParseSmart(d.Time("roma_areeiro"), ref)
		if !ok {
			continue
		}
		diff := other.Sub(at)
		if diff < 0 {
			diff = -diff
		}
		if diff > window {
			continue
		}
		// The candidate's own departure-oriented record carries a
		// different id but the exact same minute; the first such
		// match is its counterpart, not a neighbor.
		if diff == 0 && !counterpartSkipped {
			counterpartSkipped = true
			continue
		}
		return true
	}
	return false
}

// minuteKey truncates a schedule time to "HH:MM".
func minuteKey(s string) string {
	if len(s) < 5 {
		return ""
	}
	return s[:5]
}
