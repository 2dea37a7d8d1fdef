package schedule

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/livetagus/fertagus-go/internal/models"
)

// tripFile tolerates both a bare trip array and a {"trips": [...]}
// wrapper, which the schedule exports have used interchangeably.
type tripFile struct {
	Trips []map[string]json.RawMessage `json:"trips"`
}

// LoadTrips reads one schedule file and stamps every trip with the
// given direction. Station times are picked up by slug; the remaining
// keys are trip attributes.
func LoadTrips(path string, dir models.Direction) ([]models.Trip, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading schedule %s", path)
	}

	var records []map[string]json.RawMessage
	var wrapped tripFile
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Trips != nil {
		records = wrapped.Trips
	} else if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errors.Wrapf(err, "decoding schedule %s", path)
	}

	trips := make([]models.Trip, 0, len(records))
	for i, rec := range records {
		trip, err := decodeTrip(rec, dir)
		if err != nil {
			return nil, errors.Wrapf(err, "schedule %s, trip %d", path, i)
		}
		trips = append(trips, trip)
	}
	return trips, nil
}

func decodeTrip(rec map[string]json.RawMessage, dir models.Direction) (models.Trip, error) {
	trip := models.Trip{
		Direction: dir,
		Service:   1,
		Days:      models.DayEveryday,
		Times:     make(map[string]string),
	}

	for key, val := range rec {
		switch key {
		case "id":
			id, err := decodeID(val)
			if err != nil {
				return trip, err
			}
			trip.ID = id
		case "service":
			if err := json.Unmarshal(val, &trip.Service); err != nil {
				return trip, errors.Wrap(err, "service")
			}
		case "ocupacao":
			if err := json.Unmarshal(val, &trip.Occupancy); err != nil {
				return trip, errors.Wrap(err, "ocupacao")
			}
		case "days":
			var days string
			if err := json.Unmarshal(val, &days); err != nil {
				return trip, errors.Wrap(err, "days")
			}
			switch days {
			case "weekday", "semana":
				trip.Days = models.DayWeekday
			case "weekend", "holiday", "fim_de_semana":
				trip.Days = models.DayWeekend
			default:
				trip.Days = models.DayEveryday
			}
		default:
			if _, known := displayNames[key]; known {
				var t string
				if err := json.Unmarshal(val, &t); err != nil {
					return trip, errors.Wrapf(err, "station %s", key)
				}
				if t != "" {
					trip.Times[key] = t
				}
			}
		}
	}

	if trip.ID == "" {
		return trip, errors.New("trip without id")
	}
	return trip, nil
}

// decodeID accepts both numeric and string trip ids.
func decodeID(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(n, 10), nil
	}
	return "", fmt.Errorf("unparseable trip id %s", raw)
}

// LoadHolidays reads a JSON array of "YYYY-MM-DD" dates.
func LoadHolidays(path string) (map[string]bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading holidays %s", path)
	}
	var dates []string
	if err := json.Unmarshal(raw, &dates); err != nil {
		return nil, errors.Wrapf(err, "decoding holidays %s", path)
	}
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		set[d] = true
	}
	return set, nil
}
