package tracker

import (
	"context"
	"strings"
	"time"

	"github.com/livetagus/fertagus-go/internal/models"
	"github.com/livetagus/fertagus-go/internal/schedule"
	"github.com/livetagus/fertagus-go/internal/timeutil"
)

// placeholderActual is published for stations not yet passed.
const placeholderActual = "HH:MM:SS"

// buildTrain produces one trip's output for this cycle, or nil when
// the trip has completed its run. It never fails: any missing piece
// degrades to whatever partial data is available.
func (m *Manager) buildTrain(ctx context.Context, c *candidate, now time.Time) *models.TrainOutput {
	trip := &c.trip
	mem := m.mem.Get(trip.ID)

	// A trip that never went live and is well past its window will
	// never complete; stop tracking it.
	if len(mem.History) == 0 && now.After(c.end.Add(windowAfter)) {
		m.mem.Delete(trip.ID)
		return nil
	}

	// Comfortable buffer before the next station: reuse the cached
	// output instead of hammering the upstream.
	if now.Before(mem.NextWakeUp) {
		if cached, ok := m.out.Train(trip.ID); ok {
			return &cached
		}
	}

	depTrip := m.index.DepartureFor(trip)
	details := m.client.Details(ctx, trip.ID, c.originDate)

	isLive := false
	status := statusNoData
	duration := "--:--"
	operator := defaultOperator
	origin, destination := endpointLabels(trip)
	var nodes []models.PassageNode

	if details != nil {
		status = details.Status
		if details.Duration != "" {
			duration = details.Duration
		}
		if details.Operator != "" {
			operator = details.Operator
		}
		if details.Origin != "" {
			origin = details.Origin
		}
		if details.Destination != "" {
			destination = details.Destination
		}
		if len(details.Nodes) > 0 {
			nodes = details.Nodes
			for _, n := range nodes {
				if n.Passed {
					isLive = true
					break
				}
			}
		}
	}

	// No live nodes yet: synthesize the route from the static times.
	if len(nodes) == 0 {
		nodes = synthesizeNodes(trip)
	}

	turnaroundDelay := 0
	if trip.Direction == models.DirectionMargem {
		if pred := m.predictTurnaround(trip.ID, terminalDeparture(trip, depTrip), now); pred != nil {
			turnaroundDelay = pred.DelaySeconds
			if !isLive {
				status = statusTurnaround
			}
			if m.metrics != nil {
				m.metrics.TurnaroundPredictions.Inc()
			}
		}
	}

	// Completion: the last node passed at the direction's terminus.
	// The trip leaves the active set and its memory is dropped.
	if isLive {
		last := nodes[len(nodes)-1]
		if last.Passed && schedule.IsFinalStation(trip.Direction, last.StationName) {
			m.mem.Delete(trip.ID)
			if m.metrics != nil {
				m.metrics.TripsCompleted.Inc()
			}
			return nil
		}
	}

	refTrip := trip
	if depTrip != nil {
		refTrip = depTrip
	}
	headerOrigin, headerDestination := headerTimes(refTrip)
	displayDate := timeutil.FormatDisplayDate(c.start)

	out := &models.TrainOutput{
		ID:              trip.ID,
		OriginTime:      displayDate + " " + headerOrigin,
		DestinationTime: displayDate + " " + headerDestination,
		Origin:          origin,
		Destination:     destination,
		Duration:        duration,
		Operator:        operator,
		ServiceType:     serviceType,
		Occupancy:       trip.Occupancy,
		Status:          status,
	}

	currentDelay := mem.LastDelay
	if turnaroundDelay > currentDelay {
		currentDelay = turnaroundDelay
		// A substantial forecast counts as live so the front end
		// surfaces the train before the feed does.
		if turnaroundDelay > 60 {
			isLive = true
		}
	}
	out.Live = isLive

	passedThisCycle := false
	for _, node := range nodes {
		slug := schedule.SlugFor(node.StationName)

		arrival := ""
		if slug != "" {
			arrival = timeutil.NormalizeClock(trip.Time(slug), ":00")
		}
		if arrival == "" {
			// No static counterpart; the feed's own programmed value
			// is the best we have.
			arrival = timeutil.NormalizeClock(node.Programmed, ":30")
		}

		departure := ""
		if slug != "" && depTrip != nil {
			departure = timeutil.NormalizeClock(depTrip.Time(slug), ":00")
		}
		if departure == "" {
			departure = arrival
		}

		p := models.StationPassage{
			Passed:            node.Passed,
			Programmed:        departure,
			ProgrammedArrival: arrival,
			Actual:            placeholderActual,
			Predicted:         departure,
			StationID:         node.NodeID,
			StationName:       node.StationName,
			Remarks:           node.Remarks,
		}

		arrivalAt, arrivalOK := timeutil.ParseSmart(arrival, now)

		if node.Passed {
			ts, fresh := mem.Observe(node.NodeID, now)
			if fresh {
				passedThisCycle = true
			}
			p.Actual = timeutil.FormatClock(ts)
			p.Predicted = p.Actual
			if arrivalOK {
				d := int(ts.Sub(arrivalAt)/time.Second) - int(FeedLatency/time.Second)
				p.Delay = d
				// An observed passage overrides any forecast.
				currentDelay = d
			}
		} else if departAt, ok := timeutil.ParseSmart(departure, now); ok {
			// Project the arrival estimate forward by the rolling
			// delay, floored at the public departure time so an
			// on-time or early train never predicts ahead of the
			// timetable.
			predicted := departAt
			if arrivalOK {
				if est := arrivalAt.Add(time.Duration(currentDelay) * time.Second); est.After(predicted) {
					predicted = est
				}
			}
			if isLive && trip.Direction == models.DirectionMargem && bridgeStations[strings.ToUpper(node.StationName)] {
				predicted = predicted.Add(BridgeCorrection)
			}
			p.Predicted = timeutil.FormatClock(predicted)
		}

		out.Passages = append(out.Passages, p)
	}

	out.Delay = currentDelay
	if currentDelay > 0 {
		mem.LastDelay = currentDelay
	} else {
		mem.LastDelay = 0
	}

	// A fresh passage means the next station is minutes away; skip a
	// few fetches. Assumes forward-only progress through the route.
	if passedThisCycle {
		mem.NextWakeUp = now.Add(wakeUpHold)
	} else {
		mem.NextWakeUp = time.Time{}
	}

	// Nothing observed and nothing to carry: leave no memory behind,
	// so a trip the feed never reports on is not tracked past its
	// window.
	if len(mem.History) == 0 && mem.LastDelay == 0 && mem.NextWakeUp.IsZero() {
		m.mem.Delete(trip.ID)
	}

	return out
}

// synthesizeNodes builds the passage list from the static schedule,
// in route order, all marked not passed.
func synthesizeNodes(trip *models.Trip) []models.PassageNode {
	var nodes []models.PassageNode
	for _, slug := range schedule.RouteOrder(trip.Direction) {
		t := trip.Time(slug)
		if t == "" {
			continue
		}
		name := schedule.DisplayName(slug)
		nodes = append(nodes, models.PassageNode{
			StationName: name,
			Programmed:  t,
			NodeID:      schedule.NodeID(name),
		})
	}
	return nodes
}

// endpointLabels derives default origin/destination names from the
// direction and service type, used when the feed provides none.
func endpointLabels(trip *models.Trip) (string, string) {
	south := "SETÚBAL"
	if trip.Service == 0 {
		south = "COINA"
	}
	if trip.Direction == models.DirectionLisboa {
		return south, schedule.TerminalStation
	}
	return schedule.TerminalStation, south
}

// headerTimes returns the "HH:MM" origin and destination times for
// the output header labels.
func headerTimes(t *models.Trip) (string, string) {
	start, end := tripEndpoints(t)
	return clipMinute(start), clipMinute(end)
}

// terminalDeparture is the public departure time at the terminal,
// preferring the display timetable over the arrival-oriented one.
func terminalDeparture(trip, depTrip *models.Trip) string {
	if depTrip != nil {
		if t := depTrip.Time("roma_areeiro"); t != "" {
			return clipMinute(t)
		}
	}
	return clipMinute(trip.Time("roma_areeiro"))
}

func clipMinute(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}
