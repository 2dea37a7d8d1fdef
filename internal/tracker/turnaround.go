package tracker

import (
	"strings"
	"time"

	"github.com/livetagus/fertagus-go/internal/models"
	"github.com/livetagus/fertagus-go/internal/schedule"
	"github.com/livetagus/fertagus-go/internal/timeutil"
)

// Turnaround tunables. The planned offset started at 4 minutes and
// settled at 7 after watching real rotations; keep them overridable.
var (
	// TurnaroundOffset is the planned gap between the same train
	// set's arrival at the terminal and its next departure.
	TurnaroundOffset = 7 * time.Minute

	// MinTurnaround is the minimum technical stop before the set can
	// physically leave again.
	MinTurnaround = 4*time.Minute + 30*time.Second

	// TurnaroundNoise is the threshold below which a computed excess
	// is not worth reporting.
	TurnaroundNoise = 30 * time.Second

	// PeakNeighborWindow defines peak service: a departure with a
	// neighbor scheduled within this window. Outside peak the
	// terminal has idle sets and turnaround contention is negligible.
	PeakNeighborWindow = 10 * time.Minute
)

// Prediction is a forecast delay for an outbound trip, derived purely
// from the live position of its inbound rolling stock.
type Prediction struct {
	DelaySeconds int
	Departure    string
}

// predictTurnaround estimates a forced departure delay at the
// terminal before any live data exists for the outbound trip itself.
// It reads the inbound trip's last published output rather than
// recomputing it.
func (m *Manager) predictTurnaround(tripID, scheduledDeparture string, now time.Time) *Prediction {
	if scheduledDeparture == "" {
		return nil
	}
	departAt, ok := timeutil.ParseSmart(scheduledDeparture, now)
	if !ok {
		return nil
	}

	if !m.index.HasNeighborDeparture(tripID, models.DirectionMargem, scheduledDeparture, PeakNeighborWindow, now) {
		return nil
	}

	// The physically same set is the one planned to arrive one
	// turnaround offset before this departure.
	inboundArrival := timeutil.FormatHHMM(departAt.Add(-TurnaroundOffset))
	inbound := m.index.InboundByTerminalArrival(inboundArrival)
	if inbound == nil {
		return nil
	}

	live, ok := m.out.Train(inbound.ID)
	if !ok {
		return nil
	}

	var arrival *models.StationPassage
	for i := range live.Passages {
		if strings.ToUpper(live.Passages[i].StationName) == schedule.TerminalStation {
			arrival = &live.Passages[i]
			break
		}
	}
	if arrival == nil {
		return nil
	}

	predictedArrival, ok := timeutil.ParseSmart(arrival.Predicted, now)
	if !ok {
		return nil
	}

	earliest := predictedArrival.Add(MinTurnaround)
	excess := earliest.Sub(departAt)
	if excess <= TurnaroundNoise {
		return nil
	}

	return &Prediction{
		DelaySeconds: int(excess / time.Second),
		Departure:    timeutil.FormatClock(earliest),
	}
}
