package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livetagus/fertagus-go/internal/memory"
	"github.com/livetagus/fertagus-go/internal/models"
	"github.com/livetagus/fertagus-go/internal/schedule"
	"github.com/livetagus/fertagus-go/internal/store"
)

func trip(id string, dir models.Direction, times map[string]string) models.Trip {
	return models.Trip{ID: id, Direction: dir, Service: 1, Days: models.DayEveryday, Times: times}
}

// turnaroundFixture: inbound 100 is planned to reach the terminal at
// 08:14, exactly one turnaround offset before outbound 200 departs at
// 08:21. Departure 201 six minutes later makes the slot peak service.
func turnaroundFixture(peak bool) *schedule.Index {
	arrivals := []models.Trip{
		trip("100", models.DirectionLisboa, map[string]string{
			"setubal": "07:17", "roma_areeiro": "08:14:00",
		}),
		trip("200", models.DirectionMargem, map[string]string{
			"roma_areeiro": "08:21:00", "pragal": "08:34", "coina": "08:47",
		}),
	}
	departures := []models.Trip{
		trip("d200", models.DirectionMargem, map[string]string{"roma_areeiro": "08:21"}),
	}
	if peak {
		departures = append(departures,
			trip("d201", models.DirectionMargem, map[string]string{"roma_areeiro": "08:27"}))
	}
	return schedule.NewIndex(arrivals, departures, nil)
}

func seedInbound(m *Manager, predictedArrival string) {
	m.out.ReplaceTrains(map[string]models.TrainOutput{
		"100": {
			ID: "100",
			Passages: []models.StationPassage{
				{StationName: "ROMA-AREEIRO", Predicted: predictedArrival},
			},
		},
	}, models.DayWeekday)
}

func newTestManager(ix *schedule.Index, f DetailsFetcher) *Manager {
	m := NewManager(ix, f, memory.NewStore(), store.NewStore(), nil, time.Minute, time.Hour)
	m.pacing = 0
	return m
}

func TestTurnaroundBelowNoiseThreshold(t *testing.T) {
	now := time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC)
	m := newTestManager(turnaroundFixture(true), nil)

	// 08:16:40 + 4m30s = 08:21:10, only 10s past schedule
	seedInbound(m, "08:16:40")
	assert.Nil(t, m.predictTurnaround("200", "08:21", now))
}

func TestTurnaroundReportsExcess(t *testing.T) {
	now := time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC)
	m := newTestManager(turnaroundFixture(true), nil)

	// 08:17:30 + 4m30s = 08:22:00, 60s past the 08:21:00 departure
	seedInbound(m, "08:17:30")
	pred := m.predictTurnaround("200", "08:21", now)
	require.NotNil(t, pred)
	assert.Equal(t, 60, pred.DelaySeconds)
	assert.Equal(t, "08:22:00", pred.Departure)
}

func TestTurnaroundRequiresPeakFrequency(t *testing.T) {
	now := time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC)
	m := newTestManager(turnaroundFixture(false), nil)

	// inbound is clearly late, but no neighboring departure within
	// 10 minutes means no contention to predict
	seedInbound(m, "08:17:30")
	assert.Nil(t, m.predictTurnaround("200", "08:21", now))
}

func TestTurnaroundNeedsInboundLiveState(t *testing.T) {
	now := time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC)
	m := newTestManager(turnaroundFixture(true), nil)

	// nothing published for the inbound trip yet
	assert.Nil(t, m.predictTurnaround("200", "08:21", now))
}
