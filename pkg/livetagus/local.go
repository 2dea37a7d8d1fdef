package livetagus

import (
	"log"
	"net/http"

	"github.com/livetagus/fertagus-go/internal/feed"
	"github.com/livetagus/fertagus-go/internal/memory"
	"github.com/livetagus/fertagus-go/internal/metrics"
	"github.com/livetagus/fertagus-go/internal/models"
	"github.com/livetagus/fertagus-go/internal/schedule"
	"github.com/livetagus/fertagus-go/internal/store"
	"github.com/livetagus/fertagus-go/internal/tracker"
)

// LocalClient runs the whole engine in-process: schedule index, fetch
// client, per-train memory, tracker loop and output store.
type LocalClient struct {
	cfg       Config
	out       *store.Store
	manager   *tracker.Manager
	collector *metrics.Collector
}

// NewLocal loads the schedules and starts the update loop. A schedule
// file that fails to load is logged and left empty; the engine serves
// a partial snapshot rather than refusing to start.
func NewLocal(cfg Config) (*LocalClient, error) {
	arrivals := append(
		loadTrips(cfg.schedulePath(arrivalsLisboaFile), models.DirectionLisboa),
		loadTrips(cfg.schedulePath(arrivalsMargemFile), models.DirectionMargem)...,
	)
	departures := append(
		loadTrips(cfg.schedulePath(departuresLisboaFile), models.DirectionLisboa),
		loadTrips(cfg.schedulePath(departuresMargemFile), models.DirectionMargem)...,
	)
	log.Printf("[init] %d arrival trips, %d departure trips in memory", len(arrivals), len(departures))

	holidays, err := schedule.LoadHolidays(cfg.schedulePath(holidaysFile))
	if err != nil {
		log.Printf("[init] holidays unavailable: %v", err)
	}

	collector := metrics.NewCollector()
	index := schedule.NewIndex(arrivals, departures, holidays)
	out := store.NewStore()
	manager := tracker.NewManager(
		index,
		feed.NewClient(cfg.BaseURL, collector),
		memory.NewStore(),
		out,
		collector,
		cfg.UpdateInterval,
		cfg.FutureInterval,
	)
	manager.Start()

	return &LocalClient{
		cfg:       cfg,
		out:       out,
		manager:   manager,
		collector: collector,
	}, nil
}

func loadTrips(path string, dir models.Direction) []models.Trip {
	trips, err := schedule.LoadTrips(path, dir)
	if err != nil {
		log.Printf("[load] %v", err)
		return nil
	}
	log.Printf("[load] %s: %d trips", path, len(trips))
	return trips
}

// Close stops the background loop. Must be called to avoid leaking
// the tracker goroutine.
func (c *LocalClient) Close() {
	c.manager.Stop()
}

func (c *LocalClient) Snapshot() models.Snapshot {
	return c.out.Snapshot()
}

func (c *LocalClient) Health() models.Health {
	return c.out.Health(c.cfg.Version)
}

// MetricsHandler exposes the Prometheus registry.
func (c *LocalClient) MetricsHandler() http.Handler {
	return c.collector.Handler()
}
