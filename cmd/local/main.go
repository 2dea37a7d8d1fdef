// Command local runs a single reconciliation cycle and dumps the
// resulting snapshot to stdout. Useful for poking at the engine
// without standing up the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/livetagus/fertagus-go/internal/feed"
	"github.com/livetagus/fertagus-go/internal/memory"
	"github.com/livetagus/fertagus-go/internal/models"
	"github.com/livetagus/fertagus-go/internal/schedule"
	"github.com/livetagus/fertagus-go/internal/store"
	"github.com/livetagus/fertagus-go/internal/tracker"
	"github.com/livetagus/fertagus-go/pkg/livetagus"
)

func main() {
	_ = godotenv.Load()

	defaults := livetagus.DefaultConfig()
	var (
		dataDir = flag.String("data-dir", defaults.DataDir, "Schedule data directory")
		baseURL = flag.String("base-url", os.Getenv("UPSTREAM_BASE_URL"), "Upstream API base URL")
		timeout = flag.Duration("timeout", 5*time.Minute, "Overall cycle timeout")
	)
	flag.Parse()

	cfg := defaults
	cfg.DataDir = *dataDir

	arrivals := mustLoad(cfg, "horarios_comboio_passou_fertagus_sentido_lisboa.json", models.DirectionLisboa)
	arrivals = append(arrivals, mustLoad(cfg, "horarios_comboio_passou_fertagus_sentido_margem.json", models.DirectionMargem)...)
	departures := mustLoad(cfg, "fertagus_semana_sentido_lisboa.json", models.DirectionLisboa)
	departures = append(departures, mustLoad(cfg, "fertagus_semana_sentido_margem.json", models.DirectionMargem)...)

	holidays, err := schedule.LoadHolidays(cfg.DataDir + "/feriados.json")
	if err != nil {
		log.Printf("holidays unavailable: %v", err)
	}

	index := schedule.NewIndex(arrivals, departures, holidays)
	out := store.NewStore()
	m := tracker.NewManager(index, feed.NewClient(*baseURL, nil), memory.NewStore(), out, nil, 0, 0)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	m.RunCycle(ctx, time.Now())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out.Snapshot()); err != nil {
		log.Fatalf("encoding snapshot: %v", err)
	}
}

func mustLoad(cfg livetagus.Config, name string, dir models.Direction) []models.Trip {
	trips, err := schedule.LoadTrips(cfg.DataDir+"/"+name, dir)
	if err != nil {
		log.Printf("load %s: %v", name, err)
		return nil
	}
	return trips
}
