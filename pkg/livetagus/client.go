package livetagus

import (
	"path/filepath"
	"time"

	"github.com/livetagus/fertagus-go/internal/models"
)

// Client is the read surface over the reconciliation engine.
// Everything it returns is a copy of the last published snapshot.
type Client interface {
	Snapshot() models.Snapshot
	Health() models.Health
}

// Config holds engine configuration.
type Config struct {
	// BaseURL of the operator's live-passage API. Empty selects the
	// production endpoint.
	BaseURL string

	UpdateInterval time.Duration
	FutureInterval time.Duration

	// DataDir holds the schedule exports and the holiday list.
	DataDir string

	Version string
}

// DefaultConfig returns the production defaults. The 30-second cycle
// matches the upstream's own refresh rate; probing future trains
// more often than every 15 minutes buys nothing.
func DefaultConfig() Config {
	return Config{
		UpdateInterval: 30 * time.Second,
		FutureInterval: 15 * time.Minute,
		DataDir:        "data",
		Version:        "3.0.2",
	}
}

// Schedule export file names, matching the published data set.
const (
	arrivalsLisboaFile   = "horarios_comboio_passou_fertagus_sentido_lisboa.json"
	arrivalsMargemFile   = "horarios_comboio_passou_fertagus_sentido_margem.json"
	departuresLisboaFile = "fertagus_semana_sentido_lisboa.json"
	departuresMargemFile = "fertagus_semana_sentido_margem.json"
	holidaysFile         = "feriados.json"
)

func (c Config) schedulePath(name string) string {
	return filepath.Join(c.DataDir, name)
}
