// Package store holds the externally visible snapshot. The train map
// is replaced wholesale at the end of each cycle, so readers always
// see a consistent picture without holding locks across a cycle.
package store

import (
	"sync"
	"time"

	"github.com/livetagus/fertagus-go/internal/models"
)

type Store struct {
	mu        sync.RWMutex
	trains    map[string]models.TrainOutput
	future    map[string]string
	dayType   models.DayType
	lastCycle time.Time
}

func NewStore() *Store {
	return &Store{
		trains: make(map[string]models.TrainOutput),
		future: make(map[string]string),
	}
}

// ReplaceTrains swaps in a freshly built train map. This is the sole
// publication point for cycle results.
func (s *Store) ReplaceTrains(trains map[string]models.TrainOutput, dayType models.DayType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trains = trains
	s.dayType = dayType
	s.lastCycle = time.Now()
}

// ReplaceFuture swaps in the latest pre-fetched status map.
func (s *Store) ReplaceFuture(statuses map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.future = statuses
}

// Train returns one train's last output, if present.
func (s *Store) Train(tripID string) (models.TrainOutput, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trains[tripID]
	return t, ok
}

// Has reports whether a train is in the current snapshot.
func (s *Store) Has(tripID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.trains[tripID]
	return ok
}

// Snapshot copies the current state for external consumers.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trains := make(map[string]models.TrainOutput, len(s.trains))
	for id, t := range s.trains {
		trains[id] = t
	}
	future := make(map[string]string, len(s.future))
	for id, st := range s.future {
		future[id] = st
	}
	return models.Snapshot{Trains: trains, FutureTrains: future}
}

// Health returns the lightweight status payload.
func (s *Store) Health(version string) models.Health {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Health{
		Status:       "online",
		Message:      "live train reconciliation running",
		Version:      version,
		Timestamp:    time.Now(),
		DayType:      s.dayType,
		LastCycle:    s.lastCycle,
		ActiveTrains: len(s.trains),
	}
}
