// Package memory keeps per-train state that must survive across
// polling cycles: first-observed passage timestamps, the last
// computed delay, and the wake-up gate for skipping redundant
// fetches.
package memory

import (
	"sync"
	"time"
)

// TrainMemory is the mutable state for one tracked trip. It has a
// single writer (the update cycle); the mutex in Store only guards
// the map itself.
type TrainMemory struct {
	// History maps a station node id to the wall-clock instant the
	// node was first seen marked passed. Write-once per node.
	History map[int64]time.Time

	// LastDelay is the rolling delay in seconds, never persisted
	// below zero.
	LastDelay int

	// NextWakeUp gates re-fetching: before this instant the cached
	// output is reused. Zero means fetch every cycle.
	NextWakeUp time.Time
}

// Observe records the first passage timestamp for a node and returns
// it. The second result is true only on the first call for that node;
// later calls return the original timestamp unchanged.
func (tm *TrainMemory) Observe(nodeID int64, now time.Time) (time.Time, bool) {
	if ts, ok := tm.History[nodeID]; ok {
		return ts, false
	}
	tm.History[nodeID] = now
	return now, true
}

// Store maps trip id to its memory. Entries are created lazily on
// first sight and deleted when the builder confirms completion.
type Store struct {
	mu     sync.Mutex
	trains map[string]*TrainMemory
}

func NewStore() *Store {
	return &Store{trains: make(map[string]*TrainMemory)}
}

// Get returns the memory for a trip, creating it if absent.
func (s *Store) Get(tripID string) *TrainMemory {
	s.mu.Lock()
	defer s.mu.Unlock()
	tm, ok := s.trains[tripID]
	if !ok {
		tm = &TrainMemory{History: make(map[int64]time.Time)}
		s.trains[tripID] = tm
	}
	return tm
}

// Has reports whether a trip is tracked, without creating an entry.
func (s *Store) Has(tripID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.trains[tripID]
	return ok
}

// Delete drops a trip's memory once it has completed its run.
func (s *Store) Delete(tripID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trains, tripID)
}

// Len returns the number of tracked trips.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trains)
}
