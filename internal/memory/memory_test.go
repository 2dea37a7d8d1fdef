package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveIsWriteOnce(t *testing.T) {
	s := NewStore()
	tm := s.Get("4521")

	first := time.Date(2024, 3, 12, 8, 5, 0, 0, time.UTC)
	ts, fresh := tm.Observe(9417087, first)
	require.True(t, fresh)
	assert.Equal(t, first, ts)

	// A later cycle re-reporting the same node must not move the
	// recorded timestamp.
	later := first.Add(30 * time.Second)
	ts, fresh = tm.Observe(9417087, later)
	assert.False(t, fresh)
	assert.Equal(t, first, ts)
}

func TestLazyCreateAndDelete(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Has("4521"))
	assert.Equal(t, 0, s.Len())

	tm := s.Get("4521")
	require.NotNil(t, tm)
	assert.True(t, s.Has("4521"))
	assert.Equal(t, 1, s.Len())

	// Get returns the same entry, not a fresh one
	tm.LastDelay = 120
	assert.Equal(t, 120, s.Get("4521").LastDelay)

	s.Delete("4521")
	assert.False(t, s.Has("4521"))
	assert.Equal(t, 0, s.Len())
}
