package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSmartRollover(t *testing.T) {
	loc := time.UTC

	t.Run("evening time seen after midnight dates yesterday", func(t *testing.T) {
		ref := time.Date(2024, 3, 12, 0, 45, 0, 0, loc)
		for _, s := range []string{"18:00", "22:10", "23:59:59"} {
			got, ok := ParseSmart(s, ref)
			require.True(t, ok, s)
			assert.Equal(t, 11, got.Day(), s)
		}
	})

	t.Run("small-hour time seen in the evening dates tomorrow", func(t *testing.T) {
		ref := time.Date(2024, 3, 12, 23, 30, 0, 0, loc)
		for _, s := range []string{"00:00", "01:20:00", "04:59"} {
			got, ok := ParseSmart(s, ref)
			require.True(t, ok, s)
			assert.Equal(t, 13, got.Day(), s)
		}
	})

	t.Run("no rollover during the day", func(t *testing.T) {
		ref := time.Date(2024, 3, 12, 14, 0, 0, 0, loc)
		got, ok := ParseSmart("08:21:00", ref)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 3, 12, 8, 21, 0, 0, loc), got)
	})

	t.Run("boundary hours", func(t *testing.T) {
		// 17:59 at 00:30 is today, not yesterday
		ref := time.Date(2024, 3, 12, 0, 30, 0, 0, loc)
		got, ok := ParseSmart("17:59", ref)
		require.True(t, ok)
		assert.Equal(t, 12, got.Day())

		// 05:00 at 21:00 stays today
		ref = time.Date(2024, 3, 12, 21, 0, 0, 0, loc)
		got, ok = ParseSmart("05:00", ref)
		require.True(t, ok)
		assert.Equal(t, 12, got.Day())
	})
}

func TestParseSmartMalformed(t *testing.T) {
	ref := time.Date(2024, 3, 12, 14, 0, 0, 0, time.UTC)
	for _, s := range []string{"", "nope", "25:00", "12:61", "12", "12:00:99", "a:b:c"} {
		_, ok := ParseSmart(s, ref)
		assert.False(t, ok, "expected %q to be rejected", s)
	}
}

func TestOperationalDate(t *testing.T) {
	loc := time.UTC

	// 01:30 belongs to the previous operational day
	got := OperationalDate(time.Date(2024, 3, 12, 1, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, loc), got)

	// 03:00 already belongs to the new day
	got = OperationalDate(time.Date(2024, 3, 12, 3, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, loc), got)
}

func TestNormalizeClock(t *testing.T) {
	assert.Equal(t, "08:21:00", NormalizeClock("08:21", ":00"))
	assert.Equal(t, "08:21:30", NormalizeClock("08:21", ":30"))
	assert.Equal(t, "08:21:15", NormalizeClock("08:21:15", ":00"))
	assert.Equal(t, "", NormalizeClock("8:21", ":00"))
}
