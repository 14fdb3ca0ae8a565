package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAbsolute(t *testing.T) {
	got, err := ToAbsolute("2024-03-15", "09:30", "Europe/Moscow")
	require.NoError(t, err)

	// Moscow is UTC+3 year-round.
	assert.Equal(t, time.Date(2024, 3, 15, 6, 30, 0, 0, time.UTC), got)
}

func TestToAbsolute_BadZone(t *testing.T) {
	_, err := ToAbsolute("2024-03-15", "09:30", "Mars/Olympus")
	assert.Error(t, err)
}

func TestFromAbsolute_RoundTrip(t *testing.T) {
	instant, err := ToAbsolute("2024-11-02", "23:15", "America/New_York")
	require.NoError(t, err)

	date, clock, err := FromAbsolute(instant, "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "2024-11-02", date)
	assert.Equal(t, "23:15", clock)
}

func TestDayWindow(t *testing.T) {
	// 01:00 UTC on Jun 2 is still the evening of Jun 1 in Los Angeles.
	at := time.Date(2024, 6, 2, 1, 0, 0, 0, time.UTC)

	from, to, err := DayWindow(at, "America/Los_Angeles")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 6, 2, 7, 0, 0, 0, time.UTC), to)
	assert.True(t, !at.Before(from) && at.Before(to))
}

func TestDayWindow_UTC(t *testing.T) {
	at := time.Date(2024, 6, 2, 13, 45, 0, 0, time.UTC)

	from, to, err := DayWindow(at, "UTC")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, 24*time.Hour, to.Sub(from))
}

func TestAllDayBounds(t *testing.T) {
	from, to, err := AllDayBounds("2024-12-24", "2024-12-26")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC), to)
}

func TestAllDayBounds_BadDate(t *testing.T) {
	_, _, err := AllDayBounds("24.12.2024", "2024-12-26")
	assert.Error(t, err)
}
