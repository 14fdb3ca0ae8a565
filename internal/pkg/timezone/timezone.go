// Package timezone converts between a user's wall-clock view of time and the
// absolute instants events are stored in. All-day events bypass it entirely:
// they are date-only and compared without a zone.
package timezone

import (
	"fmt"
	"time"
)

const (
	DateFormat  = "2006-01-02"
	ClockFormat = "15:04"
)

// ToAbsolute combines a calendar date and a wall-clock time in the given zone
// into an absolute instant.
func ToAbsolute(date, clock, zone string) (time.Time, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("load zone %q: %w", zone, err)
	}

	t, err := time.ParseInLocation(DateFormat+" "+ClockFormat, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse local time: %w", err)
	}

	return t.UTC(), nil
}

// FromAbsolute renders a stored instant as the date and wall-clock time a
// user in the given zone would see.
func FromAbsolute(t time.Time, zone string) (date, clock string, err error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return "", "", fmt.Errorf("load zone %q: %w", zone, err)
	}

	local := t.In(loc)
	return local.Format(DateFormat), local.Format(ClockFormat), nil
}

// DayWindow returns the [localMidnight, localMidnight+24h) window containing
// t in the given zone. AddDate keeps the window aligned to the next local
// midnight across DST transitions.
func DayWindow(t time.Time, zone string) (from, to time.Time, err error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("load zone %q: %w", zone, err)
	}

	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC(), nil
}

// AllDayBounds parses the date-only boundaries of an all-day event. All-day
// events carry no zone; their bounds are fixed UTC midnights.
func AllDayBounds(startDate, endDate string) (from, to time.Time, err error) {
	from, err = time.ParseInLocation(DateFormat, startDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse start date: %w", err)
	}

	to, err = time.ParseInLocation(DateFormat, endDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse end date: %w", err)
	}

	return from, to, nil
}
