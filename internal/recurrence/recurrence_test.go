package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Full(t *testing.T) {
	rule := Parse("FREQ=WEEKLY;INTERVAL=2;COUNT=5;BYDAY=MO,WE,FR;BYMONTH=1,6;WKST=MO")

	assert.Equal(t, FreqWeekly, rule.Frequency)
	assert.Equal(t, 2, rule.Interval)
	assert.Equal(t, 5, rule.Count)
	assert.Equal(t, []string{"MO", "WE", "FR"}, rule.ByDay)
	assert.Equal(t, []int{1, 6}, rule.ByMonth)
	assert.Equal(t, "MO", rule.WeekStart)
	assert.Nil(t, rule.Until)
}

func TestParse_DefaultsAndUnknownKeys(t *testing.T) {
	rule := Parse("FREQ=DAILY;WHATEVER=42;BOGUS")

	assert.Equal(t, FreqDaily, rule.Frequency)
	assert.Equal(t, 1, rule.Interval)
	assert.Zero(t, rule.Count)
}

func TestParse_MissingFreqNeverFails(t *testing.T) {
	rule := Parse("INTERVAL=3")

	assert.Equal(t, Frequency(""), rule.Frequency)
	assert.Equal(t, 3, rule.Interval)
}

func TestParse_Until(t *testing.T) {
	rule := Parse("FREQ=DAILY;UNTIL=2024-03-01")

	require.NotNil(t, rule.Until)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *rule.Until)
}

func TestFormatParse_RoundTrip(t *testing.T) {
	until := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rules := []Rule{
		{Frequency: FreqDaily, Interval: 1},
		{Frequency: FreqWeekly, Interval: 2, Count: 5},
		{Frequency: FreqMonthly, Interval: 3, Until: &until},
		{Frequency: FreqYearly, Interval: 1, ByDay: []string{"MO"}, ByMonthDay: []int{1, 15}, WeekStart: "SU"},
	}

	for _, rule := range rules {
		assert.Equal(t, rule, Parse(Format(rule)), "rule %q", Format(rule))
	}
}

func TestFormat_OmitsDefaults(t *testing.T) {
	assert.Equal(t, "FREQ=DAILY", Format(Rule{Frequency: FreqDaily, Interval: 1}))
}

func TestExpand_BiweeklyCount(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	got := Expand(start, end, Rule{Frequency: FreqWeekly, Interval: 2, Count: 5}, 30)

	require.Len(t, got, 5)
	for i, iv := range got {
		assert.Equal(t, start.AddDate(0, 0, 14*i), iv.Start)
		assert.Equal(t, time.Hour, iv.End.Sub(iv.Start), "duration must match the seed")
	}
}

func TestExpand_SeedComesFirst(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	got := Expand(start, end, Rule{Frequency: FreqDaily, Interval: 1, Count: 3}, 30)

	require.NotEmpty(t, got)
	assert.Equal(t, Interval{Start: start, End: end}, got[0])
}

func TestExpand_DailyCountThree(t *testing.T) {
	start := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	got := Expand(start, end, Parse("FREQ=DAILY;COUNT=3"), 30)

	require.Len(t, got, 3)
	assert.Equal(t, start.AddDate(0, 0, 1), got[1].Start)
	assert.Equal(t, start.AddDate(0, 0, 2), got[2].Start)
}

func TestExpand_UntilIsExclusiveUpperBound(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	until := start.AddDate(0, 0, 3)
	rule := Rule{Frequency: FreqDaily, Interval: 1, Count: 10, Until: &until}

	got := Expand(start, start.Add(time.Hour), rule, 30)

	// Starts on days 0..3; the occurrence exactly at Until is still emitted.
	require.Len(t, got, 4)
	for _, iv := range got {
		assert.False(t, iv.Start.After(until))
	}
}

func TestExpand_UntilBeforeSeedStillEmitsSeed(t *testing.T) {
	start := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	until := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	rule := Rule{Frequency: FreqDaily, Interval: 1, Until: &until}

	got := Expand(start, start.Add(time.Hour), rule, 30)

	// Until only bounds advanced starts; the seed itself is unconditional.
	require.Len(t, got, 1)
	assert.Equal(t, start, got[0].Start)
}

func TestExpand_CountAndUntilNeverExceedCap(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	until := start.AddDate(1, 0, 0)
	rule := Rule{Frequency: FreqDaily, Interval: 1, Count: 100, Until: &until}

	got := Expand(start, start.Add(time.Hour), rule, 30)

	assert.Len(t, got, 30)
}

func TestExpand_ZeroIntervalTerminates(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	got := Expand(start, start.Add(time.Hour), Rule{Frequency: FreqDaily, Interval: 0}, 30)

	require.Len(t, got, 1)
	assert.Equal(t, start, got[0].Start)
}

func TestExpand_NegativeIntervalTerminates(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	got := Expand(start, start.Add(time.Hour), Rule{Frequency: FreqWeekly, Interval: -1}, 30)

	assert.Len(t, got, 1)
}

func TestExpand_UnknownFrequencyStepsOneDay(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	got := Expand(start, start.Add(time.Hour), Rule{Count: 2}, 30)

	require.Len(t, got, 2)
	assert.Equal(t, start.AddDate(0, 0, 1), got[1].Start)
}

func TestExpand_MonthlyOverflowNormalizes(t *testing.T) {
	// Jan 31 + 1 month lands in early March, per time.AddDate convention.
	start := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

	got := Expand(start, start.Add(time.Hour), Rule{Frequency: FreqMonthly, Interval: 1, Count: 2}, 30)

	require.Len(t, got, 2)
	assert.Equal(t, time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC), got[1].Start)
}

func TestExpand_Yearly(t *testing.T) {
	start := time.Date(2024, 7, 4, 8, 0, 0, 0, time.UTC)

	got := Expand(start, start.Add(2*time.Hour), Rule{Frequency: FreqYearly, Interval: 1, Count: 3}, 30)

	require.Len(t, got, 3)
	assert.Equal(t, time.Date(2026, 7, 4, 8, 0, 0, 0, time.UTC), got[2].Start)
}
