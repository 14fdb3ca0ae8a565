package recurrence

import (
	"strconv"
	"strings"
	"time"
)

type Frequency string

const (
	FreqDaily   Frequency = "DAILY"
	FreqWeekly  Frequency = "WEEKLY"
	FreqMonthly Frequency = "MONTHLY"
	FreqYearly  Frequency = "YEARLY"
)

// Rule is the structured form of a semicolon-delimited KEY=VALUE rule string,
// e.g. "FREQ=WEEKLY;INTERVAL=2;COUNT=5". The BY* lists and WeekStart are
// carried through parse/format untouched but do not affect expansion.
type Rule struct {
	Frequency  Frequency
	Interval   int
	Until      *time.Time
	Count      int
	ByDay      []string
	ByMonth    []int
	ByMonthDay []int
	ByWeekNo   []int
	ByYearDay  []int
	BySetPos   []int
	WeekStart  string
}

var untilFormats = []string{
	time.RFC3339,
	"20060102T150405Z",
	"2006-01-02",
}

// Parse never fails: unknown keys and unparsable values are skipped, and a
// missing FREQ leaves the frequency empty, which Expand treats as daily.
// Callers wanting stricter behavior must validate before storing the rule.
func Parse(text string) Rule {
	rule := Rule{Interval: 1}

	for _, part := range strings.Split(text, ";") {
		key, value, ok := cut(part, "=")
		if !ok || value == "" {
			continue
		}

		switch key {
		case "FREQ":
			rule.Frequency = Frequency(value)
		case "INTERVAL":
			if n, err := strconv.Atoi(value); err == nil {
				rule.Interval = n
			}
		case "UNTIL":
			for _, format := range untilFormats {
				if t, err := time.Parse(format, value); err == nil {
					t = t.UTC()
					rule.Until = &t
					break
				}
			}
		case "COUNT":
			if n, err := strconv.Atoi(value); err == nil {
				rule.Count = n
			}
		case "BYDAY":
			rule.ByDay = strings.Split(value, ",")
		case "BYMONTH":
			rule.ByMonth = parseIntList(value)
		case "BYMONTHDAY":
			rule.ByMonthDay = parseIntList(value)
		case "BYWEEKNO":
			rule.ByWeekNo = parseIntList(value)
		case "BYYEARDAY":
			rule.ByYearDay = parseIntList(value)
		case "BYSETPOS":
			rule.BySetPos = parseIntList(value)
		case "WKST":
			rule.WeekStart = value
		}
	}

	return rule
}

// Format is the inverse of Parse for the fields above. An interval of 1 is
// the default and is omitted, so textual order and defaults may differ from
// the input while re-parsing yields an equal rule.
func Format(rule Rule) string {
	var parts []string

	if rule.Frequency != "" {
		parts = append(parts, "FREQ="+string(rule.Frequency))
	}

	if rule.Interval > 1 {
		parts = append(parts, "INTERVAL="+strconv.Itoa(rule.Interval))
	}

	if rule.Until != nil {
		parts = append(parts, "UNTIL="+rule.Until.UTC().Format(time.RFC3339))
	}

	if rule.Count > 0 {
		parts = append(parts, "COUNT="+strconv.Itoa(rule.Count))
	}

	if len(rule.ByDay) > 0 {
		parts = append(parts, "BYDAY="+strings.Join(rule.ByDay, ","))
	}

	if len(rule.ByMonth) > 0 {
		parts = append(parts, "BYMONTH="+formatIntList(rule.ByMonth))
	}

	if len(rule.ByMonthDay) > 0 {
		parts = append(parts, "BYMONTHDAY="+formatIntList(rule.ByMonthDay))
	}

	if len(rule.ByWeekNo) > 0 {
		parts = append(parts, "BYWEEKNO="+formatIntList(rule.ByWeekNo))
	}

	if len(rule.ByYearDay) > 0 {
		parts = append(parts, "BYYEARDAY="+formatIntList(rule.ByYearDay))
	}

	if len(rule.BySetPos) > 0 {
		parts = append(parts, "BYSETPOS="+formatIntList(rule.BySetPos))
	}

	if rule.WeekStart != "" {
		parts = append(parts, "WKST="+rule.WeekStart)
	}

	return strings.Join(parts, ";")
}

func parseIntList(value string) []int {
	items := strings.Split(value, ",")
	res := make([]int, 0, len(items))
	for _, item := range items {
		if n, err := strconv.Atoi(item); err == nil {
			res = append(res, n)
		}
	}

	if len(res) == 0 {
		return nil
	}
	return res
}

func formatIntList(list []int) string {
	items := make([]string, len(list))
	for i, n := range list {
		items[i] = strconv.Itoa(n)
	}

	return strings.Join(items, ",")
}

func cut(s, sep string) (before, after string, found bool) {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, "", false
}
