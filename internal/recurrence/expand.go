package recurrence

import "time"

type Interval struct {
	Start time.Time
	End   time.Time
}

// Expand materializes a rule into a bounded, ordered occurrence list. The
// first element is always the seed interval itself, whatever the rule says;
// every further element preserves the seed duration with the start advanced
// by one frequency×interval step. Generation stops at the first of: Count
// occurrences, an advanced start past Until, or hardCap occurrences. A step
// that fails to move forward (interval <= 0, unparsable rules) ends
// generation instead of looping.
//
// Monthly and yearly steps use time.AddDate, which normalizes day-of-month
// overflow into the following month (Jan 31 + 1 month = Mar 2 or Mar 3).
func Expand(seedStart, seedEnd time.Time, rule Rule, hardCap int) []Interval {
	duration := seedEnd.Sub(seedStart)

	limit := hardCap
	if rule.Count > 0 && rule.Count < limit {
		limit = rule.Count
	}

	var res []Interval
	cur := seedStart
	for len(res) < limit {
		res = append(res, Interval{Start: cur, End: cur.Add(duration)})

		next := advance(cur, rule)
		if !next.After(cur) {
			break
		}
		if rule.Until != nil && next.After(*rule.Until) {
			break
		}
		cur = next
	}

	return res
}

func advance(t time.Time, rule Rule) time.Time {
	switch rule.Frequency {
	case FreqDaily:
		return t.AddDate(0, 0, rule.Interval)
	case FreqWeekly:
		return t.AddDate(0, 0, 7*rule.Interval)
	case FreqMonthly:
		return t.AddDate(0, rule.Interval, 0)
	case FreqYearly:
		return t.AddDate(rule.Interval, 0, 0)
	default:
		// Unknown or absent frequency behaves as daily with interval 1.
		return t.AddDate(0, 0, 1)
	}
}
