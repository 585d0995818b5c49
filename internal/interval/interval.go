// Package interval implements half-open time ranges [start, end).
//
// Overlaps is the single definition of "conflicting" used by the scheduler.
// The Mongo conflict query in the meetings repository is its closed form:
// start_date < end AND end_date > start.
package interval

import "time"

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Adjacent ranges (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

type Range struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) Range {
	return Range{Start: start, End: end}
}

// Valid reports whether the range is non-empty.
func (r Range) Valid() bool {
	return r.Start.Before(r.End)
}

func (r Range) Overlaps(other Range) bool {
	return Overlaps(r.Start, r.End, other.Start, other.End)
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Day returns the UTC calendar day containing t as a range.
func Day(t time.Time) Range {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Range{Start: start, End: start.AddDate(0, 0, 1)}
}
