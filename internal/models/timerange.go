package models

import "time"

// TimeRange bounds a history query, inclusive at both ends.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeRange normalizes both instants to UTC.
func NewTimeRange(start, end time.Time) TimeRange {
	return TimeRange{Start: start.UTC(), End: end.UTC()}
}

// RangeFromDates builds a range from calendar dates: the end day is included
// in full, so End is forced to 23:59:59.999999999 of that day.
func RangeFromDates(start, end time.Time) TimeRange {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).
		Add(24*time.Hour - time.Nanosecond)
	return NewTimeRange(s, e)
}

// LastDuration is the rolling window [now-d, now] used by the dashboard views.
func LastDuration(d time.Duration) TimeRange {
	now := time.Now()
	return NewTimeRange(now.Add(-d), now)
}

// Contains reports whether t falls inside the range, inclusive.
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.Start) && !t.After(tr.End)
}

// Valid reports whether Start does not come after End.
func (tr TimeRange) Valid() bool {
	return !tr.Start.After(tr.End)
}
