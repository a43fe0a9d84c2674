package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrStartAfterEnd  = errors.New("start date must not be after end date")
	ErrStartInPast    = errors.New("start date cannot be in the past")
	ErrZeroDate       = errors.New("start and end dates are required")
)

// DateRange is an inclusive whole-day range: a one-night rental of day 12
// has Start == End == day 12.
type DateRange struct {
	start time.Time
	end   time.Time
}

// Day truncates t to a UTC calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewDateRange validates start <= end and start >= today (relative to now).
// Past-dated requests are rejected as a policy decision, not left to the store.
func NewDateRange(start, end, now time.Time) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, ErrZeroDate
	}
	s, e := Day(start), Day(end)
	if s.After(e) {
		return DateRange{}, ErrStartAfterEnd
	}
	if s.Before(Day(now)) {
		return DateRange{}, ErrStartInPast
	}
	return DateRange{start: s, end: e}, nil
}

// ReconstructDateRange rebuilds a range from stored dates without the
// today-or-later check, which only applies at request time.
func ReconstructDateRange(start, end time.Time) DateRange {
	return DateRange{start: Day(start), end: Day(end)}
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time   { return r.end }

// Days is the number of rentable days, inclusive of both endpoints.
func (r DateRange) Days() int {
	return int(r.end.Sub(r.start)/(24*time.Hour)) + 1
}

// Overlaps implements the inclusive-day intersection test:
// [a1,a2] and [b1,b2] conflict iff a1 <= b2 && b1 <= a2.
// The SQL overlap guard in the booking repository encodes the same predicate;
// the two must never diverge.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.start.After(other.end) && !other.start.After(r.end)
}

// Contains reports whether the given calendar day falls inside the range.
func (r DateRange) Contains(day time.Time) bool {
	d := Day(day)
	return !d.Before(r.start) && !d.After(r.end)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.start.Format(time.DateOnly), r.end.Format(time.DateOnly))
}

// Ref identifies a booking occupying a range, surfaced in conflict errors so
// callers can present alternatives instead of a bare failure.
type Ref struct {
	ID    uuid.UUID
	Range DateRange
}
