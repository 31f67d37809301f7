package timetable

import (
	"errors"
	"fmt"
)

// ErrInvalidTimeFormat is returned when a time string does not match HH:MM.
var ErrInvalidTimeFormat = errors.New("time must match HH:MM")

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time with minute granularity, stored as minutes
// since midnight. Valid values are in [0, 1440).
type TimeOfDay int

// ParseTimeOfDay parses a zero-padded "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	if hours > 23 || mins > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return TimeOfDay(hours*60 + mins), nil
}

// MustParseTimeOfDay is a test/fixture helper that panics on malformed input.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String formats the time as zero-padded "HH:MM". Total inverse of ParseTimeOfDay.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Add returns the time shifted forward by the given number of minutes.
// Placements must fit within a single day; wrapping past midnight is not supported.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

// Hour returns the hour component in [0, 23].
func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

// Valid reports whether the value is within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

// Interval is a half-open time range [Start, End). Invariant: Start < End.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Overlaps reports whether two half-open intervals share at least one minute.
// An interval ending at 10:00 does not overlap one starting at 10:00.
// This is the single overlap predicate shared by the conflict detector and the
// slot recommender.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

// Contains reports whether o lies fully within i.
func (i Interval) Contains(o Interval) bool {
	return o.Start >= i.Start && o.End <= i.End
}

// Duration returns the interval length in minutes.
func (i Interval) Duration() int {
	return int(i.End - i.Start)
}

func (i Interval) String() string {
	return fmt.Sprintf("%s-%s", i.Start, i.End)
}

// SlotIterator walks slot start times across an interval. It is finite and
// restartable; a fresh pass starts after Reset.
type SlotIterator struct {
	start   TimeOfDay
	end     TimeOfDay
	step    int
	current TimeOfDay
}

// DefaultSlotStep is the slot granularity used when callers pass a
// non-positive step.
const DefaultSlotStep = 60

// Slots returns an iterator over slot start times from i.Start up to
// (exclusive) i.End, stepping by stepMinutes.
func (i Interval) Slots(stepMinutes int) *SlotIterator {
	if stepMinutes <= 0 {
		stepMinutes = DefaultSlotStep
	}
	return &SlotIterator{start: i.Start, end: i.End, step: stepMinutes, current: i.Start}
}

// Next yields the next slot start, or false when the interval is exhausted.
func (it *SlotIterator) Next() (TimeOfDay, bool) {
	if it.current >= it.end {
		return 0, false
	}
	t := it.current
	it.current = it.current.Add(it.step)
	return t, true
}

// Reset rewinds the iterator to the interval start.
func (it *SlotIterator) Reset() {
	it.current = it.start
}
