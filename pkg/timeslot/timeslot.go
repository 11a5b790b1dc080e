// Package timeslot provides wall-clock slot arithmetic shared by the
// availability resolver, the booking ledger and the slot allocator.
// Times are "HH:MM" strings local to the employer; arithmetic happens on
// minute-of-day integers and every interval is half-open: [start, end).
package timeslot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MinutesPerDay bounds a valid minute-of-day value.
const MinutesPerDay = 24 * 60

// Minutes converts an "HH:MM" wall-clock string to minutes since midnight.
func Minutes(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", clock)
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 2 {
		return 0, fmt.Errorf("invalid hour in %q", clock)
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid minute in %q", clock)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("time %q out of range", clock)
	}
	return hh*60 + mm, nil
}

// Clock renders minutes since midnight back to "HH:MM".
func Clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlaps reports whether two half-open minute intervals intersect.
// Touching endpoints do not overlap: [09:00,10:00) and [10:00,11:00)
// are disjoint.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return !(aEnd <= bStart || aStart >= bEnd)
}

// Interval is a parsed half-open slot interval.
type Interval struct {
	Start int
	End   int
}

// ParseInterval validates and converts a start/end clock pair.
func ParseInterval(start, end string) (Interval, error) {
	s, err := Minutes(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := Minutes(end)
	if err != nil {
		return Interval{}, err
	}
	if e <= s {
		return Interval{}, fmt.Errorf("slot end %q must be after start %q", end, start)
	}
	return Interval{Start: s, End: e}, nil
}

// ValidateSequence checks that the given intervals are well formed and
// mutually disjoint within one schedule day.
func ValidateSequence(intervals []Interval) error {
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if Overlaps(prev.Start, prev.End, cur.Start, cur.End) {
			return fmt.Errorf("slots %s-%s and %s-%s overlap",
				Clock(prev.Start), Clock(prev.End), Clock(cur.Start), Clock(cur.End))
		}
	}
	return nil
}
