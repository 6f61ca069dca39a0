// Package calendar decides which days the library lends on and computes due
// dates against that calendar.
package calendar

import "time"

// HolidaySet holds registered holidays keyed by local calendar day.
// Time-of-day and offset on the source dates are ignored.
type HolidaySet map[string]struct{}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func NewHolidaySet(dates []time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[dayKey(d)] = struct{}{}
	}
	return set
}

// IsLendingDay reports whether books can be due on the given day: not a
// Saturday or Sunday, and not a registered holiday. An empty set simply
// means no holidays.
func IsLendingDay(t time.Time, holidays HolidaySet) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, isHoliday := holidays[dayKey(t)]
	return !isHoliday
}

// ComputeDueDate walks forward from start one calendar day at a time,
// counting only lending days, until borrowingDays of them have passed. The
// start day itself is never counted, whatever kind of day it is. The result
// is pinned to end of day (23:59:59.999) local time.
//
// A borrowingDays of zero lands on start's own calendar day.
func ComputeDueDate(start time.Time, borrowingDays int, holidays HolidaySet) time.Time {
	due := start
	counted := 0
	for counted < borrowingDays {
		due = due.AddDate(0, 0, 1)
		if !IsLendingDay(due, holidays) {
			continue
		}
		counted++
	}
	return EndOfDay(due)
}

func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999_000_000, t.Location())
}

// StartOfDay normalizes to local midnight, the canonical form holiday dates
// are stored in.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
