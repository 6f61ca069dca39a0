package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsLendingDay(t *testing.T) {
	holidays := NewHolidaySet([]time.Time{day(2026, time.January, 7)})

	assert.True(t, IsLendingDay(day(2026, time.January, 5), holidays))   // Monday
	assert.False(t, IsLendingDay(day(2026, time.January, 10), holidays)) // Saturday
	assert.False(t, IsLendingDay(day(2026, time.January, 11), holidays)) // Sunday
	assert.False(t, IsLendingDay(day(2026, time.January, 7), holidays))  // holiday
	assert.True(t, IsLendingDay(day(2026, time.January, 7), nil))
}

func TestComputeDueDate_SkipsWeekends(t *testing.T) {
	// Monday + 5 lending days crosses one weekend.
	start := day(2026, time.January, 5)
	due := ComputeDueDate(start, 5, nil)

	assert.Equal(t, day(2026, time.January, 12).Day(), due.Day())
	assert.Equal(t, time.Monday, due.Weekday())
}

func TestComputeDueDate_SkipsHolidays(t *testing.T) {
	holidays := NewHolidaySet([]time.Time{day(2026, time.January, 6)})

	// Monday + 2 days, Tuesday is a holiday: Wed and Thu count.
	due := ComputeDueDate(day(2026, time.January, 5), 2, holidays)
	assert.Equal(t, 8, due.Day())
}

func TestComputeDueDate_StartDayNeverCounted(t *testing.T) {
	// Starting on a Friday, one lending day lands on Monday: Friday itself
	// contributes nothing and the weekend is skipped.
	due := ComputeDueDate(day(2026, time.January, 9), 1, nil)
	assert.Equal(t, 12, due.Day())

	// A weekend start does not change the outcome of the walk.
	due = ComputeDueDate(day(2026, time.January, 10), 1, nil)
	assert.Equal(t, 12, due.Day())
}

func TestComputeDueDate_EndOfDay(t *testing.T) {
	start := time.Date(2026, time.January, 5, 9, 30, 0, 0, time.UTC)
	due := ComputeDueDate(start, 1, nil)

	assert.Equal(t, 23, due.Hour())
	assert.Equal(t, 59, due.Minute())
	assert.Equal(t, 59, due.Second())
	assert.Equal(t, 999_000_000, due.Nanosecond())
}

func TestComputeDueDate_ZeroDays(t *testing.T) {
	start := time.Date(2026, time.January, 10, 14, 0, 0, 0, time.UTC)
	due := ComputeDueDate(start, 0, nil)

	assert.Equal(t, start.Day(), due.Day())
	assert.Equal(t, 23, due.Hour())
}

func TestComputeDueDate_FourteenDays(t *testing.T) {
	// The default loan period from a Monday spans exactly three weeks of
	// weekdays minus one.
	due := ComputeDueDate(day(2026, time.January, 5), 14, nil)
	assert.Equal(t, day(2026, time.January, 23).Day(), due.Day())
	assert.Equal(t, time.Friday, due.Weekday())
}

func TestComputeDueDate_AlwaysLandsOnLendingDay(t *testing.T) {
	holidays := NewHolidaySet([]time.Time{
		day(2026, time.January, 6),
		day(2026, time.January, 14),
		day(2026, time.January, 26),
	})
	start := day(2026, time.January, 1)
	for days := 1; days <= 30; days++ {
		due := ComputeDueDate(start, days, holidays)
		require.True(t, IsLendingDay(due, holidays), "due %s for %d days", due, days)
		require.True(t, due.After(start))
	}
}

func TestComputeDueDate_MonotonicInDays(t *testing.T) {
	start := day(2026, time.January, 5)
	prev := ComputeDueDate(start, 1, nil)
	for days := 2; days <= 20; days++ {
		due := ComputeDueDate(start, days, nil)
		require.True(t, due.After(prev), "days=%d", days)
		prev = due
	}
}

func TestHolidaySetIgnoresTimeOfDay(t *testing.T) {
	set := NewHolidaySet([]time.Time{
		time.Date(2026, time.June, 12, 15, 45, 0, 0, time.UTC),
	})
	assert.False(t, IsLendingDay(day(2026, time.June, 12), set))
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, time.March, 3, 18, 22, 7, 123, time.UTC)
	out := StartOfDay(in)
	assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), out)
}
