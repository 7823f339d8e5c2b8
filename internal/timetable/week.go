package timetable

import (
	"errors"
	"math"
	"time"
)

// WeeksInCycle is the length of the rotating schedule cycle.
const WeeksInCycle = 4

// ErrWeekUndetermined is returned when the reference cycle week is unknown.
// Callers must not build a grid without a week number.
var ErrWeekUndetermined = errors.New("reference cycle week is not determined")

// MondayOf returns the Monday of the week containing date, keeping the
// date's location. Sunday belongs to the week that started six days earlier.
func MondayOf(date time.Time) time.Time {
	d := DateOnly(date)
	switch wd := d.Weekday(); wd {
	case time.Sunday:
		return d.AddDate(0, 0, -6)
	default:
		return d.AddDate(0, 0, -(int(wd) - 1))
	}
}

// WeekNumber maps targetDate onto the 4-week cycle, given that referenceDate
// fell on cycle week referenceWeek. The result is always in [1,4]. Pure and
// deterministic; targetDate may be arbitrarily far in the past or future.
func WeekNumber(referenceWeek int, referenceDate, targetDate time.Time) (int, error) {
	if referenceWeek < 1 || referenceWeek > WeeksInCycle {
		return 0, ErrWeekUndetermined
	}

	refMonday := MondayOf(referenceDate)
	targetMonday := MondayOf(targetDate)

	// The Mondays are exactly N*7 days apart; round defensively in case a
	// DST shift makes the difference a few hours off.
	diffDays := targetMonday.Sub(refMonday).Hours() / 24
	diffWeeks := int(math.Round(diffDays / 7))

	week := (referenceWeek-1+diffWeeks)%WeeksInCycle + 1
	if week <= 0 {
		week += WeeksInCycle
	}
	return week, nil
}
