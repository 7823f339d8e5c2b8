package timetable

import (
	"time"

	"roomboard/internal/models"
)

// IsActive decides whether a lesson recurs on the given date under the given
// cycle week. The lesson is assumed to already live under the date's weekday
// collection; room membership is checked by the aggregator.
//
// The date-validity conditions are independent alternatives: a lesson with a
// one-off occurrence date outside its own date range is still active on that
// occurrence date. Missing or malformed date fields make that condition
// unsatisfiable, never an error.
func IsActive(lesson *models.LessonRecord, date time.Time, week int) bool {
	if !containsWeek(lesson.WeekNumbers, week) {
		return false
	}

	if start, ok := ParseLessonDate(lesson.StartLessonDate); ok {
		if end, ok := ParseLessonDate(lesson.EndLessonDate); ok {
			if dateInRange(start, end, date) {
				return true
			}
		}
	}

	if occurrence, ok := ParseLessonDate(lesson.DateLesson); ok {
		if SameDate(occurrence, date) {
			return true
		}
	}

	return false
}

func containsWeek(weeks []int, week int) bool {
	for _, w := range weeks {
		if w == week {
			return true
		}
	}
	return false
}
