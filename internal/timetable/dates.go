package timetable

import "time"

// lessonDateLayout is the dd.mm.yyyy form the IIS API uses for lesson dates.
const lessonDateLayout = "02.01.2006"

// DateOnly strips the time-of-day component, keeping the location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseLessonDate parses a dd.mm.yyyy lesson date in local time. Empty or
// malformed input yields ok=false; it is never an error, the caller just
// treats that validity condition as unsatisfiable.
func ParseLessonDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(lessonDateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SameDate reports whether two instants fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// dateInRange reports whether date lies within [start, end], endpoints
// inclusive, comparing calendar dates only.
func dateInRange(start, end, date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(start)) && !d.After(DateOnly(end))
}
