package models

import "time"

// Teacher is one employee from the IIS roster.
type Teacher struct {
	UrlID string `json:"urlId"`
	FIO   string `json:"fio"`
}

// StudentGroup is a group reference attached to a lesson.
type StudentGroup struct {
	Name string `json:"name"`
}

// LessonRecord is a single lesson as delivered by the IIS schedule API.
// Date fields come as dd.mm.yyyy strings and time fields as HH:MM; any of
// them may be empty. A record carries either a recurrence date range
// (StartLessonDate/EndLessonDate) or a one-off occurrence date (DateLesson),
// and sometimes both.
type LessonRecord struct {
	Subject         string         `json:"subject"`
	LessonTypeAbbr  string         `json:"lessonTypeAbbrev"`
	Auditories      []string       `json:"auditories"`
	StudentGroups   []StudentGroup `json:"studentGroups"`
	WeekNumbers     []int          `json:"weekNumber"`
	StartLessonTime string         `json:"startLessonTime"`
	EndLessonTime   string         `json:"endLessonTime"`
	StartLessonDate string         `json:"startLessonDate"`
	EndLessonDate   string         `json:"endLessonDate"`
	DateLesson      string         `json:"dateLesson"`
}

// GroupNames returns the group names in their original order.
func (l *LessonRecord) GroupNames() []string {
	if len(l.StudentGroups) == 0 {
		return nil
	}
	names := make([]string, 0, len(l.StudentGroups))
	for _, g := range l.StudentGroups {
		names = append(names, g.Name)
	}
	return names
}

// InAuditory reports whether the lesson is assigned to the given room.
func (l *LessonRecord) InAuditory(room string) bool {
	for _, a := range l.Auditories {
		if a == room {
			return true
		}
	}
	return false
}

// WeekdayMap holds lessons keyed by localized weekday name.
type WeekdayMap map[string][]LessonRecord

// TeacherSchedule is the two schedule revisions of one teacher. A lesson may
// survive in only one of them, so both are searched when aggregating.
type TeacherSchedule struct {
	Current  WeekdayMap `json:"schedules"`
	Previous WeekdayMap `json:"previousSchedules"`
}

// Versions returns the schedule revisions in search order.
func (s *TeacherSchedule) Versions() []WeekdayMap {
	return []WeekdayMap{s.Current, s.Previous}
}

// EmptySchedule is the substitute used when a teacher's schedule fails to
// load, so aggregation can proceed for everyone else.
func EmptySchedule() *TeacherSchedule {
	return &TeacherSchedule{Current: WeekdayMap{}, Previous: WeekdayMap{}}
}

// RoomSlotEntry is one lesson occurrence placed into a display slot.
// Derived per query, never persisted.
type RoomSlotEntry struct {
	Subject   string   `json:"subject"`
	Type      string   `json:"type"`
	Category  string   `json:"category,omitempty"`
	Teacher   string   `json:"teacher"`
	Groups    []string `json:"groups"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
}

// ScheduleGrid maps room name -> slot label -> entries. Rooms and slots
// without lessons are absent.
type ScheduleGrid map[string]map[string][]RoomSlotEntry

// Snapshot is an immutable view of the roster loaded from the IIS API (or
// restored from the store). The reference week is the cycle week that was
// current on FetchedAt; week numbers for other dates are derived from it.
type Snapshot struct {
	ID        string                      `json:"id"`
	Week      int                         `json:"week"`
	FetchedAt time.Time                   `json:"fetchedAt"`
	Teachers  []Teacher                   `json:"teachers"`
	Schedules map[string]*TeacherSchedule `json:"schedules"`
}

// ScheduleFor returns the schedule for a teacher, substituting an empty one
// when missing.
func (s *Snapshot) ScheduleFor(urlID string) *TeacherSchedule {
	if sched, ok := s.Schedules[urlID]; ok && sched != nil {
		return sched
	}
	return EmptySchedule()
}
