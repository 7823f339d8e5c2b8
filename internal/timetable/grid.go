package timetable

import (
	"time"

	"roomboard/internal/models"
)

// DayNames is the institution's weekday naming, indexed by time.Weekday
// (Sunday first), used to address per-day lesson collections.
type DayNames [7]string

// NameOf returns the weekday name for a date.
func (d DayNames) NameOf(date time.Time) string {
	return d[int(date.Weekday())]
}

// Aggregator builds the per-room, per-slot grid for a date. It is pure: it
// only reads the snapshot data it is given and derives a fresh grid on every
// call, so a roster snapshot can be shared across concurrent queries.
type Aggregator struct {
	slots      []Slot
	dayNames   DayNames
	categories TypeCategories
}

// NewAggregator creates an aggregator over the given display slots, weekday
// naming and lesson type categories.
func NewAggregator(slots []Slot, dayNames DayNames, categories TypeCategories) *Aggregator {
	if categories == nil {
		categories = DefaultTypeCategories()
	}
	return &Aggregator{slots: slots, dayNames: dayNames, categories: categories}
}

// Slots returns the ordered display slots.
func (a *Aggregator) Slots() []Slot {
	return a.slots
}

// BuildGrid walks every room, teacher and schedule revision, keeps the
// lessons active on date under the given cycle week, and fans each one out
// into the display slots it overlaps. Entries within a slot follow teacher
// iteration order, not lesson start time. Rooms and slots with no lessons
// stay absent from the grid.
func (a *Aggregator) BuildGrid(
	teachers []models.Teacher,
	schedules map[string]*models.TeacherSchedule,
	rooms []string,
	date time.Time,
	week int,
) models.ScheduleGrid {
	grid := make(models.ScheduleGrid)
	dayName := a.dayNames.NameOf(date)

	for _, room := range rooms {
		for _, teacher := range teachers {
			sched := schedules[teacher.UrlID]
			if sched == nil {
				continue
			}
			for _, version := range sched.Versions() {
				for i := range version[dayName] {
					lesson := &version[dayName][i]
					if !lesson.InAuditory(room) {
						continue
					}
					if !IsActive(lesson, date, week) {
						continue
					}
					a.place(grid, room, teacher, lesson)
				}
			}
		}
	}

	return grid
}

func (a *Aggregator) place(grid models.ScheduleGrid, room string, teacher models.Teacher, lesson *models.LessonRecord) {
	labels := SlotsFor(a.slots, lesson.StartLessonTime, lesson.EndLessonTime)
	if len(labels) == 0 {
		return
	}

	entry := models.RoomSlotEntry{
		Subject:   lesson.Subject,
		Type:      lesson.LessonTypeAbbr,
		Category:  a.categories.CategoryOf(lesson.LessonTypeAbbr),
		Teacher:   teacher.FIO,
		Groups:    lesson.GroupNames(),
		StartTime: lesson.StartLessonTime,
		EndTime:   lesson.EndLessonTime,
	}

	roomGrid := grid[room]
	if roomGrid == nil {
		roomGrid = make(map[string][]models.RoomSlotEntry)
		grid[room] = roomGrid
	}
	for _, label := range labels {
		roomGrid[label] = append(roomGrid[label], entry)
	}
}
