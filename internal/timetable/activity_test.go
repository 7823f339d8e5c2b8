package timetable

import (
	"testing"
	"time"

	"roomboard/internal/models"
)

func TestIsActive(t *testing.T) {
	// 2024-03-18 is a Monday on cycle week 4 in the end-to-end scenario.
	queryDate := date(2024, time.March, 18)

	tests := []struct {
		name   string
		lesson models.LessonRecord
		date   time.Time
		week   int
		want   bool
	}{
		{
			name: "every week with spanning range",
			lesson: models.LessonRecord{
				WeekNumbers:     []int{1, 2, 3, 4},
				StartLessonDate: "01.01.2024",
				EndLessonDate:   "31.05.2024",
			},
			date: queryDate, week: 4, want: true,
		},
		{
			name: "week mismatch rejects despite range",
			lesson: models.LessonRecord{
				WeekNumbers:     []int{1, 3},
				StartLessonDate: "01.01.2024",
				EndLessonDate:   "31.05.2024",
			},
			date: queryDate, week: 4, want: false,
		},
		{
			name: "range start inclusive",
			lesson: models.LessonRecord{
				WeekNumbers:     []int{4},
				StartLessonDate: "18.03.2024",
				EndLessonDate:   "31.05.2024",
			},
			date: queryDate, week: 4, want: true,
		},
		{
			name: "range end inclusive",
			lesson: models.LessonRecord{
				WeekNumbers:     []int{4},
				StartLessonDate: "01.01.2024",
				EndLessonDate:   "18.03.2024",
			},
			date: queryDate, week: 4, want: true,
		},
		{
			name: "date before range",
			lesson: models.LessonRecord{
				WeekNumbers:     []int{4},
				StartLessonDate: "19.03.2024",
				EndLessonDate:   "31.05.2024",
			},
			date: queryDate, week: 4, want: false,
		},
		{
			name: "single occurrence exact match",
			lesson: models.LessonRecord{
				WeekNumbers: []int{4},
				DateLesson:  "18.03.2024",
			},
			date: queryDate, week: 4, want: true,
		},
		{
			name: "single occurrence other date",
			lesson: models.LessonRecord{
				WeekNumbers: []int{4},
				DateLesson:  "25.03.2024",
			},
			date: queryDate, week: 4, want: false,
		},
		{
			name: "occurrence outside range still matches",
			lesson: models.LessonRecord{
				WeekNumbers:     []int{4},
				StartLessonDate: "01.09.2024",
				EndLessonDate:   "31.12.2024",
				DateLesson:      "18.03.2024",
			},
			date: queryDate, week: 4, want: true,
		},
		{
			name: "no validity fields at all",
			lesson: models.LessonRecord{
				WeekNumbers: []int{4},
			},
			date: queryDate, week: 4, want: false,
		},
		{
			name: "malformed range dates fail closed",
			lesson: models.LessonRecord{
				WeekNumbers:     []int{4},
				StartLessonDate: "not-a-date",
				EndLessonDate:   "31.05.2024",
			},
			date: queryDate, week: 4, want: false,
		},
		{
			name: "half-open range fails closed",
			lesson: models.LessonRecord{
				WeekNumbers:     []int{4},
				StartLessonDate: "01.01.2024",
			},
			date: queryDate, week: 4, want: false,
		},
		{
			name: "malformed occurrence with valid range",
			lesson: models.LessonRecord{
				WeekNumbers:     []int{4},
				StartLessonDate: "01.01.2024",
				EndLessonDate:   "31.05.2024",
				DateLesson:      "18/03/2024",
			},
			date: queryDate, week: 4, want: true,
		},
		{
			name:   "empty week numbers",
			lesson: models.LessonRecord{StartLessonDate: "01.01.2024", EndLessonDate: "31.05.2024"},
			date:   queryDate, week: 4, want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsActive(&tt.lesson, tt.date, tt.week); got != tt.want {
				t.Errorf("IsActive = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsActiveIgnoresTimeOfDay(t *testing.T) {
	lesson := models.LessonRecord{
		WeekNumbers:     []int{1},
		StartLessonDate: "18.03.2024",
		EndLessonDate:   "18.03.2024",
	}
	late := time.Date(2024, time.March, 18, 23, 30, 0, 0, time.Local)
	if !IsActive(&lesson, late, 1) {
		t.Error("time of day must not affect the date comparison")
	}
}

func TestParseLessonDate(t *testing.T) {
	got, ok := ParseLessonDate("05.09.2023")
	if !ok {
		t.Fatal("expected dd.mm.yyyy to parse")
	}
	if !got.Equal(date(2023, time.September, 5)) {
		t.Errorf("got %v", got)
	}

	for _, bad := range []string{"", "2023-09-05", "32.01.2024", "5.13.2023x"} {
		if _, ok := ParseLessonDate(bad); ok {
			t.Errorf("ParseLessonDate(%q): expected ok=false", bad)
		}
	}
}
