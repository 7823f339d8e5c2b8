package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomboard/internal/models"
	"roomboard/internal/timetable"
)

var dayNames = timetable.DayNames{
	"Воскресенье", "Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота",
}

func testSlots(t *testing.T) []timetable.Slot {
	t.Helper()
	slots, err := timetable.ParseSlots([]string{"09:00—10:20", "10:35—11:55"})
	require.NoError(t, err)
	return slots
}

func testGrid() models.ScheduleGrid {
	return models.ScheduleGrid{
		"601-2 к.": {
			"09:00—10:20": {
				{
					Subject:   "Физика",
					Type:      "ЛК",
					Teacher:   "Иванов И. И.",
					Groups:    []string{"910901", "910902"},
					StartTime: "09:00",
					EndTime:   "10:20",
				},
			},
		},
	}
}

func TestText(t *testing.T) {
	date := time.Date(2024, 3, 18, 0, 0, 0, 0, time.Local)
	rooms := []string{"601-2 к.", "603-2 к."}

	out := Text(testGrid(), rooms, testSlots(t), dayNames, date, 4)

	assert.Contains(t, out, "18.03.2024 (Понедельник), 4-я учебная неделя")
	assert.Contains(t, out, "09:00—10:20")
	assert.Contains(t, out, "601-2 к.: Физика (ЛК) 09:00—10:20 гр. 910901, 910902 — Иванов И. И.")
	// The second slot has no lessons anywhere.
	assert.Contains(t, out, "занятий нет")
	// A room with no lessons is not mentioned.
	assert.NotContains(t, out, "603-2 к.")
}

func TestTextSlotOrder(t *testing.T) {
	date := time.Date(2024, 3, 18, 0, 0, 0, 0, time.Local)
	out := Text(testGrid(), []string{"601-2 к."}, testSlots(t), dayNames, date, 1)

	first := strings.Index(out, "09:00—10:20")
	second := strings.Index(out, "10:35—11:55")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)
}

func TestExcel(t *testing.T) {
	date := time.Date(2024, 3, 18, 0, 0, 0, 0, time.Local)
	rooms := []string{"601-2 к.", "603-2 к."}

	f, err := Excel(testGrid(), rooms, testSlots(t), date, 4)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheet := "18.03.2024"
	corner, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Неделя 4", corner)

	room, err := f.GetCellValue(sheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "601-2 к.", room)

	slotLabel, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "09:00—10:20", slotLabel)

	lesson, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Contains(t, lesson, "Физика")
	assert.Contains(t, lesson, "Иванов И. И.")

	emptyCell, err := f.GetCellValue(sheet, "C2")
	require.NoError(t, err)
	assert.Empty(t, emptyCell)
}
