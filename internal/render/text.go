package render

import (
	"fmt"
	"strings"
	"time"

	"roomboard/internal/models"
	"roomboard/internal/timetable"
)

// Text renders the grid as plain text, slot by slot, the way the web page
// shared it into Telegram. Rooms without lessons in a slot are omitted; a
// slot with no lessons at all is printed as empty.
func Text(grid models.ScheduleGrid, rooms []string, slots []timetable.Slot, dayNames timetable.DayNames, date time.Time, week int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s), %d-я учебная неделя\n",
		date.Format("02.01.2006"), dayNames.NameOf(date), week)

	for _, slot := range slots {
		fmt.Fprintf(&b, "\n%s\n", slot.Label)

		empty := true
		for _, room := range rooms {
			entries := grid[room][slot.Label]
			if len(entries) == 0 {
				continue
			}
			empty = false
			for _, e := range entries {
				fmt.Fprintf(&b, "  %s: %s", room, e.Subject)
				if e.Type != "" {
					fmt.Fprintf(&b, " (%s)", e.Type)
				}
				fmt.Fprintf(&b, " %s—%s", e.StartTime, e.EndTime)
				if len(e.Groups) > 0 {
					fmt.Fprintf(&b, " гр. %s", strings.Join(e.Groups, ", "))
				}
				if e.Teacher != "" {
					fmt.Fprintf(&b, " — %s", e.Teacher)
				}
				b.WriteByte('\n')
			}
		}
		if empty {
			b.WriteString("  занятий нет\n")
		}
	}

	return b.String()
}
