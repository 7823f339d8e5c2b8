package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"roomboard/internal/models"
	"roomboard/internal/timetable"
)

// Excel renders the grid as an XLSX workbook: one sheet, rooms as columns,
// display slots as rows. The caller owns the returned file.
func Excel(grid models.ScheduleGrid, rooms []string, slots []timetable.Slot, date time.Time, week int) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := date.Format("02.01.2006")
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("cell style: %w", err)
	}

	corner, _ := excelize.CoordinatesToCellName(1, 1)
	if err := f.SetCellValue(sheet, corner, fmt.Sprintf("Неделя %d", week)); err != nil {
		return nil, err
	}

	for i, room := range rooms {
		cell, err := excelize.CoordinatesToCellName(i+2, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, room); err != nil {
			return nil, err
		}
	}

	lastHeader, _ := excelize.CoordinatesToCellName(len(rooms)+1, 1)
	_ = f.SetCellStyle(sheet, corner, lastHeader, headerStyle)

	for row, slot := range slots {
		labelCell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, labelCell, slot.Label); err != nil {
			return nil, err
		}

		for col, room := range rooms {
			entries := grid[room][slot.Label]
			if len(entries) == 0 {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+2, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, formatCell(entries)); err != nil {
				return nil, err
			}
			_ = f.SetCellStyle(sheet, cell, cell, cellStyle)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 14)
	if len(rooms) > 0 {
		last, _ := excelize.ColumnNumberToName(len(rooms) + 1)
		_ = f.SetColWidth(sheet, "B", last, 32)
	}

	return f, nil
}

func formatCell(entries []models.RoomSlotEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		var b strings.Builder
		fmt.Fprintf(&b, "%s—%s %s", e.StartTime, e.EndTime, e.Subject)
		if e.Type != "" {
			fmt.Fprintf(&b, " (%s)", e.Type)
		}
		if len(e.Groups) > 0 {
			fmt.Fprintf(&b, "\nгр. %s", strings.Join(e.Groups, ", "))
		}
		if e.Teacher != "" {
			fmt.Fprintf(&b, "\n%s", e.Teacher)
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n\n")
}
