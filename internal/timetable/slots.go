package timetable

import (
	"fmt"
	"strconv"
	"strings"
)

// slotSeparator joins the start and end times in a display slot label,
// e.g. "09:00—10:20".
const slotSeparator = "—"

// Slot is one fixed display window lessons are bucketed into.
type Slot struct {
	Label    string
	StartMin int
	EndMin   int
}

// ParseSlot parses a "HH:MM—HH:MM" display slot label.
func ParseSlot(label string) (Slot, error) {
	parts := strings.Split(label, slotSeparator)
	if len(parts) != 2 {
		return Slot{}, fmt.Errorf("invalid slot label %q", label)
	}
	start, err := MinutesOfDay(parts[0])
	if err != nil {
		return Slot{}, fmt.Errorf("slot %q: %w", label, err)
	}
	end, err := MinutesOfDay(parts[1])
	if err != nil {
		return Slot{}, fmt.Errorf("slot %q: %w", label, err)
	}
	if end <= start {
		return Slot{}, fmt.Errorf("slot %q: end not after start", label)
	}
	return Slot{Label: label, StartMin: start, EndMin: end}, nil
}

// ParseSlots parses an ordered list of slot labels.
func ParseSlots(labels []string) ([]Slot, error) {
	slots := make([]Slot, 0, len(labels))
	for _, label := range labels {
		s, err := ParseSlot(label)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, nil
}

// MinutesOfDay converts an "HH:MM" time of day to minutes since midnight.
func MinutesOfDay(hhmm string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(hhmm), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", hhmm)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", hhmm)
	}
	return hours*60 + minutes, nil
}

// SlotsFor returns the labels of every slot the [start,end) lesson interval
// overlaps, in slot order. The overlap test is boundary-exclusive: a lesson
// ending exactly at a slot's start (or starting at its end) does not land in
// that slot. A lesson spanning a slot boundary lands in every slot it
// touches; that duplication is deliberate so partial overlaps stay visible.
// Unparseable times or a zero/negative duration yield no slots.
func SlotsFor(slots []Slot, startTime, endTime string) []string {
	start, err := MinutesOfDay(startTime)
	if err != nil {
		return nil
	}
	end, err := MinutesOfDay(endTime)
	if err != nil {
		return nil
	}
	if end <= start {
		return nil
	}

	var labels []string
	for _, slot := range slots {
		if start < slot.EndMin && end > slot.StartMin {
			labels = append(labels, slot.Label)
		}
	}
	return labels
}
