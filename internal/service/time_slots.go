package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeSlot unknown or malformed slot label.
var ErrInvalidTimeSlot = errors.New("invalid time slot")

// afternoonBefore is the first morning hour. Labels use a 12-hour clock with
// no meridiem, so any hour below it is afternoon.
const afternoonBefore = 9

// TimeSlots is the ordered list of slot labels that make up a day.
type TimeSlots []string

// Index returns the position of label, or -1.
func (s TimeSlots) Index(label string) int {
	for i, l := range s {
		if l == label {
			return i
		}
	}
	return -1
}

// Contains reports whether label is a configured slot.
func (s TimeSlots) Contains(label string) bool {
	return s.Index(label) >= 0
}

// Bounds converts a slot label such as "01:40-03:00" into wall-clock start
// and end times on day, in day's location.
func Bounds(day time.Time, label string) (time.Time, time.Time, error) {
	from, to, ok := strings.Cut(label, "-")
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, label)
	}
	start, err := slotClock(day, from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, label)
	}
	end, err := slotClock(day, to)
	if err != nil || !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, label)
	}
	return start, end, nil
}

func slotClock(day time.Time, s string) (time.Time, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return time.Time{}, errors.New("missing minutes")
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 1 || hour > 12 {
		return time.Time{}, errors.New("bad hour")
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, errors.New("bad minute")
	}
	if hour < afternoonBefore {
		hour += 12
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, day.Location()), nil
}

// parseDateKey validates a YYYY-MM-DD calendar date.
func parseDateKey(dateKey string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(dateKeyLayout, dateKey, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateKey
	}
	return t, nil
}

const dateKeyLayout = "2006-01-02"
