package impact

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrBadWeekStart reports an unknown week start name.
var ErrBadWeekStart = errors.New("impact: unknown week start")

// WeekStart selects the first day of aggregation weeks. The zero value
// starts weeks on Monday.
type WeekStart int

// Week start days, in aggregation order rather than time package order so
// that the zero value lands on Monday.
const (
	Monday WeekStart = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekStartNames = [...]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// String returns the lowercase day name.
func (w WeekStart) String() string {
	if w < Monday || w > Sunday {
		return fmt.Sprintf("weekstart(%d)", int(w))
	}

	return weekStartNames[w]
}

// weekday converts to the time package numbering.
func (w WeekStart) weekday() time.Weekday {
	if w == Sunday {
		return time.Sunday
	}

	return time.Weekday(int(w) + 1)
}

// ParseWeekStart resolves a lowercase or mixed-case day name.
func ParseWeekStart(name string) (WeekStart, error) {
	folded := strings.ToLower(strings.TrimSpace(name))
	for day, known := range weekStartNames {
		if folded == known {
			return WeekStart(day), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrBadWeekStart, name)
}

// FloorWeek returns midnight UTC of the last week-start day at or before t.
func FloorWeek(t time.Time, start WeekStart) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	const daysPerWeek = 7

	back := (int(day.Weekday()) - int(start.weekday()) + daysPerWeek) % daysPerWeek

	return day.AddDate(0, 0, -back)
}
