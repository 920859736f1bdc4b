// Package schedule generates the bookable time-of-day slots of a working day.
package schedule

import (
	"fmt"
	"iter"
	"slices"
	"time"
)

const layout = "15:04"

// Window is the daily slot template: slots start at every Interval from
// OpenHour up to, but excluding, CloseHour.
type Window struct {
	OpenHour  int
	CloseHour int
	Interval  time.Duration
}

// DefaultWindow is 09:00 to 17:00 in 30 minute steps.
func DefaultWindow() Window {
	return Window{OpenHour: 9, CloseHour: 17, Interval: 30 * time.Minute}
}

// Validate rejects windows that would produce slots off the interval grid.
func (w Window) Validate() error {
	if w.OpenHour < 0 || w.CloseHour > 24 || w.OpenHour >= w.CloseHour {
		return fmt.Errorf("invalid schedule window %02d:00-%02d:00", w.OpenHour, w.CloseHour)
	}
	if w.Interval < time.Minute || w.Interval%time.Minute != 0 {
		return fmt.Errorf("invalid schedule window interval %s", w.Interval)
	}
	if w.span()%w.Interval != 0 {
		return fmt.Errorf("schedule window interval %s does not divide %s", w.Interval, w.span())
	}
	return nil
}

func (w Window) span() time.Duration {
	return time.Duration(w.CloseHour-w.OpenHour) * time.Hour
}

// Count is the number of slots in the window.
func (w Window) Count() int {
	if w.Validate() != nil {
		return 0
	}
	return int(w.span() / w.Interval)
}

// Offsets yields each slot as a duration since midnight. The sequence is
// finite, and ranging over it again starts from the first slot.
func (w Window) Offsets() iter.Seq[time.Duration] {
	return func(yield func(time.Duration) bool) {
		if w.Validate() != nil {
			return
		}
		end := time.Duration(w.CloseHour) * time.Hour
		for off := time.Duration(w.OpenHour) * time.Hour; off < end; off += w.Interval {
			if !yield(off) {
				return
			}
		}
	}
}

// Slots yields each slot as "HH:MM".
func (w Window) Slots() iter.Seq[string] {
	return func(yield func(string) bool) {
		for off := range w.Offsets() {
			if !yield(FormatOffset(off)) {
				return
			}
		}
	}
}

// Times collects Slots.
func (w Window) Times() []string {
	return slices.Collect(w.Slots())
}

// Contains reports whether hhmm is one of the window's slots.
func (w Window) Contains(hhmm string) bool {
	off, err := ParseOffset(hhmm)
	if err != nil {
		return false
	}
	for o := range w.Offsets() {
		if o == off {
			return true
		}
	}
	return false
}

// ParseOffset parses "HH:MM" into a duration since midnight.
func ParseOffset(hhmm string) (time.Duration, error) {
	t, err := time.Parse(layout, hhmm)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", hhmm, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// FormatOffset renders a duration since midnight as "HH:MM".
func FormatOffset(off time.Duration) string {
	h := int(off / time.Hour)
	m := int((off % time.Hour) / time.Minute)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// TimeOfDay formats t's wall clock in loc as "HH:MM".
func TimeOfDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(layout)
}

// At returns the instant hhmm on date's calendar day in loc.
func At(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	off, err := ParseOffset(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	day := StartOfDay(date, loc)
	return time.Date(day.Year(), day.Month(), day.Day(),
		int(off/time.Hour), int((off%time.Hour)/time.Minute), 0, 0, loc), nil
}

// StartOfDay is midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DayRange is the half-open interval [midnight, next midnight) of t's day in loc.
func DayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := StartOfDay(t, loc)
	return start, start.AddDate(0, 0, 1)
}

// IsWeekend reports whether t falls on Saturday or Sunday in loc.
func IsWeekend(t time.Time, loc *time.Location) bool {
	switch t.In(loc).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}
