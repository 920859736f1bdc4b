package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWindow(t *testing.T) {
	w := DefaultWindow()
	times := w.Times()

	require.Len(t, times, 16)
	assert.Equal(t, "09:00", times[0])
	assert.Equal(t, "09:30", times[1])
	assert.Equal(t, "16:30", times[len(times)-1])
	assert.NotContains(t, times, "17:00")
	assert.Equal(t, 16, w.Count())
}

func TestCountMatchesFormula(t *testing.T) {
	windows := []Window{
		{OpenHour: 9, CloseHour: 17, Interval: 30 * time.Minute},
		{OpenHour: 8, CloseHour: 12, Interval: 15 * time.Minute},
		{OpenHour: 0, CloseHour: 24, Interval: time.Hour},
		{OpenHour: 10, CloseHour: 11, Interval: 20 * time.Minute},
		{OpenHour: 13, CloseHour: 16, Interval: 45 * time.Minute},
	}

	for _, w := range windows {
		want := (w.CloseHour - w.OpenHour) * 60 / int(w.Interval/time.Minute)
		assert.Equal(t, want, w.Count(), "window %+v", w)
		assert.Len(t, w.Times(), want, "window %+v", w)

		for off := range w.Offsets() {
			assert.GreaterOrEqual(t, off, time.Duration(w.OpenHour)*time.Hour)
			assert.Less(t, off, time.Duration(w.CloseHour)*time.Hour)
			assert.Zero(t, (off-time.Duration(w.OpenHour)*time.Hour)%w.Interval)
		}
	}
}

func TestSlotsIsRestartable(t *testing.T) {
	w := DefaultWindow()
	seq := w.Slots()

	var first, second []string
	for s := range seq {
		first = append(first, s)
		if len(first) == 3 {
			break
		}
	}
	for s := range seq {
		second = append(second, s)
	}

	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, first)
	assert.Len(t, second, 16)
}

func TestInvalidWindowYieldsNothing(t *testing.T) {
	tests := []Window{
		{OpenHour: 17, CloseHour: 9, Interval: 30 * time.Minute},
		{OpenHour: 9, CloseHour: 17, Interval: 0},
		{OpenHour: 9, CloseHour: 17, Interval: 90 * time.Second},
		{OpenHour: 9, CloseHour: 10, Interval: 25 * time.Minute},
		{OpenHour: 9, CloseHour: 25, Interval: time.Hour},
	}
	for _, w := range tests {
		assert.Error(t, w.Validate(), "window %+v", w)
		assert.Zero(t, w.Count())
		assert.Empty(t, w.Times())
	}
}

func TestContains(t *testing.T) {
	w := DefaultWindow()

	assert.True(t, w.Contains("09:00"))
	assert.True(t, w.Contains("16:30"))
	assert.False(t, w.Contains("17:00"))
	assert.False(t, w.Contains("08:30"))
	assert.False(t, w.Contains("09:15"))
	assert.False(t, w.Contains("9am"))
}

func TestAtAndTimeOfDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)
	start, err := At(date, "10:30", loc)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC), start.UTC())
	assert.Equal(t, "10:30", TimeOfDay(start.UTC(), loc))

	_, err = At(date, "25:00", loc)
	assert.Error(t, err)
}

func TestDayRangeIsHalfOpen(t *testing.T) {
	loc := time.UTC
	start, end := DayRange(time.Date(2025, 1, 6, 13, 45, 0, 0, loc), loc)

	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, 1, 7, 0, 0, 0, 0, loc), end)
}

func TestIsWeekend(t *testing.T) {
	assert.True(t, IsWeekend(time.Date(2025, 1, 4, 10, 0, 0, 0, time.UTC), time.UTC))
	assert.True(t, IsWeekend(time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC), time.UTC))
	assert.False(t, IsWeekend(time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC), time.UTC))
}
