package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDaysOfWeek(t *testing.T) {
	days, err := parseDaysOfWeek("Tue,Thu")
	require.NoError(t, err)
	assert.Equal(t, map[time.Weekday]bool{time.Tuesday: true, time.Thursday: true}, days)

	days, err = parseDaysOfWeek(" monday , SATURDAY ")
	require.NoError(t, err)
	assert.Equal(t, map[time.Weekday]bool{time.Monday: true, time.Saturday: true}, days)

	_, err = parseDaysOfWeek("Tue,Someday")
	assert.Error(t, err)
}

func TestExpandWeeklySchedule(t *testing.T) {
	// 2026-10-05 is a Monday.
	start := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	days := map[time.Weekday]bool{time.Tuesday: true, time.Thursday: true}

	slots := expandWeeklySchedule(start, 18, 4, days)
	require.Len(t, slots, 8, "4 weeks x 2 days")

	assert.Equal(t, time.Date(2026, 10, 6, 18, 0, 0, 0, time.UTC), slots[0])
	assert.Equal(t, time.Date(2026, 10, 8, 18, 0, 0, 0, time.UTC), slots[1])
	assert.Equal(t, time.Date(2026, 10, 29, 18, 0, 0, 0, time.UTC), slots[7])

	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i].After(slots[i-1]), "slots are ordered")
	}
}

func TestExpandWeeklyScheduleIncludesStartDay(t *testing.T) {
	// Pattern includes the start date's own weekday.
	start := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC) // Monday
	days := map[time.Weekday]bool{time.Monday: true}

	slots := expandWeeklySchedule(start, 9, 2, days)
	require.Len(t, slots, 2)
	assert.Equal(t, time.Date(2026, 10, 5, 9, 0, 0, 0, time.UTC), slots[0])
	assert.Equal(t, time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC), slots[1])
}

func TestExpandWeeklyScheduleEmptyDays(t *testing.T) {
	start := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	slots := expandWeeklySchedule(start, 18, 4, map[time.Weekday]bool{})
	assert.Empty(t, slots)
}
