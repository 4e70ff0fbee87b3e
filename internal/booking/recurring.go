package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptySchedule = errors.New("recurrence pattern produces no slots")
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// parseDaysOfWeek turns "Tue,Thu" into a weekday set. Names are
// case-insensitive; both short and full forms are accepted.
func parseDaysOfWeek(daysOfWeek string) (map[time.Weekday]bool, error) {
	set := make(map[time.Weekday]bool)
	for _, part := range strings.Split(daysOfWeek, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		day, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		set[day] = true
	}
	return set, nil
}

// expandWeeklySchedule walks weeks*7 calendar days from startDate and returns
// the ordered start times falling on the selected weekdays.
func expandWeeklySchedule(startDate time.Time, startHour int, weeks int, days map[time.Weekday]bool) []time.Time {
	var slots []time.Time
	for offset := 0; offset < weeks*7; offset++ {
		day := startDate.AddDate(0, 0, offset)
		if !days[day.Weekday()] {
			continue
		}
		slots = append(slots, time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, day.Location()))
	}
	return slots
}
