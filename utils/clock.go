package utils

import "time"

// TimeOfDay buckets a local time into morning (05-11), midday (11-17),
// evening (17-21), or night. The buckets season the background image query.
func TimeOfDay(t time.Time) string {
	hour := t.Hour()
	switch {
	case hour >= 5 && hour < 11:
		return "morning"
	case hour >= 11 && hour < 17:
		return "midday"
	case hour >= 17 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}

// DayCell is one day of the four-week calendar grid.
type DayCell struct {
	Date           time.Time
	IsToday        bool
	IsCurrentMonth bool
}

// StartOfWeek truncates t to midnight of its week's first day. weekStart is
// "sunday" or "monday" (the default).
func StartOfWeek(t time.Time, weekStart string) time.Time {
	day := StartOfDay(t)
	offset := int(day.Weekday()) // days since Sunday
	if weekStart != "sunday" {
		// Monday-based: Sunday counts as 6 days in.
		offset = (offset + 6) % 7
	}
	return day.AddDate(0, 0, -offset)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// FourWeekGrid returns 28 consecutive days starting one week before the
// reference's week start. Exactly one cell is flagged IsToday.
func FourWeekGrid(reference time.Time, weekStart string) []DayCell {
	start := StartOfWeek(reference, weekStart).AddDate(0, 0, -7)
	refDay := StartOfDay(reference)

	cells := make([]DayCell, 0, 28)
	for i := 0; i < 28; i++ {
		date := start.AddDate(0, 0, i)
		cells = append(cells, DayCell{
			Date:           date,
			IsToday:        date.Equal(refDay),
			IsCurrentMonth: date.Month() == reference.Month(),
		})
	}
	return cells
}
