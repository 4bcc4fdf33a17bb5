package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func icsFeed(events ...string) []byte {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//denboard test//EN",
	}
	lines = append(lines, events...)
	lines = append(lines, "END:VCALENDAR", "")
	return []byte(strings.Join(lines, "\r\n"))
}

func TestParseEventsAllDayAndTimed(t *testing.T) {
	denver, err := time.LoadLocation("America/Denver")
	require.NoError(t, err)

	feed := icsFeed(
		"BEGIN:VEVENT",
		"UID:allday-1",
		"SUMMARY:Spring Break",
		"DTSTART;VALUE=DATE:20260304",
		"DTEND;VALUE=DATE:20260305",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:timed-1",
		"SUMMARY:Dentist",
		"LOCATION:Main St",
		"DTSTART:20260304T220000Z",
		"DTEND:20260304T230000Z",
		"END:VEVENT",
	)

	events, err := parseEvents(feed, denver)
	require.NoError(t, err)
	require.Len(t, events, 2)

	allDay := events[0]
	require.Equal(t, "allday-1", allDay.UID)
	require.True(t, allDay.AllDay)
	require.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, denver), allDay.Start)

	timed := events[1]
	require.Equal(t, "Dentist", timed.Summary)
	require.Equal(t, "Main St", timed.Location)
	require.False(t, timed.AllDay)
	require.True(t, timed.Start.Equal(time.Date(2026, 3, 4, 22, 0, 0, 0, time.UTC)))
}

func TestParseEventsTZIDAndDefaults(t *testing.T) {
	denver, err := time.LoadLocation("America/Denver")
	require.NoError(t, err)

	feed := icsFeed(
		"BEGIN:VEVENT",
		"UID:tz-1",
		"SUMMARY:School pickup",
		"DTSTART;TZID=America/New_York:20260304T150000",
		"END:VEVENT",
	)

	events, err := parseEvents(feed, denver)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ny, _ := time.LoadLocation("America/New_York")
	require.True(t, events[0].Start.Equal(time.Date(2026, 3, 4, 15, 0, 0, 0, ny)))
	// Missing DTEND defaults to one hour.
	require.Equal(t, time.Hour, events[0].End.Sub(events[0].Start))
}

func TestParseEventsSkipsEventWithoutStart(t *testing.T) {
	denver, _ := time.LoadLocation("America/Denver")

	feed := icsFeed(
		"BEGIN:VEVENT",
		"UID:broken-1",
		"SUMMARY:No start",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:good-1",
		"SUMMARY:Good",
		"DTSTART:20260304T220000Z",
		"END:VEVENT",
	)

	events, err := parseEvents(feed, denver)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "good-1", events[0].UID)
}

func TestExpandEventWeeklyWithExdate(t *testing.T) {
	denver, err := time.LoadLocation("America/Denver")
	require.NoError(t, err)

	feed := icsFeed(
		"BEGIN:VEVENT",
		"UID:weekly-1",
		"SUMMARY:Piano",
		"DTSTART;TZID=America/Denver:20260101T160000",
		"DTEND;TZID=America/Denver:20260101T170000",
		"RRULE:FREQ=WEEKLY;BYDAY=TH",
		"EXDATE;TZID=America/Denver:20260305T160000",
		"END:VEVENT",
	)

	events, err := parseEvents(feed, denver)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "FREQ=WEEKLY;BYDAY=TH", events[0].RRule)
	require.Len(t, events[0].ExDates, 1)

	windowStart := time.Date(2026, 2, 18, 0, 0, 0, 0, denver)
	windowEnd := time.Date(2026, 3, 18, 23, 59, 59, 0, denver)
	instances := expandEvent(events[0], windowStart, windowEnd)

	// Thursdays Feb 19, Feb 26, Mar 5, Mar 12 minus the Mar 5 exception.
	require.Len(t, instances, 3)
	for _, inst := range instances {
		require.Equal(t, time.Thursday, inst.Start.In(denver).Weekday())
		require.NotEqual(t, "2026-03-05", inst.Start.In(denver).Format("2006-01-02"))
		require.Equal(t, time.Hour, inst.End.Sub(inst.Start))
	}
}

func TestExpandEventNonRecurringPassesThrough(t *testing.T) {
	denver, _ := time.LoadLocation("America/Denver")
	ev := rawEvent{
		UID:   "single",
		Start: time.Date(2026, 3, 4, 10, 0, 0, 0, denver),
		End:   time.Date(2026, 3, 4, 11, 0, 0, 0, denver),
	}
	instances := expandEvent(ev, time.Date(2026, 2, 18, 0, 0, 0, 0, denver), time.Date(2026, 3, 18, 0, 0, 0, 0, denver))
	require.Len(t, instances, 1)
	require.Equal(t, ev, instances[0])
}

func TestParseEventsRejectsGarbage(t *testing.T) {
	denver, _ := time.LoadLocation("America/Denver")
	_, err := parseEvents([]byte("definitely not a calendar"), denver)
	require.Error(t, err)
}
