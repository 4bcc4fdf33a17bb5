package calendar

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
)

// maxOccurrencesPerEvent caps recurrence expansion so a malformed RRULE
// cannot blow up memory.
const maxOccurrencesPerEvent = 500

// rawEvent is one VEVENT after parsing, before window filtering.
type rawEvent struct {
	UID      string
	Summary  string
	Location string
	Start    time.Time
	End      time.Time
	AllDay   bool
	RRule    string
	ExDates  []time.Time
}

// parseEvents parses an ICS payload. Events without a resolvable DTSTART
// are discarded; a missing DTEND becomes start+1h. The library handles line
// unfolding and property parameters; date values follow the feed's rules:
// VALUE=DATE or a value without a T separator is an all-day date in the
// TZID-or-default zone, a trailing Z is UTC, anything else is a local
// timestamp in the TZID-or-default zone.
func parseEvents(body []byte, defaultLoc *time.Location) ([]rawEvent, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	events := make([]rawEvent, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		ev, err := parseVEvent(ve, defaultLoc)
		if err != nil {
			// Skip this event but keep parsing the rest of the feed.
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseVEvent(ve *ical.VEvent, defaultLoc *time.Location) (rawEvent, error) {
	var out rawEvent

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || strings.TrimSpace(dtStart.Value) == "" {
		return out, errors.New("missing DTSTART")
	}
	start, allDay, err := parseICSDate(dtStart, defaultLoc)
	if err != nil {
		return out, err
	}
	out.Start = start
	out.AllDay = allDay

	if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil && strings.TrimSpace(dtEnd.Value) != "" {
		if end, _, err := parseICSDate(dtEnd, defaultLoc); err == nil {
			out.End = end
		}
	}
	if out.End.IsZero() {
		out.End = out.Start.Add(time.Hour)
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RRule = p.Value
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, _, err := parseICSValue(part, tzidLocation(p.ICalParameters, defaultLoc)); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	return out, nil
}

func parseICSDate(p *ical.IANAProperty, defaultLoc *time.Location) (time.Time, bool, error) {
	loc := tzidLocation(p.ICalParameters, defaultLoc)
	value := strings.TrimSpace(p.Value)

	if params := p.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			t, err := time.ParseInLocation("20060102", value, loc)
			return t, true, err
		}
	}
	return parseICSValue(value, loc)
}

// parseICSValue parses a bare ICS date or date-time value. The returned bool
// reports whether the value is an all-day date.
func parseICSValue(value string, loc *time.Location) (time.Time, bool, error) {
	switch {
	case !strings.Contains(value, "T"):
		t, err := time.ParseInLocation("20060102", value, loc)
		return t, true, err
	case strings.HasSuffix(value, "Z"):
		t, err := time.Parse("20060102T150405Z", value)
		return t, false, err
	default:
		t, err := time.ParseInLocation("20060102T150405", value, loc)
		return t, false, err
	}
}

func tzidLocation(params map[string][]string, defaultLoc *time.Location) *time.Location {
	if params != nil {
		if tzs, ok := params["TZID"]; ok && len(tzs) > 0 {
			if loc, err := time.LoadLocation(tzs[0]); err == nil {
				return loc
			}
		}
	}
	return defaultLoc
}

// expandEvent turns a parsed event into concrete instances intersecting the
// window. Non-recurring events pass through; RRULE events are expanded with
// EXDATE exceptions honored.
func expandEvent(ev rawEvent, windowStart, windowEnd time.Time) []rawEvent {
	if ev.RRule == "" {
		return []rawEvent{ev}
	}

	opt, err := rrule.StrToROption(ev.RRule)
	if err != nil {
		log.Printf("[calendar] bad RRULE for %s, treating as single event: %v", ev.UID, err)
		return []rawEvent{ev}
	}
	opt.Dtstart = ev.Start

	r, err := rrule.NewRRule(*opt)
	if err != nil {
		log.Printf("[calendar] RRULE expansion failed for %s: %v", ev.UID, err)
		return []rawEvent{ev}
	}

	duration := ev.End.Sub(ev.Start)
	// Start the range early enough that an in-progress occurrence still
	// intersects the window.
	starts := r.Between(windowStart.Add(-duration), windowEnd, true)
	if len(starts) > maxOccurrencesPerEvent {
		log.Printf("[calendar] capping occurrences for %s at %d", ev.UID, maxOccurrencesPerEvent)
		starts = starts[:maxOccurrencesPerEvent]
	}

	out := make([]rawEvent, 0, len(starts))
	for _, start := range starts {
		if excluded(start, ev.ExDates) {
			continue
		}
		inst := ev
		inst.Start = start
		inst.End = start.Add(duration)
		out = append(out, inst)
	}
	return out
}

func excluded(start time.Time, exDates []time.Time) bool {
	for _, ex := range exDates {
		if start.Equal(ex) {
			return true
		}
	}
	return false
}
