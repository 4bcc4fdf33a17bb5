// Package calendar turns subscribed ICS feeds into the today view and the
// four-week grid, bounded to a ±2-week window around now.
package calendar

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"denboard/models"
	"denboard/services/cache"
	"denboard/services/fetch"
	"denboard/services/settings"
	"denboard/utils"
)

const (
	cacheKey    = "calendar:ics"
	fallbackTTL = time.Minute
	windowWeeks = 2
)

// Service serves the normalized calendar payload.
type Service struct {
	settings  *settings.Service
	store     *cache.Store
	client    *fetch.Client
	weekStart string
	now       func() time.Time
}

// New creates the calendar service. weekStart is "monday" or "sunday".
func New(settingsSvc *settings.Service, store *cache.Store, client *fetch.Client, weekStart string) *Service {
	return &Service{
		settings:  settingsSvc,
		store:     store,
		client:    client,
		weekStart: weekStart,
		now:       time.Now,
	}
}

// Get returns today's events and the four-week grid. Without any configured
// feed it fails fast with an empty payload and no network call; fetch or
// parse errors yield the same empty payload cached briefly.
func (s *Service) Get(ctx context.Context) models.CalendarPayload {
	if cached, ok := cache.Get[models.CalendarPayload](s.store, cacheKey); ok {
		return cached
	}

	st := s.settings.Load()
	refreshTTL := time.Duration(st.Calendar.RefreshMinutes) * time.Minute

	sources := enabledSources(st.Calendar.Calendars)
	if len(sources) == 0 {
		empty := models.EmptyCalendar(true)
		s.store.Set(cacheKey, empty, refreshTTL)
		return empty
	}

	loc := resolveLocation(st.Location.Timezone)
	now := s.now().In(loc)

	events, err := s.collect(ctx, sources, loc, now)
	if err != nil {
		log.Printf("[calendar] refresh failed: %s", truncateErr(err))
		empty := models.EmptyCalendar(true)
		s.store.Set(cacheKey, empty, fallbackTTL)
		return empty
	}

	payload := buildPayload(events, now, s.weekStart)
	s.store.Set(cacheKey, payload, refreshTTL)
	return payload
}

func enabledSources(calendars []models.CalendarSource) []models.CalendarSource {
	out := make([]models.CalendarSource, 0, len(calendars))
	for _, cal := range calendars {
		if cal.Enabled && cal.ICSURL != "" {
			out = append(out, cal)
		}
	}
	return out
}

// collect fetches and parses every enabled feed. One broken feed degrades
// the whole payload; partial calendars would be more confusing on a shared
// wall display than an explicit fallback.
func (s *Service) collect(ctx context.Context, sources []models.CalendarSource, loc *time.Location, now time.Time) ([]models.CalendarEvent, error) {
	todayStart := utils.StartOfDay(now)
	windowStart := todayStart.AddDate(0, 0, -7*windowWeeks)
	windowEnd := utils.EndOfDay(now).AddDate(0, 0, 7*windowWeeks)

	header := http.Header{}
	header.Set("Accept", "text/calendar")

	var events []models.CalendarEvent
	for _, src := range sources {
		body, err := s.client.Get(ctx, src.ICSURL, header)
		if err != nil {
			return nil, fmt.Errorf("fetch calendar %s: %w", src.ID, err)
		}

		parsed, err := parseEvents(body, loc)
		if err != nil {
			return nil, fmt.Errorf("parse calendar %s: %w", src.ID, err)
		}

		for _, raw := range parsed {
			for _, inst := range expandEvent(raw, windowStart, windowEnd) {
				// Drop anything outside the ±2-week window immediately.
				if inst.End.Before(windowStart) || inst.Start.After(windowEnd) {
					continue
				}
				events = append(events, normalizeEvent(inst, loc, now))
			}
		}
	}
	return events, nil
}

func normalizeEvent(ev rawEvent, loc *time.Location, now time.Time) models.CalendarEvent {
	id := ev.UID
	if id == "" {
		id = uuid.NewString()
	}
	title := ev.Summary
	if title == "" {
		title = "Untitled"
	}
	start := ev.Start.In(loc)
	end := ev.End.In(loc)

	return models.CalendarEvent{
		ID:        id,
		Title:     title,
		Start:     start.Format(time.RFC3339),
		End:       end.Format(time.RFC3339),
		AllDay:    ev.AllDay,
		Location:  ev.Location,
		IsOngoing: !now.Before(start) && !now.After(end),
	}
}

func buildPayload(events []models.CalendarEvent, now time.Time, weekStart string) models.CalendarPayload {
	sort.Slice(events, func(i, j int) bool {
		return events[i].Start < events[j].Start
	})

	today := now.Format("2006-01-02")
	payload := models.EmptyCalendar(false)

	for _, ev := range events {
		if eventDate(ev) != today {
			continue
		}
		if ev.AllDay {
			payload.Today.AllDay = append(payload.Today.AllDay, ev)
		} else {
			payload.Today.Timed = append(payload.Today.Timed, ev)
		}
	}

	for _, cell := range utils.FourWeekGrid(now, weekStart) {
		date := cell.Date.Format("2006-01-02")
		day := models.CalendarDay{
			Date:           date,
			IsToday:        cell.IsToday,
			IsCurrentMonth: cell.IsCurrentMonth,
			Events:         []models.CalendarEvent{},
		}
		for _, ev := range events {
			if eventDate(ev) == date {
				day.Events = append(day.Events, ev)
			}
		}
		payload.Grid.Days = append(payload.Grid.Days, day)
	}

	return payload
}

// eventDate extracts the calendar date from the event's RFC 3339 start.
func eventDate(ev models.CalendarEvent) string {
	if len(ev.Start) < 10 {
		return ""
	}
	return ev.Start[:10]
}

func resolveLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func truncateErr(err error) string {
	msg := err.Error()
	const limit = 200
	if len(msg) > limit {
		return msg[:limit] + "..."
	}
	return msg
}
