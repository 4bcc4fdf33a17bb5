package models

// CalendarEvent is a single normalized event from an ICS feed.
// Start and End are RFC 3339 timestamps in the dashboard timezone.
type CalendarEvent struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Start     string `json:"start"`
	End       string `json:"end"`
	AllDay    bool   `json:"allDay"`
	Location  string `json:"location,omitempty"`
	IsOngoing bool   `json:"isOngoing"`
}

// CalendarToday splits today's events into all-day and timed groups.
// Timed events are sorted ascending by start.
type CalendarToday struct {
	AllDay []CalendarEvent `json:"allDay"`
	Timed  []CalendarEvent `json:"timed"`
}

// CalendarDay is one cell of the four-week grid.
type CalendarDay struct {
	Date           string          `json:"date"`
	IsToday        bool            `json:"isToday"`
	IsCurrentMonth bool            `json:"isCurrentMonth"`
	Events         []CalendarEvent `json:"events"`
}

// CalendarGrid holds 28 consecutive days starting one week before the
// current week's start.
type CalendarGrid struct {
	Days []CalendarDay `json:"days"`
}

// CalendarPayload is the normalized calendar response.
type CalendarPayload struct {
	Today      CalendarToday `json:"today"`
	Grid       CalendarGrid  `json:"grid"`
	IsFallback bool          `json:"isFallback"`
}

// EmptyCalendar returns a structurally valid payload with no events.
func EmptyCalendar(isFallback bool) CalendarPayload {
	return CalendarPayload{
		Today: CalendarToday{
			AllDay: []CalendarEvent{},
			Timed:  []CalendarEvent{},
		},
		Grid:       CalendarGrid{Days: []CalendarDay{}},
		IsFallback: isFallback,
	}
}
