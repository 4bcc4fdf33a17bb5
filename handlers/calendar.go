package handlers

import (
	"context"
	"net/http"

	"denboard/models"
)

type calendarService interface {
	Get(ctx context.Context) models.CalendarPayload
}

// CalendarHandler serves the calendar endpoint.
type CalendarHandler struct {
	Service calendarService
}

func NewCalendarHandler(service calendarService) *CalendarHandler {
	return &CalendarHandler{Service: service}
}

// GetCalendar returns today's events and the four-week grid.
func (h *CalendarHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Service.Get(r.Context()))
}
