package handlers

import (
	"context"
	"net/http"

	"denboard/models"
)

type backgroundService interface {
	Get(ctx context.Context, weather models.WeatherPayload) models.BackgroundPayload
}

// BackgroundHandler serves the rotating background image. It reads the
// current weather first so the search query can reflect conditions.
type BackgroundHandler struct {
	Weather weatherService
	Service backgroundService
}

func NewBackgroundHandler(weather weatherService, service backgroundService) *BackgroundHandler {
	return &BackgroundHandler{Weather: weather, Service: service}
}

// GetBackground returns the background payload.
func (h *BackgroundHandler) GetBackground(w http.ResponseWriter, r *http.Request) {
	weather := h.Weather.Get(r.Context())
	respondJSON(w, http.StatusOK, h.Service.Get(r.Context(), weather))
}
