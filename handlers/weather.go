package handlers

import (
	"context"
	"net/http"

	"denboard/models"
)

type weatherService interface {
	Get(ctx context.Context) models.WeatherPayload
	Debug(ctx context.Context) models.WeatherDebug
}

// WeatherHandler serves the weather endpoints. The data contract is always
// HTTP 200: failures surface as fallback payloads, never as error statuses.
type WeatherHandler struct {
	Service weatherService
}

func NewWeatherHandler(service weatherService) *WeatherHandler {
	return &WeatherHandler{Service: service}
}

// GetWeather returns the normalized (possibly fallback) weather payload.
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Service.Get(r.Context()))
}

// GetWeatherDebug bypasses the cache and includes the raw provider body.
func (h *WeatherHandler) GetWeatherDebug(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Service.Debug(r.Context()))
}
