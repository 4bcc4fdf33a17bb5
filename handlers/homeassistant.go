package handlers

import (
	"context"
	"net/http"

	"denboard/models"
)

type homeStatusService interface {
	Get(ctx context.Context) models.HomeStatusPayload
}

// HomeAssistantHandler serves the smart-home status endpoint.
type HomeAssistantHandler struct {
	Service homeStatusService
}

func NewHomeAssistantHandler(service homeStatusService) *HomeAssistantHandler {
	return &HomeAssistantHandler{Service: service}
}

// GetStatus returns guest mode plus the monitored entity states.
func (h *HomeAssistantHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Service.Get(r.Context()))
}
