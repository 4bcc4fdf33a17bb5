package handlers

import (
	"io"
	"net/http"

	"denboard/services/settings"
)

// maxSettingsBody bounds the PUT body; the document is small.
const maxSettingsBody = 1 << 20

// SettingsHandler serves the settings document. Reads are public (the
// display needs them); writes require the admin cookie.
type SettingsHandler struct {
	Service *settings.Service
	Auth    *AuthHandler
}

func NewSettingsHandler(service *settings.Service, auth *AuthHandler) *SettingsHandler {
	return &SettingsHandler{Service: service, Auth: auth}
}

// GetSettings returns the merged settings document.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Service.Load())
}

// PutSettings applies a partial update over the current document, validates
// the result, and persists it.
func (h *SettingsHandler) PutSettings(w http.ResponseWriter, r *http.Request) {
	if !h.Auth.isAdmin(r) {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "admin login required"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSettingsBody))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "read request body"})
		return
	}

	merged, err := h.Service.MergeUpdate(body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if errs := settings.Validate(merged); len(errs) > 0 {
		respondJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	if err := h.Service.Save(merged); err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, merged)
}
