package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"

	"denboard/utils"
)

// AdminCookieName marks an authenticated admin session.
const AdminCookieName = "denboard_admin"

// AuthHandler guards the settings editor behind a PIN.
type AuthHandler struct {
	ConfiguredPIN string
}

func NewAuthHandler(pin string) *AuthHandler {
	return &AuthHandler{ConfiguredPIN: pin}
}

type loginRequest struct {
	PIN string `json:"pin"`
}

// Login checks the submitted PIN and sets the admin cookie. With no PIN
// configured the dashboard runs open; the login succeeds with a warning so
// a fresh install is not locked out of its own settings.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.ConfiguredPIN == "" {
		log.Printf("[auth] no admin PIN configured, settings editor is open")
		h.setAdminCookie(w, r)
		respondJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"warning": "no admin PIN configured",
		})
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if !utils.ValidatePIN(req.PIN) {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "PIN must be 4 to 8 digits"})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.PIN), []byte(h.ConfiguredPIN)) != 1 {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect PIN"})
		return
	}

	h.setAdminCookie(w, r)
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *AuthHandler) setAdminCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookieName,
		Value:    "1",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}

// isAdmin reports whether the request carries the admin cookie. Open mode
// (no PIN configured) counts as admin.
func (h *AuthHandler) isAdmin(r *http.Request) bool {
	if h.ConfiguredPIN == "" {
		return true
	}
	cookie, err := r.Cookie(AdminCookieName)
	return err == nil && cookie.Value == "1"
}
