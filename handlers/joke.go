package handlers

import (
	"context"
	"net/http"

	"denboard/models"
)

type jokeService interface {
	Get(ctx context.Context) models.JokePayload
}

// JokeHandler serves the dad joke endpoint.
type JokeHandler struct {
	Service jokeService
}

func NewJokeHandler(service jokeService) *JokeHandler {
	return &JokeHandler{Service: service}
}

// GetJoke returns the current (possibly fallback) joke.
func (h *JokeHandler) GetJoke(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Service.Get(r.Context()))
}
