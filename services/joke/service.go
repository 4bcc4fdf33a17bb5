// Package joke serves the daily dad joke.
package joke

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"denboard/models"
	"denboard/services/cache"
	"denboard/services/fetch"
)

const (
	cacheKey    = "dadjoke:current"
	fallbackTTL = time.Minute

	jokeURL = "https://icanhazdadjoke.com/"

	// fallbackJoke keeps the card on-theme when the upstream is down.
	fallbackJoke = "Why don't mountains get cold? They wear snow caps."
)

// Service serves jokes with a long cache so the card rotates slowly.
type Service struct {
	store  *cache.Store
	client *fetch.Client
	ttl    time.Duration
}

// New creates the joke service. ttl is the success cache lifetime, normally
// the configured dad joke refresh interval.
func New(store *cache.Store, client *fetch.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 45 * time.Minute
	}
	return &Service{store: store, client: client, ttl: ttl}
}

type jokeResponse struct {
	Joke string `json:"joke"`
}

// Get returns the cached joke, fetching a fresh one on expiry. Failures fall
// back to a fixed joke cached briefly.
func (s *Service) Get(ctx context.Context) models.JokePayload {
	if cached, ok := cache.Get[models.JokePayload](s.store, cacheKey); ok {
		return cached
	}

	header := http.Header{}
	header.Set("Accept", "application/json")
	header.Set("User-Agent", "denboard (family dashboard)")

	raw, err := s.client.Get(ctx, jokeURL, header)
	if err == nil {
		var data jokeResponse
		if jsonErr := json.Unmarshal(raw, &data); jsonErr == nil && data.Joke != "" {
			payload := models.JokePayload{Joke: data.Joke, IsFallback: false}
			s.store.Set(cacheKey, payload, s.ttl)
			return payload
		}
		log.Printf("[joke] unexpected joke response body")
	} else {
		log.Printf("[joke] fetch failed: %v", err)
	}

	fallback := models.JokePayload{Joke: fallbackJoke, IsFallback: true}
	s.store.Set(cacheKey, fallback, fallbackTTL)
	return fallback
}
