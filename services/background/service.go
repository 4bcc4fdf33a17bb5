// Package background rotates the dashboard backdrop: an Unsplash photo
// chosen by a query seasoned with time of day and current weather.
package background

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"denboard/models"
	"denboard/services/cache"
	"denboard/services/fetch"
	"denboard/services/settings"
	"denboard/utils"
)

const (
	cacheKey    = "background:current"
	fallbackTTL = time.Minute

	unsplashRandomURL = "https://api.unsplash.com/photos/random"
)

// Service serves the rotating background image.
type Service struct {
	settings  *settings.Service
	store     *cache.Store
	client    *fetch.Client
	accessKey string
	now       func() time.Time
}

// New creates the background service. accessKey is the Unsplash access key;
// empty means no image provider is configured and every response is a
// query-only fallback.
func New(settingsSvc *settings.Service, store *cache.Store, client *fetch.Client, accessKey string) *Service {
	return &Service{
		settings:  settingsSvc,
		store:     store,
		client:    client,
		accessKey: accessKey,
		now:       time.Now,
	}
}

type unsplashPhoto struct {
	URLs struct {
		Regular string `json:"regular"`
		Full    string `json:"full"`
		Raw     string `json:"raw"`
	} `json:"urls"`
	User struct {
		Name string `json:"name"`
	} `json:"user"`
	Links struct {
		HTML string `json:"html"`
	} `json:"links"`
}

// Get returns the current background. The query is computed even when no
// image can be served, so the display layer can still reason about intent.
func (s *Service) Get(ctx context.Context, weather models.WeatherPayload) models.BackgroundPayload {
	if cached, ok := cache.Get[models.BackgroundPayload](s.store, cacheKey); ok {
		return cached
	}

	st := s.settings.Load()
	rotationTTL := time.Duration(st.Unsplash.RotationMinutes) * time.Minute
	now := s.now().In(resolveLocation(st.Location.Timezone))

	query := BuildQuery(utils.TimeOfDay(now), conditionTerm(weather))

	if s.accessKey == "" {
		fallback := models.BackgroundPayload{Query: query, IsFallback: true}
		s.store.Set(cacheKey, fallback, rotationTTL)
		return fallback
	}

	payload, err := s.fetchPhoto(ctx, query)
	if err != nil {
		log.Printf("[background] unsplash fetch failed: %v", err)
		fallback := models.BackgroundPayload{Query: query, IsFallback: true}
		s.store.Set(cacheKey, fallback, fallbackTTL)
		return fallback
	}

	s.store.Set(cacheKey, payload, rotationTTL)
	return payload
}

func (s *Service) fetchPhoto(ctx context.Context, query string) (models.BackgroundPayload, error) {
	u, err := url.Parse(unsplashRandomURL)
	if err != nil {
		return models.BackgroundPayload{}, err
	}
	q := u.Query()
	q.Set("orientation", "landscape")
	q.Set("query", query)
	u.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("Authorization", "Client-ID "+s.accessKey)
	header.Set("Accept-Version", "v1")

	raw, err := s.client.Get(ctx, u.String(), header)
	if err != nil {
		return models.BackgroundPayload{}, err
	}

	var photo unsplashPhoto
	if err := json.Unmarshal(raw, &photo); err != nil {
		return models.BackgroundPayload{}, err
	}

	imageURL := firstNonEmpty(photo.URLs.Regular, photo.URLs.Full, photo.URLs.Raw)
	payload := models.BackgroundPayload{
		Query:      query,
		IsFallback: imageURL == "",
	}
	if imageURL != "" {
		payload.ImageURL = &imageURL
	}
	if photo.User.Name != "" && photo.Links.HTML != "" {
		payload.Attribution = "Photo by " + photo.User.Name + " on Unsplash"
	}
	return payload, nil
}

// BuildQuery assembles the search query. Deterministic given the time-of-day
// bucket and condition term; the upstream's own photo selection is the only
// source of variation.
func BuildQuery(timeOfDay, condition string) string {
	return strings.Join([]string{timeOfDay, condition, "mountain landscape", "calm", "minimal"}, " ")
}

func conditionTerm(weather models.WeatherPayload) string {
	if weather.Current == nil || weather.Current.Condition == "" {
		return "mountain"
	}
	return strings.ToLower(weather.Current.Condition)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func resolveLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
