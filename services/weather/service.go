// Package weather normalizes two upstream weather strategies (the external
// open-meteo API and a Home Assistant weather entity) into one payload with
// fallback-caching semantics.
package weather

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"denboard/models"
	"denboard/services/cache"
	"denboard/services/fetch"
	"denboard/services/settings"
)

const (
	cacheKey    = "weather:current"
	fallbackTTL = time.Minute
)

const (
	// SourceExternal tags payloads produced by the open-meteo variant.
	SourceExternal = "external"
	// SourceHomeAssistant tags payloads produced by the smart-home variant.
	SourceHomeAssistant = "homeassistant"
)

// Service serves normalized weather. Every consumer always receives a
// well-formed payload; upstream failures become a flagged fallback.
type Service struct {
	settings  *settings.Service
	store     *cache.Store
	external  *openMeteoSource
	smartHome *haWeatherSource
	haToken   string
	now       func() time.Time
}

// New creates the weather service. haToken is the Home Assistant bearer
// token from the environment; it is never part of the settings document.
func New(settingsSvc *settings.Service, store *cache.Store, client *fetch.Client, haToken string) *Service {
	return &Service{
		settings:  settingsSvc,
		store:     store,
		external:  &openMeteoSource{client: client, baseURL: openMeteoBaseURL},
		smartHome: &haWeatherSource{client: client},
		haToken:   haToken,
		now:       time.Now,
	}
}

// Get returns the normalized weather payload, served from cache while the
// previous result is fresh. Failures yield a fallback payload cached
// briefly so a failing upstream is retried periodically, not hammered.
func (s *Service) Get(ctx context.Context) models.WeatherPayload {
	if cached, ok := cache.Get[models.WeatherPayload](s.store, cacheKey); ok {
		return cached
	}

	st := s.settings.Load()
	payload, _, _, err := s.fetch(ctx, st)
	if err != nil {
		log.Printf("[weather] fetch failed: %s", truncateErr(err))
		fallback := models.FallbackWeather(st.Weather.Units, s.now())
		s.store.Set(cacheKey, fallback, fallbackTTL)
		return fallback
	}

	s.store.Set(cacheKey, payload, time.Duration(st.Weather.RefreshMinutes)*time.Minute)
	return payload
}

// Debug always bypasses the cache and returns the mapped payload alongside
// the raw provider body and the source tag, for diagnostics.
func (s *Service) Debug(ctx context.Context) models.WeatherDebug {
	st := s.settings.Load()
	payload, raw, source, err := s.fetch(ctx, st)
	if err != nil {
		log.Printf("[weather] debug fetch failed: %s", truncateErr(err))
		return models.WeatherDebug{
			Mapped: models.FallbackWeather(st.Weather.Units, s.now()),
			Source: source,
		}
	}
	return models.WeatherDebug{
		Mapped:      payload,
		RawProvider: raw,
		Source:      source,
	}
}

// fetch selects the source variant per settings. The smart-home variant
// delegates explicitly to the external one on any error or missing
// configuration.
func (s *Service) fetch(ctx context.Context, st models.Settings) (models.WeatherPayload, json.RawMessage, string, error) {
	loc := resolveLocation(st.Location.Timezone)
	now := s.now().In(loc)

	if st.Weather.Provider == "homeassistant" {
		payload, raw, err := s.smartHome.Fetch(ctx, st, s.haToken, loc, now)
		if err == nil {
			return payload, raw, SourceHomeAssistant, nil
		}
		if err != errSmartHomeUnconfigured {
			log.Printf("[weather] smart-home source failed, delegating to external: %s", truncateErr(err))
		}
	}

	payload, raw, err := s.external.Fetch(ctx, st, now)
	return payload, raw, SourceExternal, err
}

func resolveLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// truncateErr bounds error detail in logs; upstream bodies can be large.
func truncateErr(err error) string {
	msg := err.Error()
	const limit = 200
	if len(msg) > limit {
		return msg[:limit] + "..."
	}
	return msg
}
