// Package settings persists the dashboard settings document. When the
// document exists it is the authoritative override of environment defaults;
// absent fields inherit from the defaults.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"denboard/config"
	"denboard/models"
)

var ErrPathRequired = errors.New("settings path not provided")

// Service manages load/merge/save of the single settings document.
type Service struct {
	mu       sync.RWMutex
	path     string
	defaults models.Settings
}

// NewService creates a settings service persisting to path.
func NewService(path string, defaults models.Settings) (*Service, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrPathRequired
	}
	return &Service{path: path, defaults: defaults}, nil
}

// Defaults returns the environment-derived defaults the document overrides.
func (s *Service) Defaults() models.Settings {
	return s.defaults
}

// Load reads the persisted document merged over the defaults. A missing or
// unreadable file yields the defaults.
func (s *Service) Load() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	merged := s.defaults

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("[settings] read failed, serving defaults: %v", err)
		}
		return merged
	}

	// Unmarshal over a copy of the defaults: absent fields keep their
	// default values, which matches the section-wise override contract.
	if err := json.Unmarshal(data, &merged); err != nil {
		return s.defaults
	}

	if len(merged.Calendar.Calendars) == 0 {
		merged.Calendar.Calendars = s.defaults.Calendar.Calendars
	}
	if len(merged.HomeAssistant.Entities) == 0 {
		merged.HomeAssistant.Entities = s.defaults.HomeAssistant.Entities
	}
	return merged
}

// MergeUpdate applies a partial update (raw JSON body) over the current
// document and returns the result without persisting it.
func (s *Service) MergeUpdate(body []byte) (models.Settings, error) {
	merged := s.Load()
	if err := json.Unmarshal(body, &merged); err != nil {
		return models.Settings{}, fmt.Errorf("decode settings update: %w", err)
	}
	if len(merged.Calendar.Calendars) == 0 {
		merged.Calendar.Calendars = s.defaults.Calendar.Calendars
	}
	if len(merged.HomeAssistant.Entities) == 0 {
		merged.HomeAssistant.Entities = s.defaults.HomeAssistant.Entities
	}
	return merged, nil
}

// Save persists the full document atomically (temp file, fsync, rename).
func (s *Service) Save(st models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create settings temp file: %w", err)
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(st); err != nil {
		file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync settings: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close settings temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}

// Validate returns every rule violation in the document; an empty slice
// means the document is acceptable.
func Validate(st models.Settings) []string {
	var errs []string

	if st.Location.Lat < -90 || st.Location.Lat > 90 {
		errs = append(errs, "latitude must be between -90 and 90")
	}
	if st.Location.Lon < -180 || st.Location.Lon > 180 {
		errs = append(errs, "longitude must be between -180 and 180")
	}
	if st.Location.Timezone == "" {
		errs = append(errs, "timezone is required")
	}
	if st.Location.Units != models.UnitsImperial && st.Location.Units != models.UnitsMetric {
		errs = append(errs, "location units must be 'imperial' or 'metric'")
	}

	if st.Weather.RefreshMinutes <= 0 {
		errs = append(errs, "weather refresh must be greater than 0 minutes")
	}
	if st.Weather.Units != models.UnitsImperial && st.Weather.Units != models.UnitsMetric {
		errs = append(errs, "weather units must be 'imperial' or 'metric'")
	}
	if st.Weather.Provider != "open-meteo" && st.Weather.Provider != "homeassistant" {
		errs = append(errs, "weather provider must be 'open-meteo' or 'homeassistant'")
	}

	seen := make(map[string]bool)
	for _, cal := range st.Calendar.Calendars {
		if cal.ID == "" {
			errs = append(errs, "each calendar must have an id")
		} else if seen[cal.ID] {
			errs = append(errs, fmt.Sprintf("duplicate calendar id: %s", cal.ID))
		}
		seen[cal.ID] = true
		if cal.Name == "" {
			errs = append(errs, fmt.Sprintf("calendar '%s' must have a name", cal.ID))
		}
		if cal.Enabled && cal.ICSURL == "" {
			errs = append(errs, fmt.Sprintf("calendar '%s' is enabled but has no ICS URL", cal.ID))
		}
	}

	if st.HomeAssistant.RefreshSeconds <= 0 {
		errs = append(errs, "home assistant refresh must be greater than 0 seconds")
	}

	if st.Display.FontScale < 0.5 || st.Display.FontScale > 2 {
		errs = append(errs, "font scale should be between 0.5 and 2")
	}
	if st.Display.CardOpacity < 0.4 || st.Display.CardOpacity > 1 {
		errs = append(errs, "card opacity should be between 0.4 and 1")
	}

	return errs
}

// DefaultsFromConfig builds the settings document defaults from the
// environment configuration.
func DefaultsFromConfig(cfg *config.Config) models.Settings {
	units := models.UnitsImperial
	if cfg.Units == "metric" {
		units = models.UnitsMetric
	}

	entities := make([]models.HomeAssistantEntity, 0, len(cfg.Entities))
	for _, e := range cfg.Entities {
		entities = append(entities, models.HomeAssistantEntity{ID: e.ID, Label: e.Label, Icon: e.Icon})
	}

	return models.Settings{
		Location: models.LocationSettings{
			Lat:      cfg.Lat,
			Lon:      cfg.Lon,
			Timezone: cfg.Timezone,
			Units:    units,
		},
		Unsplash: models.UnsplashSettings{
			RotationMinutes: minutes(cfg.Refresh.Background),
			BlurAmount:      10,
			Brightness:      1,
			SearchPresets:   defaultSearchPresets(),
		},
		Weather: models.WeatherSettings{
			Provider:       "open-meteo",
			RefreshMinutes: minutes(cfg.Refresh.Weather),
			Units:          units,
		},
		Calendar: models.CalendarSettings{
			RefreshMinutes:   minutes(cfg.Refresh.Calendar),
			MaxEventsPerCell: cfg.CalendarMaxEventsPerCell,
			ShowAllDay:       true,
			Calendars: []models.CalendarSource{
				{
					ID:     "primary",
					Name:   "Family",
					Color:  "#FBBF24",
					ICSURL: cfg.CalendarICSURL,
					// A feed with no URL would fail validation if enabled.
					Enabled: cfg.CalendarICSURL != "",
				},
			},
		},
		HomeAssistant: models.HomeAssistantSettings{
			BaseURL:           cfg.HomeAssistantURL,
			GuestModeEntityID: cfg.GuestModeEntityID,
			WeatherEntityID:   cfg.WeatherEntityID,
			SunEntityID:       cfg.SunEntityID,
			AlertEntityIDs:    cfg.AlertEntityIDs,
			RefreshSeconds:    int(cfg.Refresh.HomeAssistant / time.Second),
			Entities:          entities,
		},
		Display: models.DisplaySettings{
			DefaultMode:          "normal",
			EnableDadJokes:       true,
			FontScale:            1,
			CardOpacity:          0.7,
			EnableWeatherEffects: true,
		},
	}
}

func minutes(d time.Duration) int {
	return int(d / time.Minute)
}

func defaultSearchPresets() models.SearchPresets {
	return models.SearchPresets{
		"morning": {
			"clear":  "morning sunrise mountains calm",
			"cloudy": "morning cloudy mountains soft light",
			"rain":   "rainy morning mountains",
			"snow":   "snowy morning mountains",
			"storm":  "stormy mountains dawn",
		},
		"midday": {
			"clear":  "bright alpine mountains",
			"cloudy": "overcast alpine mountains",
			"rain":   "rain in the mountains daytime",
			"snow":   "snowfall mountains daytime",
			"storm":  "storm clouds over mountains",
		},
		"evening": {
			"clear":  "sunset mountains warm light",
			"cloudy": "moody twilight mountains",
			"rain":   "rainy evening mountains",
			"snow":   "snowy dusk mountains",
			"storm":  "lightning over mountain range",
		},
		"night": {
			"clear":  "night sky stars over mountains",
			"cloudy": "moody dark mountains",
			"rain":   "rain at night mountains",
			"snow":   "snow at night mountains",
			"storm":  "storm at night mountains",
		},
	}
}
