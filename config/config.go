package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Entity describes one monitored Home Assistant entity.
type Entity struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Icon  string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// Refresh holds the per-source cache TTLs. Consumers poll on matching
// timers, so a poll landing between ticks is served from cache.
type Refresh struct {
	Weather       time.Duration `yaml:"-" json:"-"`
	Calendar      time.Duration `yaml:"-" json:"-"`
	HomeAssistant time.Duration `yaml:"-" json:"-"`
	DadJoke       time.Duration `yaml:"-" json:"-"`
	Background    time.Duration `yaml:"-" json:"-"`
}

// Config is the environment-sourced application configuration. A persisted
// settings document (services/settings) overrides most of it at runtime.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	Lat      float64 `yaml:"lat"`
	Lon      float64 `yaml:"lon"`
	Timezone string  `yaml:"timezone"`
	// Units is "imperial" or "metric".
	Units string `yaml:"units"`

	// WeekStart controls the first day of the calendar grid week,
	// "monday" (default) or "sunday".
	WeekStart string `yaml:"week_start"`

	UnsplashAccessKey  string `yaml:"unsplash_access_key"`
	CalendarICSURL     string `yaml:"calendar_ics_url"`
	HomeAssistantURL   string `yaml:"home_assistant_url"`
	HomeAssistantToken string `yaml:"home_assistant_token"`

	GuestModeEntityID string   `yaml:"guest_mode_entity_id"`
	WeatherEntityID   string   `yaml:"weather_entity_id"`
	SunEntityID       string   `yaml:"sun_entity_id"`
	AlertEntityIDs    []string `yaml:"alert_entity_ids"`
	Entities          []Entity `yaml:"entities"`

	CalendarMaxEventsPerCell int `yaml:"calendar_max_events_per_cell"`

	AdminPIN     string `yaml:"-"`
	SettingsPath string `yaml:"settings_path"`
	LogPath      string `yaml:"log_path"`

	Refresh Refresh `yaml:"-"`
}

// Default returns the built-in configuration, before any config file or
// environment overrides.
func Default() *Config {
	return &Config{
		Listen:            "0.0.0.0:8080",
		Lat:               39.7392,
		Lon:               -104.9903,
		Timezone:          "America/Denver",
		Units:             "imperial",
		WeekStart:         "monday",
		GuestModeEntityID: "input_boolean.denboard_guest_mode",
		WeatherEntityID:   "weather.home",
		SunEntityID:       "sun.sun",
		Entities: []Entity{
			{ID: "sensor.denboard_internet_status", Label: "Internet"},
			{ID: "sensor.power_status", Label: "Power"},
			{ID: "binary_sensor.front_door", Label: "Front Door"},
			{ID: "sensor.living_room_temperature", Label: "Living Temp"},
		},
		CalendarMaxEventsPerCell: 3,
		SettingsPath:             "settings.json",
		Refresh: Refresh{
			Weather:       6 * time.Minute,
			Calendar:      5 * time.Minute,
			HomeAssistant: 10 * time.Second,
			DadJoke:       45 * time.Minute,
			Background:    45 * time.Minute,
		},
	}
}

// Load builds the effective configuration: defaults, then the optional YAML
// config file at path (skipped when path is empty or missing), then
// environment variables.
func Load(path string) (*Config, error) {
	conf := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// First run without a config file is fine.
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, conf); err != nil {
				return nil, err
			}
		}
	}

	applyEnv(conf)

	if conf.WeekStart != "sunday" {
		conf.WeekStart = "monday"
	}
	if strings.ToLower(conf.Units) == "metric" {
		conf.Units = "metric"
	} else {
		conf.Units = "imperial"
	}

	return conf, nil
}

func applyEnv(conf *Config) {
	if v := os.Getenv("DENBOARD_LISTEN"); v != "" {
		conf.Listen = v
	}
	conf.Lat = envFloat("DASHBOARD_LAT", conf.Lat)
	conf.Lon = envFloat("DASHBOARD_LON", conf.Lon)
	if v := os.Getenv("DASHBOARD_TZ"); v != "" {
		conf.Timezone = v
	}
	if v := os.Getenv("WEATHER_UNITS"); v != "" {
		conf.Units = strings.ToLower(v)
	}
	if v := os.Getenv("UNSPLASH_ACCESS_KEY"); v != "" {
		conf.UnsplashAccessKey = v
	}
	if v := os.Getenv("GCAL_ICS_URL"); v != "" {
		conf.CalendarICSURL = v
	}
	if v := os.Getenv("HOME_ASSISTANT_URL"); v != "" {
		conf.HomeAssistantURL = v
	}
	if v := os.Getenv("HOME_ASSISTANT_TOKEN"); v != "" {
		conf.HomeAssistantToken = v
	}
	if v := os.Getenv("ADMIN_PIN"); v != "" {
		conf.AdminPIN = v
	}
	if v := os.Getenv("DENBOARD_SETTINGS_PATH"); v != "" {
		conf.SettingsPath = v
	}
	if v := os.Getenv("DENBOARD_LOG_PATH"); v != "" {
		conf.LogPath = v
	}
}

func envFloat(name string, fallback float64) float64 {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return n
}

// Location resolves the configured timezone, falling back to UTC when the
// identifier is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
