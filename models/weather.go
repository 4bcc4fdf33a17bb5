package models

import (
	"encoding/json"
	"time"
)

// WeatherUnits selects the measurement system for temperatures.
type WeatherUnits string

const (
	UnitsImperial WeatherUnits = "imperial"
	UnitsMetric   WeatherUnits = "metric"
)

// WeatherOverlay is the coarse category driving ambient visual effects.
type WeatherOverlay string

const (
	OverlayRain   WeatherOverlay = "rain"
	OverlaySnow   WeatherOverlay = "snow"
	OverlayCloudy WeatherOverlay = "cloudy"
	OverlayStorm  WeatherOverlay = "storm"
	OverlayClear  WeatherOverlay = "clear"
	OverlayNone   WeatherOverlay = "none"
)

// SevereAlert is a single active weather warning.
type SevereAlert struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Severity    string `json:"severity,omitempty"`
}

// CurrentConditions describes the weather right now.
type CurrentConditions struct {
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Icon        string  `json:"icon"`
	IsDay       bool    `json:"isDay"`
	Sunrise     string  `json:"sunrise,omitempty"`
	Sunset      string  `json:"sunset,omitempty"`
}

// DailyForecast is one day of the forecast. High/Low are pointers because a
// provider may omit either for a given day.
type DailyForecast struct {
	Date      string   `json:"date"`
	Condition string   `json:"condition"`
	Icon      string   `json:"icon"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
}

// WeatherPayload is the normalized weather response served to every consumer.
type WeatherPayload struct {
	Current      *CurrentConditions `json:"current"`
	Forecast     []DailyForecast    `json:"forecast"`
	SevereAlerts []SevereAlert      `json:"severeAlerts"`
	Overlay      WeatherOverlay     `json:"overlay"`
	Units        WeatherUnits       `json:"units"`
	IsFallback   bool               `json:"isFallback"`
	FetchedAt    time.Time          `json:"fetchedAt"`
}

// FallbackWeather returns the degraded-but-valid payload served when every
// upstream attempt failed. Only units and the timestamp carry real data.
func FallbackWeather(units WeatherUnits, now time.Time) WeatherPayload {
	return WeatherPayload{
		Current:      nil,
		Forecast:     []DailyForecast{},
		SevereAlerts: []SevereAlert{},
		Overlay:      OverlayNone,
		Units:        units,
		IsFallback:   true,
		FetchedAt:    now,
	}
}

// WeatherDebug pairs the normalized payload with the raw provider body,
// for the diagnostics endpoint. Never cached.
type WeatherDebug struct {
	Mapped      WeatherPayload  `json:"mapped"`
	RawProvider json.RawMessage `json:"rawProvider"`
	Source      string          `json:"source"` // "external" or "homeassistant"
}
