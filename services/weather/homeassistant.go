package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"denboard/models"
	"denboard/services/fetch"
)

// errSmartHomeUnconfigured marks the smart-home variant as unusable so the
// service delegates to the external variant without treating it as a fault.
var errSmartHomeUnconfigured = errors.New("home assistant base URL or token not set")

// haWeatherSource is the smart-home weather variant: it reads a weather
// entity (plus an optional sun entity and alert entities) from Home
// Assistant instead of calling an external forecast API.
type haWeatherSource struct {
	client *fetch.Client
}

type haEntityState struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

func (h *haWeatherSource) configured(st models.Settings) bool {
	return st.HomeAssistant.BaseURL != "" && st.HomeAssistant.WeatherEntityID != ""
}

func (h *haWeatherSource) Fetch(ctx context.Context, st models.Settings, token string, loc *time.Location, now time.Time) (models.WeatherPayload, json.RawMessage, error) {
	if !h.configured(st) || token == "" {
		return models.WeatherPayload{}, nil, errSmartHomeUnconfigured
	}

	base := strings.TrimRight(st.HomeAssistant.BaseURL, "/")
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set("Content-Type", "application/json")

	raw, err := h.client.Get(ctx, entityURL(base, st.HomeAssistant.WeatherEntityID), header)
	if err != nil {
		return models.WeatherPayload{}, nil, err
	}

	var entity haEntityState
	if err := json.Unmarshal(raw, &entity); err != nil {
		return models.WeatherPayload{}, raw, fmt.Errorf("parse weather entity: %w", err)
	}

	mapping := mapEntityState(entity.State)
	units := unitsFromAttributes(entity.Attributes, st.Weather.Units)

	current := &models.CurrentConditions{
		Condition: mapping.Label,
		Icon:      mapping.Icon,
		// Without a sun entity, assume day unless the state itself says night.
		IsDay: !strings.Contains(strings.ToLower(entity.State), "night"),
	}
	if temp, ok := attrFloat(entity.Attributes, "temperature"); ok {
		current.Temperature = temp
	}

	// Sun entity is optional; a failure here degrades day/night detail only.
	if st.HomeAssistant.SunEntityID != "" {
		if sun, err := h.getEntity(ctx, base, header, st.HomeAssistant.SunEntityID); err != nil {
			log.Printf("[weather] sun entity unavailable: %v", err)
		} else {
			current.IsDay = sun.State == "above_horizon"
			if v, ok := sun.Attributes["next_rising"].(string); ok {
				current.Sunrise = v
			}
			if v, ok := sun.Attributes["next_setting"].(string); ok {
				current.Sunset = v
			}
		}
	}

	// Alert entities are best-effort: an unavailable alert sensor should not
	// take down the whole weather payload.
	alerts := []models.SevereAlert{}
	for _, id := range st.HomeAssistant.AlertEntityIDs {
		alert, err := h.getEntity(ctx, base, header, id)
		if err != nil {
			log.Printf("[weather] alert entity %s unavailable: %v", id, err)
			continue
		}
		if !alertActive(alert.State) {
			continue
		}
		alerts = append(alerts, models.SevereAlert{
			ID:          id,
			Title:       attrString(alert.Attributes, "title", attrString(alert.Attributes, "friendly_name", id)),
			Description: attrString(alert.Attributes, "description", attrString(alert.Attributes, "message", "")),
			Severity:    attrString(alert.Attributes, "severity", ""),
		})
	}

	payload := models.WeatherPayload{
		Current:      current,
		Forecast:     aggregateForecast(entity.Attributes, loc),
		SevereAlerts: alerts,
		Overlay:      mapping.Overlay,
		Units:        units,
		IsFallback:   false,
		FetchedAt:    now,
	}
	return payload, raw, nil
}

func (h *haWeatherSource) getEntity(ctx context.Context, base string, header http.Header, id string) (haEntityState, error) {
	raw, err := h.client.Get(ctx, entityURL(base, id), header)
	if err != nil {
		return haEntityState{}, err
	}
	var entity haEntityState
	if err := json.Unmarshal(raw, &entity); err != nil {
		return haEntityState{}, fmt.Errorf("parse entity %s: %w", id, err)
	}
	return entity, nil
}

func entityURL(base, id string) string {
	return base + "/api/states/" + url.PathEscape(id)
}

func alertActive(state string) bool {
	switch strings.ToLower(state) {
	case "", "off", "unavailable", "unknown":
		return false
	default:
		return true
	}
}

// aggregateForecast folds the raw forecast attribute list into per-calendar-
// day entries: max high, min low, first non-empty condition per date.
// Timestamps without zone info are read in the dashboard timezone.
func aggregateForecast(attrs map[string]any, loc *time.Location) []models.DailyForecast {
	rawList, ok := attrs["forecast"].([]any)
	if !ok {
		return []models.DailyForecast{}
	}

	type dayAgg struct {
		high      *float64
		low       *float64
		condition string
	}
	byDate := make(map[string]*dayAgg)
	order := []string{}

	for _, item := range rawList {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ts, ok := entry["datetime"].(string)
		if !ok {
			continue
		}
		t, err := parseForecastTime(ts, loc)
		if err != nil {
			continue
		}
		date := t.In(loc).Format("2006-01-02")

		agg := byDate[date]
		if agg == nil {
			agg = &dayAgg{}
			byDate[date] = agg
			order = append(order, date)
		}

		if high, ok := attrFloat(entry, "temperature"); ok {
			if agg.high == nil || high > *agg.high {
				v := high
				agg.high = &v
			}
			if agg.low == nil || high < *agg.low {
				v := high
				agg.low = &v
			}
		}
		if low, ok := attrFloat(entry, "templow"); ok {
			if agg.low == nil || low < *agg.low {
				v := low
				agg.low = &v
			}
		}
		if agg.condition == "" {
			if cond, ok := entry["condition"].(string); ok {
				agg.condition = cond
			}
		}
	}

	sort.Strings(order)
	forecast := make([]models.DailyForecast, 0, 5)
	for _, date := range order {
		if len(forecast) >= 5 {
			break
		}
		agg := byDate[date]
		m := mapEntityState(agg.condition)
		forecast = append(forecast, models.DailyForecast{
			Date:      date,
			Condition: m.Label,
			Icon:      m.Icon,
			High:      agg.high,
			Low:       agg.low,
		})
	}
	return forecast
}

func parseForecastTime(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", value, loc); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, loc)
}

func unitsFromAttributes(attrs map[string]any, fallback models.WeatherUnits) models.WeatherUnits {
	unit, ok := attrs["temperature_unit"].(string)
	if !ok {
		return fallback
	}
	switch {
	case strings.Contains(unit, "F"):
		return models.UnitsImperial
	case strings.Contains(unit, "C"):
		return models.UnitsMetric
	default:
		return fallback
	}
}

func attrFloat(attrs map[string]any, key string) (float64, bool) {
	switch v := attrs[key].(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func attrString(attrs map[string]any, key, fallback string) string {
	if v, ok := attrs[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
