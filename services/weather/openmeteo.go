package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"denboard/models"
	"denboard/services/fetch"
)

const openMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

// openMeteoSource is the external weather variant: open-meteo's free
// forecast API, no credential required.
type openMeteoSource struct {
	client  *fetch.Client
	baseURL string
}

type openMeteoResponse struct {
	Current *struct {
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weather_code"`
		IsDay       int     `json:"is_day"`
	} `json:"current"`
	Daily struct {
		Time        []string   `json:"time"`
		WeatherCode []int      `json:"weather_code"`
		TempMax     []*float64 `json:"temperature_2m_max"`
		TempMin     []*float64 `json:"temperature_2m_min"`
		Sunrise     []string   `json:"sunrise"`
		Sunset      []string   `json:"sunset"`
	} `json:"daily"`
	Warnings *struct {
		Warnings []struct {
			ID          string `json:"id"`
			Event       string `json:"event"`
			Description string `json:"description"`
			Severity    string `json:"severity"`
		} `json:"warnings"`
	} `json:"weather_warnings"`
}

func (o *openMeteoSource) Fetch(ctx context.Context, st models.Settings, now time.Time) (models.WeatherPayload, json.RawMessage, error) {
	u, err := url.Parse(o.baseURL)
	if err != nil {
		return models.WeatherPayload{}, nil, err
	}
	q := u.Query()
	q.Set("latitude", fmt.Sprintf("%g", st.Location.Lat))
	q.Set("longitude", fmt.Sprintf("%g", st.Location.Lon))
	q.Set("current", "temperature_2m,weather_code,is_day")
	q.Set("daily", "temperature_2m_max,temperature_2m_min,sunrise,sunset,weather_code,precipitation_probability_max")
	q.Set("timezone", st.Location.Timezone)
	q.Set("forecast_days", "5")
	q.Set("warnings", "true")
	if st.Weather.Units == models.UnitsImperial {
		q.Set("temperature_unit", "fahrenheit")
	}
	u.RawQuery = q.Encode()

	raw, err := o.client.Get(ctx, u.String(), nil)
	if err != nil {
		return models.WeatherPayload{}, nil, err
	}

	var data openMeteoResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		return models.WeatherPayload{}, raw, fmt.Errorf("parse open-meteo response: %w", err)
	}

	currentCode := 0
	if data.Current != nil {
		currentCode = data.Current.WeatherCode
	}
	mapping := mapWeatherCode(currentCode)

	var current *models.CurrentConditions
	if data.Current != nil {
		current = &models.CurrentConditions{
			Temperature: data.Current.Temperature,
			Condition:   mapping.Label,
			Icon:        mapping.Icon,
			IsDay:       data.Current.IsDay != 0,
		}
		if len(data.Daily.Sunrise) > 0 {
			current.Sunrise = data.Daily.Sunrise[0]
		}
		if len(data.Daily.Sunset) > 0 {
			current.Sunset = data.Daily.Sunset[0]
		}
	}

	forecast := make([]models.DailyForecast, 0, len(data.Daily.Time))
	for i, day := range data.Daily.Time {
		if i >= 5 {
			break
		}
		code := currentCode
		if i < len(data.Daily.WeatherCode) {
			code = data.Daily.WeatherCode[i]
		}
		m := mapWeatherCode(code)
		entry := models.DailyForecast{
			Date:      day,
			Condition: m.Label,
			Icon:      m.Icon,
		}
		if i < len(data.Daily.TempMax) {
			entry.High = data.Daily.TempMax[i]
		}
		if i < len(data.Daily.TempMin) {
			entry.Low = data.Daily.TempMin[i]
		}
		forecast = append(forecast, entry)
	}

	alerts := []models.SevereAlert{}
	if data.Warnings != nil {
		for i, w := range data.Warnings.Warnings {
			alert := models.SevereAlert{
				ID:          w.ID,
				Title:       w.Event,
				Description: w.Description,
				Severity:    w.Severity,
			}
			if alert.ID == "" {
				alert.ID = fmt.Sprintf("%d", i)
			}
			if alert.Title == "" {
				alert.Title = "Weather alert"
			}
			alerts = append(alerts, alert)
		}
	}

	payload := models.WeatherPayload{
		Current:      current,
		Forecast:     forecast,
		SevereAlerts: alerts,
		Overlay:      mapping.Overlay,
		Units:        st.Weather.Units,
		IsFallback:   false,
		FetchedAt:    now,
	}
	return payload, raw, nil
}
