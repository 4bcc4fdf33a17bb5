package models

// LocationSettings pins the dashboard to a place and timezone.
type LocationSettings struct {
	Lat      float64      `json:"lat"`
	Lon      float64      `json:"lon"`
	Timezone string       `json:"timezone"`
	Units    WeatherUnits `json:"units"`
}

// SearchPresets maps time-of-day bucket -> condition -> Unsplash query.
type SearchPresets map[string]map[string]string

// UnsplashSettings controls the background image rotation.
type UnsplashSettings struct {
	RotationMinutes int           `json:"rotationMinutes"`
	BlurAmount      int           `json:"blurAmount"`
	Brightness      float64       `json:"brightness"`
	SearchPresets   SearchPresets `json:"searchPresets"`
}

// WeatherSettings selects the upstream weather source and refresh cadence.
type WeatherSettings struct {
	Provider       string       `json:"provider"` // "open-meteo" or "homeassistant"
	RefreshMinutes int          `json:"refreshMinutes"`
	Units          WeatherUnits `json:"units"`
}

// CalendarSource is one subscribed ICS feed.
type CalendarSource struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	ICSURL  string `json:"icsUrl"`
	Enabled bool   `json:"enabled"`
}

// CalendarSettings controls the calendar panels.
type CalendarSettings struct {
	RefreshMinutes   int              `json:"refreshMinutes"`
	MaxEventsPerCell int              `json:"maxEventsPerCell"`
	ShowAllDay       bool             `json:"showAllDay"`
	Calendars        []CalendarSource `json:"calendars"`
}

// HomeAssistantEntity is one monitored entity with its display label.
type HomeAssistantEntity struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

// HomeAssistantSettings controls the smart-home status panel and the
// smart-home weather source.
type HomeAssistantSettings struct {
	BaseURL           string                `json:"baseUrl"`
	GuestModeEntityID string                `json:"guestModeEntityId"`
	WeatherEntityID   string                `json:"weatherEntityId,omitempty"`
	SunEntityID       string                `json:"sunEntityId,omitempty"`
	AlertEntityIDs    []string              `json:"alertEntityIds,omitempty"`
	RefreshSeconds    int                   `json:"refreshSeconds"`
	Entities          []HomeAssistantEntity `json:"entities"`
}

// DisplaySettings holds presentation preferences the backend stores but
// does not interpret.
type DisplaySettings struct {
	DefaultMode          string  `json:"defaultMode"` // "normal" or "guest"
	EnableDadJokes       bool    `json:"enableDadJokes"`
	FontScale            float64 `json:"fontScale"`
	CardOpacity          float64 `json:"cardOpacity"`
	EnableWeatherEffects bool    `json:"enableWeatherEffects"`
}

// Settings is the persisted settings document. When present it is the
// authoritative override of environment defaults.
type Settings struct {
	Location      LocationSettings      `json:"location"`
	Unsplash      UnsplashSettings      `json:"unsplash"`
	Weather       WeatherSettings       `json:"weather"`
	Calendar      CalendarSettings      `json:"calendar"`
	HomeAssistant HomeAssistantSettings `json:"homeAssistant"`
	Display       DisplaySettings       `json:"display"`
}
