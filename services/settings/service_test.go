package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"denboard/config"
	"denboard/models"
)

func newTestSvc(t *testing.T) (*Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	svc, err := NewService(path, DefaultsFromConfig(config.Default()))
	require.NoError(t, err)
	return svc, path
}

func TestNewServiceRequiresPath(t *testing.T) {
	_, err := NewService("  ", DefaultsFromConfig(config.Default()))
	require.ErrorIs(t, err, ErrPathRequired)
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	svc, _ := newTestSvc(t)

	st := svc.Load()
	require.Equal(t, "open-meteo", st.Weather.Provider)
	require.Equal(t, "America/Denver", st.Location.Timezone)
	require.Len(t, st.Calendar.Calendars, 1)
	require.NotEmpty(t, st.Unsplash.SearchPresets)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	svc, path := newTestSvc(t)

	doc := svc.Load()
	doc.Location.Lat = 47.6
	doc.Weather.Provider = "homeassistant"
	require.NoError(t, svc.Save(doc))

	// Atomic write: no temp file left behind.
	_, err := os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))

	got := svc.Load()
	require.Equal(t, 47.6, got.Location.Lat)
	require.Equal(t, "homeassistant", got.Weather.Provider)
}

func TestLoadPartialDocumentInheritsDefaults(t *testing.T) {
	svc, path := newTestSvc(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"location":{"lat":51.5}}`), 0o644))

	st := svc.Load()
	require.Equal(t, 51.5, st.Location.Lat)
	// Untouched sections keep their defaults.
	require.Equal(t, "America/Denver", st.Location.Timezone)
	require.Equal(t, 6, st.Weather.RefreshMinutes)
	require.NotEmpty(t, st.HomeAssistant.Entities)
}

func TestLoadCorruptFileFallsBackToDefaults(t *testing.T) {
	svc, path := newTestSvc(t)
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	st := svc.Load()
	require.Equal(t, svc.Defaults().Location, st.Location)
}

func TestMergeUpdateAppliesPartialBody(t *testing.T) {
	svc, _ := newTestSvc(t)

	merged, err := svc.MergeUpdate([]byte(`{"display":{"fontScale":1.4,"enableDadJokes":false,"defaultMode":"guest","cardOpacity":0.9,"enableWeatherEffects":true}}`))
	require.NoError(t, err)
	require.Equal(t, 1.4, merged.Display.FontScale)
	require.False(t, merged.Display.EnableDadJokes)
	// Other sections unchanged.
	require.Equal(t, "open-meteo", merged.Weather.Provider)

	_, err = svc.MergeUpdate([]byte("nope"))
	require.Error(t, err)
}

// Defaults must validate cleanly even on a bare install with no feed URL
// configured; the empty primary calendar ships disabled.
func TestDefaultsAreValidAndCalendarEnabledOnlyWithURL(t *testing.T) {
	cfg := config.Default()
	doc := DefaultsFromConfig(cfg)
	require.Empty(t, Validate(doc))
	require.Len(t, doc.Calendar.Calendars, 1)
	require.False(t, doc.Calendar.Calendars[0].Enabled)

	cfg.CalendarICSURL = "https://calendar.example/family.ics"
	doc = DefaultsFromConfig(cfg)
	require.Empty(t, Validate(doc))
	require.True(t, doc.Calendar.Calendars[0].Enabled)
}

func TestDefaultsCarryConfiguredRefreshIntervals(t *testing.T) {
	cfg := config.Default()
	cfg.Refresh.Weather = 12 * time.Minute
	cfg.Refresh.Calendar = 3 * time.Minute
	cfg.Refresh.HomeAssistant = 30 * time.Second
	cfg.Refresh.Background = 20 * time.Minute

	doc := DefaultsFromConfig(cfg)
	require.Equal(t, 12, doc.Weather.RefreshMinutes)
	require.Equal(t, 3, doc.Calendar.RefreshMinutes)
	require.Equal(t, 30, doc.HomeAssistant.RefreshSeconds)
	require.Equal(t, 20, doc.Unsplash.RotationMinutes)
}

func TestValidateFlagsEveryViolation(t *testing.T) {
	doc := DefaultsFromConfig(config.Default())
	require.Empty(t, Validate(doc))

	doc.Location.Lat = 123
	doc.Location.Timezone = ""
	doc.Weather.Provider = "noaa"
	doc.Weather.RefreshMinutes = 0
	doc.Display.FontScale = 3
	doc.Calendar.Calendars = []models.CalendarSource{
		{ID: "a", Name: "A", Enabled: true}, // enabled without URL
		{ID: "a", Name: "Dup", ICSURL: "http://x", Enabled: false},
	}

	errs := Validate(doc)
	require.NotEmpty(t, errs)
	joined := ""
	for _, e := range errs {
		joined += e + "\n"
	}
	require.Contains(t, joined, "latitude")
	require.Contains(t, joined, "timezone")
	require.Contains(t, joined, "provider")
	require.Contains(t, joined, "refresh")
	require.Contains(t, joined, "font scale")
	require.Contains(t, joined, "duplicate calendar id")
	require.Contains(t, joined, "no ICS URL")
}
