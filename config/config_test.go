package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	conf, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.Listen != "0.0.0.0:8080" {
		t.Errorf("unexpected listen address %q", conf.Listen)
	}
	if conf.Timezone != "America/Denver" {
		t.Errorf("unexpected timezone %q", conf.Timezone)
	}
	if conf.WeekStart != "monday" {
		t.Errorf("unexpected week start %q", conf.WeekStart)
	}
	if len(conf.Entities) == 0 {
		t.Error("expected default entity list")
	}
}

func TestLoadMissingFileIsFine(t *testing.T) {
	conf, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing config file must not error: %v", err)
	}
	if conf.Units != "imperial" {
		t.Errorf("unexpected units %q", conf.Units)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "denboard.yaml")
	body := "listen: 127.0.0.1:9090\ntimezone: Europe/Berlin\nunits: metric\nweek_start: sunday\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.Listen != "127.0.0.1:9090" {
		t.Errorf("unexpected listen %q", conf.Listen)
	}
	if conf.Timezone != "Europe/Berlin" {
		t.Errorf("unexpected timezone %q", conf.Timezone)
	}
	if conf.Units != "metric" {
		t.Errorf("unexpected units %q", conf.Units)
	}
	if conf.WeekStart != "sunday" {
		t.Errorf("unexpected week start %q", conf.WeekStart)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("DASHBOARD_TZ", "Asia/Seoul")
	t.Setenv("DASHBOARD_LAT", "37.57")
	t.Setenv("WEATHER_UNITS", "METRIC")
	t.Setenv("ADMIN_PIN", "4821")

	conf, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.Timezone != "Asia/Seoul" {
		t.Errorf("unexpected timezone %q", conf.Timezone)
	}
	if conf.Lat != 37.57 {
		t.Errorf("unexpected latitude %v", conf.Lat)
	}
	if conf.Units != "metric" {
		t.Errorf("expected units normalized to metric, got %q", conf.Units)
	}
	if conf.AdminPIN != "4821" {
		t.Errorf("unexpected admin pin %q", conf.AdminPIN)
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	conf := Default()
	conf.Timezone = "Not/AZone"
	if conf.Location().String() != "UTC" {
		t.Errorf("expected UTC fallback, got %v", conf.Location())
	}
}

func TestWeekStartNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "denboard.yaml")
	if err := os.WriteFile(path, []byte("week_start: tuesday\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	conf, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.WeekStart != "monday" {
		t.Errorf("expected unknown week start normalized to monday, got %q", conf.WeekStart)
	}
}
