package utils

import (
	"testing"
	"time"
)

func TestTimeOfDayBuckets(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{4, "night"},
		{5, "morning"},
		{10, "morning"},
		{11, "midday"},
		{14, "midday"},
		{16, "midday"},
		{17, "evening"},
		{20, "evening"},
		{21, "night"},
		{23, "night"},
		{0, "night"},
	}
	for _, tt := range tests {
		got := TimeOfDay(time.Date(2026, 3, 4, tt.hour, 30, 0, 0, time.UTC))
		if got != tt.want {
			t.Errorf("hour %d: expected %q, got %q", tt.hour, tt.want, got)
		}
	}
}

func TestStartOfWeekMonday(t *testing.T) {
	// 2026-03-04 is a Wednesday.
	wed := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)
	got := StartOfWeek(wed, "monday")
	want := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// A Sunday belongs to the week that started the previous Monday.
	sun := time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)
	got = StartOfWeek(sun, "monday")
	if !got.Equal(want) {
		t.Errorf("expected Sunday to map to %v, got %v", want, got)
	}
}

func TestStartOfWeekSunday(t *testing.T) {
	wed := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)
	got := StartOfWeek(wed, "sunday")
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestFourWeekGrid(t *testing.T) {
	loc, err := time.LoadLocation("America/Denver")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	reference := time.Date(2026, 3, 4, 14, 0, 0, 0, loc)

	cells := FourWeekGrid(reference, "monday")
	if len(cells) != 28 {
		t.Fatalf("expected 28 cells, got %d", len(cells))
	}

	// Starts 7 days before the week start (Mon 2026-03-02 -> Mon 2026-02-23).
	wantStart := time.Date(2026, 2, 23, 0, 0, 0, 0, loc)
	if !cells[0].Date.Equal(wantStart) {
		t.Errorf("expected grid to start %v, got %v", wantStart, cells[0].Date)
	}

	todayCount := 0
	for i, cell := range cells {
		if cell.IsToday {
			todayCount++
			if cell.Date.Day() != 4 || cell.Date.Month() != time.March {
				t.Errorf("IsToday on wrong cell %d: %v", i, cell.Date)
			}
		}
		if i > 0 {
			if !cell.Date.Equal(cells[i-1].Date.AddDate(0, 0, 1)) {
				t.Errorf("cell %d not consecutive: %v after %v", i, cell.Date, cells[i-1].Date)
			}
		}
	}
	if todayCount != 1 {
		t.Errorf("expected exactly one IsToday cell, got %d", todayCount)
	}

	// February cells are flagged outside the current month.
	if cells[0].IsCurrentMonth {
		t.Error("expected leading February cell outside current month")
	}
}

func TestEndOfDay(t *testing.T) {
	at := time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)
	end := EndOfDay(at)
	if end.Day() != 4 || end.Hour() != 23 || end.Minute() != 59 {
		t.Errorf("unexpected end of day: %v", end)
	}
	if !end.Before(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Error("end of day must precede next midnight")
	}
}
