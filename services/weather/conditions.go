package weather

import (
	"strings"

	"denboard/models"
)

// conditionMapping is one of the seven condition buckets with its display
// overlay.
type conditionMapping struct {
	Label   string
	Icon    string
	Overlay models.WeatherOverlay
}

var (
	conditionClear  = conditionMapping{Label: "Clear", Icon: "clear", Overlay: models.OverlayClear}
	conditionPartly = conditionMapping{Label: "Partly Cloudy", Icon: "cloudy", Overlay: models.OverlayCloudy}
	conditionCloudy = conditionMapping{Label: "Cloudy", Icon: "cloudy", Overlay: models.OverlayCloudy}
	conditionFog    = conditionMapping{Label: "Foggy", Icon: "fog", Overlay: models.OverlayCloudy}
	conditionRain   = conditionMapping{Label: "Rain", Icon: "rain", Overlay: models.OverlayRain}
	conditionSnow   = conditionMapping{Label: "Snow", Icon: "snow", Overlay: models.OverlaySnow}
	conditionStorm  = conditionMapping{Label: "Storm", Icon: "storm", Overlay: models.OverlayStorm}
)

// WMO weather code membership tables (open-meteo).
var (
	rainCodes   = codeSet(51, 53, 55, 61, 63, 65, 80, 81, 82)
	snowCodes   = codeSet(71, 73, 75, 77, 85, 86)
	stormCodes  = codeSet(95, 96, 99)
	fogCodes    = codeSet(45, 48)
	partlyCodes = codeSet(1, 2, 3)
)

func codeSet(codes ...int) map[int]bool {
	set := make(map[int]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}

// mapWeatherCode buckets a WMO weather code. Unmapped codes fall back to
// Cloudy rather than erroring; the display always gets a known condition.
func mapWeatherCode(code int) conditionMapping {
	switch {
	case rainCodes[code]:
		return conditionRain
	case snowCodes[code]:
		return conditionSnow
	case stormCodes[code]:
		return conditionStorm
	case fogCodes[code]:
		return conditionFog
	case partlyCodes[code]:
		return conditionPartly
	case code == 0:
		return conditionClear
	default:
		return conditionCloudy
	}
}

// mapEntityState buckets a Home Assistant weather entity state string by
// keyword. Order matters: "snowy-rainy" must land on Snow, "lightning-rainy"
// on Storm.
func mapEntityState(state string) conditionMapping {
	s := strings.ToLower(strings.TrimSpace(state))
	switch {
	case strings.Contains(s, "lightning"), strings.Contains(s, "thunder"), strings.Contains(s, "hail"):
		return conditionStorm
	case strings.Contains(s, "snow"):
		return conditionSnow
	case strings.Contains(s, "pouring"), strings.Contains(s, "rain"):
		return conditionRain
	case strings.Contains(s, "fog"), strings.Contains(s, "mist"), strings.Contains(s, "haz"):
		return conditionFog
	case strings.Contains(s, "partly"):
		return conditionPartly
	case strings.Contains(s, "cloud"), strings.Contains(s, "overcast"):
		return conditionCloudy
	case strings.Contains(s, "sunny"), strings.Contains(s, "clear"):
		return conditionClear
	default:
		return conditionCloudy
	}
}
