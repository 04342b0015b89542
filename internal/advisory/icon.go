package advisory

import "strings"

// Icon is the display category of a weather condition.
type Icon string

const (
	IconClear        Icon = "clear"
	IconClouds       Icon = "clouds"
	IconRain         Icon = "rain"
	IconThunderstorm Icon = "thunderstorm"
	IconSnow         Icon = "snow"
	IconUnknown      Icon = "unknown"
)

var icons = map[string]Icon{
	"clear":        IconClear,
	"clouds":       IconClouds,
	"rain":         IconRain,
	"drizzle":      IconRain,
	"thunderstorm": IconThunderstorm,
	"snow":         IconSnow,
}

// ClassifyIcon maps a condition to its icon. Unmatched input is IconUnknown.
func ClassifyIcon(conditionMain string) Icon {
	if icon, ok := icons[strings.ToLower(conditionMain)]; ok {
		return icon
	}
	return IconUnknown
}
