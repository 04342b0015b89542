package models

import "time"

const (
	SourceDaily  = "daily"
	SourceHourly = "3-hour"
)

// DayReport is a daily forecast prepared for display.
type DayReport struct {
	DailyForecast
	Date            string   `json:"date" example:"Sat, Jul 26"`
	Icon            string   `json:"icon" example:"rain"`
	Recommendations []string `json:"recommendations"`
}

type CurrentReport struct {
	Location        Location       `json:"location"`
	Weather         CurrentWeather `json:"weather"`
	Icon            string         `json:"icon" example:"clouds"`
	Recommendations []string       `json:"recommendations"`
}

type ForecastReport struct {
	Location Location `json:"location"`
	// Source is SourceDaily or SourceHourly.
	Source         string      `json:"source" example:"3-hour"`
	TimezoneOffset int         `json:"timezone_offset" example:"19800"`
	Days           []DayReport `json:"days"`
	Alerts         []Alert     `json:"alerts"`
}

// WeatherReport is everything shown for a location at once.
type WeatherReport struct {
	Location    Location       `json:"location"`
	Current     CurrentReport  `json:"current"`
	Forecast    ForecastReport `json:"forecast"`
	GeneratedAt time.Time      `json:"generated_at"`
}
