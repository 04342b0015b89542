package models

import "time"

// Temperature holds the representative and extreme temperatures of a day.
type Temperature struct {
	Day float64 `json:"day" example:"31.2"`
	Min float64 `json:"min" example:"24.3"`
	Max float64 `json:"max" example:"38.0"`
}

// DailyForecast is the canonical one-record-per-day forecast.
type DailyForecast struct {
	DayKey                   string      `json:"day_key" example:"2025-07-26"`
	Timestamp                int64       `json:"dt" example:"1753531200"`
	Temperature              Temperature `json:"temp"`
	Condition                Condition   `json:"condition"`
	Humidity                 int         `json:"humidity" example:"64"`
	WindSpeed                float64     `json:"wind_speed" example:"3.2"`
	PrecipitationProbability float64     `json:"pop" example:"0.2"`
}

// Time returns the representative timestamp in loc.
func (d DailyForecast) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(d.Timestamp, 0).In(loc)
}
