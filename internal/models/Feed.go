package models

import "time"

// DailyFeed is the rich per-day forecast as returned by the daily endpoint.
type DailyFeed struct {
	TimezoneOffset int             `json:"timezone_offset"`
	Days           []DailyForecast `json:"days"`
	Alerts         []Alert         `json:"alerts"`
}

// HourlyFeed is the coarse 3-hour interval forecast.
type HourlyFeed struct {
	TimezoneOffset int           `json:"timezone_offset"`
	Observations   []Observation `json:"observations"`
}

// Zone returns the fixed zone of the feed's location.
func (f HourlyFeed) Zone() *time.Location {
	return FixedZone(f.TimezoneOffset)
}

// Zone returns the fixed zone of the feed's location.
func (f DailyFeed) Zone() *time.Location {
	return FixedZone(f.TimezoneOffset)
}

// FixedZone builds a zone from an offset in seconds east of UTC.
func FixedZone(offsetSeconds int) *time.Location {
	if offsetSeconds == 0 {
		return time.UTC
	}
	return time.FixedZone("", offsetSeconds)
}
