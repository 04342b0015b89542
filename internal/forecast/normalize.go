// Package forecast turns 3-hour weather samples into one record per calendar day.
package forecast

import (
	"math"
	"time"

	"agroweather/internal/models"
)

const dayKeyLayout = "2006-01-02"

// Local hours whose samples represent the whole day.
const (
	noonFrom = 11
	noonTo   = 13
)

// Normalize groups observations by their calendar date in loc and returns one
// DailyForecast per day, in the order days were first seen.
//
// Min and Max track every sample of the day. Day, Condition and Timestamp come
// from the first sample until a near-noon sample (local hour 11..13) replaces
// them; the last near-noon sample wins. Humidity, WindSpeed and the
// precipitation probability always stay those of the first sample. Day is not
// clamped to [Min, Max].
//
// A nil loc means time.Local. Any malformed observation fails the call and no
// partial result is returned.
func Normalize(observations []models.Observation, loc *time.Location) ([]models.DailyForecast, error) {
	if loc == nil {
		loc = time.Local
	}

	days := make([]models.DailyForecast, 0)
	index := make(map[string]int)

	for i, obs := range observations {
		if err := validate(i, obs); err != nil {
			return nil, err
		}

		local := time.Unix(obs.Timestamp, 0).In(loc)
		key := local.Format(dayKeyLayout)

		pos, seen := index[key]
		if !seen {
			index[key] = len(days)
			days = append(days, newDay(key, obs))
			continue
		}

		day := &days[pos]
		day.Temperature.Max = math.Max(day.Temperature.Max, obs.Temperature)
		day.Temperature.Min = math.Min(day.Temperature.Min, obs.Temperature)

		if IsNearNoon(local) {
			day.Timestamp = obs.Timestamp
			day.Temperature.Day = obs.Temperature
			day.Condition = obs.Condition
		}
	}

	return days, nil
}

// DayKey returns the calendar date of ts in loc.
func DayKey(ts int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(ts, 0).In(loc).Format(dayKeyLayout)
}

// IsNearNoon reports whether t falls within the representative hours of a day.
func IsNearNoon(t time.Time) bool {
	h := t.Hour()
	return h >= noonFrom && h <= noonTo
}

func newDay(key string, obs models.Observation) models.DailyForecast {
	return models.DailyForecast{
		DayKey:    key,
		Timestamp: obs.Timestamp,
		Temperature: models.Temperature{
			Day: obs.Temperature,
			Min: obs.Temperature,
			Max: obs.Temperature,
		},
		Condition:                obs.Condition,
		Humidity:                 obs.Humidity,
		WindSpeed:                obs.WindSpeed,
		PrecipitationProbability: obs.Pop(),
	}
}

func validate(i int, obs models.Observation) error {
	malformed := func(field, reason string) error {
		return &MalformedObservationError{Index: i, Timestamp: obs.Timestamp, Field: field, Reason: reason}
	}

	if obs.Timestamp <= 0 {
		return malformed("dt", "is not a positive epoch")
	}
	if !isFinite(obs.Temperature) {
		return malformed("temperature", "is not a finite number")
	}
	if !isFinite(obs.WindSpeed) || obs.WindSpeed < 0 {
		return malformed("wind_speed", "must be a finite non-negative number")
	}
	if obs.Humidity < 0 || obs.Humidity > 100 {
		return malformed("humidity", "must be within 0..100")
	}
	if obs.PrecipitationProbability != nil {
		pop := *obs.PrecipitationProbability
		if !isFinite(pop) || pop < 0 || pop > 1 {
			return malformed("pop", "must be within 0..1")
		}
	}

	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
