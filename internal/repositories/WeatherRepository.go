package repositories

import (
	"context"
	"errors"
	"net/http"

	"agroweather/internal/models"
)

var (
	// ErrUpstream marks any failure to obtain usable data from the weather provider.
	ErrUpstream = errors.New("weather provider failure")
	// ErrEndpointUnavailable means the provider refused the endpoint for this
	// key (not subscribed, unauthorized or gone). Callers may fall back.
	ErrEndpointUnavailable = errors.New("endpoint unavailable")
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WeatherRepository fetches raw weather data for a location.
type WeatherRepository interface {
	Name() string
	FetchCurrent(ctx context.Context, loc models.Location) (models.CurrentWeather, error)
	// FetchDailyForecast returns the rich per-day forecast with alerts.
	FetchDailyForecast(ctx context.Context, loc models.Location) (models.DailyFeed, error)
	// FetchHourlyForecast returns the raw 3-hour samples, not yet grouped by day.
	FetchHourlyForecast(ctx context.Context, loc models.Location) (models.HourlyFeed, error)
}
