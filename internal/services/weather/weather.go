package weather

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"agroweather/internal/advisory"
	"agroweather/internal/forecast"
	"agroweather/internal/models"
	"agroweather/internal/repositories"
	"agroweather/internal/store"
	"agroweather/pkg/logger"
)

const (
	DefaultForecastDays = 7
	displayDateLayout   = "Mon, Jan 2"
)

var ErrUnknownLocation = errors.New("unknown location")

// ReportCache keeps built reports between requests.
type ReportCache interface {
	Get(name string) (models.WeatherReport, error)
	Save(report models.WeatherReport)
}

// WeatherService represents the weather service.
type WeatherService struct {
	repo         repositories.WeatherRepository
	locations    []models.Location
	cache        ReportCache
	forecastDays int
	l            *logger.Logger
	now          func() time.Time
}

// NewWeatherService builds the service. A nil cache disables caching and a
// non-positive forecastDays falls back to DefaultForecastDays.
func NewWeatherService(
	repo repositories.WeatherRepository,
	locations []models.Location,
	cache ReportCache,
	forecastDays int,
	l *logger.Logger,
) *WeatherService {
	if forecastDays <= 0 {
		forecastDays = DefaultForecastDays
	}

	return &WeatherService{
		repo:         repo,
		locations:    locations,
		cache:        cache,
		forecastDays: forecastDays,
		l:            l,
		now:          time.Now,
	}
}

// Locations returns the selectable locations in configuration order.
func (s *WeatherService) Locations() []models.Location {
	out := make([]models.Location, len(s.locations))
	copy(out, s.locations)
	return out
}

// Location resolves a configured location by name, ignoring case.
func (s *WeatherService) Location(name string) (models.Location, error) {
	name = strings.TrimSpace(name)
	for _, loc := range s.locations {
		if strings.EqualFold(loc.Name, name) {
			return loc, nil
		}
	}
	return models.Location{}, errors.Wrapf(ErrUnknownLocation, "%q", name)
}

// CurrentReport fetches the latest observation for a location and attaches
// its icon and advisories.
func (s *WeatherService) CurrentReport(ctx context.Context, name string) (models.CurrentReport, error) {
	loc, err := s.Location(name)
	if err != nil {
		return models.CurrentReport{}, err
	}
	return s.currentReport(ctx, loc)
}

func (s *WeatherService) currentReport(ctx context.Context, loc models.Location) (models.CurrentReport, error) {
	current, err := s.repo.FetchCurrent(ctx, loc)
	if err != nil {
		return models.CurrentReport{}, errors.Wrap(err, "fetch current weather")
	}

	if err := advisory.ValidateInputs(current.Temperature, 0); err != nil {
		return models.CurrentReport{}, fmt.Errorf("%w: current weather: %v", repositories.ErrUpstream, err)
	}

	return models.CurrentReport{
		Location:        loc,
		Weather:         current,
		Icon:            string(advisory.ClassifyIcon(current.Condition.Main)),
		Recommendations: advisory.Recommend(current.Condition.Main, current.Temperature, 0),
	}, nil
}

// ForecastReport returns up to forecastDays daily records for a location. The
// rich daily feed is preferred; when it cannot be used the 3-hour feed is
// fetched and normalized into days instead.
func (s *WeatherService) ForecastReport(ctx context.Context, name string) (models.ForecastReport, error) {
	loc, err := s.Location(name)
	if err != nil {
		return models.ForecastReport{}, err
	}
	return s.forecastReport(ctx, loc)
}

func (s *WeatherService) forecastReport(ctx context.Context, loc models.Location) (models.ForecastReport, error) {
	report := models.ForecastReport{Location: loc, Alerts: []models.Alert{}}

	daily, err := s.repo.FetchDailyForecast(ctx, loc)
	if err == nil && len(daily.Days) > 0 {
		report.Source = models.SourceDaily
		report.TimezoneOffset = daily.TimezoneOffset
		if daily.Alerts != nil {
			report.Alerts = daily.Alerts
		}
		report.Days, err = s.dayReports(daily.Days, daily.Zone())
		if err != nil {
			return models.ForecastReport{}, fmt.Errorf("%w: daily feed: %v", repositories.ErrUpstream, err)
		}
		return report, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return models.ForecastReport{}, ctxErr
	}

	s.l.Warning("daily forecast unavailable, falling back to 3-hour feed", map[string]any{
		"provider": s.repo.Name(),
		"location": loc.Name,
		"err":      fmt.Sprint(err),
	})

	hourly, err := s.repo.FetchHourlyForecast(ctx, loc)
	if err != nil {
		return models.ForecastReport{}, errors.Wrap(err, "fetch 3-hour forecast")
	}

	days, err := forecast.Normalize(hourly.Observations, hourly.Zone())
	if err != nil {
		return models.ForecastReport{}, fmt.Errorf("%w: 3-hour feed: %w", repositories.ErrUpstream, err)
	}

	report.Source = models.SourceHourly
	report.TimezoneOffset = hourly.TimezoneOffset
	report.Days, err = s.dayReports(days, hourly.Zone())
	if err != nil {
		return models.ForecastReport{}, fmt.Errorf("%w: 3-hour feed: %v", repositories.ErrUpstream, err)
	}

	return report, nil
}

// NormalizeObservations groups caller supplied 3-hour observations into daily
// reports using the given offset in seconds east of UTC. The day limit does
// not apply.
func (s *WeatherService) NormalizeObservations(observations []models.Observation, timezoneOffset int) ([]models.DayReport, error) {
	zone := models.FixedZone(timezoneOffset)

	days, err := forecast.Normalize(observations, zone)
	if err != nil {
		return nil, err
	}

	reports := make([]models.DayReport, 0, len(days))
	for _, day := range days {
		reports = append(reports, dayReport(day, zone))
	}

	s.l.Debug("normalized observations", map[string]any{
		"observations": len(observations),
		"days":         len(reports),
	})

	return reports, nil
}

func (s *WeatherService) dayReports(days []models.DailyForecast, zone *time.Location) ([]models.DayReport, error) {
	if len(days) > s.forecastDays {
		days = days[:s.forecastDays]
	}

	reports := make([]models.DayReport, 0, len(days))
	for _, day := range days {
		if err := advisory.ValidateInputs(day.Temperature.Day, day.PrecipitationProbability); err != nil {
			return nil, errors.Wrapf(err, "day %s", day.DayKey)
		}
		reports = append(reports, dayReport(day, zone))
	}

	return reports, nil
}

func dayReport(day models.DailyForecast, zone *time.Location) models.DayReport {
	return models.DayReport{
		DailyForecast:   day,
		Date:            day.Time(zone).Format(displayDateLayout),
		Icon:            string(advisory.ClassifyIcon(day.Condition.Main)),
		Recommendations: advisory.Recommend(day.Condition.Main, day.Temperature.Day, day.PrecipitationProbability),
	}
}

// Report returns the full report for a location, from the cache when fresh.
// If rebuilding fails and an expired report is cached, the stale report is
// served instead.
func (s *WeatherService) Report(ctx context.Context, name string) (models.WeatherReport, error) {
	loc, err := s.Location(name)
	if err != nil {
		return models.WeatherReport{}, err
	}

	var stale *models.WeatherReport
	if s.cache != nil {
		cached, err := s.cache.Get(loc.Name)
		switch {
		case err == nil:
			s.l.Debug("serving cached report", map[string]any{"location": loc.Name})
			return cached, nil
		case errors.Is(err, store.ErrExpired):
			stale = &cached
		}
	}

	report, err := s.build(ctx, loc)
	if err != nil {
		if stale != nil && ctx.Err() == nil {
			s.l.Warning("serving stale report", map[string]any{
				"location": loc.Name,
				"err":      err.Error(),
			})
			return *stale, nil
		}
		return models.WeatherReport{}, err
	}

	if s.cache != nil {
		s.cache.Save(report)
	}

	return report, nil
}

// Refresh rebuilds the report for a location and replaces the cached copy.
func (s *WeatherService) Refresh(ctx context.Context, name string) (models.WeatherReport, error) {
	loc, err := s.Location(name)
	if err != nil {
		return models.WeatherReport{}, err
	}

	report, err := s.build(ctx, loc)
	if err != nil {
		return models.WeatherReport{}, err
	}

	if s.cache != nil {
		s.cache.Save(report)
	}

	return report, nil
}

// build fetches current conditions and the forecast concurrently.
func (s *WeatherService) build(ctx context.Context, loc models.Location) (models.WeatherReport, error) {
	s.l.Info("starting report fetch", map[string]any{
		"params": loc.RequestParams(),
	})

	var (
		wg          sync.WaitGroup
		current     models.CurrentReport
		forecastRep models.ForecastReport
		currentErr  error
		forecastErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		current, currentErr = s.currentReport(ctx, loc)
	}()
	go func() {
		defer wg.Done()
		forecastRep, forecastErr = s.forecastReport(ctx, loc)
	}()
	wg.Wait()

	if currentErr != nil {
		s.l.Error(currentErr, map[string]any{"location": loc.Name})
		return models.WeatherReport{}, currentErr
	}
	if forecastErr != nil {
		s.l.Error(forecastErr, map[string]any{"location": loc.Name})
		return models.WeatherReport{}, forecastErr
	}

	s.l.Info("completed report fetch", map[string]any{
		"location": loc.Name,
		"source":   forecastRep.Source,
		"days":     len(forecastRep.Days),
	})

	return models.WeatherReport{
		Location:    loc,
		Current:     current,
		Forecast:    forecastRep,
		GeneratedAt: s.now().UTC(),
	}, nil
}
