package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"agroweather/internal/forecast"
	"agroweather/internal/models"
	"agroweather/pkg/logger"
)

const (
	OpenWeatherBaseURL = "https://api.openweathermap.org"

	currentPath  = "/data/2.5/weather"
	oneCallPath  = "/data/3.0/onecall"
	forecastPath = "/data/2.5/forecast"
)

type OpenWeatherRepository struct {
	baseURL string
	apiKey  string
	units   string
	client  *ResilientClient
	l       *logger.Logger
}

func NewOpenWeatherRepository(baseURL, apiKey, units string, client *ResilientClient, l *logger.Logger) (*OpenWeatherRepository, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("API key cannot be empty")
	}
	if client == nil {
		return nil, errors.New("http client cannot be nil")
	}
	if baseURL == "" {
		baseURL = OpenWeatherBaseURL
	}
	if units == "" {
		units = "metric"
	}

	return &OpenWeatherRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		units:   units,
		client:  client,
		l:       l,
	}, nil
}

func (o *OpenWeatherRepository) Name() string {
	return "openweathermap"
}

type owmCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func firstCondition(items []owmCondition) models.Condition {
	if len(items) == 0 {
		return models.Condition{}
	}
	return models.Condition{
		Main:        items[0].Main,
		Description: items[0].Description,
		Icon:        items[0].Icon,
	}
}

type currentResponse struct {
	Name string `json:"name"`
	Dt   int64  `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []owmCondition `json:"weather"`
	Sys     struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

type oneCallResponse struct {
	TimezoneOffset int `json:"timezone_offset"`
	Daily          []struct {
		Dt   int64 `json:"dt"`
		Temp struct {
			Day float64 `json:"day"`
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"temp"`
		Humidity  int            `json:"humidity"`
		WindSpeed float64        `json:"wind_speed"`
		Pop       float64        `json:"pop"`
		Weather   []owmCondition `json:"weather"`
	} `json:"daily"`
	Alerts []struct {
		SenderName  string `json:"sender_name"`
		Event       string `json:"event"`
		Start       int64  `json:"start"`
		End         int64  `json:"end"`
		Description string `json:"description"`
	} `json:"alerts"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Pop     *float64       `json:"pop"`
		Weather []owmCondition `json:"weather"`
	} `json:"list"`
	City struct {
		Timezone int `json:"timezone"`
	} `json:"city"`
}

func (o *OpenWeatherRepository) FetchCurrent(ctx context.Context, loc models.Location) (models.CurrentWeather, error) {
	var payload currentResponse
	if err := o.get(ctx, "current", currentPath, loc, nil, &payload); err != nil {
		return models.CurrentWeather{}, err
	}

	name := payload.Name
	if name == "" {
		name = loc.Name
	}

	return models.CurrentWeather{
		Name:        name,
		Timestamp:   payload.Dt,
		Temperature: payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		TempMin:     payload.Main.TempMin,
		TempMax:     payload.Main.TempMax,
		Pressure:    payload.Main.Pressure,
		Humidity:    payload.Main.Humidity,
		WindSpeed:   payload.Wind.Speed,
		Condition:   firstCondition(payload.Weather),
		Sunrise:     payload.Sys.Sunrise,
		Sunset:      payload.Sys.Sunset,
	}, nil
}

func (o *OpenWeatherRepository) FetchDailyForecast(ctx context.Context, loc models.Location) (models.DailyFeed, error) {
	var payload oneCallResponse
	extra := url.Values{"exclude": {"current,minutely,hourly"}}
	if err := o.get(ctx, "onecall", oneCallPath, loc, extra, &payload); err != nil {
		return models.DailyFeed{}, err
	}

	if len(payload.Daily) == 0 {
		return models.DailyFeed{}, fmt.Errorf("%w: no daily forecast data available", ErrUpstream)
	}

	feed := models.DailyFeed{
		TimezoneOffset: payload.TimezoneOffset,
		Days:           make([]models.DailyForecast, 0, len(payload.Daily)),
		Alerts:         make([]models.Alert, 0, len(payload.Alerts)),
	}
	zone := feed.Zone()

	for _, d := range payload.Daily {
		feed.Days = append(feed.Days, models.DailyForecast{
			DayKey:    forecast.DayKey(d.Dt, zone),
			Timestamp: d.Dt,
			Temperature: models.Temperature{
				Day: d.Temp.Day,
				Min: d.Temp.Min,
				Max: d.Temp.Max,
			},
			Condition:                firstCondition(d.Weather),
			Humidity:                 d.Humidity,
			WindSpeed:                d.WindSpeed,
			PrecipitationProbability: d.Pop,
		})
	}

	for _, a := range payload.Alerts {
		feed.Alerts = append(feed.Alerts, models.Alert{
			SenderName:  a.SenderName,
			Event:       a.Event,
			Description: a.Description,
			Start:       a.Start,
			End:         a.End,
		})
	}

	return feed, nil
}

func (o *OpenWeatherRepository) FetchHourlyForecast(ctx context.Context, loc models.Location) (models.HourlyFeed, error) {
	var payload forecastResponse
	if err := o.get(ctx, "forecast", forecastPath, loc, nil, &payload); err != nil {
		return models.HourlyFeed{}, err
	}

	if len(payload.List) == 0 {
		return models.HourlyFeed{}, fmt.Errorf("%w: no forecast data available", ErrUpstream)
	}

	feed := models.HourlyFeed{
		TimezoneOffset: payload.City.Timezone,
		Observations:   make([]models.Observation, 0, len(payload.List)),
	}

	for _, item := range payload.List {
		feed.Observations = append(feed.Observations, models.Observation{
			Timestamp:                item.Dt,
			Temperature:              item.Main.Temp,
			Humidity:                 item.Main.Humidity,
			WindSpeed:                item.Wind.Speed,
			PrecipitationProbability: item.Pop,
			Condition:                firstCondition(item.Weather),
		})
	}

	return feed, nil
}

func (o *OpenWeatherRepository) get(
	ctx context.Context,
	endpoint, path string,
	loc models.Location,
	extra url.Values,
	out any,
) error {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	values.Set("units", o.units)
	values.Set("appid", o.apiKey)
	for k, v := range extra {
		values[k] = v
	}

	o.l.Info("making openweathermap API request", map[string]any{
		"endpoint": endpoint,
		"params":   loc.RequestParams(),
	})

	body, err := o.client.Get(ctx, o.baseURL+path+"?"+values.Encode())
	if err != nil {
		return fmt.Errorf("%s request failed: %w", endpoint, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to parse %s JSON response: %v", ErrUpstream, endpoint, err)
	}

	o.l.Info("received openweathermap API response", map[string]any{
		"endpoint": endpoint,
		"bytes":    len(body),
	})

	return nil
}
