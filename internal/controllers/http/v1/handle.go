package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"agroweather/internal/advisory"
	"agroweather/internal/forecast"
	"agroweather/internal/models"
	"agroweather/internal/repositories"
	"agroweather/internal/services/weather"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required parameter: city"`
}

// LocationsResponse lists the selectable locations
type LocationsResponse struct {
	Locations []models.Location `json:"locations"`
}

// AdvisoryResponse represents the advisories for a single weather record
type AdvisoryResponse struct {
	Condition                string   `json:"condition" example:"Rain"`
	Temperature              float64  `json:"temp" example:"36"`
	PrecipitationProbability float64  `json:"pop" example:"0.6"`
	Icon                     string   `json:"icon" example:"rain"`
	Recommendations          []string `json:"recommendations"`
}

// NormalizeRequest carries raw 3-hour observations to be grouped into days
type NormalizeRequest struct {
	// Seconds east of UTC, within UTC-12:00 and UTC+14:00.
	TimezoneOffset int                  `json:"timezone_offset" example:"19800" validate:"gte=-43200,lte=50400"`
	Observations   []models.Observation `json:"observations" validate:"required,max=2000"`
}

// NormalizeResponse holds one report per calendar day, in first-seen order
type NormalizeResponse struct {
	TimezoneOffset int                `json:"timezone_offset" example:"19800"`
	Days           []models.DayReport `json:"days"`
}

type cityQuery struct {
	City string `validate:"required,max=64"`
}

type advisoryQuery struct {
	Condition string  `validate:"required,max=64"`
	Temp      float64 `validate:"gte=-100,lte=100"`
	Pop       float64 `validate:"gte=0,lte=1"`
}

func (r *routes) parseCity(c *fiber.Ctx) (string, error) {
	q := cityQuery{City: strings.TrimSpace(c.Query("city"))}
	if q.City == "" {
		return "", errors.New("Missing required parameter: city")
	}
	if err := r.validate.Struct(q); err != nil {
		return "", err
	}
	return q.City, nil
}

func (r *routes) badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
}

// fail maps service errors onto HTTP statuses.
func (r *routes) fail(c *fiber.Ctx, err error, fields map[string]any) error {
	switch {
	case errors.Is(err, weather.ErrUnknownLocation):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, repositories.ErrUpstream):
		r.l.Error(err, fields)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "Failed to fetch weather data"})
	case errors.Is(err, forecast.ErrMalformedObservation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: err.Error()})
	}

	r.l.Error(err, fields)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Internal server error"})
}

// GetLocations godoc
// @Summary List locations
// @Description Lists the locations weather can be requested for
// @Tags Weather
// @Produce json
// @Success 200 {object} LocationsResponse
// @Router /api/v1/locations [get]
func (r *routes) handleLocations(c *fiber.Ctx) error {
	return c.JSON(LocationsResponse{Locations: r.service.Locations()})
}

// GetWeatherReport godoc
// @Summary Get full weather report
// @Description Current conditions, up to seven daily forecasts, alerts and advisories for a location
// @Tags Weather
// @Produce json
// @Param city query string true "Configured location name" example(Guntur)
// @Success 200 {object} models.WeatherReport
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 404 {object} ErrorResponse "Unknown location"
// @Failure 502 {object} ErrorResponse "Weather provider failure"
// @Router /api/v1/weather [get]
func (r *routes) handleWeatherReport(c *fiber.Ctx) error {
	city, err := r.parseCity(c)
	if err != nil {
		return r.badRequest(c, err)
	}

	report, err := r.service.Report(c.Context(), city)
	if err != nil {
		return r.fail(c, err, map[string]any{"city": city})
	}

	return c.JSON(report)
}

// GetCurrentWeather godoc
// @Summary Get current weather
// @Description Latest observation for a location with its icon and advisories
// @Tags Weather
// @Produce json
// @Param city query string true "Configured location name" example(Guntur)
// @Success 200 {object} models.CurrentReport
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 404 {object} ErrorResponse "Unknown location"
// @Failure 502 {object} ErrorResponse "Weather provider failure"
// @Router /api/v1/weather/current [get]
func (r *routes) handleCurrentWeather(c *fiber.Ctx) error {
	city, err := r.parseCity(c)
	if err != nil {
		return r.badRequest(c, err)
	}

	report, err := r.service.CurrentReport(c.Context(), city)
	if err != nil {
		return r.fail(c, err, map[string]any{"city": city})
	}

	return c.JSON(report)
}

// GetForecast godoc
// @Summary Get daily forecast
// @Description Daily forecast for a location. Uses the daily feed when available, otherwise the 3-hour feed grouped into days.
// @Tags Weather
// @Produce json
// @Param city query string true "Configured location name" example(Guntur)
// @Success 200 {object} models.ForecastReport
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 404 {object} ErrorResponse "Unknown location"
// @Failure 502 {object} ErrorResponse "Weather provider failure"
// @Router /api/v1/weather/forecast [get]
func (r *routes) handleForecast(c *fiber.Ctx) error {
	city, err := r.parseCity(c)
	if err != nil {
		return r.badRequest(c, err)
	}

	report, err := r.service.ForecastReport(c.Context(), city)
	if err != nil {
		return r.fail(c, err, map[string]any{"city": city})
	}

	return c.JSON(report)
}

// GetAdvisories godoc
// @Summary Get advisories
// @Description Advisories and icon category for a single weather record
// @Tags Advisory
// @Produce json
// @Param condition query string true "Weather condition category" example(Rain)
// @Param temp query number true "Temperature in Celsius" example(36)
// @Param pop query number false "Precipitation probability (0-1, default 0)" minimum(0) maximum(1) example(0.6)
// @Success 200 {object} AdvisoryResponse
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Router /api/v1/advisories [get]
func (r *routes) handleAdvisories(c *fiber.Ctx) error {
	q := advisoryQuery{Condition: strings.TrimSpace(c.Query("condition"))}

	temp := c.Query("temp")
	if temp == "" {
		return r.badRequest(c, errors.New("Missing required parameter: temp"))
	}

	var err error
	if q.Temp, err = strconv.ParseFloat(temp, 64); err != nil {
		return r.badRequest(c, errors.New("Invalid temperature format"))
	}

	if pop := c.Query("pop"); pop != "" {
		if q.Pop, err = strconv.ParseFloat(pop, 64); err != nil {
			return r.badRequest(c, errors.New("Invalid precipitation probability format"))
		}
	}

	if err := advisory.ValidateInputs(q.Temp, q.Pop); err != nil {
		return r.badRequest(c, err)
	}
	if err := r.validate.Struct(q); err != nil {
		return r.badRequest(c, err)
	}

	return c.JSON(AdvisoryResponse{
		Condition:                q.Condition,
		Temperature:              q.Temp,
		PrecipitationProbability: q.Pop,
		Icon:                     string(advisory.ClassifyIcon(q.Condition)),
		Recommendations:          advisory.Recommend(q.Condition, q.Temp, q.Pop),
	})
}

// NormalizeForecast godoc
// @Summary Normalize 3-hour observations
// @Description Groups 3-hour observations into one record per local calendar day
// @Tags Forecast
// @Accept json
// @Produce json
// @Param request body NormalizeRequest true "Observations and the location's UTC offset in seconds"
// @Success 200 {object} NormalizeResponse
// @Failure 400 {object} ErrorResponse "Bad request - invalid body"
// @Failure 422 {object} ErrorResponse "Malformed observation"
// @Router /api/v1/forecast/normalize [post]
func (r *routes) handleNormalize(c *fiber.Ctx) error {
	var req NormalizeRequest
	if err := c.BodyParser(&req); err != nil {
		if malformed := malformedObservationField(err); malformed != nil {
			return r.fail(c, malformed, nil)
		}
		return r.badRequest(c, errors.New("Invalid request body"))
	}

	if err := r.validate.Struct(req); err != nil {
		return r.badRequest(c, err)
	}

	days, err := r.service.NormalizeObservations(req.Observations, req.TimezoneOffset)
	if err != nil {
		return r.fail(c, err, map[string]any{"observations": len(req.Observations)})
	}

	return c.JSON(NormalizeResponse{
		TimezoneOffset: req.TimezoneOffset,
		Days:           days,
	})
}

// observationFields are the JSON names of the numeric Observation fields.
var observationFields = map[string]bool{
	"dt":          true,
	"temperature": true,
	"humidity":    true,
	"wind_speed":  true,
	"pop":         true,
}

// malformedObservationField turns a JSON type mismatch on an observation
// value, such as a fractional or quoted dt, into ErrMalformedObservation.
func malformedObservationField(err error) error {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return nil
	}

	field := typeErr.Field
	if i := strings.LastIndex(field, "."); i >= 0 {
		field = field[i+1:]
	}
	if !observationFields[field] {
		return nil
	}

	return fmt.Errorf("%w: %s: cannot use %s", forecast.ErrMalformedObservation, field, typeErr.Value)
}
