package http

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"agroweather/internal/services/weather"
	"agroweather/pkg/logger"
)

const swaggerDocPath = "docs/swagger.json"

type routes struct {
	service  *weather.WeatherService
	validate *validator.Validate
	l        *logger.Logger
}

func NewRouter(
	app *fiber.App,
	weatherService *weather.WeatherService,
	l *logger.Logger,
) {
	r := &routes{
		service:  weatherService,
		validate: validator.New(),
		l:        l,
	}

	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		swaggerData, err := os.ReadFile(swaggerDocPath)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "Failed to read Swagger documentation"})
		}

		c.Set("Content-Type", "application/json")
		return c.Send(swaggerData)
	})

	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	api := app.Group("/api/v1")
	api.Get("/locations", r.handleLocations)
	api.Get("/weather", r.handleWeatherReport)
	api.Get("/weather/current", r.handleCurrentWeather)
	api.Get("/weather/forecast", r.handleForecast)
	api.Get("/advisories", r.handleAdvisories)
	api.Post("/forecast/normalize", r.handleNormalize)
}
