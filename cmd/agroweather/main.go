package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agroweather/config"
	v1 "agroweather/internal/controllers/http/v1"
	"agroweather/internal/repositories"
	"agroweather/internal/scheduler"
	"agroweather/internal/services/weather"
	"agroweather/internal/store"
	"agroweather/pkg/httpserver"
	"agroweather/pkg/logger"
	"agroweather/pkg/observe"
)

// @title AgroWeather API
// @version 1.0.0
// @description Current weather, daily forecasts, alerts and farming advisories for Andhra Pradesh locations.
// @description Daily forecasts come from the provider's daily feed, or are built from its 3-hour feed when the daily feed is unavailable.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Weather
// @tag.description Current weather, forecasts and reports for configured locations
// @tag.name Advisory
// @tag.description Advisories for a single weather record
// @tag.name Forecast
// @tag.description Normalization of 3-hour observations into daily records
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	cnf, err := config.NewConfig()
	if err != nil {
		fmt.Println("cannot load config:", err)
		os.Exit(1)
	}

	writers := []io.Writer{os.Stdout}
	var hook *observe.SentryHook
	if cnf.Sentry.DSN != "" {
		hook = observe.NewSentryHook(cnf.App.Env, cnf.App.Name, cnf.Sentry.DSN, cnf.Sentry.Debug)
		writers = append(writers, hook)
	}

	l := logger.NewZapLogger(logger.Options{
		AppName: cnf.App.Name,
		AppEnv:  cnf.App.Env,
		Level:   cnf.Log.Level,
		Format:  cnf.Log.Format,
	}, writers...)
	if hook != nil {
		hook.SetLogger(l)
	}

	client := repositories.NewResilientClient(
		"openweathermap",
		&http.Client{Timeout: cnf.WeatherTimeout()},
		repositories.DefaultBackoff(cnf.Weather.MaxRetries),
		l,
	)

	repo, err := repositories.NewOpenWeatherRepository(cnf.Weather.BaseURL, cnf.Weather.APIKey, cnf.Weather.Units, client, l)
	if err != nil {
		l.Fatal("cannot create weather repository", map[string]any{"err": err.Error()})
	}

	cache := store.NewMemoryStore(cnf.Cache.TTL)

	service := weather.NewWeatherService(repo, cnf.GetLocations(), cache, cnf.Weather.ForecastDays, l)

	var sched *scheduler.Scheduler
	if cnf.Scheduler.Enabled {
		sched = scheduler.New(service, cache, cnf.Scheduler.Interval, l)
		if err := sched.Start(); err != nil {
			l.Fatal("cannot start scheduler", map[string]any{"err": err.Error()})
		}
	}

	app := httpserver.InitFiberServer(httpserver.Options{
		AppName:      cnf.App.Name,
		ReadTimeout:  cnf.ReadTimeout(),
		WriteTimeout: cnf.WriteTimeout(),
		IdleTimeout:  cnf.IdleTimeout(),
	})

	v1.NewRouter(
		app,
		service,
		l,
	)

	go func() {
		if err := app.Listen(":" + cnf.Server.Port); err != nil {
			l.Error(err, map[string]any{"msg": "cannot run the server"})
			cancel()
		}
	}()

	l.Info("application started successfully", map[string]any{
		"port":      cnf.Server.Port,
		"locations": len(cnf.Weather.Locations),
		"scheduler": cnf.Scheduler.Enabled,
	})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		if sched != nil {
			sched.Stop()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		if hook != nil {
			hook.Flush()
		}
		_ = l.Stop()
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
