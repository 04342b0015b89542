package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cnf := Defaults()
	cnf.Weather.Locations = []LocationConfig{
		{Name: "Guntur", Lat: 16.3067, Lon: 80.4365},
		{Name: "Kurnool", Lat: 15.8281, Lon: 78.0373},
	}
	return cnf
}

func TestNewConfig(t *testing.T) {
	provider := NewFileConfigProvider("nonexistent.yaml")
	config, err := NewConfigWithProvider(provider)
	require.NoError(t, err)
	assert.NotNil(t, config)

	assert.Equal(t, "agroweather", config.App.Name)
	assert.Equal(t, "1.0.0", config.App.Version)
	assert.Equal(t, "development", config.App.Env)
	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, 10, config.Server.ReadTimeout)
	assert.Equal(t, 10, config.Server.WriteTimeout)
	assert.Equal(t, 120, config.Server.IdleTimeout)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, 7, config.Weather.ForecastDays)
	assert.Equal(t, 10*time.Minute, config.Cache.TTL)
	assert.False(t, config.Scheduler.Enabled)

	// Without config file there are no locations.
	assert.Len(t, config.Weather.Locations, 0)
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	t.Setenv("APP_NAME", "test-app")
	t.Setenv("APP_VERSION", "2.0.0")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WEATHER_API_KEY", "secret")
	t.Setenv("WEATHER_FORECAST_DAYS", "5")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("SCHEDULER_ENABLED", "true")
	t.Setenv("SCHEDULER_INTERVAL", "15m")

	provider := NewFileConfigProvider("nonexistent.yaml")
	config, err := NewConfigWithProvider(provider)
	require.NoError(t, err)

	assert.Equal(t, "test-app", config.App.Name)
	assert.Equal(t, "2.0.0", config.App.Version)
	assert.Equal(t, "production", config.App.Env)
	assert.Equal(t, "9090", config.Server.Port)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "secret", config.Weather.APIKey)
	assert.Equal(t, 5, config.Weather.ForecastDays)
	assert.Equal(t, 90*time.Second, config.Cache.TTL)
	assert.True(t, config.Scheduler.Enabled)
	assert.Equal(t, 15*time.Minute, config.Scheduler.Interval)
}

func TestConfigEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")

	config, err := NewConfigWithProvider(NewFileConfigProvider("config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "7070", config.Server.Port)
	assert.NotEmpty(t, config.Weather.Locations)
}

func TestConfigValidation(t *testing.T) {
	provider := NewFileConfigProvider("config.yaml")

	require.NoError(t, provider.Validate(validConfig()))

	tests := []struct {
		name    string
		mutate  func(c *Config)
		message string
	}{
		{
			name:    "missing app name",
			mutate:  func(c *Config) { c.App.Name = "" },
			message: "app.name is required",
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Server.Port = " " },
			message: "server.port is required",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			message: "server timeouts must be positive",
		},
		{
			name:    "forecast days too large",
			mutate:  func(c *Config) { c.Weather.ForecastDays = 9 },
			message: "weather.forecast_days must be within 1..8",
		},
		{
			name:    "duplicate location",
			mutate:  func(c *Config) { c.Weather.Locations[1].Name = "guntur" },
			message: `weather.locations[1].name "guntur" is duplicated`,
		},
		{
			name:    "latitude out of range",
			mutate:  func(c *Config) { c.Weather.Locations[0].Lat = 91 },
			message: "weather.locations[0].lat must be between -90 and 90",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			message: "log.format must be json or console",
		},
		{
			name: "scheduler without interval",
			mutate: func(c *Config) {
				c.Scheduler.Enabled = true
				c.Scheduler.Interval = 0
			},
			message: "scheduler.interval must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)

			err := provider.Validate(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestConfigHelperMethods(t *testing.T) {
	config := validConfig()

	assert.True(t, config.IsDevelopment())
	assert.False(t, config.IsProduction())

	loc, found := config.GetLocationByName("GUNTUR")
	assert.True(t, found)
	assert.Equal(t, "Guntur", loc.Name)

	loc, found = config.GetLocationByName("nonexistent")
	assert.False(t, found)
	assert.Nil(t, loc)

	locations := config.GetLocations()
	assert.Len(t, locations, 2)
	assert.Equal(t, "Guntur", locations[0].Name)
	assert.Equal(t, 78.0373, locations[1].Lon)

	assert.Equal(t, 10*time.Second, config.ReadTimeout())
	assert.Equal(t, 120*time.Second, config.IdleTimeout())
	assert.Equal(t, 10*time.Second, config.WeatherTimeout())
}

func TestFileConfigProvider_LoadFromFile(t *testing.T) {
	provider := NewFileConfigProvider("nonexistent.yaml")
	config := &Config{}

	err := provider.loadFromFile(config)
	assert.NoError(t, err)
}

func TestNewConfigWithProvider(t *testing.T) {
	mockProvider := &MockConfigProvider{config: validConfig()}

	config, err := NewConfigWithProvider(mockProvider)
	require.NoError(t, err)
	assert.Equal(t, "agroweather", config.App.Name)

	failing := &MockConfigProvider{err: errors.New("boom")}
	_, err = NewConfigWithProvider(failing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestConfigFileLoading(t *testing.T) {
	t.Setenv("CONFIG_PATH", "config.yaml")

	config, err := NewConfig()
	require.NoError(t, err)

	require.Len(t, config.Weather.Locations, 12)
	assert.Equal(t, "Visakhapatnam", config.Weather.Locations[0].Name)
	assert.Equal(t, 17.6868, config.Weather.Locations[0].Lat)
	assert.Equal(t, "Ongole", config.Weather.Locations[11].Name)
	assert.Equal(t, 30*time.Minute, config.Scheduler.Interval)
}

type MockConfigProvider struct {
	config *Config
	err    error
}

func (m *MockConfigProvider) Load() (*Config, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.config, nil
}

func (m *MockConfigProvider) Validate(config *Config) error {
	return nil
}
