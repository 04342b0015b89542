package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"agroweather/internal/models"
)

const (
	DefaultConfigPath = "config/config.yaml"
	maxForecastDays   = 8
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Weather   WeatherConfig   `yaml:"weather"`
	Log       LogConfig       `yaml:"log"`
	Sentry    SentryConfig    `yaml:"sentry"`
	Cache     CacheConfig     `yaml:"cache"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type AppConfig struct {
	Name    string `yaml:"name" envconfig:"NAME"`
	Version string `yaml:"version" envconfig:"VERSION"`
	Env     string `yaml:"env" envconfig:"ENV"`
}

// ServerConfig timeouts are in seconds.
type ServerConfig struct {
	Port         string `yaml:"port" envconfig:"PORT"`
	ReadTimeout  int    `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout int    `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout  int    `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
}

type WeatherConfig struct {
	APIKey       string           `yaml:"api_key,omitempty" envconfig:"API_KEY"`
	BaseURL      string           `yaml:"base_url" envconfig:"BASE_URL"`
	Units        string           `yaml:"units" envconfig:"UNITS"`
	Timeout      int              `yaml:"timeout" envconfig:"TIMEOUT"`
	MaxRetries   int              `yaml:"max_retries" envconfig:"MAX_RETRIES"`
	ForecastDays int              `yaml:"forecast_days" envconfig:"FORECAST_DAYS"`
	Locations    []LocationConfig `yaml:"locations" ignored:"true"`
}

type LocationConfig struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

type SentryConfig struct {
	DSN   string `yaml:"dsn,omitempty" envconfig:"DSN"`
	Debug bool   `yaml:"debug" envconfig:"DEBUG"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" envconfig:"TTL"`
}

type SchedulerConfig struct {
	Enabled  bool          `yaml:"enabled" envconfig:"ENABLED"`
	Interval time.Duration `yaml:"interval" envconfig:"INTERVAL"`
}

// ConfigProvider loads and validates a Config.
type ConfigProvider interface {
	Load() (*Config, error)
	Validate(config *Config) error
}

// FileConfigProvider layers defaults, a YAML file, a .env file and the
// process environment, in that order.
type FileConfigProvider struct {
	path string
}

func NewFileConfigProvider(path string) *FileConfigProvider {
	return &FileConfigProvider{path: path}
}

// NewConfig loads the configuration from CONFIG_PATH or the default path.
func NewConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultConfigPath
	}
	return NewConfigWithProvider(NewFileConfigProvider(path))
}

func NewConfigWithProvider(provider ConfigProvider) (*Config, error) {
	cnf, err := provider.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := provider.Validate(cnf); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cnf, nil
}

func Defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:    "agroweather",
			Version: "1.0.0",
			Env:     "development",
		},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  10,
			WriteTimeout: 10,
			IdleTimeout:  120,
		},
		Weather: WeatherConfig{
			BaseURL:      "https://api.openweathermap.org",
			Units:        "metric",
			Timeout:      10,
			MaxRetries:   2,
			ForecastDays: 7,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
		},
		Scheduler: SchedulerConfig{
			Enabled:  false,
			Interval: 30 * time.Minute,
		},
	}
}

func (p *FileConfigProvider) Load() (*Config, error) {
	cnf := Defaults()

	if err := p.loadFromFile(cnf); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	if err := envconfig.Process("", cnf); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	return cnf, nil
}

// loadFromFile overlays the YAML file onto config. A missing file is not an error.
func (p *FileConfigProvider) loadFromFile(config *Config) error {
	yamlData, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", p.path, err)
	}

	if err := yaml.Unmarshal(yamlData, config); err != nil {
		return fmt.Errorf("failed to parse YAML config %s: %w", p.path, err)
	}

	return nil
}

func (p *FileConfigProvider) Validate(config *Config) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(config.App.Name) == "" {
		add("app.name is required")
	}
	if strings.TrimSpace(config.Server.Port) == "" {
		add("server.port is required")
	}
	if config.Server.ReadTimeout <= 0 || config.Server.WriteTimeout <= 0 || config.Server.IdleTimeout <= 0 {
		add("server timeouts must be positive")
	}
	if config.Weather.BaseURL == "" {
		add("weather.base_url is required")
	}
	if config.Weather.Timeout <= 0 {
		add("weather.timeout must be positive")
	}
	if config.Weather.MaxRetries < 0 {
		add("weather.max_retries must not be negative")
	}
	if config.Weather.ForecastDays < 1 || config.Weather.ForecastDays > maxForecastDays {
		add("weather.forecast_days must be within 1..%d", maxForecastDays)
	}

	seen := make(map[string]bool, len(config.Weather.Locations))
	for i, loc := range config.Weather.Locations {
		key := strings.ToLower(strings.TrimSpace(loc.Name))
		switch {
		case key == "":
			add("weather.locations[%d].name is required", i)
		case seen[key]:
			add("weather.locations[%d].name %q is duplicated", i, loc.Name)
		}
		seen[key] = true

		if loc.Lat < -90 || loc.Lat > 90 {
			add("weather.locations[%d].lat must be between -90 and 90", i)
		}
		if loc.Lon < -180 || loc.Lon > 180 {
			add("weather.locations[%d].lon must be between -180 and 180", i)
		}
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		add("log.format must be json or console")
	}
	if config.Cache.TTL < 0 {
		add("cache.ttl must not be negative")
	}
	if config.Scheduler.Enabled && config.Scheduler.Interval <= 0 {
		add("scheduler.interval must be positive when the scheduler is enabled")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// GetLocationByName looks a configured location up, ignoring case.
func (c *Config) GetLocationByName(name string) (*LocationConfig, bool) {
	for i := range c.Weather.Locations {
		if strings.EqualFold(c.Weather.Locations[i].Name, name) {
			return &c.Weather.Locations[i], true
		}
	}
	return nil, false
}

// GetLocations returns the configured locations as domain models.
func (c *Config) GetLocations() []models.Location {
	locations := make([]models.Location, 0, len(c.Weather.Locations))
	for _, loc := range c.Weather.Locations {
		locations = append(locations, models.Location{Name: loc.Name, Lat: loc.Lat, Lon: loc.Lon})
	}
	return locations
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeout) * time.Second
}

func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeout) * time.Second
}

func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeout) * time.Second
}

func (c *Config) WeatherTimeout() time.Duration {
	return time.Duration(c.Weather.Timeout) * time.Second
}
