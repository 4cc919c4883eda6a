// Package config loads service configuration from .env files, environment
// variables and an optional YAML overlay.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	LogLevel    string
	LogFormat   string

	ORS     ORS
	Routing Routing
}

// ORS configures the OpenRouteService matrix provider.
type ORS struct {
	APIKey     string
	RatePerSec float64
	// Metric is "duration" (minutes) or "distance" (metres).
	Metric string
	// FallbackSpeedKph converts straight-line distance to minutes when no
	// API key is configured.
	FallbackSpeedKph float64
}

// Routing holds the planner constants that used to be embedded literals.
type Routing struct {
	DefaultTimeWindow     [2]float64    `yaml:"default_time_window"`
	GreedyStartTime       float64       `yaml:"greedy_start_time"`
	GreedyReportsLateness bool          `yaml:"greedy_reports_lateness"`
	WaitingAllowance      float64       `yaml:"waiting_allowance"`
	RouteTimeBudget       float64       `yaml:"route_time_budget"`
	SearchTimeLimit       time.Duration `yaml:"search_time_limit"`
	SearchMaxIterations   int           `yaml:"search_max_iterations"`
}

// DefaultRouting returns the planner defaults.
func DefaultRouting() Routing {
	return Routing{
		DefaultTimeWindow:   [2]float64{0, 1000},
		GreedyStartTime:     8,
		WaitingAllowance:    30,
		RouteTimeBudget:     1000,
		SearchTimeLimit:     10 * time.Second,
		SearchMaxIterations: 5000,
	}
}

// Validate checks the routing constants for values no planner can work with.
func (r Routing) Validate() error {
	if r.DefaultTimeWindow[0] > r.DefaultTimeWindow[1] {
		return fmt.Errorf("routing config: default time window [%g,%g] is empty", r.DefaultTimeWindow[0], r.DefaultTimeWindow[1])
	}
	if r.WaitingAllowance < 0 {
		return errors.New("routing config: waiting allowance must be >= 0")
	}
	if r.RouteTimeBudget <= 0 {
		return errors.New("routing config: route time budget must be > 0")
	}
	if r.SearchTimeLimit <= 0 {
		return errors.New("routing config: search time limit must be > 0")
	}
	if r.SearchMaxIterations < 0 {
		return errors.New("routing config: search max iterations must be >= 0")
	}
	return nil
}

type fileOverlay struct {
	Routing *Routing `yaml:"routing"`
}

// Load builds the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        Get("PORT", "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:    strings.TrimSpace(os.Getenv("REDIS_URL")),
		LogLevel:    Get("LOG_LEVEL", "info"),
		LogFormat:   Get("LOG_FORMAT", "console"),
		ORS: ORS{
			APIKey:     strings.TrimSpace(os.Getenv("ORS_API_KEY")),
			RatePerSec: getFloat("ORS_RATE_PER_SEC", 1),
			Metric:     Get("ORS_MATRIX_METRIC", "duration"),

			FallbackSpeedKph: getFloat("MATRIX_FALLBACK_SPEED_KPH", 40),
		},
		Routing: DefaultRouting(),
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	r := &cfg.Routing
	r.DefaultTimeWindow[0] = getFloat("ROUTING_DEFAULT_TW_START", r.DefaultTimeWindow[0])
	r.DefaultTimeWindow[1] = getFloat("ROUTING_DEFAULT_TW_END", r.DefaultTimeWindow[1])
	r.GreedyStartTime = getFloat("ROUTING_GREEDY_START_TIME", r.GreedyStartTime)
	r.GreedyReportsLateness = getBool("ROUTING_GREEDY_REPORTS_LATENESS", r.GreedyReportsLateness)
	r.WaitingAllowance = getFloat("ROUTING_WAITING_ALLOWANCE", r.WaitingAllowance)
	r.RouteTimeBudget = getFloat("ROUTING_ROUTE_TIME_BUDGET", r.RouteTimeBudget)
	r.SearchTimeLimit = getDuration("ROUTING_SEARCH_TIME_LIMIT", r.SearchTimeLimit)
	r.SearchMaxIterations = getInt("ROUTING_SEARCH_MAX_ITERATIONS", r.SearchMaxIterations)

	if err := cfg.Routing.Validate(); err != nil {
		return nil, err
	}
	if m := cfg.ORS.Metric; m != "duration" && m != "distance" {
		return nil, fmt.Errorf("load config: ORS_MATRIX_METRIC must be duration or distance, got %q", m)
	}
	if cfg.ORS.FallbackSpeedKph <= 0 {
		return nil, errors.New("load config: MATRIX_FALLBACK_SPEED_KPH must be > 0")
	}

	return cfg, nil
}

// applyFile overlays the routing section of a YAML file. Keys absent from the
// file keep their current values.
func applyFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config: read %q: %w", path, err)
	}

	overlay := fileOverlay{Routing: &cfg.Routing}
	if err := yaml.Unmarshal(b, &overlay); err != nil {
		return fmt.Errorf("load config: parse %q: %w", path, err)
	}

	return nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
