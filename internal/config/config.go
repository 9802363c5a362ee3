package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/knap/internal/solver"
	"github.com/eugenenazirov/knap/internal/storage"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50

	defaultSolveRateLimitRPS   = 5.0
	defaultSolveRateLimitBurst = 10
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string         `yaml:"port"`
	InitialItems         []storage.Item `yaml:"items"`
	MaxCapacity          int            `yaml:"max_capacity"`
	MaxTableCells        int            `yaml:"max_table_cells"`
	ShutdownGracePeriod  time.Duration  `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    time.Duration  `yaml:"read_header_timeout"`
	WriteTimeout         time.Duration  `yaml:"write_timeout"`
	IdleTimeout          time.Duration  `yaml:"idle_timeout"`
	EnableRequestLogging bool           `yaml:"enable_request_logging"`
	RateLimitRPS         float64        `yaml:"-"`
	RateLimitBurst       int            `yaml:"-"`
	// SolveRateLimitRPS and SolveRateLimitBurst budget the solve and compare endpoints
	// separately from the cheap catalog routes.
	SolveRateLimitRPS   float64 `yaml:"-"`
	SolveRateLimitBurst int     `yaml:"-"`
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string         `yaml:"port"`
	Items                []storage.Item `yaml:"items"`
	MaxCapacity          int            `yaml:"max_capacity"`
	MaxTableCells        int            `yaml:"max_table_cells"`
	ShutdownGracePeriod  string         `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string         `yaml:"read_header_timeout"`
	WriteTimeout         string         `yaml:"write_timeout"`
	IdleTimeout          string         `yaml:"idle_timeout"`
	EnableRequestLogging *bool          `yaml:"enable_request_logging"`
	RateLimit            *yamlRateLimit `yaml:"rate_limit"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS        float64  `yaml:"rps"`
	Burst      int      `yaml:"burst"`
	SolveRPS   *float64 `yaml:"solve_rps"`
	SolveBurst *int     `yaml:"solve_burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	ItemsStr       *string
	MaxCapacity    *int
	RateLimitRPS   *float64
	RateLimitBurst *int

	SolveRateLimitRPS   *float64
	SolveRateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Apply environment variables
	applyEnvConfig(&cfg)

	// Load from YAML file if specified (overrides env)
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	// Validate final configuration
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		InitialItems:         storage.DefaultItems(),
		MaxCapacity:          solver.DefaultMaxCapacity,
		MaxTableCells:        solver.DefaultMaxTableCells,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
		SolveRateLimitRPS:    defaultSolveRateLimitRPS,
		SolveRateLimitBurst:  defaultSolveRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// LoadCatalog reads and validates the items section of a YAML file.
func LoadCatalog(path string) ([]storage.Item, error) {
	yamlCfg, err := loadFromFile(path)
	if err != nil {
		return nil, err
	}
	if err := storage.ValidateItems(yamlCfg.Items); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return yamlCfg.Items, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if len(yamlCfg.Items) > 0 {
		cfg.InitialItems = yamlCfg.Items
	}

	if yamlCfg.MaxCapacity > 0 {
		cfg.MaxCapacity = yamlCfg.MaxCapacity
	}

	if yamlCfg.MaxTableCells > 0 {
		cfg.MaxTableCells = yamlCfg.MaxTableCells
	}

	applyDuration(&cfg.ShutdownGracePeriod, yamlCfg.ShutdownGracePeriod)
	applyDuration(&cfg.ReadHeaderTimeout, yamlCfg.ReadHeaderTimeout)
	applyDuration(&cfg.WriteTimeout, yamlCfg.WriteTimeout)
	applyDuration(&cfg.IdleTimeout, yamlCfg.IdleTimeout)

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}

	if yamlCfg.RateLimit != nil {
		if yamlCfg.RateLimit.RPS >= 0 {
			cfg.RateLimitRPS = yamlCfg.RateLimit.RPS
		}
		if yamlCfg.RateLimit.Burst >= 0 {
			cfg.RateLimitBurst = yamlCfg.RateLimit.Burst
		}
		if yamlCfg.RateLimit.SolveRPS != nil && *yamlCfg.RateLimit.SolveRPS >= 0 {
			cfg.SolveRateLimitRPS = *yamlCfg.RateLimit.SolveRPS
		}
		if yamlCfg.RateLimit.SolveBurst != nil && *yamlCfg.RateLimit.SolveBurst >= 0 {
			cfg.SolveRateLimitBurst = *yamlCfg.RateLimit.SolveBurst
		}
	}
}

func applyDuration(dst *time.Duration, raw string) {
	if raw == "" {
		return
	}
	if d, err := time.ParseDuration(raw); err == nil {
		*dst = d
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if rawItems := strings.TrimSpace(os.Getenv("ITEMS")); rawItems != "" {
		items, err := ParseItems(rawItems)
		if err == nil && len(items) > 0 {
			cfg.InitialItems = items
		}
	}

	if capacity := strings.TrimSpace(os.Getenv("MAX_CAPACITY")); capacity != "" {
		if value, err := strconv.Atoi(capacity); err == nil && value > 0 {
			cfg.MaxCapacity = value
		}
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}

	if rps := strings.TrimSpace(os.Getenv("SOLVE_RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.SolveRateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("SOLVE_RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.SolveRateLimitBurst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.ItemsStr != nil && *overrides.ItemsStr != "" {
		items, err := ParseItems(*overrides.ItemsStr)
		if err != nil {
			return fmt.Errorf("parse items: %w", err)
		}
		cfg.InitialItems = items
	}

	if overrides.MaxCapacity != nil && *overrides.MaxCapacity > 0 {
		cfg.MaxCapacity = *overrides.MaxCapacity
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	if overrides.SolveRateLimitRPS != nil && *overrides.SolveRateLimitRPS >= 0 {
		cfg.SolveRateLimitRPS = *overrides.SolveRateLimitRPS
	}

	if overrides.SolveRateLimitBurst != nil && *overrides.SolveRateLimitBurst >= 0 {
		cfg.SolveRateLimitBurst = *overrides.SolveRateLimitBurst
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.SolveRateLimitRPS < 0 || cfg.SolveRateLimitBurst < 0 {
		return fmt.Errorf("solve rate limit must be >= 0")
	}
	if cfg.MaxCapacity <= 0 {
		return fmt.Errorf("max capacity must be positive")
	}
	if cfg.MaxTableCells <= 0 {
		return fmt.Errorf("max table cells must be positive")
	}
	if err := storage.ValidateItems(cfg.InitialItems); err != nil {
		return fmt.Errorf("initial items: %w", err)
	}
	return nil
}

// ParseItems parses a comma-separated list of id:weight:value triples.
// Weights and values must be non-negative integers.
func ParseItems(raw string) ([]storage.Item, error) {
	parts := strings.Split(raw, ",")
	items := make([]storage.Item, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("invalid item %q, want id:weight:value", part)
		}
		id := strings.TrimSpace(fields[0])
		if id == "" {
			return nil, fmt.Errorf("invalid item %q, id is empty", part)
		}
		weight, err := parseNonNegative(fields[1])
		if err != nil {
			return nil, fmt.Errorf("item %q weight: %w", id, err)
		}
		value, err := parseNonNegative(fields[2])
		if err != nil {
			return nil, fmt.Errorf("item %q value: %w", id, err)
		}
		items = append(items, storage.Item{ID: id, Size: weight, Worth: value})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no items provided")
	}
	return items, nil
}

func parseNonNegative(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	if value < 0 {
		return 0, fmt.Errorf("must be non-negative, got %d", value)
	}
	return value, nil
}
