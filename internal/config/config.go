package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Port      string `yaml:"port"`
	DBPath    string `yaml:"dbPath"`
	JWTSecret string `yaml:"jwtSecret"`

	// Core pipeline tuning
	MaxGapSeconds     float64 `yaml:"maxGapSeconds"`
	MaxSpeedMph       float64 `yaml:"maxSpeedMph"`
	MinMovementMeters float64 `yaml:"minMovementMeters"`
	AreaBufferRadiusM float64 `yaml:"areaBufferRadiusM"`
	GridPrecision     int     `yaml:"gridPrecision"`
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variable overrides, in that order.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          ":8080",
		DBPath:        "./data/fogofdog.db",
		JWTSecret:     "change-me-in-production",
		MaxGapSeconds: 120,
		MaxSpeedMph:   100,
		GridPrecision: 7,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWTSecret = secret
	}
	if v := os.Getenv("MAX_GAP_SECONDS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MaxGapSeconds = f
		}
	}
	if v := os.Getenv("MAX_SPEED_MPH"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MaxSpeedMph = f
		}
	}
	if v := os.Getenv("MIN_MOVEMENT_METERS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MinMovementMeters = f
		}
	}
	if v := os.Getenv("AREA_BUFFER_RADIUS_M"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.AreaBufferRadiusM = f
		}
	}
	if v := os.Getenv("GRID_PRECISION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.GridPrecision = n
		}
	}

	return cfg, nil
}
