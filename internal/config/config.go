package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/calldeskhq/reportetl/internal/etl"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string

	// WebSocket tuning
	WSReadTimeout  time.Duration
	WSWriteTimeout time.Duration
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64

	// ProcessInterval is how often the scheduler sweeps staged report
	// days; 0 disables the scheduler (on-demand processing only)
	ProcessInterval time.Duration

	// Thresholds is the ETL threshold table, threaded explicitly into
	// every aggregator call
	Thresholds etl.Thresholds
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	wsReadTimeout, err := strconv.Atoi(getEnv("WS_READ_TIMEOUT", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_READ_TIMEOUT: %w", err)
	}
	config.WSReadTimeout = time.Duration(wsReadTimeout) * time.Second

	wsWriteTimeout, err := strconv.Atoi(getEnv("WS_WRITE_TIMEOUT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_WRITE_TIMEOUT: %w", err)
	}
	config.WSWriteTimeout = time.Duration(wsWriteTimeout) * time.Second

	config.PongWait = config.WSReadTimeout
	config.PingPeriod = (config.PongWait * 9) / 10 // Must be less than pongWait
	config.WriteWait = config.WSWriteTimeout
	config.MaxMessageSize = 512

	processInterval, err := strconv.Atoi(getEnv("PROCESS_INTERVAL", "300"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROCESS_INTERVAL: %w", err)
	}
	config.ProcessInterval = time.Duration(processInterval) * time.Second

	config.Thresholds, err = loadThresholds()
	if err != nil {
		return nil, err
	}

	for i, origin := range config.AllowedOrigins {
		config.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	return config, nil
}

// loadThresholds applies env overrides on top of the ETL defaults
func loadThresholds() (etl.Thresholds, error) {
	th := etl.DefaultThresholds()

	floats := []struct {
		key string
		dst *float64
	}{
		{"ETL_MIN_HOURS_QUALIFIED", &th.MinHoursQualified},
		{"ETL_MIN_HOURS_COACHING", &th.MinHoursCoaching},
		{"ETL_ZERO_TRANSFER_MIN_HOURS", &th.ZeroTransferMinHours},
		{"ETL_DEAD_AIR_WARNING", &th.DeadAirRatioWarning},
		{"ETL_DEAD_AIR_CRITICAL", &th.DeadAirRatioCritical},
		{"ETL_HUNG_UP_WARNING", &th.HungUpRatioWarning},
		{"ETL_HUNG_UP_CRITICAL", &th.HungUpRatioCritical},
	}
	for _, f := range floats {
		raw := os.Getenv(f.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return th, fmt.Errorf("invalid %s: %w", f.key, err)
		}
		*f.dst = v
	}

	if raw := os.Getenv("ETL_MIN_CONNECTS_ANOMALY"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return th, fmt.Errorf("invalid ETL_MIN_CONNECTS_ANOMALY: %w", err)
		}
		th.MinConnectsAnomaly = v
	}

	if raw := os.Getenv("ETL_WASTE_DISPOSITIONS"); raw != "" {
		var keys []string
		for _, label := range strings.Split(raw, ",") {
			if key := etl.NormalizeKey(label); key != "" {
				keys = append(keys, key)
			}
		}
		th.WasteDispositions = keys
	}

	return th, nil
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
