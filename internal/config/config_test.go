package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "default values",
			env:  map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Port != "8080" {
					t.Errorf("expected port 8080, got %s", cfg.Port)
				}
				if cfg.LogLevel != "info" {
					t.Errorf("expected log level info, got %s", cfg.LogLevel)
				}
				if cfg.ProcessInterval != 5*time.Minute {
					t.Errorf("expected ProcessInterval 5m, got %v", cfg.ProcessInterval)
				}
				if cfg.Thresholds.MinHoursQualified != 4 {
					t.Errorf("expected default MinHoursQualified 4, got %v", cfg.Thresholds.MinHoursQualified)
				}
			},
		},
		{
			name: "custom values",
			env: map[string]string{
				"PORT":                    "9000",
				"LOG_LEVEL":               "debug",
				"PROCESS_INTERVAL":        "60",
				"ALLOWED_ORIGINS":         "http://example.com,http://test.com",
				"ETL_MIN_HOURS_QUALIFIED": "3.5",
				"ETL_MIN_CONNECTS_ANOMALY": "50",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Port != "9000" {
					t.Errorf("expected port 9000, got %s", cfg.Port)
				}
				if cfg.ProcessInterval != time.Minute {
					t.Errorf("expected ProcessInterval 1m, got %v", cfg.ProcessInterval)
				}
				if len(cfg.AllowedOrigins) != 2 {
					t.Errorf("expected 2 allowed origins, got %d", len(cfg.AllowedOrigins))
				}
				if cfg.Thresholds.MinHoursQualified != 3.5 {
					t.Errorf("expected MinHoursQualified 3.5, got %v", cfg.Thresholds.MinHoursQualified)
				}
				if cfg.Thresholds.MinConnectsAnomaly != 50 {
					t.Errorf("expected MinConnectsAnomaly 50, got %d", cfg.Thresholds.MinConnectsAnomaly)
				}
			},
		},
		{
			name: "waste dispositions normalized",
			env: map[string]string{
				"ETL_WASTE_DISPOSITIONS": "Dead Air,Hung Up Transfer",
			},
			check: func(t *testing.T, cfg *Config) {
				want := []string{"dead_air", "hung_up_transfer"}
				if len(cfg.Thresholds.WasteDispositions) != len(want) {
					t.Fatalf("expected %d waste dispositions, got %d", len(want), len(cfg.Thresholds.WasteDispositions))
				}
				for i, k := range want {
					if cfg.Thresholds.WasteDispositions[i] != k {
						t.Errorf("waste[%d] = %s, want %s", i, cfg.Thresholds.WasteDispositions[i], k)
					}
				}
			},
		},
		{
			name: "invalid PROCESS_INTERVAL",
			env: map[string]string{
				"PROCESS_INTERVAL": "invalid",
			},
			wantErr: true,
		},
		{
			name: "invalid threshold override",
			env: map[string]string{
				"ETL_DEAD_AIR_WARNING": "lots",
			},
			wantErr: true,
		},
		{
			name: "invalid WS_READ_TIMEOUT",
			env: map[string]string{
				"WS_READ_TIMEOUT": "invalid",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestWebSocketConstants(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.PongWait != cfg.WSReadTimeout {
		t.Errorf("PongWait (%v) should equal WSReadTimeout (%v)", cfg.PongWait, cfg.WSReadTimeout)
	}
	if cfg.PingPeriod >= cfg.PongWait {
		t.Errorf("PingPeriod (%v) should be less than PongWait (%v)", cfg.PingPeriod, cfg.PongWait)
	}
	if cfg.MaxMessageSize <= 0 {
		t.Errorf("MaxMessageSize should be positive, got %d", cfg.MaxMessageSize)
	}
}
