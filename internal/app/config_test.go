package app

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must be valid, got %v", err)
	}
	if cfg.SessionDuration != 5*time.Minute {
		t.Fatalf("expected 5m session, got %v", cfg.SessionDuration)
	}
	if !cfg.ConsoleOutput {
		t.Fatal("console output must default to enabled")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mut     func(cfg *Config)
		wantErr bool
	}{
		{
			name: "valid with kafka",
			mut: func(cfg *Config) {
				cfg.KafkaBrokers = []string{"localhost:9092"}
				cfg.KafkaTopic = "ecommerce-sales"
			},
		},
		{
			name: "zero duration allowed",
			mut: func(cfg *Config) {
				cfg.SessionDuration = 0
			},
		},
		{
			name: "negative duration",
			mut: func(cfg *Config) {
				cfg.SessionDuration = -time.Minute
			},
			wantErr: true,
		},
		{
			name: "zero min delay",
			mut: func(cfg *Config) {
				cfg.MinOrderDelay = 0
			},
			wantErr: true,
		},
		{
			name: "max delay below min",
			mut: func(cfg *Config) {
				cfg.MinOrderDelay = time.Minute
				cfg.MaxOrderDelay = time.Second
			},
			wantErr: true,
		},
		{
			name: "probability out of range",
			mut: func(cfg *Config) {
				cfg.CancelProbability = 1.5
			},
			wantErr: true,
		},
		{
			name: "brokers without topic",
			mut: func(cfg *Config) {
				cfg.KafkaBrokers = []string{"localhost:9092"}
			},
			wantErr: true,
		},
		{
			name: "topic without brokers",
			mut: func(cfg *Config) {
				cfg.KafkaTopic = "ecommerce-sales"
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mut(&cfg)

			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
