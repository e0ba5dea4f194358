package config

import (
	"errors"
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want %d", cfg.Workers, DefaultWorkers)
	}
	if cfg.MaxDepth != DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want %d", cfg.MaxDepth, DefaultMaxDepth)
	}
	if cfg.TopicThreshold != DefaultTopicThreshold {
		t.Errorf("TopicThreshold = %v, want %v", cfg.TopicThreshold, DefaultTopicThreshold)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.CacheTTL != DefaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", cfg.CacheTTL, DefaultCacheTTL)
	}
	if cfg.CacheMaxEntries != DefaultCacheMaxEntries {
		t.Errorf("CacheMaxEntries = %d, want %d", cfg.CacheMaxEntries, DefaultCacheMaxEntries)
	}
	if len(cfg.Presets) == 0 {
		t.Error("Presets should be populated with built-ins")
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "valid defaults",
			mutate:  func(_ *Config) {},
			wantErr: nil,
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Workers = 0 },
			wantErr: ErrInvalidWorkerCount,
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Workers = -3 },
			wantErr: ErrInvalidWorkerCount,
		},
		{
			name:    "unbounded depth is valid",
			mutate:  func(c *Config) { c.MaxDepth = -1 },
			wantErr: nil,
		},
		{
			name:    "depth below sentinel",
			mutate:  func(c *Config) { c.MaxDepth = -2 },
			wantErr: ErrInvalidDepth,
		},
		{
			name:    "topic threshold above one",
			mutate:  func(c *Config) { c.TopicThreshold = 1.5 },
			wantErr: ErrInvalidThreshold,
		},
		{
			name:    "negative link threshold",
			mutate:  func(c *Config) { c.LinkThreshold = -0.1 },
			wantErr: ErrInvalidThreshold,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "zero cache TTL",
			mutate:  func(c *Config) { c.CacheTTL = 0 },
			wantErr: ErrInvalidCacheTTL,
		},
		{
			name:    "zero cache cap",
			mutate:  func(c *Config) { c.CacheMaxEntries = 0 },
			wantErr: ErrInvalidCacheSize,
		},
		{
			name:    "zero max results",
			mutate:  func(c *Config) { c.MaxResults = 0 },
			wantErr: ErrInvalidMaxResults,
		},
		{
			name:    "negative body size",
			mutate:  func(c *Config) { c.MaxBodySize = -1 },
			wantErr: ErrInvalidMaxBodySize,
		},
		{
			name:    "negative rate",
			mutate:  func(c *Config) { c.RequestsPerSecond = -1 },
			wantErr: ErrInvalidRate,
		},
		{
			name:    "unknown preset",
			mutate:  func(c *Config) { c.DomainPreset = "no-such-preset" },
			wantErr: ErrUnknownPreset,
		},
		{
			name:    "known preset",
			mutate:  func(c *Config) { c.DomainPreset = "github" },
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateRejectsBeforeWork(t *testing.T) {
	t.Parallel()

	// A config with multiple problems reports the first one deterministically.
	cfg := NewConfig()
	cfg.Workers = 0
	cfg.Timeout = -time.Second

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidWorkerCount) {
		t.Errorf("Validate() = %v, want %v", err, ErrInvalidWorkerCount)
	}
}
