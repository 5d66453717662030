package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(dir string) Config {
	return Config{
		Port:               "8080",
		Backend:            "memory",
		BackendURL:         "http://localhost:3000",
		SessionDBPath:      filepath.Join(dir, "sessions.db"),
		SessionTTL:         time.Hour,
		CacheTTL:           30 * time.Second,
		CacheMaxSize:       256,
		RateLimitPerMinute: 60,
		DefaultLanguage:    "en",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid memory backend config",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid rest backend config",
			mutate: func(c *Config) { c.Backend = "rest" },
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid backend",
			mutate:      func(c *Config) { c.Backend = "postgres" },
			wantErr:     true,
			errorString: "invalid backend 'postgres': must be one of [memory rest]",
		},
		{
			name: "rest backend missing URL",
			mutate: func(c *Config) {
				c.Backend = "rest"
				c.BackendURL = ""
			},
			wantErr:     true,
			errorString: "backend URL cannot be empty when using rest backend",
		},
		{
			name: "rest backend bad URL scheme",
			mutate: func(c *Config) {
				c.Backend = "rest"
				c.BackendURL = "ftp://example.com"
			},
			wantErr:     true,
			errorString: "invalid backend URL scheme 'ftp': must be 'http' or 'https'",
		},
		{
			name:        "empty session db path",
			mutate:      func(c *Config) { c.SessionDBPath = "" },
			wantErr:     true,
			errorString: "session database path cannot be empty",
		},
		{
			name:        "session TTL too short",
			mutate:      func(c *Config) { c.SessionTTL = 10 * time.Second },
			wantErr:     true,
			errorString: "must be at least 1 minute",
		},
		{
			name:        "cache TTL too short",
			mutate:      func(c *Config) { c.CacheTTL = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid cache TTL 100ms: must be at least 1 second",
		},
		{
			name:        "cache max size too small",
			mutate:      func(c *Config) { c.CacheMaxSize = 0 },
			wantErr:     true,
			errorString: "invalid cache max size 0: must be at least 1",
		},
		{
			name:        "rate limit too small",
			mutate:      func(c *Config) { c.RateLimitPerMinute = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0: must be at least 1 per minute",
		},
		{
			name:        "unsupported language",
			mutate:      func(c *Config) { c.DefaultLanguage = "fr" },
			wantErr:     true,
			errorString: "invalid default language 'fr': must be 'en' or 'it'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t.TempDir())
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Config.Validate() error = nil, wantErr true")
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err, tt.errorString)
				}
				return
			}
			if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr false", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8080" {
			t.Errorf("Load() Port = %v, want 8080", cfg.Port)
		}
		if cfg.Backend != "memory" {
			t.Errorf("Load() Backend = %v, want memory", cfg.Backend)
		}
		if cfg.SessionTTL != 12*time.Hour {
			t.Errorf("Load() SessionTTL = %v, want 12h", cfg.SessionTTL)
		}
		if cfg.DefaultLanguage != "en" {
			t.Errorf("Load() DefaultLanguage = %v, want en", cfg.DefaultLanguage)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("BACKEND", "rest")
		t.Setenv("BACKEND_URL", "https://api.example.com")
		t.Setenv("SESSION_TTL", "2h")
		t.Setenv("CACHE_MAX_SIZE", "64")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.Backend != "rest" {
			t.Errorf("Load() Backend = %v, want rest", cfg.Backend)
		}
		if cfg.BackendURL != "https://api.example.com" {
			t.Errorf("Load() BackendURL = %v, want https://api.example.com", cfg.BackendURL)
		}
		if cfg.SessionTTL != 2*time.Hour {
			t.Errorf("Load() SessionTTL = %v, want 2h", cfg.SessionTTL)
		}
		if cfg.CacheMaxSize != 64 {
			t.Errorf("Load() CacheMaxSize = %v, want 64", cfg.CacheMaxSize)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		t.Setenv("SESSION_TTL", "invalid")
		t.Setenv("CACHE_MAX_SIZE", "invalid")

		cfg := Load()

		if cfg.SessionTTL != 12*time.Hour {
			t.Errorf("Load() SessionTTL = %v, want 12h (default for invalid input)", cfg.SessionTTL)
		}
		if cfg.CacheMaxSize != 256 {
			t.Errorf("Load() CacheMaxSize = %v, want 256 (default for invalid input)", cfg.CacheMaxSize)
		}
	})
}
