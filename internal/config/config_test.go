package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.StorageDriver != "file" {
		t.Errorf("StorageDriver = %q, want file", cfg.StorageDriver)
	}
	if cfg.MaxLinks != 5 {
		t.Errorf("MaxLinks = %d, want 5", cfg.MaxLinks)
	}
	if cfg.DefaultValidityMinutes != 30 {
		t.Errorf("DefaultValidityMinutes = %d, want 30", cfg.DefaultValidityMinutes)
	}
	if cfg.ShortCodeLength != 6 {
		t.Errorf("ShortCodeLength = %d, want 6", cfg.ShortCodeLength)
	}
	if cfg.GeoLookupTimeout != 5*time.Second {
		t.Errorf("GeoLookupTimeout = %v, want 5s", cfg.GeoLookupTimeout)
	}
	if cfg.IsProduction() {
		t.Error("default env must not be production")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("MAX_LINKS", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.StorageDriver != "memory" {
		t.Errorf("StorageDriver = %q, want memory", cfg.StorageDriver)
	}
	if cfg.MaxLinks != 10 {
		t.Errorf("MaxLinks = %d, want 10", cfg.MaxLinks)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[0] != "https://a.example" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"bad driver", "STORAGE_DRIVER", "cassandra"},
		{"bad port", "APP_PORT", "-1"},
		{"code too short", "SHORT_CODE_LENGTH", "2"},
		{"code too long", "SHORT_CODE_LENGTH", "11"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load accepted %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestPostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("postgres driver accepted without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/linkpocket")
	if _, err := Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
}
