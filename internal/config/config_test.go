package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"version 1", func(c *Config) { c.Version = 1 }, true},
		{"version 3", func(c *Config) { c.Version = 3 }, false},
		{"uncapped", func(c *Config) { c.MaxConns = 0 }, true},
		{"negative cap", func(c *Config) { c.MaxConns = -1 }, false},
		{"empty addr", func(c *Config) { c.Addr = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadWritesAndReadsDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, resolved, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg != Default() {
		t.Fatalf("first load should yield defaults, got %+v", cfg)
	}

	// Second load reads the file written by the first.
	cfg, _, err = Load(nil, path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("reload should still yield defaults, got %+v", cfg)
	}
}
