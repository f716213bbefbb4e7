package config

import (
	"fmt"
	"time"
)

// Config holds server configuration values. Version and MaxConns are
// protocol policy: version 1 runs uncapped, version 2 normally caps
// simultaneous connections (MaxConns 0 disables the cap either way).
type Config struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	Version         int           `mapstructure:"version" yaml:"version"`
	MaxConns        int           `mapstructure:"max_conns" yaml:"max_conns"`
	DatabasePath    string        `mapstructure:"database_path" yaml:"database_path"`
	LogLevel        string        `mapstructure:"log_level" yaml:"log_level"`
	AdminAddr       string        `mapstructure:"admin_addr" yaml:"admin_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:            ":19150",
		Version:         2,
		MaxConns:        64,
		DatabasePath:    "chatwire.db",
		LogLevel:        "info",
		AdminAddr:       "",
		ShutdownTimeout: 5 * time.Second,
	}
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	if c.Version != 1 && c.Version != 2 {
		return fmt.Errorf("config: version must be 1 or 2, got %d", c.Version)
	}
	if c.MaxConns < 0 {
		return fmt.Errorf("config: max_conns must not be negative, got %d", c.MaxConns)
	}
	if c.Addr == "" {
		return fmt.Errorf("config: addr must not be empty")
	}
	return nil
}
