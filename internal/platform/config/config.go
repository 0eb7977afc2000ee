// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (API client, vault) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Vault backend selectors for SessionBackend.
const (
	SessionBackendFile  = "file"
	SessionBackendRedis = "redis"
)

// # Configuration Schema

// Config holds all runtime configuration for the Forgeline console.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// APIBaseURL is the base URL of the remote MES REST API.
	// It is the single upstream the console talks to; there is no
	// runtime override once the process has started.
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:4000/api"`

	// Session vault backend: "file" (default) or "redis".
	SessionBackend string `env:"SESSION_BACKEND" envDefault:"file"`

	// SessionFilePath is the durable session record location for the file backend.
	SessionFilePath string `env:"SESSION_FILE_PATH" envDefault:"./data/session.json"`

	// RedisURL is required only when SessionBackend is "redis".
	RedisURL string `env:"REDIS_URL"`

	// SessionKey namespaces the durable record so multiple console
	// instances can share one Redis without clobbering each other.
	SessionKey string `env:"SESSION_KEY" envDefault:"default"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	// The redis backend cannot function without an address.
	if cfg.SessionBackend == SessionBackendRedis && cfg.RedisURL == "" {
		return nil, fmt.Errorf("config: SESSION_BACKEND=redis requires REDIS_URL")
	}

	return cfg, nil
}

// IsDevelopment reports whether the console is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the console is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
