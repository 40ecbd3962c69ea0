/*
Package config loads server settings from the environment.

ENVIRONMENT:
  PORT             HTTP port (default 8080)
  DB_PATH          SQLite path, ":memory:" for an ephemeral store (default console.db)
  LOG_LEVEL        debug | info | warn | error (default info)
  LOG_FORMAT       json | console (default json)
  BUILDING_FILE    JSON building definition; empty uses the built-in demo
  TIMEZONE         IANA zone that defines "today" (default Asia/Tokyo)
  SLOT_START_HOUR  First viewing slot hour (default 9)
  SLOT_END_HOUR    Hour the last slot ends (default 18)
  CORS_ORIGINS     Comma separated allowed origins

Command-line flags in cmd/server override these values.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port          int      `env:"PORT" envDefault:"8080"`
	DBPath        string   `env:"DB_PATH" envDefault:"console.db"`
	LogLevel      string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string   `env:"LOG_FORMAT" envDefault:"json"`
	BuildingFile  string   `env:"BUILDING_FILE"`
	Timezone      string   `env:"TIMEZONE" envDefault:"Asia/Tokyo"`
	SlotStartHour int      `env:"SLOT_START_HOUR" envDefault:"9"`
	SlotEndHour   int      `env:"SLOT_END_HOUR" envDefault:"18"`
	CORSOrigins   []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:8080"`
}

// Load reads the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges that the env tags cannot express.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.SlotStartHour < 0 || c.SlotEndHour > 24 || c.SlotStartHour >= c.SlotEndHour {
		return fmt.Errorf("invalid slot hours %d-%d", c.SlotStartHour, c.SlotEndHour)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves Timezone. Validate has already checked it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Clock returns "now" in the configured zone, so calendar days roll over
// at local midnight.
func (c Config) Clock() func() time.Time {
	loc := c.Location()
	return func() time.Time { return time.Now().In(loc) }
}
