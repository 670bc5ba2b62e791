package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the host configuration read from the environment. Flags
// override it.
type Config struct {
	// DB is the default journal for run and trace.
	DB string `env:"WEREWOLF_DB"`

	Format  string `env:"WEREWOLF_FORMAT"  envDefault:"text"`
	Verbose bool   `env:"WEREWOLF_VERBOSE"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{Format: "text"}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
