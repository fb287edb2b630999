package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every environment setting.
const EnvPrefix = "COURIER"

// Env holds settings read from COURIER_* environment variables. They fill
// in flags the user did not set.
type Env struct {
	Timeout  time.Duration `envconfig:"TIMEOUT"`
	NoColor  bool          `envconfig:"NO_COLOR"`
	LogLevel string        `envconfig:"LOG_LEVEL"`
	Profile  string        `envconfig:"PROFILE"`
	Format   string        `envconfig:"FORMAT"`
}

// LoadEnv reads the COURIER_* variables.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Env{}, fmt.Errorf("failed to load environment: %w", err)
	}
	return env, nil
}
