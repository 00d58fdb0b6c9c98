package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envFile is loaded into the process environment when present. Variables
// already set in the environment win.
var envFile = ".env"

// parseEnv overlays Config fields from environment variables named by the
// `env` struct tags. Unset variables leave the current value untouched.
// A malformed value panics, like the other config layers.
func parseEnv(config *Config) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
