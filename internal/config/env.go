package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds settings taken from the process environment.
type Env struct {
	DataDir   string `env:"ORBITSIM_DATA_DIR" envDefault:"runs"`
	Precision int    `env:"ORBITSIM_PRECISION"`
	LogLevel  string `env:"ORBITSIM_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func LoadEnv() (Env, error) {
	var e Env
	err := ParseEnv(&e)
	return e, err
}
