// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvOption adjusts how ParseEnv reads variables.
type EnvOption func(*env.Options)

// WithEnvironment reads variables from vars instead of the process
// environment.
func WithEnvironment(vars map[string]string) EnvOption {
	return func(opts *env.Options) {
		opts.Environment = vars
	}
}

// ParseEnv fills target, a pointer to a struct with `env` tags, from
// environment variables. Values already set on target are kept when a
// variable is unset and has no envDefault.
func ParseEnv(target any, options ...EnvOption) error {
	if target == nil {
		return errors.New("parse env: target is required")
	}
	var opts env.Options
	for _, option := range options {
		option(&opts)
	}
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
