// Package config provides YAML-based configuration loading with environment variable expansion.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation. Load invokes it on
// the target after decoding when the target implements it.
type Validator interface {
	Validate() error
}

// Load loads configuration from a YAML file into target. Values of the form
// $VAR or ${VAR} anywhere in the file are replaced from the environment
// before decoding, so secrets can stay out of the file itself.
//
// The error from a missing file wraps os.ErrNotExist, letting callers decide
// whether absence is fatal or means "run on defaults".
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expandedData := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expandedData), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}
