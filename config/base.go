package config

import (
	"github.com/kbukum/inkflow/validation"
)

// Environments accepted in base.environment.
var Environments = []string{"development", "staging", "production"}

// BaseConfig identifies the running host in logs, telemetry and the
// startup summary.
type BaseConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	// Debug raises the log level to debug regardless of logging.level.
	Debug bool `yaml:"debug" mapstructure:"debug"`
}

// ApplyDefaults names the host "inkflow" in production. A CLI runs on user
// machines, so development has to be asked for.
func (c *BaseConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "inkflow"
	}
	if c.Environment == "" {
		c.Environment = "production"
	}
}

// Validate requires a name and a known environment.
func (c *BaseConfig) Validate() error {
	v := validation.New().
		Required("base.name", c.Name).
		Required("base.environment", c.Environment).
		OneOf("base.environment", c.Environment, Environments)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
