package bootstrap

import (
	"github.com/kbukum/inkflow/config"
	"github.com/kbukum/inkflow/logger"
)

// Config is the constraint for application configuration types.
//
//	type AppConfig struct {
//	    Base    config.BaseConfig `yaml:"base" mapstructure:"base"`
//	    Logging logger.Config     `yaml:"logging" mapstructure:"logging"`
//	}
//
//	func (c *AppConfig) GetBaseConfig() *config.BaseConfig { return &c.Base }
//	func (c *AppConfig) GetLoggingConfig() *logger.Config  { return &c.Logging }
type Config interface {
	GetBaseConfig() *config.BaseConfig
	GetLoggingConfig() *logger.Config
	ApplyDefaults()
	Validate() error
}
