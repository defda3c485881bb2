package main

import (
	"fmt"

	"github.com/kbukum/inkflow/config"
	"github.com/kbukum/inkflow/httpclient"
	"github.com/kbukum/inkflow/llm"
	"github.com/kbukum/inkflow/logger"
	"github.com/kbukum/inkflow/observability"
	"github.com/kbukum/inkflow/util"
	"github.com/kbukum/inkflow/version"
)

// AppConfig is the full inkflow configuration, loaded from inkflow.yml,
// .env and the environment (AI_PROVIDERS_OPENAI_API_KEY and friends).
type AppConfig struct {
	Base      config.BaseConfig    `yaml:"base" mapstructure:"base"`
	Logging   logger.Config        `yaml:"logging" mapstructure:"logging"`
	AI        llm.Settings         `yaml:"ai" mapstructure:"ai"`
	Transport httpclient.Config    `yaml:"transport" mapstructure:"transport"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

func (c *AppConfig) GetBaseConfig() *config.BaseConfig { return &c.Base }
func (c *AppConfig) GetLoggingConfig() *logger.Config  { return &c.Logging }

// ApplyDefaults fills every section.
func (c *AppConfig) ApplyDefaults() {
	c.Base.ApplyDefaults()
	if c.Base.Version == "" {
		c.Base.Version = version.Version
	}
	c.Logging.ApplyDefaults()
	c.AI.ApplyDefaults()
	c.Transport.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks every section, naming the failing one.
func (c *AppConfig) Validate() error {
	if err := c.Base.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.AI.Validate(); err != nil {
		return fmt.Errorf("ai: %w", err)
	}
	if err := c.Transport.Validate(); err != nil {
		return err
	}
	return c.Telemetry.Validate()
}

// overrides are the command-line values that win over file and environment.
type overrides struct {
	provider    string
	model       string
	noStream    bool
	debug       bool
	hasProvider bool
	hasModel    bool
}

// apply writes the overrides into cfg. Selecting a provider resets the
// model to that provider's default unless a model is given too.
func (o overrides) apply(cfg *AppConfig) error {
	if o.debug {
		cfg.Base.Debug = true
	}
	if o.hasProvider {
		if err := cfg.AI.SelectProvider(o.provider); err != nil {
			return err
		}
	}
	if o.hasModel {
		cfg.AI.Model = o.model
	}
	if o.noStream {
		cfg.AI.ApplyDefaults()
		if cfg.AI.Providers == nil {
			cfg.AI.Providers = make(map[string]llm.ProviderSettings)
		}
		ps := cfg.AI.Providers[cfg.AI.Provider]
		ps.Stream = util.Ptr(false)
		cfg.AI.Providers[cfg.AI.Provider] = ps
	}
	return nil
}

func loadConfig(configFile, envFile string) (*AppConfig, error) {
	var cfg AppConfig
	err := config.LoadConfig("inkflow", &cfg,
		config.WithConfigFile(configFile),
		config.WithEnvFile(envFile),
		config.WithDefault("base.name", "inkflow"),
		config.WithDefault("base.version", version.Version),
	)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
