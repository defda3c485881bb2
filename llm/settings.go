package llm

import (
	"strings"

	"github.com/kbukum/inkflow/logger"
	"github.com/kbukum/inkflow/util"
	"github.com/kbukum/inkflow/validation"
)

const defaultProvider = "openai"

// Settings is the user's provider configuration. The core only reads it;
// the settings surface owns mutation.
type Settings struct {
	Provider  string                      `yaml:"provider" mapstructure:"provider" validate:"required"`
	Model     string                      `yaml:"model" mapstructure:"model" validate:"max=128"`
	Providers map[string]ProviderSettings `yaml:"providers" mapstructure:"providers" validate:"dive"`
}

// ProviderSettings holds the per-provider overrides. Nil pointers mean
// "use the registry default".
type ProviderSettings struct {
	APIKey      string   `yaml:"api_key" mapstructure:"api_key"`
	Endpoint    string   `yaml:"endpoint" mapstructure:"endpoint"`
	Temperature *float64 `yaml:"temperature" mapstructure:"temperature" validate:"omitempty,gte=0,lte=2"`
	Stream      *bool    `yaml:"stream" mapstructure:"stream"`
}

// ApplyDefaults selects the default provider when none is set.
func (s *Settings) ApplyDefaults() {
	if strings.TrimSpace(s.Provider) == "" {
		s.Provider = defaultProvider
	}
}

// Validate checks field ranges and that every referenced provider exists.
// A model outside the provider's catalog is allowed but logged.
func (s *Settings) Validate() error {
	if err := validation.Validate(s); err != nil {
		return err
	}

	ids := ProviderIDs()
	v := validation.New().OneOf("provider", s.Provider, ids)
	for id, ps := range s.Providers {
		v.OneOf("providers."+id, id, ids)
		v.OptionalURL("providers."+id+".endpoint", ps.Endpoint)
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}

	if p, err := Lookup(s.Provider); err == nil && s.Model != "" && len(p.Models) > 0 && !p.HasModel(s.Model) {
		logger.Get(logger.ComponentConfig).Warn("model not in provider catalog", logger.Fields(
			logger.FieldProvider, p.ID,
			logger.FieldModel, s.Model,
		))
	}
	return nil
}

// For returns the overrides for provider id (zero value if none).
func (s Settings) For(id string) ProviderSettings {
	return s.Providers[id]
}

// Streaming reports whether requests to p should stream.
func (s Settings) Streaming(p ProviderConfig) bool {
	if ps := s.For(p.ID); ps.Stream != nil {
		return *ps.Stream
	}
	return p.DefaultStreaming
}

// ModelFor returns the selected model, falling back to the catalog default.
func (s Settings) ModelFor(p ProviderConfig) string {
	return util.FirstNonBlank(s.Model, p.DefaultModel())
}

// EndpointFor returns the override if non-blank, else the registry default.
// The result may be empty.
func (s Settings) EndpointFor(p ProviderConfig) string {
	return util.FirstNonBlank(s.For(p.ID).Endpoint, p.Endpoint)
}

// ResetEndpoint clears the override for id so the registry default applies.
func (s *Settings) ResetEndpoint(id string) error {
	p, err := Lookup(id)
	if err != nil {
		return err
	}
	ps, ok := s.Providers[p.ID]
	if !ok {
		return nil
	}
	ps.Endpoint = ""
	s.Providers[p.ID] = ps
	return nil
}

// SelectProvider switches provider and resets the model to its catalog
// default, mirroring the settings dropdown.
func (s *Settings) SelectProvider(id string) error {
	p, err := Lookup(id)
	if err != nil {
		return err
	}
	s.Provider = p.ID
	s.Model = p.DefaultModel()
	return nil
}
