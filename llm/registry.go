package llm

import (
	"github.com/kbukum/inkflow/errors"
)

// Model is one entry of a provider's model catalog.
type Model struct {
	ID   string
	Name string
}

// ProviderConfig describes one selectable provider. Values returned by
// Lookup and Providers are copies of the static table.
type ProviderConfig struct {
	ID               string
	DisplayName      string
	Endpoint         string
	Family           Family
	Models           []Model
	DefaultStreaming bool
	RequiresKey      bool
}

// DefaultModel returns the first catalog entry, or "" for an empty catalog.
func (p ProviderConfig) DefaultModel() string {
	if len(p.Models) == 0 {
		return ""
	}
	return p.Models[0].ID
}

// HasModel reports whether id is in the catalog.
func (p ProviderConfig) HasModel(id string) bool {
	for _, m := range p.Models {
		if m.ID == id {
			return true
		}
	}
	return false
}

var moonshotModels = []Model{
	{ID: "moonshot-v1-8k", Name: "Moonshot V1 8K"},
	{ID: "moonshot-v1-32k", Name: "Moonshot V1 32K"},
	{ID: "moonshot-v1-128k", Name: "Moonshot V1 128K"},
}

// providers is the static registry in display order.
var providers = []ProviderConfig{
	{
		ID:          "openai",
		DisplayName: "OpenAI",
		Endpoint:    "https://api.openai.com/v1/chat/completions",
		Family:      FamilyOpenAI,
		Models: []Model{
			{ID: "gpt-4", Name: "GPT-4"},
			{ID: "gpt-4-turbo", Name: "GPT-4 Turbo"},
			{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo"},
		},
		DefaultStreaming: true,
		RequiresKey:      true,
	},
	{
		ID:          "claude",
		DisplayName: "Claude",
		Endpoint:    "https://api.anthropic.com/v1/messages",
		Family:      FamilyAnthropic,
		Models: []Model{
			{ID: "claude-3-opus", Name: "Claude 3 Opus"},
			{ID: "claude-3-sonnet", Name: "Claude 3 Sonnet"},
			{ID: "claude-2.1", Name: "Claude 2.1"},
		},
		DefaultStreaming: true,
		RequiresKey:      true,
	},
	{
		ID:               "kimi",
		DisplayName:      "Kimi",
		Endpoint:         "https://api.moonshot.cn/v1/chat/completions",
		Family:           FamilyOpenAI,
		Models:           moonshotModels,
		DefaultStreaming: true,
		RequiresKey:      true,
	},
	{
		ID:          "chatglm",
		DisplayName: "ChatGLM",
		Endpoint:    "https://open.bigmodel.cn/api/paas/v4/chat/completions",
		Family:      FamilyZhipu,
		Models: []Model{
			{ID: "glm-4", Name: "GLM-4"},
			{ID: "glm-3-turbo", Name: "GLM-3 Turbo"},
		},
		DefaultStreaming: true,
		RequiresKey:      true,
	},
	{
		ID:          "deepseek",
		DisplayName: "DeepSeek",
		Endpoint:    "https://api.deepseek.com/v1/chat/completions",
		Family:      FamilyOpenAI,
		Models: []Model{
			{ID: "deepseek-chat", Name: "DeepSeek Chat"},
			{ID: "deepseek-coder", Name: "DeepSeek Coder"},
		},
		DefaultStreaming: true,
		RequiresKey:      true,
	},
	{
		ID:          "azure",
		DisplayName: "Azure OpenAI",
		Family:      FamilyAzure,
		Models: []Model{
			{ID: "gpt-4", Name: "GPT-4"},
			{ID: "gpt-35-turbo", Name: "GPT-3.5 Turbo"},
		},
		DefaultStreaming: true,
		RequiresKey:      true,
	},
	{
		ID:               "moonshot",
		DisplayName:      "Moonshot",
		Endpoint:         "https://api.moonshot.cn/v1/chat/completions",
		Family:           FamilyOpenAI,
		Models:           moonshotModels,
		DefaultStreaming: true,
		RequiresKey:      true,
	},
	{
		ID:          "ollama",
		DisplayName: "Ollama",
		Endpoint:    "http://localhost:11434/api/chat",
		Family:      FamilyOllama,
		Models: []Model{
			{ID: "llama3", Name: "Llama 3"},
			{ID: "qwen2.5", Name: "Qwen 2.5"},
		},
		DefaultStreaming: true,
	},
	{
		ID:               "custom",
		DisplayName:      "Custom (OpenAI-compatible)",
		Family:           FamilyOpenAI,
		DefaultStreaming: true,
	},
}

// Lookup returns the provider registered under id.
func Lookup(id string) (ProviderConfig, error) {
	for _, p := range providers {
		if p.ID == id {
			return p.clone(), nil
		}
	}
	return ProviderConfig{}, errors.UnknownProvider(id)
}

// Providers lists every provider in display order.
func Providers() []ProviderConfig {
	out := make([]ProviderConfig, len(providers))
	for i, p := range providers {
		out[i] = p.clone()
	}
	return out
}

// ProviderIDs lists the registered ids in display order.
func ProviderIDs() []string {
	ids := make([]string, len(providers))
	for i, p := range providers {
		ids[i] = p.ID
	}
	return ids
}

func (p ProviderConfig) clone() ProviderConfig {
	p.Models = append([]Model(nil), p.Models...)
	return p
}
