// Package config loads inkflow configuration from a YAML file, an optional
// .env file and the process environment.
//
// Environment variables override file values. Each variable is bound under
// every plausible nesting of its underscore-separated name, so
// AI_PROVIDERS_OPENAI_API_KEY reaches ai.providers.openai.api_key.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("inkflow", &cfg, config.WithConfigFile(path))
package config
