package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/inkflow/logger"
)

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	UserConfigDir() (string, error)
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

func (rfs *RealFileSystem) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

// Resolver handles finding and resolving config and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles finds config and env files for an application.
// Returns explicit paths if provided, otherwise searches for them.
func (cr *Resolver) ResolveFiles(appName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}

	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.findConfigFile(appName)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.findEnvFile(appName)
	}

	return resolved
}

// findConfigFile searches for <app>.yml in the working tree, then in the
// user's config directory.
func (cr *Resolver) findConfigFile(appName string) string {
	file := appName + ".yml"
	searchPaths := []string{
		"./" + file,
		"./config/" + file,
		fmt.Sprintf("./cmd/%s/%s", appName, file),
		"../" + file,
	}
	if dir, err := cr.FileSystem.UserConfigDir(); err == nil && dir != "" {
		searchPaths = append(searchPaths, filepath.Join(dir, appName, "config.yml"))
	}

	for _, path := range searchPaths {
		if cr.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// findEnvFile searches for .env files in standard locations.
func (cr *Resolver) findEnvFile(appName string) string {
	envFiles := []string{
		fmt.Sprintf(".env.%s", appName),
		".env",
	}
	searchPaths := []string{".", "./config", fmt.Sprintf("./cmd/%s", appName), ".."}

	for _, envFile := range envFiles {
		for _, basePath := range searchPaths {
			fullPath := basePath + "/" + envFile
			if cr.FileSystem.Exists(fullPath) {
				return fullPath
			}
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
	Defaults   map[string]interface{}
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithDefault registers a default value for a dotted key. The config file and
// the environment both win over it.
func WithDefault(key string, value interface{}) LoaderOption {
	return func(lc *LoaderConfig) {
		if lc.Defaults == nil {
			lc.Defaults = make(map[string]interface{})
		}
		lc.Defaults[key] = value
	}
}

// LoadConfig loads configuration for an application into the provided cfg struct.
// It searches for <app>.yml and .env files in standard locations, binds
// environment variables, and unmarshals the result into cfg.
func LoadConfig(appName string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(appName, lc)

	return loadFromResolvedFiles(appName, cfg, files, lc)
}

// loadFromResolvedFiles loads configuration from specific files.
func loadFromResolvedFiles(appName string, cfg interface{}, files ResolvedFiles, lc LoaderConfig) error {
	v := viper.New()
	log := logger.Get(logger.ComponentConfig)

	for key, value := range lc.Defaults {
		v.SetDefault(key, value)
	}

	// 1. YAML file
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", files.ConfigFile, err)
		}
		log.Debug("config file loaded", logger.Fields("path", files.ConfigFile))
	}

	// 2. .env file, so its variables are visible to the binding below
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn("failed to load .env file", logger.Fields("path", files.EnvFile, logger.FieldError, err.Error()))
		}
	}

	// 3. environment overrides
	autoBindEnvVars(v, os.Environ(), reflect.TypeOf(cfg))

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for %s: %w", appName, err)
	}

	return nil
}

// autoBindEnvVars binds UPPER_CASE_WITH_UNDERSCORES environment variables
// to the dotted key they address in the target struct. Variables that match
// no field are ignored.
func autoBindEnvVars(v *viper.Viper, environ []string, target reflect.Type) {
	for _, env := range environ {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 || pair[0] == "" {
			continue
		}
		parts := strings.Split(strings.ToLower(pair[0]), "_")
		if key, ok := envKeyFor(target, parts); ok && key != "" {
			v.Set(key, pair[1])
		}
	}
}

// envKeyFor resolves env name parts against the mapstructure layout of t.
// Struct field names may span several parts (api_key); string-keyed maps
// consume the shortest key that leaves a resolvable remainder.
//
//	AI_PROVIDERS_OPENAI_API_KEY -> ai.providers.openai.api_key
func envKeyFor(t reflect.Type, parts []string) (string, bool) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if len(parts) == 0 {
		return "", t.Kind() != reflect.Struct && t.Kind() != reflect.Map
	}

	switch t.Kind() {
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, squash := fieldKey(f)
			if name == "-" {
				continue
			}
			if squash {
				if rest, ok := envKeyFor(f.Type, parts); ok {
					return rest, true
				}
				continue
			}
			nameParts := strings.Split(name, "_")
			if len(nameParts) > len(parts) || strings.Join(parts[:len(nameParts)], "_") != name {
				continue
			}
			if rest, ok := envKeyFor(f.Type, parts[len(nameParts):]); ok {
				return joinKey(name, rest), true
			}
		}
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return "", false
		}
		for i := 1; i <= len(parts); i++ {
			if rest, ok := envKeyFor(t.Elem(), parts[i:]); ok {
				return joinKey(strings.Join(parts[:i], "_"), rest), true
			}
		}
	}
	return "", false
}

func fieldKey(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("mapstructure")
	name, opts, _ := strings.Cut(tag, ",")
	if strings.Contains(opts, "squash") || (f.Anonymous && tag == "") {
		return "", true
	}
	if name == "" {
		name = strings.ToLower(f.Name)
	}
	return name, false
}

func joinKey(prefix, rest string) string {
	if rest == "" {
		return prefix
	}
	return prefix + "." + rest
}
