package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string // Explicit config file, overrides the .neo search
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// NewFileLoader creates a loader that reads an explicit config file.
// Unlike the directory search, a missing file is an error.
func NewFileLoader(path string) Loader {
	return &loader{
		configFile: path,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (NEO_*)
// 2. Config file (.neo/config.yml or .neo/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, ".neo"))
	}

	// Enable environment variable overrides (e.g., NEO_DATA_NEO_PATH)
	v.SetEnvPrefix("NEO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unmarshal only sees env values for keys viper knows about
	v.BindEnv("data.neo_path")
	v.BindEnv("data.cad_path")
	v.BindEnv("data.strict_linking")

	v.BindEnv("query.default_limit")
	v.BindEnv("query.max_limit")

	v.BindEnv("log.level")
	v.BindEnv("log.format")
	v.BindEnv("log.development")

	v.BindEnv("server.addr")

	v.BindEnv("cache.query_cache_size")
	v.BindEnv("cache.query_cache_ttl_seconds")

	v.BindEnv("watch.enabled")
	v.BindEnv("watch.debounce_ms")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable when searching - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || l.configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Relative data paths are resolved against the project root
	if l.rootDir != "" {
		cfg.Data.NEOPath = resolve(l.rootDir, cfg.Data.NEOPath)
		cfg.Data.CADPath = resolve(l.rootDir, cfg.Data.CADPath)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("data.neo_path", defaults.Data.NEOPath)
	v.SetDefault("data.cad_path", defaults.Data.CADPath)
	v.SetDefault("data.strict_linking", defaults.Data.StrictLinking)

	v.SetDefault("query.default_limit", defaults.Query.DefaultLimit)
	v.SetDefault("query.max_limit", defaults.Query.MaxLimit)

	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.development", defaults.Log.Development)

	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.cors_origins", defaults.Server.CORSOrigins)

	v.SetDefault("cache.query_cache_size", defaults.Cache.QueryCacheSize)
	v.SetDefault("cache.query_cache_ttl_seconds", defaults.Cache.QueryCacheTTLSeconds)

	v.SetDefault("watch.enabled", defaults.Watch.Enabled)
	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
}

func resolve(rootDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(rootDir, path)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
