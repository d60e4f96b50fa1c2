package config

// Config represents the complete neo configuration.
// It can be loaded from .neo/config.yml with environment variable overrides.
type Config struct {
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Query  QueryConfig  `yaml:"query" mapstructure:"query"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Watch  WatchConfig  `yaml:"watch" mapstructure:"watch"`
}

// DataConfig locates the source data sets.
type DataConfig struct {
	NEOPath       string `yaml:"neo_path" mapstructure:"neo_path"`             // NEO catalog CSV
	CADPath       string `yaml:"cad_path" mapstructure:"cad_path"`             // Close-approach JSON
	StrictLinking bool   `yaml:"strict_linking" mapstructure:"strict_linking"` // Refuse data with orphan approaches
}

// QueryConfig defines result limits.
type QueryConfig struct {
	DefaultLimit int `yaml:"default_limit" mapstructure:"default_limit"` // Results printed when --limit is not given
	MaxLimit     int `yaml:"max_limit" mapstructure:"max_limit"`         // Upper bound for API and MCP requests
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format      string `yaml:"format" mapstructure:"format"` // "console" or "json"
	Development bool   `yaml:"development" mapstructure:"development"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string   `yaml:"addr" mapstructure:"addr"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// CacheConfig configures the query result cache used by long-running servers.
type CacheConfig struct {
	QueryCacheSize       int `yaml:"query_cache_size" mapstructure:"query_cache_size"`               // Max cached queries, 0 disables
	QueryCacheTTLSeconds int `yaml:"query_cache_ttl_seconds" mapstructure:"query_cache_ttl_seconds"` // Entry lifetime
}

// WatchConfig controls reloading when the data files change.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled" mapstructure:"enabled"`
	DebounceMs int  `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			NEOPath:       "data/neos.csv",
			CADPath:       "data/cad.json",
			StrictLinking: false,
		},
		Query: QueryConfig{
			DefaultLimit: 10,
			MaxLimit:     10000,
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "console",
			Development: false,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"*"},
		},
		Cache: CacheConfig{
			QueryCacheSize:       1000,
			QueryCacheTTLSeconds: 300,
		},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMs: 500,
		},
	}
}
