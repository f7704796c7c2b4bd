package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/tagmagic/pkg/cache"
)

// Resolver cache kinds accepted by the cache setting.
const (
	cacheMap  = "map"  // unbounded, one entry per type and attribute
	cacheLRU  = "lru"  // bounded by cache_size
	cacheNone = "none" // resolve every read from scratch
)

// envPrefix prefixes environment overrides, e.g. TAGMAGIC_CACHE=lru.
const envPrefix = "TAGMAGIC"

// Config represents the tagmagic configuration.
type Config struct {
	Manifest  string `mapstructure:"manifest"`
	Verbose   bool   `mapstructure:"verbose"`
	Cache     string `mapstructure:"cache"`
	CacheSize int    `mapstructure:"cache_size"`
}

func defaultConfig() *Config {
	return &Config{Cache: cacheMap, CacheSize: cache.DefaultLRUSize}
}

// loadConfig reads tagmagic.toml from the first of paths that has one,
// applies TAGMAGIC_* environment overrides and finally the flags of cmd
// that were set explicitly. A missing config file is not an error.
func loadConfig(cmd *cobra.Command, paths ...string) (*Config, error) {
	v := viper.New()

	def := defaultConfig()
	v.SetDefault("manifest", def.Manifest)
	v.SetDefault("verbose", def.Verbose)
	v.SetDefault("cache", def.Cache)
	v.SetDefault("cache_size", def.CacheSize)

	v.SetConfigName(appName)
	v.SetConfigType("toml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if cmd != nil {
		for _, name := range []string{"manifest", "verbose"} {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(name, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	switch cfg.Cache {
	case cacheMap, cacheNone:
	case cacheLRU:
		if cfg.CacheSize <= 0 {
			return fmt.Errorf("cache_size must be positive for the lru cache, got %d", cfg.CacheSize)
		}
	default:
		return fmt.Errorf("cache must be one of %s, %s, %s, got %q", cacheMap, cacheLRU, cacheNone, cfg.Cache)
	}
	return nil
}

// configPaths returns the directories searched for tagmagic.toml: the
// working directory, then $XDG_CONFIG_HOME/tagmagic (~/.config/tagmagic).
func configPaths() []string {
	paths := []string{"."}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return append(paths, filepath.Join(dir, appName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}
	return paths
}
