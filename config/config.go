package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/s0up4200/reelsearch/search"
	"github.com/s0up4200/reelsearch/tmdb"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. REELSEARCH_TMDB_LANGUAGE for tmdb.language.
const EnvPrefix = "REELSEARCH"

// TokenEnv is the bare environment variable also accepted for the API token
const TokenEnv = "TMDB_API_TOKEN"

// Load loads the configuration. A missing config file is not an error unless
// configPath names it explicitly.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("tmdb.api_token", EnvPrefix+"_TMDB_API_TOKEN", TokenEnv); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".reelsearch"))
		}
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// TMDB defaults
	v.SetDefault("tmdb.api_token", "")
	v.SetDefault("tmdb.base_url", tmdb.DefaultBaseURL)
	v.SetDefault("tmdb.language", tmdb.DefaultLanguage)
	v.SetDefault("tmdb.image_size", string(tmdb.ImageSizeW185))
	v.SetDefault("tmdb.timeout", "30s")

	// Search defaults
	v.SetDefault("search.debounce", search.DefaultDelay.String())
	v.SetDefault("search.min_query_length", search.DefaultMinQueryLength)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
	v.SetDefault("logging.file", "")

	v.SetDefault("update.repository", "s0up4200/reelsearch")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	u, err := url.Parse(cfg.TMDB.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("tmdb.base_url must be an absolute http(s) URL: %q", cfg.TMDB.BaseURL)
	}

	if _, err := language.Parse(cfg.TMDB.Language); err != nil {
		return fmt.Errorf("invalid tmdb.language %q: %w", cfg.TMDB.Language, err)
	}

	if _, err := tmdb.ParseImageSize(cfg.TMDB.ImageSize); err != nil {
		return fmt.Errorf("invalid tmdb.image_size: %w", err)
	}

	if cfg.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive, got %s", cfg.TMDB.Timeout)
	}

	if cfg.Search.Debounce <= 0 {
		return fmt.Errorf("search.debounce must be positive, got %s", cfg.Search.Debounce)
	}

	if cfg.Search.MinQueryLength < 1 {
		return fmt.Errorf("search.min_query_length must be at least 1, got %d", cfg.Search.MinQueryLength)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
