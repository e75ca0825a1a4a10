package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Search  SearchConfig  `mapstructure:"search"`
	Logging LoggingConfig `mapstructure:"logging"`
	Update  UpdateConfig  `mapstructure:"update"`
}

// TMDBConfig holds TMDB API connection details
type TMDBConfig struct {
	APIToken  string        `mapstructure:"api_token"`
	BaseURL   string        `mapstructure:"base_url"`
	Language  string        `mapstructure:"language"`
	ImageSize string        `mapstructure:"image_size"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// SearchConfig contains live search settings
type SearchConfig struct {
	Debounce       time.Duration `mapstructure:"debounce"`
	MinQueryLength int           `mapstructure:"min_query_length"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
	File   string `mapstructure:"file"`
}

// UpdateConfig contains self-update settings
type UpdateConfig struct {
	Repository string `mapstructure:"repository"`
}
