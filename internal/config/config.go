package config

import (
	"github.com/david/bid-finder/internal/profile"
)

// Config is the full service configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Sources    SourcesConfig    `mapstructure:"sources"`
	Scraper    ScraperConfig    `mapstructure:"scraper"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Alert      AlertConfig      `mapstructure:"alert"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Profile    profile.Profile  `mapstructure:"profile"`
}

type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

type SourcesConfig struct {
	File string `mapstructure:"file"` // Empty uses the embedded registry
}

type ScraperConfig struct {
	Provider        string `mapstructure:"provider"` // "firecrawl", "direct" or "chrome"
	FirecrawlURL    string `mapstructure:"firecrawl_url"`
	FirecrawlAPIKey string `mapstructure:"firecrawl_api_key"`
	IgnoreRobotsTxt bool   `mapstructure:"ignore_robots_txt"`
	CacheDir        string `mapstructure:"cache_dir"`
	ChromePath      string `mapstructure:"chrome_path"` // Empty searches PATH
}

type ExtractionConfig struct {
	Provider      string `mapstructure:"provider"` // "reducto" or "ollama"
	ReductoURL    string `mapstructure:"reducto_url"`
	ReductoAPIKey string `mapstructure:"reducto_api_key"`
	OllamaURL     string `mapstructure:"ollama_url"`
	OllamaModel   string `mapstructure:"ollama_model"`
}

type AlertConfig struct {
	Provider     string `mapstructure:"provider"` // "resend" or "ses"
	From         string `mapstructure:"from"`
	ResendURL    string `mapstructure:"resend_url"`
	ResendAPIKey string `mapstructure:"resend_api_key"`
	SESRegion    string `mapstructure:"ses_region"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"` // Empty disables the search-run log
}
