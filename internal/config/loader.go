package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/david/bid-finder/internal/profile"
)

// envBindings maps config keys to the plain environment variable names the
// service has always read, in addition to the BID_FINDER_ prefixed form.
var envBindings = map[string]string{
	"server.port":                "PORT",
	"scraper.firecrawl_api_key":  "FIRECRAWL_API_KEY",
	"extraction.reducto_api_key": "REDUCTO_API_KEY",
	"extraction.ollama_url":      "OLLAMA_URL",
	"alert.resend_api_key":       "RESEND_API_KEY",
	"alert.ses_region":           "AWS_REGION",
	"database.url":               "DATABASE_URL",
}

// Load reads .env, then the optional YAML file at path (or config.yaml in
// the working directory when path is empty), then the environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("BID_FINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, "BID_FINDER_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path == "" && os.IsNotExist(err)) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	p := profile.Default()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("sources.file", "")
	v.SetDefault("scraper.provider", "firecrawl")
	v.SetDefault("scraper.firecrawl_url", "https://api.firecrawl.dev")
	v.SetDefault("scraper.firecrawl_api_key", "")
	v.SetDefault("scraper.ignore_robots_txt", false)
	v.SetDefault("scraper.cache_dir", "")
	v.SetDefault("scraper.chrome_path", "")
	v.SetDefault("extraction.provider", "reducto")
	v.SetDefault("extraction.reducto_url", "https://platform.reducto.ai")
	v.SetDefault("extraction.reducto_api_key", "")
	v.SetDefault("extraction.ollama_url", "http://localhost:11434")
	v.SetDefault("extraction.ollama_model", "llama3.2:latest")
	v.SetDefault("alert.provider", "resend")
	v.SetDefault("alert.from", "Bid Alerts <bidalerts@avi.mn>")
	v.SetDefault("alert.resend_url", "https://api.resend.com")
	v.SetDefault("alert.resend_api_key", "")
	v.SetDefault("alert.ses_region", "us-west-2")
	v.SetDefault("database.url", "")
	v.SetDefault("profile.trades", p.Trades)
	v.SetDefault("profile.qualifications", p.Qualifications)
	v.SetDefault("profile.budget_min", p.PreferredBudgetMin)
	v.SetDefault("profile.budget_max", p.PreferredBudgetMax)
}

func validate(cfg *Config) error {
	switch cfg.Scraper.Provider {
	case "firecrawl", "direct", "chrome":
	default:
		return fmt.Errorf("scraper.provider must be firecrawl, direct or chrome, got %q", cfg.Scraper.Provider)
	}
	switch cfg.Extraction.Provider {
	case "reducto", "ollama":
	default:
		return fmt.Errorf("extraction.provider must be reducto or ollama, got %q", cfg.Extraction.Provider)
	}
	switch cfg.Alert.Provider {
	case "resend", "ses":
	default:
		return fmt.Errorf("alert.provider must be resend or ses, got %q", cfg.Alert.Provider)
	}
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	return nil
}
