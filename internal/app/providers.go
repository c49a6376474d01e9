// Package app builds the configured provider implementations shared by the
// server and the command-line tools.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/david/bid-finder/internal/ai"
	"github.com/david/bid-finder/internal/alert"
	"github.com/david/bid-finder/internal/config"
	"github.com/david/bid-finder/internal/ingest"
)

// NewScraper returns the page scraper selected by cfg.Scraper.Provider.
// A missing provider key is not an error here; the provider rejects the
// request and the failure surfaces per search.
func NewScraper(cfg *config.Config) (ingest.Scraper, error) {
	switch cfg.Scraper.Provider {
	case "firecrawl":
		return ingest.NewFirecrawlScraper(cfg.Scraper.FirecrawlURL, cfg.Scraper.FirecrawlAPIKey), nil
	case "direct":
		fetcher := ingest.NewCollyFetcher()
		fetcher.IgnoreRobotsTxt = cfg.Scraper.IgnoreRobotsTxt
		fetcher.CacheDir = cfg.Scraper.CacheDir
		return ingest.NewDirectScraper(fetcher), nil
	case "chrome":
		return ingest.NewChromeScraper(cfg.Scraper.ChromePath), nil
	default:
		return nil, fmt.Errorf("unknown scraper provider %q", cfg.Scraper.Provider)
	}
}

// NewPipeline loads the source registry and builds a search pipeline.
func NewPipeline(cfg *config.Config, logger *zap.Logger) (*ingest.Pipeline, error) {
	registry, err := ingest.LoadRegistry(cfg.Sources.File)
	if err != nil {
		return nil, err
	}
	scraper, err := NewScraper(cfg)
	if err != nil {
		return nil, err
	}
	return ingest.NewPipeline(registry.Active(), scraper, logger), nil
}

// NewExtractor returns the document extractor selected by cfg.Extraction.Provider.
func NewExtractor(cfg *config.Config, logger *zap.Logger) (ai.Extractor, error) {
	switch cfg.Extraction.Provider {
	case "reducto":
		return ai.NewReductoClient(cfg.Extraction.ReductoURL, cfg.Extraction.ReductoAPIKey), nil
	case "ollama":
		llm := ai.NewOllamaClient(cfg.Extraction.OllamaURL, cfg.Extraction.OllamaModel)
		return ai.NewOllamaExtractor(llm, nil, logger), nil
	default:
		return nil, fmt.Errorf("unknown extraction provider %q", cfg.Extraction.Provider)
	}
}

// NewAlertService returns an alert service backed by the configured mail provider.
func NewAlertService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*alert.Service, error) {
	var sender alert.Sender
	switch cfg.Alert.Provider {
	case "resend":
		sender = alert.NewResendSender(cfg.Alert.ResendURL, cfg.Alert.ResendAPIKey)
	case "ses":
		s, err := alert.NewSESSender(ctx, cfg.Alert.SESRegion)
		if err != nil {
			return nil, err
		}
		sender = s
	default:
		return nil, fmt.Errorf("unknown alert provider %q", cfg.Alert.Provider)
	}
	return alert.NewService(sender, cfg.Alert.From, logger), nil
}

// MissingKeys names the API keys the selected hosted providers need but
// were not configured.
func MissingKeys(cfg *config.Config) []string {
	var missing []string
	if cfg.Scraper.Provider == "firecrawl" && cfg.Scraper.FirecrawlAPIKey == "" {
		missing = append(missing, "FIRECRAWL_API_KEY")
	}
	if cfg.Extraction.Provider == "reducto" && cfg.Extraction.ReductoAPIKey == "" {
		missing = append(missing, "REDUCTO_API_KEY")
	}
	if cfg.Alert.Provider == "resend" && cfg.Alert.ResendAPIKey == "" {
		missing = append(missing, "RESEND_API_KEY")
	}
	return missing
}
