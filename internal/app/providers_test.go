package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/david/bid-finder/internal/ai"
	"github.com/david/bid-finder/internal/config"
	"github.com/david/bid-finder/internal/ingest"
)

func TestNewScraper(t *testing.T) {
	cfg := &config.Config{}

	cfg.Scraper.Provider = "direct"
	cfg.Scraper.IgnoreRobotsTxt = true
	s, err := NewScraper(cfg)
	require.NoError(t, err)
	direct, ok := s.(*ingest.DirectScraper)
	require.True(t, ok)
	assert.True(t, direct.Fetcher.(*ingest.CollyFetcher).IgnoreRobotsTxt)

	cfg.Scraper.Provider = "firecrawl"
	s, err = NewScraper(cfg)
	require.NoError(t, err)
	assert.IsType(t, &ingest.FirecrawlScraper{}, s)

	cfg.Scraper.Provider = "chrome"
	cfg.Scraper.ChromePath = "/usr/bin/chromium"
	s, err = NewScraper(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/chromium", s.(*ingest.ChromeScraper).ExecPath)

	cfg.Scraper.Provider = "headless"
	_, err = NewScraper(cfg)
	assert.Error(t, err)
}

func TestNewExtractor(t *testing.T) {
	cfg := &config.Config{}
	logger := zaptest.NewLogger(t)

	cfg.Extraction.Provider = "ollama"
	e, err := NewExtractor(cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &ai.OllamaExtractor{}, e)

	cfg.Extraction.Provider = "reducto"
	e, err = NewExtractor(cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &ai.ReductoClient{}, e)
}

func TestNewAlertService(t *testing.T) {
	cfg := &config.Config{}
	cfg.Alert.Provider = "resend"
	svc, err := NewAlertService(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "resend", svc.Sender.Name())

	cfg.Alert.Provider = "pigeon"
	_, err = NewAlertService(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestMissingKeys(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scraper.Provider = "firecrawl"
	cfg.Extraction.Provider = "reducto"
	cfg.Alert.Provider = "resend"
	assert.Equal(t, []string{"FIRECRAWL_API_KEY", "REDUCTO_API_KEY", "RESEND_API_KEY"}, MissingKeys(cfg))

	cfg.Scraper.Provider = "direct"
	cfg.Extraction.ReductoAPIKey = "rk"
	cfg.Alert.Provider = "ses"
	assert.Empty(t, MissingKeys(cfg))
}
