package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultFirecrawlURL = "https://api.firecrawl.dev"

// FirecrawlScraper fetches pages through the hosted scraping provider, which
// renders them and returns markdown.
type FirecrawlScraper struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewFirecrawlScraper(baseURL, apiKey string) *FirecrawlScraper {
	if baseURL == "" {
		baseURL = defaultFirecrawlURL
	}
	return &FirecrawlScraper{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 90 * time.Second},
	}
}

type firecrawlRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type firecrawlResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Markdown string `json:"markdown"`
	} `json:"data"`
}

func (s *FirecrawlScraper) Scrape(ctx context.Context, pageURL string) (string, error) {
	jsonData, err := json.Marshal(firecrawlRequest{URL: pageURL, Formats: []string{"markdown"}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/v1/scrape", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("firecrawl request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("firecrawl returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed firecrawlResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if !parsed.Success && parsed.Error != "" {
		return "", fmt.Errorf("firecrawl error: %s", parsed.Error)
	}

	return parsed.Data.Markdown, nil
}

// DirectScraper fetches pages itself and converts the HTML to markdown. It
// needs no provider key, but does not run page scripts.
type DirectScraper struct {
	Fetcher Fetcher
}

func NewDirectScraper(fetcher Fetcher) *DirectScraper {
	if fetcher == nil {
		fetcher = NewCollyFetcher()
	}
	return &DirectScraper{Fetcher: fetcher}
}

func (s *DirectScraper) Scrape(ctx context.Context, pageURL string) (string, error) {
	doc, err := s.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return "", err
	}
	defer doc.Body.Close()

	body, err := io.ReadAll(doc.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}

	if ct := strings.ToLower(doc.ContentType); strings.Contains(ct, "markdown") || strings.HasPrefix(ct, "text/plain") {
		return string(body), nil
	}
	return HTMLToMarkdown(string(body), doc.URL)
}
