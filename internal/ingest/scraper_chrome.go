package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromeScraper renders pages in a local headless Chrome, for agency sites
// that build their listings with scripts, then converts the DOM to markdown.
type ChromeScraper struct {
	ExecPath string        // Empty lets chromedp find the browser
	Settle   time.Duration // Wait after the body is ready for late scripts
}

func NewChromeScraper(execPath string) *ChromeScraper {
	return &ChromeScraper{ExecPath: execPath, Settle: 3 * time.Second}
}

func (s *ChromeScraper) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(browserUserAgent),
	)
	if s.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(s.ExecPath))
	}
	return opts
}

// Scrape starts a browser per call; sources are few and scraped once per search.
func (s *ChromeScraper) Scrape(ctx context.Context, pageURL string) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, s.allocatorOptions()...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...any) {}))
	defer cancelTab()

	var html, finalURL string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.Settle),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("chrome render %s: %w", pageURL, err)
	}
	if finalURL == "" {
		finalURL = pageURL
	}
	return HTMLToMarkdown(html, finalURL)
}
