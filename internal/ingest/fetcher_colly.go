package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
)

// CollyFetcher fetches listing pages for the direct scraper. It honors
// robots.txt unless told otherwise and can cache responses on disk, which
// keeps repeated searches during development off the agency sites.
type CollyFetcher struct {
	UserAgent       string
	RequestTimeout  time.Duration
	IgnoreRobotsTxt bool
	MaxBodySize     int    // bytes, 0 = unlimited
	CacheDir        string // empty = no cache
}

func NewCollyFetcher() *CollyFetcher {
	return &CollyFetcher{
		UserAgent:      browserUserAgent,
		RequestTimeout: 45 * time.Second,
		MaxBodySize:    10 << 20,
	}
}

// collector returns a single-use collector bound to ctx and host. Pacing
// between requests is the pipeline's HostLimiter's job.
func (f *CollyFetcher) collector(ctx context.Context, host string) *colly.Collector {
	opts := []colly.CollectorOption{
		colly.StdlibContext(ctx),
		colly.UserAgent(f.UserAgent),
		colly.MaxBodySize(f.MaxBodySize),
		colly.AllowedDomains(host),
		colly.AllowURLRevisit(),
		colly.DetectCharset(),
	}
	if f.IgnoreRobotsTxt {
		opts = append(opts, colly.IgnoreRobotsTxt())
	}
	if f.CacheDir != "" {
		opts = append(opts, colly.CacheDir(f.CacheDir))
	}

	c := colly.NewCollector(opts...)
	c.SetRequestTimeout(f.RequestTimeout)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.7")
	})
	return c
}

// Fetch visits pageURL and returns the final response. Visit is
// synchronous, so every callback has run when it returns.
func (f *CollyFetcher) Fetch(ctx context.Context, pageURL string) (*FetchedDocument, error) {
	u, err := url.Parse(pageURL)
	if err != nil || u.Hostname() == "" {
		return nil, fmt.Errorf("invalid page URL %q", pageURL)
	}

	c := f.collector(ctx, u.Hostname())

	var doc *FetchedDocument
	var fetchErr error
	c.OnResponse(func(r *colly.Response) {
		doc = &FetchedDocument{
			URL:         r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			ContentType: r.Headers.Get("Content-Type"),
			Body:        io.NopCloser(bytes.NewReader(r.Body)),
			FetchedAt:   time.Now(),
			Headers:     map[string][]string(*r.Headers),
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("page %s returned status %d: %w", pageURL, r.StatusCode, err)
	})

	if err := c.Visit(pageURL); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if fetchErr != nil {
			return nil, fetchErr
		}
		return nil, fmt.Errorf("visit %s: %w", pageURL, err)
	}

	switch {
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case fetchErr != nil:
		return nil, fetchErr
	case doc == nil:
		return nil, fmt.Errorf("no response received for %s", pageURL)
	}
	return doc, nil
}
