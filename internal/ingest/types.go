package ingest

import (
	"context"
	"io"
	"time"

	"github.com/david/bid-finder/internal/models"
)

// FetchedDocument represents the raw result of a fetch operation.
type FetchedDocument struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        io.ReadCloser
	FetchedAt   time.Time
	Headers     map[string][]string
}

// Fetcher retrieves raw content from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchedDocument, error)
}

// Scraper returns the content of a page as markdown-like text.
type Scraper interface {
	Scrape(ctx context.Context, url string) (string, error)
}

// SourceOutcome reports what a single source contributed to a search.
type SourceOutcome struct {
	SourceID string `json:"source_id"`
	Agency   string `json:"agency"`
	URL      string `json:"url"`
	Bids     int    `json:"bids"`
	Err      error  `json:"-"`
	Error    string `json:"error,omitempty"`
}

// SearchResult is the filtered bid set of a search plus per-source outcomes.
type SearchResult struct {
	Bids    []models.Bid    `json:"bids"`
	Sources []SourceOutcome `json:"sources"`
	// Filtered is false when no bid matched the query and the full set was returned.
	Filtered bool `json:"filtered"`
	// Found counts the parsed bids before filtering.
	Found int `json:"found"`
}

// Failed counts the sources that returned an error.
func (r SearchResult) Failed() int {
	n := 0
	for _, s := range r.Sources {
		if s.Err != nil {
			n++
		}
	}
	return n
}
