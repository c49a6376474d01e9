package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/david/bid-finder/internal/metrics"
	"github.com/david/bid-finder/internal/models"
)

const defaultSourceTimeout = 2 * time.Minute

// Pipeline scrapes every active source, parses the pages into bids and
// filters them by the user's query.
type Pipeline struct {
	Sources  []SourceConfig
	Scraper  Scraper
	Limiter  *HostLimiter      // Optional
	Resolver *LocationResolver // Optional; nil leaves coordinates at zero
	Logger   *zap.Logger
}

func NewPipeline(sources []SourceConfig, scraper Scraper, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	limiter := NewHostLimiter(1, 1)
	for _, src := range sources {
		if src.RateLimitRPS > 0 {
			limiter.SetHostRate(hostOf(src.URL), src.RateLimitRPS)
		}
	}
	return &Pipeline{
		Sources:  sources,
		Scraper:  scraper,
		Limiter:  limiter,
		Resolver: NewLocationResolver(),
		Logger:   logger,
	}
}

// FindBids runs one search. Failing sources are reported in the result and
// never abort the others; the error return is reserved for a missing scraper.
func (p *Pipeline) FindBids(ctx context.Context, query string) (SearchResult, error) {
	if p.Scraper == nil {
		return SearchResult{Bids: []models.Bid{}, Sources: []SourceOutcome{}}, fmt.Errorf("no scraper configured")
	}
	log := p.logger()

	outcomes := make([]SourceOutcome, len(p.Sources))
	perSource := make([][]models.Bid, len(p.Sources))
	var mu sync.Mutex

	var g errgroup.Group
	for i, src := range p.Sources {
		g.Go(func() error {
			start := time.Now()
			bids, err := p.scrapeSource(ctx, src)
			metrics.SourceScrapeDuration.WithLabelValues(src.ID).Observe(time.Since(start).Seconds())
			metrics.SourceScrapesTotal.WithLabelValues(src.ID, metrics.Result(err)).Inc()

			mu.Lock()
			defer mu.Unlock()
			outcomes[i] = SourceOutcome{SourceID: src.ID, Agency: src.Name, URL: src.URL, Bids: len(bids), Err: err}
			if err != nil {
				outcomes[i].Error = err.Error()
				log.Warn("source scrape failed", zap.String("source", src.ID), zap.String("url", src.URL), zap.Error(err))
				return nil // best-effort: don't cancel siblings
			}
			perSource[i] = bids
			log.Info("source scraped", zap.String("source", src.ID), zap.Int("bids", len(bids)))
			return nil
		})
	}
	_ = g.Wait()

	// Registry order, not completion order.
	all := []models.Bid{}
	for _, bids := range perSource {
		all = append(all, bids...)
	}

	filtered, matched := FilterWithFallback(all, query)
	log.Info("search complete",
		zap.String("query", query),
		zap.Int("found", len(all)),
		zap.Int("returned", len(filtered)),
		zap.Bool("filtered", matched))

	return SearchResult{Bids: filtered, Sources: outcomes, Filtered: matched, Found: len(all)}, nil
}

func (p *Pipeline) scrapeSource(ctx context.Context, src SourceConfig) ([]models.Bid, error) {
	timeout := defaultSourceTimeout
	if src.TimeoutSeconds > 0 {
		timeout = time.Duration(src.TimeoutSeconds) * time.Second
	}
	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if p.Limiter != nil {
		if err := p.Limiter.WaitURL(sctx, src.URL); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	markdown, err := p.Scraper.Scrape(sctx, src.URL)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", src.ID, err)
	}

	parser := &Parser{Location: src.Location, Resolver: p.Resolver}
	return parser.Parse(markdown, src.URL, src.Name), nil
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
