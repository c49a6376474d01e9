package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeScraper struct {
	mu    sync.Mutex
	pages map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeScraper) Scrape(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	if err := f.errs[url]; err != nil {
		return "", err
	}
	return f.pages[url], nil
}

func testSources() []SourceConfig {
	return []SourceConfig{
		{ID: "sfusd", Name: "San Francisco USD", URL: "https://sfusd.example/bids", Location: "San Francisco, CA", Active: true},
		{ID: "oakland", Name: "Oakland USD", URL: "https://ousd.example/bids", Location: "Oakland, CA", Active: true},
		{ID: "state", Name: "CaleProcure", URL: "https://state.example/search", Active: true},
	}
}

func newTestPipeline(t *testing.T, scraper Scraper) *Pipeline {
	return &Pipeline{
		Sources:  testSources(),
		Scraper:  scraper,
		Resolver: fixedResolver(),
		Logger:   zaptest.NewLogger(t),
	}
}

func TestFindBidsPartialFailure(t *testing.T) {
	scraper := &fakeScraper{
		pages: map[string]string{
			"https://sfusd.example/bids": "Roof Replacement Project No. 1 roofing 01/02/2025\nPlayground School Landscaping",
			"https://ousd.example/bids":  "Boiler Project No. 9 hvac",
		},
		errs: map[string]error{
			"https://state.example/search": errors.New("provider unavailable"),
		},
	}

	res, err := newTestPipeline(t, scraper).FindBids(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, res.Bids, 3)
	assert.Equal(t, "San Francisco USD", res.Bids[0].Agency)
	assert.Equal(t, "San Francisco USD", res.Bids[1].Agency)
	assert.Equal(t, "Oakland USD", res.Bids[2].Agency)
	assert.Equal(t, "Oakland, CA", res.Bids[2].Location)
	assert.Equal(t, 37.8044, res.Bids[2].Latitude)

	require.Len(t, res.Sources, 3)
	assert.Equal(t, 2, res.Sources[0].Bids)
	assert.NoError(t, res.Sources[1].Err)
	assert.Error(t, res.Sources[2].Err)
	assert.Contains(t, res.Sources[2].Error, "provider unavailable")
	assert.Equal(t, 1, res.Failed())
	assert.Len(t, scraper.calls, 3)
}

func TestFindBidsDefaultsLocationPerSource(t *testing.T) {
	scraper := &fakeScraper{pages: map[string]string{
		"https://state.example/search": "Statewide School Roofing Project No. 3",
	}}

	res, err := newTestPipeline(t, scraper).FindBids(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, res.Bids, 1)
	assert.Equal(t, DefaultBidLocation, res.Bids[0].Location)
}

func TestFindBidsFiltersWithFallback(t *testing.T) {
	scraper := &fakeScraper{pages: map[string]string{
		"https://sfusd.example/bids": "Roof Replacement Project No. 1 roofing\nRestroom School Plumbing",
	}}
	p := newTestPipeline(t, scraper)

	res, err := p.FindBids(context.Background(), "plumbing work")
	require.NoError(t, err)
	assert.True(t, res.Filtered)
	assert.Equal(t, 2, res.Found)
	require.Len(t, res.Bids, 1)
	assert.Contains(t, res.Bids[0].Trades, "Plumbing")

	res, err = p.FindBids(context.Background(), "electrical")
	require.NoError(t, err)
	assert.False(t, res.Filtered)
	assert.Len(t, res.Bids, 2)
}

func TestFindBidsAllSourcesFail(t *testing.T) {
	boom := errors.New("boom")
	scraper := &fakeScraper{errs: map[string]error{
		"https://sfusd.example/bids":   boom,
		"https://ousd.example/bids":    boom,
		"https://state.example/search": boom,
	}}

	res, err := newTestPipeline(t, scraper).FindBids(context.Background(), "roofing")
	require.NoError(t, err)
	assert.NotNil(t, res.Bids)
	assert.Empty(t, res.Bids)
	assert.Equal(t, 3, res.Failed())
	assert.ErrorIs(t, res.Sources[0].Err, boom)
}

func TestFindBidsWithoutScraper(t *testing.T) {
	res, err := (&Pipeline{}).FindBids(context.Background(), "x")
	assert.Error(t, err)
	assert.NotNil(t, res.Bids)
}

func TestNewPipelineAppliesSourceRates(t *testing.T) {
	sources := testSources()
	sources[0].RateLimitRPS = 5

	p := NewPipeline(sources, &fakeScraper{}, nil)
	require.NotNil(t, p.Limiter)
	assert.InDelta(t, 5, float64(p.Limiter.limiterFor("sfusd.example").Limit()), 1e-9)
	assert.InDelta(t, 1, float64(p.Limiter.limiterFor("ousd.example").Limit()), 1e-9)
}
