// Package metrics holds the Prometheus collectors for searches, source
// scrapes, document analysis and alerts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bid_finder_searches_total",
			Help: "Bid searches by outcome (ok, error)",
		},
		[]string{"outcome"},
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bid_finder_search_results",
			Help:    "Bids returned per search after filtering",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	SourceScrapesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bid_finder_source_scrapes_total",
			Help: "Source page scrapes by source and result (ok, error)",
		},
		[]string{"source", "result"},
	)

	SourceScrapeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bid_finder_source_scrape_duration_seconds",
			Help:    "Time to scrape and parse one source page",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"source"},
	)

	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bid_finder_document_analyses_total",
			Help: "Bid document extractions by result (ok, error)",
		},
		[]string{"result"},
	)

	AlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bid_finder_alerts_total",
			Help: "Alert e-mails by provider and result (ok, error)",
		},
		[]string{"provider", "result"},
	)
)

// Result maps an error to the "ok"/"error" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
