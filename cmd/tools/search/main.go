package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"

	"github.com/david/bid-finder/internal/app"
	"github.com/david/bid-finder/internal/config"
	"github.com/david/bid-finder/internal/ingest"
	"github.com/david/bid-finder/internal/logger"
	"github.com/david/bid-finder/internal/models"
	"github.com/david/bid-finder/internal/scoring"
)

func main() {
	query := flag.String("query", "", "Search query (e.g., roofing)")
	file := flag.String("file", "", "Parse a saved markdown page instead of scraping the sources")
	agency := flag.String("agency", "Local file", "Agency name for bids parsed from -file")
	configPath := flag.String("config", "", "Path to config file")
	limit := flag.Int("limit", 25, "Max bids to print")
	explain := flag.Bool("explain", false, "Print the per-factor score breakdown")
	flag.Parse()

	if *query == "" {
		log.Fatal("Please provide a query using -query flag")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zl := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = zl.Sync() }()

	var bids []models.Bid
	if *file != "" {
		content, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", *file, err)
		}
		parsed := ingest.ParseBids(string(content), *file, *agency)
		var matched bool
		bids, matched = ingest.FilterWithFallback(parsed, *query)
		zl.Info("parsed file", zap.Int("bids", len(parsed)), zap.Bool("filtered", matched))
	} else {
		pipeline, err := app.NewPipeline(cfg, zl)
		if err != nil {
			log.Fatalf("Failed to build pipeline: %v", err)
		}
		result, err := pipeline.FindBids(context.Background(), *query)
		if err != nil {
			log.Fatalf("Search failed: %v", err)
		}
		printSources(result.Sources)
		bids = result.Bids
	}

	ranked := scoring.Rank(bids, cfg.Profile, *query)
	printBids(ranked, cfg, *query, *limit, *explain)
}

func printSources(sources []ingest.SourceOutcome) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Source", "Agency", "Bids", "Error"})
	for _, s := range sources {
		t.AppendRow(table.Row{s.SourceID, s.Agency, s.Bids, ingest.TruncateText(s.Error, 60)})
	}
	t.Render()
}

func printBids(ranked []models.ScoredBid, cfg *config.Config, query string, limit int, explain bool) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)

	header := table.Row{"Score", "Title", "Agency", "Due", "Days", "Budget", "Trades"}
	if explain {
		header = append(header, "Trd", "Req", "Bud", "Rel")
	}
	t.AppendHeader(header)

	now := time.Now()
	for i, b := range ranked {
		if i >= limit {
			break
		}
		days := "-"
		if d, ok := ingest.DaysLeft(b.DueDate, now); ok {
			days = strconv.Itoa(d)
		}
		row := table.Row{b.Score, ingest.TruncateText(b.Title, 50), b.Agency, b.DueDate, days, b.EstimatedBudget, strings.Join(b.Trades, ", ")}
		if explain {
			bd := scoring.Explain(b.Bid, cfg.Profile, query)
			row = append(row, bd.Trades, bd.Requirements, bd.Budget, bd.Relevance)
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"", "Total", len(ranked)})
	t.Render()
}
