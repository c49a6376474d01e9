package main

import (
	"context"
	"flag"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/david/bid-finder/internal/config"
	"github.com/david/bid-finder/internal/db"
)

func main() {
	limit := flag.Int("limit", 10, "Number of recent searches to show")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	runs, err := db.NewStore(pool).RecentSearches(ctx, *limit)
	if err != nil {
		log.Fatal(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Query", "OK", "Failed", "Bids", "Top", "Filtered", "Duration", "Started At", "Errors"})

	for _, r := range runs {
		top := "-"
		if r.TopScore != nil {
			top = strconv.Itoa(*r.TopScore)
		}
		duration := (time.Duration(r.DurationMS) * time.Millisecond).Round(time.Millisecond).String()
		t.AppendRow(table.Row{r.Query, r.SourcesOK, r.SourcesFailed, r.BidsFound, top, r.Filtered, duration, r.StartedAt.Format("01/02 15:04:05"), failedSources(r.SourceErrors)})
	}
	t.Render()
}

func failedSources(errs map[string]string) string {
	ids := make([]string, 0, len(errs))
	for id := range errs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return strings.Join(ids, ", ")
}
