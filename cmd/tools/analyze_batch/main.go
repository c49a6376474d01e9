package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

type analyzeResponse struct {
	Bid struct {
		Title            string   `json:"title"`
		ScopeSummary     string   `json:"scope_summary"`
		HardRequirements []string `json:"hard_requirements"`
		TradesRequired   []string `json:"trades_required"`
	} `json:"bid"`
	Score     int `json:"score"`
	Breakdown struct {
		Trades       int `json:"trades"`
		Requirements int `json:"requirements"`
		Budget       int `json:"budget"`
		Relevance    int `json:"relevance"`
	} `json:"breakdown"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

type docMetric struct {
	URL          string
	DryRun       bool
	HTTPStatus   int
	Duration     time.Duration
	Score        int
	Trades       int
	Requirements int
	Budget       int
	HardReqs     int
	Error        string
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:8080", "API base URL")
	urlsCSV := flag.String("urls", "", "Comma-separated list of bid document URLs")
	urlsFile := flag.String("urls-file", "", "Path to file with one document URL per line")
	rateLimitMs := flag.Int("rate-limit-ms", 1000, "Delay between documents in milliseconds")
	timeoutSec := flag.Int("timeout-sec", 240, "HTTP timeout in seconds")
	dryRun := flag.Bool("dry-run", false, "Print planned calls only; do not execute")
	flag.Parse()

	urls, err := loadURLs(*urlsCSV, *urlsFile)
	if err != nil {
		exitErr(err)
	}
	if len(urls) == 0 {
		exitErr(errors.New("no documents provided: use -urls or -urls-file"))
	}
	if *timeoutSec <= 0 {
		exitErr(errors.New("timeout-sec must be > 0"))
	}

	client := &http.Client{Timeout: time.Duration(*timeoutSec) * time.Second}
	endpoint := strings.TrimRight(*baseURL, "/") + "/api/bids/analyze"
	metrics := make([]docMetric, 0, len(urls))

	for idx, docURL := range urls {
		metric := docMetric{URL: docURL, DryRun: *dryRun}
		start := time.Now()

		if *dryRun {
			fmt.Printf("[DRY-RUN] POST %s pdfUrl=%s\n", endpoint, docURL)
		} else {
			response, statusCode, callErr := callAnalyze(client, endpoint, docURL)
			metric.HTTPStatus = statusCode
			if callErr != nil {
				metric.Error = callErr.Error()
			} else {
				metric.Score = response.Score
				metric.Trades = response.Breakdown.Trades
				metric.Requirements = response.Breakdown.Requirements
				metric.Budget = response.Breakdown.Budget
				metric.HardReqs = len(response.Bid.HardRequirements)
			}
		}
		metric.Duration = time.Since(start)
		metrics = append(metrics, metric)

		if idx < len(urls)-1 && *rateLimitMs > 0 && !*dryRun {
			time.Sleep(time.Duration(*rateLimitMs) * time.Millisecond)
		}
	}

	printReport(metrics)
}

// loadURLs merges both inputs, keeping first-seen order.
func loadURLs(csv, filePath string) ([]string, error) {
	seen := map[string]struct{}{}
	var urls []string
	add := func(raw string) {
		u := strings.TrimSpace(raw)
		if u == "" || strings.HasPrefix(u, "#") {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	for _, part := range strings.Split(csv, ",") {
		add(part)
	}

	if strings.TrimSpace(filePath) != "" {
		content, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read urls-file: %w", err)
		}
		for _, line := range strings.Split(string(content), "\n") {
			add(line)
		}
	}

	return urls, nil
}

func callAnalyze(client *http.Client, endpoint, docURL string) (*analyzeResponse, int, error) {
	body, err := json.Marshal(map[string]string{"pdfUrl": docURL})
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var payload analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := payload.Error
		if payload.Details != "" {
			msg += ": " + payload.Details
		}
		if msg == "" {
			return &payload, resp.StatusCode, fmt.Errorf("http %d", resp.StatusCode)
		}
		return &payload, resp.StatusCode, fmt.Errorf("http %d: %s", resp.StatusCode, msg)
	}

	return &payload, resp.StatusCode, nil
}

func printReport(metrics []docMetric) {
	fmt.Println("\n=== Bid Analysis Batch Report ===")
	fmt.Printf("%-48s %-6s %-6s %-6s %-6s %-6s %-6s %-5s %-8s %s\n",
		"document", "dry", "http", "score", "trade", "reqs", "budget", "hard", "sec", "error")

	analyzed := 0
	totalScore := 0
	errs := 0

	for _, m := range metrics {
		if m.Error != "" {
			errs++
		} else if !m.DryRun {
			analyzed++
			totalScore += m.Score
		}

		fmt.Printf("%-48s %-6t %-6d %-6d %-6d %-6d %-6d %-5d %-8.2f %s\n",
			shorten(m.URL, 48),
			m.DryRun,
			m.HTTPStatus,
			m.Score,
			m.Trades,
			m.Requirements,
			m.Budget,
			m.HardReqs,
			m.Duration.Seconds(),
			m.Error,
		)
	}

	avg := 0.0
	if analyzed > 0 {
		avg = float64(totalScore) / float64(analyzed)
	}
	fmt.Printf("\nTotals: analyzed=%d avg_score=%.1f errors=%d\n", analyzed, avg, errs)
}

func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n+3:]
}

func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
