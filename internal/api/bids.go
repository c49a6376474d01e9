package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/david/bid-finder/internal/alert"
	"github.com/david/bid-finder/internal/db"
	"github.com/david/bid-finder/internal/ingest"
	"github.com/david/bid-finder/internal/metrics"
	"github.com/david/bid-finder/internal/models"
	"github.com/david/bid-finder/internal/scoring"
)

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Bids     []models.ScoredBid     `json:"bids"`
	Sources  []ingest.SourceOutcome `json:"sources"`
	Filtered bool                   `json:"filtered"`
}

func (s *Server) handleSearch(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Query is required"})
	}

	ctx := c.Request().Context()
	start := time.Now()

	result, err := s.Searcher.FindBids(ctx, req.Query)
	metrics.SearchesTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		s.Logger.Error("search failed", zap.String("query", req.Query), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, failure("Failed to search bids", err))
	}

	ranked := scoring.Rank(result.Bids, s.Profile, req.Query)
	metrics.SearchResults.Observe(float64(len(ranked)))
	for i := range ranked {
		withMapPosition(&ranked[i].Bid)
	}

	s.recordSearch(ctx, req.Query, result, ranked, start)

	sources := result.Sources
	if sources == nil {
		sources = []ingest.SourceOutcome{}
	}
	return c.JSON(http.StatusOK, searchResponse{Bids: ranked, Sources: sources, Filtered: result.Filtered})
}

// withMapPosition places bids that came back without coordinates on the
// default map position, and guarantees a non-nil trade list.
func withMapPosition(b *models.Bid) {
	if b.Latitude == 0 && b.Longitude == 0 {
		b.Latitude = ingest.DefaultCoordinates.Latitude
		b.Longitude = ingest.DefaultCoordinates.Longitude
	}
	if b.Trades == nil {
		b.Trades = []string{}
	}
}

func (s *Server) recordSearch(ctx context.Context, query string, result ingest.SearchResult, ranked []models.ScoredBid, start time.Time) {
	if s.Runs == nil {
		return
	}

	run := db.SearchRun{
		Query:        query,
		BidsFound:    result.Found,
		Filtered:     result.Filtered,
		SourceErrors: map[string]string{},
		StartedAt:    start,
		DurationMS:   elapsedMS(start),
	}
	for _, src := range result.Sources {
		if src.Err != nil {
			run.SourcesFailed++
			run.SourceErrors[src.SourceID] = src.Error
		} else {
			run.SourcesOK++
		}
	}
	if len(ranked) > 0 {
		top := ranked[0].Score
		run.TopScore = &top
	}

	if _, err := s.Runs.RecordSearch(ctx, run); err != nil {
		s.Logger.Warn("failed to record search run", zap.Error(err))
	}
}

type analyzeRequest struct {
	PDFURL          string `json:"pdfUrl"`
	Title           string `json:"title"`
	BidNumber       string `json:"bid_number"`
	Agency          string `json:"agency"`
	DueDate         string `json:"due_date"`
	EstimatedBudget string `json:"estimated_budget"`
	Location        string `json:"location"`
	SourceURL       string `json:"source_url"`
}

type analyzeResponse struct {
	Bid       models.Bid        `json:"bid"`
	Score     int               `json:"score"`
	Breakdown scoring.Breakdown `json:"breakdown"`
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.PDFURL == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "PDF URL is required"})
	}
	if err := validateDocumentURL(req.PDFURL); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	details, err := s.Extractor.ExtractBid(c.Request().Context(), req.PDFURL)
	metrics.AnalysesTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		s.Logger.Error("pdf analysis failed", zap.String("pdf_url", req.PDFURL), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, failure("Failed to analyze PDF", err))
	}

	bid := s.analyzedBid(req).WithDetails(*details)
	withMapPosition(&bid)
	breakdown := scoring.Explain(bid, s.Profile, "")

	return c.JSON(http.StatusOK, analyzeResponse{Bid: bid, Score: breakdown.Total, Breakdown: breakdown})
}

// analyzedBid reattaches listing metadata to an extraction. Metadata comes
// from the request, or from the selected bid when it points at the same
// document and the request carries none.
func (s *Server) analyzedBid(req analyzeRequest) models.Bid {
	if req.Title == "" {
		if sel, ok := s.Selection.Selected(); ok && sel.PDFURL == req.PDFURL {
			return sel
		}
	}
	return models.Bid{
		Title:           req.Title,
		BidNumber:       req.BidNumber,
		Agency:          req.Agency,
		DueDate:         req.DueDate,
		EstimatedBudget: req.EstimatedBudget,
		Location:        req.Location,
		PDFURL:          req.PDFURL,
		SourceURL:       req.SourceURL,
		Trades:          []string{},
	}
}

// validateDocumentURL rejects non-http URLs and obvious internal hosts.
// Hostnames are not resolved here; the fetcher refuses private addresses
// when it dials.
func validateDocumentURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("Invalid PDF URL scheme")
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return errors.New("PDF URL host is required")
	}
	if host == "localhost" || strings.HasSuffix(host, ".local") {
		return errors.New("Internal network access forbidden")
	}
	if ip := net.ParseIP(host); ip != nil && isPrivateOrSpecialIP(ip) {
		return errors.New("Internal network access forbidden")
	}
	return nil
}

func (s *Server) handleAlert(c echo.Context) error {
	var req alert.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()
	res, err := s.Alerts.SendBidAlert(ctx, req)
	if err != nil {
		if errors.Is(err, alert.ErrMissingFields) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, failure("Failed to send alert", err))
	}

	if s.Runs != nil {
		rec := db.AlertRecord{Recipient: req.Email, BidTitle: req.BidTitle, Provider: res.Provider, MessageID: res.ID}
		if _, err := s.Runs.RecordAlert(ctx, rec); err != nil {
			s.Logger.Warn("failed to record alert", zap.Error(err))
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Alert sent to %s", req.Email),
		"data":    res,
	})
}
