package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/david/bid-finder/internal/ai"
	"github.com/david/bid-finder/internal/alert"
	"github.com/david/bid-finder/internal/db"
	"github.com/david/bid-finder/internal/ingest"
	"github.com/david/bid-finder/internal/profile"
	"github.com/david/bid-finder/internal/selection"
)

// Searcher runs a bid search across the configured sources.
type Searcher interface {
	FindBids(ctx context.Context, query string) (ingest.SearchResult, error)
}

// Alerter delivers bid alert e-mails.
type Alerter interface {
	SendBidAlert(ctx context.Context, req alert.Request) (alert.Result, error)
}

// RunLog records searches and alerts. Optional.
type RunLog interface {
	RecordSearch(ctx context.Context, run db.SearchRun) (uuid.UUID, error)
	RecordAlert(ctx context.Context, rec db.AlertRecord) (uuid.UUID, error)
	RecentSearches(ctx context.Context, limit int) ([]db.SearchRun, error)
}

type Options struct {
	Searcher    Searcher
	Extractor   ai.Extractor
	Alerts      Alerter
	Selection   *selection.Store
	Runs        RunLog // nil disables /api/runs
	Profile     profile.Profile
	CORSOrigins []string
	Logger      *zap.Logger
}

type Server struct {
	Echo      *echo.Echo
	Searcher  Searcher
	Extractor ai.Extractor
	Alerts    Alerter
	Selection *selection.Store
	Runs      RunLog
	Profile   profile.Profile
	Logger    *zap.Logger
}

func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sel := opts.Selection
	if sel == nil {
		sel = selection.NewStore()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s := &Server{
		Echo:      e,
		Searcher:  opts.Searcher,
		Extractor: opts.Extractor,
		Alerts:    opts.Alerts,
		Selection: sel,
		Runs:      opts.Runs,
		Profile:   opts.Profile,
		Logger:    logger,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	s.Echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	bids := s.Echo.Group("/api/bids")
	bids.POST("/search", s.handleSearch)
	bids.POST("/analyze", s.handleAnalyze)
	bids.POST("/alert", s.handleAlert)

	bids.GET("/selection", s.handleGetSelection)
	bids.PUT("/selection", s.handlePutSelection)
	bids.DELETE("/selection", s.handleClearSelection)
	bids.GET("/map-query", s.handleGetMapQuery)
	bids.PUT("/map-query", s.handlePutMapQuery)

	s.Echo.GET("/api/runs", s.handleListRuns)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Error("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}

// failure is the JSON body for collaborator errors.
func failure(message string, err error) map[string]string {
	return map[string]string{"error": message, "details": err.Error()}
}

func isPrivateOrSpecialIP(ip net.IP) bool {
	if ip == nil {
		return true
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsMulticast() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}

	if ip4 := ip.To4(); ip4 != nil {
		if ip4[0] == 100 && ip4[1]&0xC0 == 64 {
			return true
		}
		if ip4[0] == 169 && ip4[1] == 254 {
			return true
		}
	}

	return false
}

func elapsedMS(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
