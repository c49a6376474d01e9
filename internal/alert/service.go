package alert

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/david/bid-finder/internal/metrics"
)

// DefaultFrom is the sender address used when none is configured.
const DefaultFrom = "Bid Alerts <bidalerts@avi.mn>"

// Result is what a delivered alert reports back.
type Result struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
}

// Service validates, renders and delivers bid alerts.
type Service struct {
	Sender Sender
	From   string
	Logger *zap.Logger
}

func NewService(sender Sender, from string, logger *zap.Logger) *Service {
	if from == "" {
		from = DefaultFrom
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Sender: sender, From: from, Logger: logger}
}

// SendBidAlert delivers a single alert. Validation failures return
// ErrMissingFields before anything is sent.
func (s *Service) SendBidAlert(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	req = req.WithDefaults()

	subject, html, err := RenderAlert(req)
	if err != nil {
		return Result{}, err
	}

	id, err := s.Sender.Send(ctx, Message{
		From:    s.From,
		To:      []string{req.Email},
		Subject: subject,
		HTML:    html,
	})
	metrics.AlertsTotal.WithLabelValues(s.Sender.Name(), metrics.Result(err)).Inc()
	if err != nil {
		s.Logger.Error("alert delivery failed",
			zap.String("provider", s.Sender.Name()),
			zap.String("bid", req.BidTitle),
			zap.Error(err))
		return Result{}, fmt.Errorf("send alert: %w", err)
	}

	s.Logger.Info("alert sent",
		zap.String("provider", s.Sender.Name()),
		zap.String("bid", req.BidTitle),
		zap.String("message_id", id))
	return Result{ID: id, Provider: s.Sender.Name()}, nil
}
