package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 200
)

// Store records operational history: searches and sent alerts. Bids and
// profiles are never stored.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// SearchRun summarizes one search request.
type SearchRun struct {
	ID            uuid.UUID         `json:"id"`
	Query         string            `json:"query"`
	SourcesOK     int               `json:"sources_ok"`
	SourcesFailed int               `json:"sources_failed"`
	BidsFound     int               `json:"bids_found"`
	TopScore      *int              `json:"top_score,omitempty"` // nil when nothing was found
	Filtered      bool              `json:"filtered"`
	SourceErrors  map[string]string `json:"source_errors,omitempty"`
	StartedAt     time.Time         `json:"started_at"`
	DurationMS    int64             `json:"duration_ms"`
}

// AlertRecord is one delivered alert.
type AlertRecord struct {
	ID        uuid.UUID `json:"id"`
	Recipient string    `json:"recipient"`
	BidTitle  string    `json:"bid_title"`
	Provider  string    `json:"provider"`
	MessageID string    `json:"message_id"`
	SentAt    time.Time `json:"sent_at"`
}

func (s *Store) RecordSearch(ctx context.Context, run SearchRun) (uuid.UUID, error) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.SourceErrors == nil {
		run.SourceErrors = map[string]string{}
	}
	errorsJSON, err := json.Marshal(run.SourceErrors)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal source errors: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO search_runs
			(id, query, sources_ok, sources_failed, bids_found, top_score, filtered, source_errors, started_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		run.ID, run.Query, run.SourcesOK, run.SourcesFailed, run.BidsFound, run.TopScore,
		run.Filtered, errorsJSON, run.StartedAt, run.DurationMS)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert search run: %w", err)
	}
	return run.ID, nil
}

func (s *Store) RecordAlert(ctx context.Context, rec AlertRecord) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.SentAt.IsZero() {
		rec.SentAt = time.Now()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO alert_log (id, recipient, bid_title, provider, message_id, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Recipient, rec.BidTitle, rec.Provider, rec.MessageID, rec.SentAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert alert: %w", err)
	}
	return rec.ID, nil
}

// RecentSearches returns the latest runs, newest first.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]SearchRun, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, query, sources_ok, sources_failed, bids_found, top_score, filtered, source_errors, started_at, duration_ms
		FROM search_runs
		ORDER BY started_at DESC
		LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query search runs: %w", err)
	}
	defer rows.Close()

	runs := []SearchRun{}
	for rows.Next() {
		var run SearchRun
		var errorsJSON []byte
		if err := rows.Scan(&run.ID, &run.Query, &run.SourcesOK, &run.SourcesFailed, &run.BidsFound,
			&run.TopScore, &run.Filtered, &errorsJSON, &run.StartedAt, &run.DurationMS); err != nil {
			return nil, fmt.Errorf("failed to scan search run: %w", err)
		}
		if len(errorsJSON) > 0 {
			_ = json.Unmarshal(errorsJSON, &run.SourceErrors)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultRunLimit
	}
	return min(limit, maxRunLimit)
}
