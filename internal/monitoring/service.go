package monitoring

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pawpopart/pawpop-fulfillment/storage/db"
)

// Alert thresholds: a short failure streak catches hard outages, the success
// rate catches slow bleed.
const (
	failureStreakThreshold = 3
	successRateThreshold   = 0.95
	statsWindow            = time.Hour
	alertCooldown          = 30 * time.Minute
)

// Alerter delivers operator notifications. The email service satisfies it.
type Alerter interface {
	SendSystemAlert(subject, message string) error
}

// Service records webhook processing outcomes and raises operator alerts
// when the pipeline degrades. Recording failures are logged and swallowed:
// monitoring must never break payment processing.
type Service struct {
	queries *db.Queries
	alerter Alerter

	mu            sync.Mutex
	failureStreak int
	lastAlert     time.Time
}

func NewService(queries *db.Queries, alerter Alerter) *Service {
	return &Service{
		queries: queries,
		alerter: alerter,
	}
}

// Outcome of a single webhook event.
type Outcome struct {
	EventID   string
	EventType string
	Err       error
	Duration  time.Duration
}

// TrackWebhookEvent persists the outcome and evaluates alert thresholds.
func (s *Service) TrackWebhookEvent(ctx context.Context, outcome Outcome) {
	status := "success"
	var errMessage string
	if outcome.Err != nil {
		status = "failed"
		errMessage = outcome.Err.Error()
	}

	err := s.queries.CreateWebhookEvent(ctx, db.CreateWebhookEventParams{
		ID:           ulid.Make().String(),
		EventID:      outcome.EventID,
		EventType:    outcome.EventType,
		Status:       status,
		ProcessingMs: outcome.Duration.Milliseconds(),
		ErrorMessage: nullString(errMessage),
	})
	if err != nil {
		slog.Error("failed to record webhook event", "event_id", outcome.EventID, "error", err)
	}

	s.mu.Lock()
	if outcome.Err != nil {
		s.failureStreak++
	} else {
		s.failureStreak = 0
	}
	streak := s.failureStreak
	s.mu.Unlock()

	if outcome.Err == nil {
		return
	}

	slog.Error("webhook event failed",
		"event_id", outcome.EventID,
		"event_type", outcome.EventType,
		"failure_streak", streak,
		"error", outcome.Err)

	if streak >= failureStreakThreshold {
		s.raiseAlert(ctx, "Webhook failure streak",
			fmt.Sprintf("%d consecutive webhook events failed. Latest: %s (%s): %v",
				streak, outcome.EventID, outcome.EventType, outcome.Err))
		return
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		slog.Error("failed to compute webhook stats", "error", err)
		return
	}
	if stats.Total >= 10 && stats.SuccessRate < successRateThreshold {
		s.raiseAlert(ctx, "Webhook success rate degraded",
			fmt.Sprintf("Success rate over the last hour is %.1f%% (%d of %d events failed)",
				stats.SuccessRate*100, stats.Failed, stats.Total))
	}
}

// WebhookStats summarizes the recent processing window.
type WebhookStats struct {
	Total       int64   `json:"total"`
	Failed      int64   `json:"failed"`
	SuccessRate float64 `json:"successRate"`
}

func (s *Service) Stats(ctx context.Context) (WebhookStats, error) {
	row, err := s.queries.GetWebhookStats(ctx, time.Now().Add(-statsWindow))
	if err != nil {
		return WebhookStats{}, err
	}
	stats := WebhookStats{Total: row.Total, Failed: row.Failed, SuccessRate: 1}
	if row.Total > 0 {
		stats.SuccessRate = float64(row.Total-row.Failed) / float64(row.Total)
	}
	return stats, nil
}

// RecentEvents returns the latest webhook event records, newest first.
func (s *Service) RecentEvents(ctx context.Context, limit int64) ([]db.WebhookEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queries.ListRecentWebhookEvents(ctx, limit)
}

// raiseAlert sends at most one alert per cooldown window.
func (s *Service) raiseAlert(ctx context.Context, subject, message string) {
	s.mu.Lock()
	if time.Since(s.lastAlert) < alertCooldown {
		s.mu.Unlock()
		return
	}
	s.lastAlert = time.Now()
	s.mu.Unlock()

	slog.Error("raising system alert", "subject", subject)
	if s.alerter == nil {
		return
	}
	if err := s.alerter.SendSystemAlert(subject, message); err != nil {
		slog.Error("failed to send system alert", "subject", subject, "error", err)
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
