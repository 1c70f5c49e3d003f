package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/nulzo/llm-provider-kit/internal/probe"
	"github.com/nulzo/llm-provider-kit/internal/store"
	"github.com/nulzo/llm-provider-kit/internal/store/model"
)

const (
	defaultDays  = 7
	defaultLimit = 20
)

type Service interface {
	UsageOverview(ctx context.Context, days int) ([]model.DailyStats, error)
	RecentRequests(ctx context.Context, limit int) ([]model.RequestLog, error)
	// RecordProbes saves a whole probe run in one transaction.
	RecordProbes(ctx context.Context, results []probe.Result) error
	ProbeHistory(ctx context.Context, provider string, limit int) ([]model.ProbeResult, error)
}

type service struct {
	repo store.Repository
}

func NewService(repo store.Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) UsageOverview(ctx context.Context, days int) ([]model.DailyStats, error) {
	if days <= 0 {
		days = defaultDays
	}
	return s.repo.Requests().DailyStats(ctx, days)
}

func (s *service) RecentRequests(ctx context.Context, limit int) ([]model.RequestLog, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.repo.Requests().Recent(ctx, limit)
}

func (s *service) RecordProbes(ctx context.Context, results []probe.Result) error {
	if len(results) == 0 {
		return nil
	}
	return s.repo.WithTx(ctx, func(tx store.Repository) error {
		for _, r := range results {
			rec := ProbeRecord(r)
			if err := tx.Probes().Save(ctx, &rec); err != nil {
				return fmt.Errorf("record probe run %s: %w", r.RunID, err)
			}
		}
		return nil
	})
}

func (s *service) ProbeHistory(ctx context.Context, provider string, limit int) ([]model.ProbeResult, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.repo.Probes().Recent(ctx, provider, limit)
}

// ProbeRecord converts a probe result into its stored form.
func ProbeRecord(r probe.Result) model.ProbeResult {
	at := r.At
	if at.IsZero() {
		at = time.Now()
	}
	return model.ProbeResult{
		RunID:      r.RunID,
		Mode:       r.Mode,
		Provider:   r.Provider,
		Model:      r.Model,
		WindowSize: r.WindowSize,
		OK:         r.OK,
		LatencyMS:  r.Latency.Milliseconds(),
		P50MS:      r.P50.Milliseconds(),
		Samples:    r.Samples,
		Chars:      r.Chars,
		Error:      r.Error,
		CreatedAt:  at,
	}
}
