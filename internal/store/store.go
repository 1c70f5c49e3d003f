// Package store defines the history repository: probe results recorded by
// the CLI and request logs recorded by the gateway.
package store

import (
	"context"
	"errors"

	"github.com/nulzo/llm-provider-kit/internal/store/model"
)

var ErrNotFound = errors.New("not found")

// Repository is the main contract for the data layer.
type Repository interface {
	Probes() ProbeRepository
	Requests() RequestRepository

	// WithTx runs fn against a repository bound to one transaction. fn's
	// error rolls it back.
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	Close() error
}

type ProbeRepository interface {
	Save(ctx context.Context, result *model.ProbeResult) error
	// Recent returns the newest results, optionally for one provider ("" for
	// all).
	Recent(ctx context.Context, provider string, limit int) ([]model.ProbeResult, error)
	// Run returns the results of one probe run, fastest first.
	Run(ctx context.Context, runID string) ([]model.ProbeResult, error)
}

type RequestRepository interface {
	Log(ctx context.Context, log *model.RequestLog) error
	GetByID(ctx context.Context, id string) (*model.RequestLog, error)
	Recent(ctx context.Context, limit int) ([]model.RequestLog, error)
	// DailyStats aggregates the last days days, newest first.
	DailyStats(ctx context.Context, days int) ([]model.DailyStats, error)
}
