package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/nulzo/llm-provider-kit/internal/store"
	"github.com/nulzo/llm-provider-kit/internal/store/model"
)

// DB defines the interface for database operations (satisfied by *sqlx.DB and *sqlx.Tx)
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Repository implements store.Repository
type Repository struct {
	db       *sqlx.DB // Required for starting new transactions
	executor DB       // *sqlx.DB or *sqlx.Tx
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		db:       db,
		executor: db,
	}
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	txRepo := &Repository{
		db:       r.db,
		executor: tx,
	}

	if err := fn(txRepo); err != nil {
		// rollback error is secondary to fn's
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *Repository) Probes() store.ProbeRepository {
	return &probeRepo{db: r.executor}
}

func (r *Repository) Requests() store.RequestRepository {
	return &requestRepo{db: r.executor}
}

// stamp fills a missing id and creation time.
func stamp(id *string, at *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if at.IsZero() {
		*at = time.Now()
	}
	*at = at.UTC()
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

type probeRepo struct {
	db DB
}

func (r *probeRepo) Save(ctx context.Context, result *model.ProbeResult) error {
	stamp(&result.ID, &result.CreatedAt)
	query := `
	INSERT INTO probe_results (
		id, run_id, mode, provider, model, window_size,
		ok, latency_ms, p50_ms, samples, chars, error, created_at
	) VALUES (
		:id, :run_id, :mode, :provider, :model, :window_size,
		:ok, :latency_ms, :p50_ms, :samples, :chars, :error, :created_at
	)`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("save probe result %s/%s: %w", result.Provider, result.Model, err)
	}
	return nil
}

func (r *probeRepo) Recent(ctx context.Context, provider string, limit int) ([]model.ProbeResult, error) {
	results := []model.ProbeResult{}
	var err error
	if provider == "" {
		err = r.db.SelectContext(ctx, &results,
			`SELECT * FROM probe_results ORDER BY created_at DESC, latency_ms ASC LIMIT ?`, limit)
	} else {
		err = r.db.SelectContext(ctx, &results,
			`SELECT * FROM probe_results WHERE provider = ? ORDER BY created_at DESC, latency_ms ASC LIMIT ?`,
			provider, limit)
	}
	return results, err
}

func (r *probeRepo) Run(ctx context.Context, runID string) ([]model.ProbeResult, error) {
	results := []model.ProbeResult{}
	err := r.db.SelectContext(ctx, &results,
		`SELECT * FROM probe_results WHERE run_id = ? ORDER BY ok DESC, latency_ms ASC, model ASC`, runID)
	return results, err
}

type requestRepo struct {
	db DB
}

func (r *requestRepo) Log(ctx context.Context, log *model.RequestLog) error {
	stamp(&log.ID, &log.CreatedAt)
	query := `
	INSERT INTO request_logs (
		id, endpoint, provider, model, finish_reason,
		input_tokens, output_tokens, latency_ms, status_code, error_type,
		ip_address, user_agent, created_at
	) VALUES (
		:id, :endpoint, :provider, :model, :finish_reason,
		:input_tokens, :output_tokens, :latency_ms, :status_code, :error_type,
		:ip_address, :user_agent, :created_at
	)`
	_, err := r.db.NamedExecContext(ctx, query, log)
	return err
}

func (r *requestRepo) GetByID(ctx context.Context, id string) (*model.RequestLog, error) {
	var log model.RequestLog
	if err := r.db.GetContext(ctx, &log, `SELECT * FROM request_logs WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &log, nil
}

func (r *requestRepo) Recent(ctx context.Context, limit int) ([]model.RequestLog, error) {
	logs := []model.RequestLog{}
	err := r.db.SelectContext(ctx, &logs, `SELECT * FROM request_logs ORDER BY created_at DESC LIMIT ?`, limit)
	return logs, err
}

func (r *requestRepo) DailyStats(ctx context.Context, days int) ([]model.DailyStats, error) {
	stats := []model.DailyStats{}
	query := `
		SELECT
			DATE(created_at) AS date,
			COUNT(*) AS total_requests,
			SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END) AS failed,
			SUM(input_tokens + output_tokens) AS total_tokens,
			AVG(latency_ms) AS avg_latency
		FROM request_logs
		WHERE created_at >= DATE('now', ?)
		GROUP BY date
		ORDER BY date DESC
	`
	// SQLite date offset format is '-7 days'
	err := r.db.SelectContext(ctx, &stats, query, fmt.Sprintf("-%d days", days))
	return stats, err
}
