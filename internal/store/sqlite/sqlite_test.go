package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nulzo/llm-provider-kit/internal/store"
	"github.com/nulzo/llm-provider-kit/internal/store/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openMemory(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	repo, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	// migrations are idempotent
	repo, err = Open(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, repo.Close())
}

func TestProbes_SaveAndQuery(t *testing.T) {
	repo := openMemory(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	results := []*model.ProbeResult{
		{RunID: "r1", Mode: "rank", Provider: "groq", Model: "slow", WindowSize: 8192, OK: true, LatencyMS: 900, Samples: 1, CreatedAt: base},
		{RunID: "r1", Mode: "rank", Provider: "groq", Model: "fast", WindowSize: 8192, OK: true, LatencyMS: 200, Samples: 1, CreatedAt: base},
		{RunID: "r1", Mode: "rank", Provider: "groq", Model: "broken", OK: false, Error: "Timeout", CreatedAt: base},
		{RunID: "r2", Mode: "test", Provider: "mistral", Model: "mistral-small", OK: true, LatencyMS: 300, CreatedAt: base.Add(time.Hour)},
	}
	for _, r := range results {
		require.NoError(t, repo.Probes().Save(ctx, r))
		assert.NotEmpty(t, r.ID)
	}

	run, err := repo.Probes().Run(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, run, 3)
	assert.Equal(t, []string{"fast", "slow", "broken"}, []string{run[0].Model, run[1].Model, run[2].Model})
	assert.False(t, run[2].OK)
	assert.Equal(t, "Timeout", run[2].Error)
	assert.True(t, run[0].CreatedAt.Equal(base))

	recent, err := repo.Probes().Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, recent, 4)
	assert.Equal(t, "mistral", recent[0].Provider)

	groq, err := repo.Probes().Recent(ctx, "groq", 2)
	require.NoError(t, err)
	assert.Len(t, groq, 2)

	none, err := repo.Probes().Recent(ctx, "cerebras", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRequests_LogAndStats(t *testing.T) {
	repo := openMemory(t)
	ctx := context.Background()

	ok := &model.RequestLog{Endpoint: "chat", Provider: "groq", Model: "llama3-8b-8192", InputTokens: 10, OutputTokens: 5, LatencyMS: 100, StatusCode: 200}
	failed := &model.RequestLog{Endpoint: "chat", Provider: "groq", Model: "llama3-8b-8192", LatencyMS: 300, StatusCode: 502, ErrorType: "httpclient.UpstreamError"}
	require.NoError(t, repo.Requests().Log(ctx, ok))
	require.NoError(t, repo.Requests().Log(ctx, failed))

	got, err := repo.Requests().GetByID(ctx, ok.ID)
	require.NoError(t, err)
	assert.Equal(t, "llama3-8b-8192", got.Model)
	assert.Equal(t, 15, got.InputTokens+got.OutputTokens)

	_, err = repo.Requests().GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	recent, err := repo.Requests().Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	stats, err := repo.Requests().DailyStats(ctx, 7)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 2, stats[0].TotalRequests)
	assert.Equal(t, 1, stats[0].Failed)
	assert.Equal(t, 15, stats[0].TotalTokens)
	assert.InDelta(t, 200, stats[0].AverageLatency, 0.001)
}

func TestWithTx_RollsBack(t *testing.T) {
	repo := openMemory(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.WithTx(ctx, func(tx store.Repository) error {
		require.NoError(t, tx.Probes().Save(ctx, &model.ProbeResult{RunID: "r", Mode: "rank", Provider: "groq", Model: "a"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	results, err := repo.Probes().Run(ctx, "r")
	require.NoError(t, err)
	assert.Empty(t, results)

	require.NoError(t, repo.WithTx(ctx, func(tx store.Repository) error {
		return tx.Probes().Save(ctx, &model.ProbeResult{RunID: "r", Mode: "rank", Provider: "groq", Model: "a"})
	}))
	results, err = repo.Probes().Run(ctx, "r")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
