package model

import (
	"time"
)

// ProbeResult is one model's outcome in a test or rank run.
type ProbeResult struct {
	ID         string    `db:"id" json:"id"`
	RunID      string    `db:"run_id" json:"run_id"`
	Mode       string    `db:"mode" json:"mode"`
	Provider   string    `db:"provider" json:"provider"`
	Model      string    `db:"model" json:"model"`
	WindowSize int       `db:"window_size" json:"window_size"`
	OK         bool      `db:"ok" json:"ok"`
	LatencyMS  int64     `db:"latency_ms" json:"latency_ms"`
	P50MS      int64     `db:"p50_ms" json:"p50_ms"`
	Samples    int       `db:"samples" json:"samples"`
	Chars      int       `db:"chars" json:"chars"`
	Error      string    `db:"error" json:"error,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// RequestLog captures one chat or embedding call served by the gateway.
type RequestLog struct {
	ID           string    `db:"id" json:"id"`
	Endpoint     string    `db:"endpoint" json:"endpoint"`
	Provider     string    `db:"provider" json:"provider"`
	Model        string    `db:"model" json:"model"`
	FinishReason string    `db:"finish_reason" json:"finish_reason"`
	InputTokens  int       `db:"input_tokens" json:"input_tokens"`
	OutputTokens int       `db:"output_tokens" json:"output_tokens"`
	LatencyMS    int64     `db:"latency_ms" json:"latency_ms"`
	StatusCode   int       `db:"status_code" json:"status_code"`
	ErrorType    string    `db:"error_type" json:"error_type,omitempty"`
	IPAddress    string    `db:"ip_address" json:"ip_address"`
	UserAgent    string    `db:"user_agent" json:"user_agent"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// DailyStats represents aggregated usage data for a specific day.
type DailyStats struct {
	Date           string  `db:"date" json:"date"`
	TotalRequests  int     `db:"total_requests" json:"total_requests"`
	Failed         int     `db:"failed" json:"failed"`
	TotalTokens    int     `db:"total_tokens" json:"total_tokens"`
	AverageLatency float64 `db:"avg_latency" json:"avg_latency"`
}
