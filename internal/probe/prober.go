// Package probe sends live requests to catalog models and ranks the ones that
// answer by latency.
package probe

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nulzo/llm-provider-kit/internal/catalog"
	"github.com/nulzo/llm-provider-kit/internal/httpclient"
	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/nulzo/llm-provider-kit/pkg/api"
	vegeta "github.com/tsenart/vegeta/v12/lib"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Result is the outcome of probing one model.
type Result struct {
	RunID    string
	Mode     string
	Provider string
	Model    string

	// Window is the raw token from the catalog; WindowSize its parsed value.
	Window     string
	WindowSize int

	OK      bool
	Latency time.Duration
	P50     time.Duration
	Samples int
	Chars   int
	Error   string
	At      time.Time
}

type Prober struct {
	log     *zap.Logger
	mode    Mode
	samples int
	pacer   *rate.Limiter
	runID   string
}

type Option func(*Prober)

// WithSamples sends n requests per model and averages their latency.
func WithSamples(n int) Option {
	return func(p *Prober) {
		if n > 0 {
			p.samples = n
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.mode.Timeout = d
		}
	}
}

// WithDelay overrides the pause between consecutive requests.
func WithDelay(d time.Duration) Option {
	return func(p *Prober) { p.mode.Delay = d }
}

func WithPrompt(prompt string) Option {
	return func(p *Prober) {
		if prompt != "" {
			p.mode.Prompt = prompt
		}
	}
}

func New(log *zap.Logger, mode Mode, opts ...Option) *Prober {
	p := &Prober{
		log:     log,
		mode:    mode,
		samples: 1,
		runID:   uuid.NewString(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.pacer = httpclient.Pacer(p.mode.Delay)
	return p
}

// RunID identifies the results of this prober.
func (p *Prober) RunID() string {
	return p.runID
}

func (p *Prober) Mode() Mode {
	return p.mode
}

// Run probes every candidate in order and calls report after each one.
// clients are tried in order for each model until one succeeds.
func (p *Prober) Run(ctx context.Context, provider string, clients []llm.Client, candidates []catalog.Entry, report func(Result)) []Result {
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		r := p.Probe(ctx, provider, clients, c)
		if report != nil {
			report(r)
		}
		results = append(results, r)
	}
	return results
}

// Probe measures one model. It is OK only when every sample succeeds through
// at least one of the clients.
func (p *Prober) Probe(ctx context.Context, provider string, clients []llm.Client, entry catalog.Entry) Result {
	result := Result{
		RunID:      p.runID,
		Mode:       p.mode.Name,
		Provider:   provider,
		Model:      entry.ID,
		Window:     entry.Token,
		WindowSize: catalog.ParseWindow(entry.Token),
		At:         time.Now().UTC(),
	}
	if len(clients) == 0 {
		result.Error = "no client"
		return result
	}

	var metrics vegeta.Metrics
	for i := 0; i < p.samples; i++ {
		sample := p.sample(ctx, clients, entry.ID, uint64(i))
		metrics.Add(&sample)
		if sample.Error != "" {
			result.Error = sample.Error
			break
		}
		result.Chars = int(sample.BytesIn)
	}
	metrics.Close()

	result.Samples = int(metrics.Requests)
	result.OK = metrics.Requests > 0 && metrics.Success == 1
	if result.OK {
		result.Latency = metrics.Latencies.Mean
		result.P50 = metrics.Latencies.P50
	}

	p.log.Debug("probe",
		zap.String("provider", provider),
		zap.String("model", entry.ID),
		zap.Bool("ok", result.OK),
		zap.Duration("latency", result.Latency),
		zap.String("error", result.Error),
	)
	return result
}

// sample performs one timed request, falling through clients on failure.
func (p *Prober) sample(ctx context.Context, clients []llm.Client, model string, seq uint64) vegeta.Result {
	res := vegeta.Result{Attack: p.mode.Name, Seq: seq, Method: "POST", URL: model}

	payload := api.NewPayload(model, p.mode.Prompt)
	payload["max_tokens"] = p.mode.MaxTokens

	for _, client := range clients {
		if err := p.pacer.Wait(ctx); err != nil {
			res.Error = err.Error()
			return res
		}

		res.Timestamp = time.Now()
		callCtx, cancel := context.WithTimeout(ctx, p.mode.Timeout)
		resp := client.SendRequest(callCtx, payload)
		res.Latency = time.Since(res.Timestamp)
		cancel()

		if err := p.check(callCtx, resp); err != "" {
			res.Code = 0
			res.Error = err
			continue
		}

		answer, _ := SplitThinking(resp.Data.Content)
		res.Code = 200
		res.Error = ""
		res.BytesIn = uint64(len(answer))
		return res
	}
	return res
}

func (p *Prober) check(ctx context.Context, resp *api.Response) string {
	if resp.IsError() {
		if ctx.Err() == context.DeadlineExceeded {
			return "Timeout"
		}
		if resp.Error.Code != nil {
			return fmt.Sprintf("%v: %s", resp.Error.Code, resp.Error.Message)
		}
		return resp.Error.Message
	}
	answer, _ := SplitThinking(resp.Data.Content)
	if p.mode.RequireContent && strings.TrimSpace(answer) == "" {
		return "Testo vuoto"
	}
	return ""
}

// Ranked keeps successful results, fastest first. Equal latencies keep their
// probe order.
func Ranked(results []Result) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if r.OK {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Latency < out[j].Latency })
	return out
}

// Passed keeps successful results in probe order.
func Passed(results []Result) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if r.OK {
			out = append(out, r)
		}
	}
	return out
}
