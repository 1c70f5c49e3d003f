package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/nulzo/llm-provider-kit/internal/analytics"
	"github.com/nulzo/llm-provider-kit/internal/catalog"
	"github.com/nulzo/llm-provider-kit/internal/config"
	"github.com/nulzo/llm-provider-kit/internal/registry"
	"github.com/nulzo/llm-provider-kit/internal/server"
	"github.com/nulzo/llm-provider-kit/internal/store/sqlite"
	vegeta "github.com/tsenart/vegeta/v12/lib"
	"go.uber.org/zap"

	_ "github.com/nulzo/llm-provider-kit/internal/llm/all"
)

const benchModel = "bench-model"

var unaryResp = []byte(`{"id":"bench-123","model":"bench-model","choices":[{"message":{"role":"assistant","content":"Hello"},"finish_reason":"stop"}],"usage":{"prompt_tokens":3,"completion_tokens":1,"total_tokens":4}}`)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	rate := flag.Int("rate", 50, "Requests per second")
	upstreamLatency := flag.Duration("upstream-latency", 10*time.Millisecond, "Simulated provider latency")
	chaos := flag.Bool("chaos", false, "Simulate random client disconnections")
	withStore := flag.Bool("store", false, "Record requests in a temporary sqlite store")
	flag.Parse()

	mock := httptest.NewServer(mockProvider(*upstreamLatency))
	defer mock.Close()

	workDir, err := os.MkdirTemp("", "llm-bench")
	if err != nil {
		log.Fatalf("Failed to create work dir: %v", err)
	}
	defer os.RemoveAll(workDir)

	dataDir := filepath.Join(workDir, "data")
	if err := catalog.WriteEntries(catalog.WindowPath(dataDir, "groq"), []catalog.Entry{{ID: benchModel, Token: "8k"}}); err != nil {
		log.Fatalf("Failed to write catalog: %v", err)
	}

	cfg := &config.Config{
		Server:    config.ServerConfig{Env: "production"},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 0},
	}
	logger := zap.NewNop()

	reg := registry.New(
		registry.WithLogger(logger),
		registry.WithDataDir(dataDir),
		registry.WithKeySource(func() (map[string]string, error) {
			return map[string]string{"groq": "bench-key"}, nil
		}),
		registry.WithBaseURLs(map[string]string{"groq": mock.URL}),
	)

	var opts []server.Option
	if *withStore {
		repo, err := sqlite.Open(filepath.Join(workDir, "bench.db"), logger)
		if err != nil {
			log.Fatalf("Failed to open store: %v", err)
		}
		defer repo.Close()
		ingestor := analytics.NewIngestor(logger, repo)
		ingestor.Start(context.Background())
		defer ingestor.Stop()
		opts = append(opts, server.WithAnalytics(analytics.NewService(repo), ingestor))
	}

	app := httptest.NewServer(server.New(cfg, logger, reg, opts...).Handler())
	defer app.Close()
	waitForApp(app.URL + "/health")

	done := make(chan struct{})
	go monitorResources(done)

	fmt.Printf("Running benchmark against %s/%s: %s duration, %d req/s\n", "groq", benchModel, *duration, *rate)

	url := app.URL + "/v1/chat/completions"
	body := []byte(fmt.Sprintf(`{"model": %q, "messages": [{"role": "user", "content": "Hello"}]}`, benchModel))

	targeter := func(t *vegeta.Target) error {
		t.Method = "POST"
		t.URL = url
		t.Body = body
		t.Header = http.Header{
			"Content-Type": []string{"application/json"},
			"X-Provider":   []string{"groq"},
		}
		return nil
	}

	if *chaos {
		fmt.Println("CHAOS MODE ENABLED: Starting Chaos Monkey sidecar...")
		chaosConcurrency := *rate / 10
		if chaosConcurrency < 5 {
			chaosConcurrency = 5
		}
		if chaosConcurrency > 50 {
			chaosConcurrency = 50
		}
		go startChaosMonkey(url, chaosConcurrency, done)
	}

	attacker := vegeta.NewAttacker(vegeta.KeepAlive(true))
	var metrics vegeta.Metrics

	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, *duration, "Benchmark") {
		metrics.Add(res)
	}
	metrics.Close()

	close(done)

	fmt.Println("--------------------------------------------------")
	fmt.Println("99th percentile: ", metrics.Latencies.P99)
	fmt.Println("Mean:            ", metrics.Latencies.Mean)
	fmt.Println("Max:             ", metrics.Latencies.Max)
	fmt.Printf("Success:         %.2f%%\n", metrics.Success*100)
	fmt.Printf("Throughput:      %.2f req/s\n", metrics.Throughput)
	fmt.Println("--------------------------------------------------")

	if len(metrics.Errors) > 0 {
		fmt.Println("Error Set (first 5 unique):")

		uniqueErrors := make(map[string]bool)
		count := 0
		for _, msg := range metrics.Errors {
			if !uniqueErrors[msg] && count < 5 {
				fmt.Println(msg)

				uniqueErrors[msg] = true
				count++
			}
		}
	}
}

func startChaosMonkey(url string, concurrency int, done chan struct{}) {
	fmt.Printf("Starting Chaos Monkey with %d concurrent disrupters (random disconnects 1-200ms)\n", concurrency)
	var wg sync.WaitGroup
	wg.Add(concurrency)

	payload := fmt.Sprintf(`{"model": %q, "messages": [{"role": "user", "content": "Chaos Request"}]}`, benchModel)

	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			client := &http.Client{
				Transport: &http.Transport{
					MaxIdleConns:        100,
					MaxIdleConnsPerHost: 100,
				},
			}

			for {
				select {
				case <-done:
					return
				default:
					timeout := time.Duration(rand.Intn(200)+1) * time.Millisecond

					ctx, cancel := context.WithTimeout(context.Background(), timeout)
					req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(payload))
					req.Header.Set("Content-Type", "application/json")
					req.Header.Set("X-Provider", "groq")

					resp, err := client.Do(req)
					if err == nil {
						resp.Body.Close()
					}
					cancel()

					time.Sleep(time.Duration(rand.Intn(50)) * time.Millisecond)
				}
			}
		}()
	}
}

// mockProvider answers like an OpenAI-compatible chat endpoint after latency.
func mockProvider(latency time.Duration) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(latency)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(unaryResp)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return mux
}

// monitorResources samples the process heap once a second. Gateway and mock
// share the process, so the figures cover both.
func monitorResources(done chan struct{}) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	fmt.Println("\n--- Resource Usage (runtime.MemStats) ---")
	fmt.Printf("% -10s % -10s % -10s % -10s\n", "Time", "Heap(MB)", "Alloc(MB)", "Goroutines")

	var m runtime.MemStats
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			runtime.ReadMemStats(&m)
			fmt.Printf("% -10s % -10.2f % -10.2f % -10d\n",
				time.Now().Format("15:04:05"),
				float64(m.HeapInuse)/1024/1024,
				float64(m.Alloc)/1024/1024,
				runtime.NumGoroutine(),
			)
		}
	}
}

func waitForApp(url string) {
	for i := 0; i < 20; i++ {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Fatal("App timed out")
}
