package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/natal/internal/domain/astro"
	"github.com/okian/natal/pkg/logger"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
	maxResponseBytes     = 4 << 20
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Get performs a GET request against path and returns status, headers and body.
func (c *HTTPClient) Get(ctx context.Context, path string) (int, http.Header, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req)
}

// Post performs a POST request with a JSON body and optional idempotency key.
func (c *HTTPClient) Post(ctx context.Context, path string, body any, key string) (int, http.Header, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(headerIdempotencyKey, key)
	}
	return c.do(req)
}

func (c *HTTPClient) do(req *http.Request) (int, http.Header, []byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, resp.Header, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, resp.Header, body, nil
}

// submitCharts posts every input using a pool of workers. Results are
// returned in input order.
func submitCharts(ctx context.Context, cfg *Config, client *HTTPClient, inputs []astro.BirthInput, stats *Stats) []Result {
	log := logger.Get()
	log.Info(ctx, "submitting charts",
		logger.Int("charts", len(inputs)),
		logger.Int("workers", cfg.Workers))

	var (
		created   int64
		rejected  int64
		failed    int64
		submitted int64
	)

	results := make([]Result, len(inputs))
	jobs := make(chan int, cfg.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res := submitOne(ctx, client, i, inputs[i])
				results[i] = res

				total := atomic.AddInt64(&submitted, 1)
				switch {
				case res.Err != nil:
					atomic.AddInt64(&failed, 1)
				case res.Status == http.StatusCreated:
					atomic.AddInt64(&created, 1)
				default:
					atomic.AddInt64(&rejected, 1)
				}

				if cfg.Verbose && total%progressEvery == 0 {
					log.Info(ctx, "progress",
						logger.Int("submitted", int(total)),
						logger.Int("of", len(inputs)))
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range inputs {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	stats.ChartsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ChartsCreated = int(atomic.LoadInt64(&created))
	stats.ChartsRejected = int(atomic.LoadInt64(&rejected))
	stats.ChartsFailed = int(atomic.LoadInt64(&failed))

	log.Info(ctx, "chart submission completed",
		logger.Int("created", stats.ChartsCreated),
		logger.Int("rejected", stats.ChartsRejected),
		logger.Int("failed", stats.ChartsFailed))
	return results
}

// submitOne posts a single input.
func submitOne(ctx context.Context, client *HTTPClient, index int, in astro.BirthInput) Result {
	res := Result{Index: index, Input: in}
	status, _, body, err := client.Post(ctx, "/charts", in, "")
	res.Status = status
	if err != nil {
		res.Err = err
		return res
	}
	if status != http.StatusCreated {
		return res
	}
	if err := json.Unmarshal(body, &res.Reply); err != nil {
		res.Err = fmt.Errorf("decode snapshot: %w", err)
	}
	return res
}
