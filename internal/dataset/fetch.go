package dataset

// Remote dataset download
// Retries transient failures with backoff and trips a circuit breaker on repeated errors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	logging "survival-dashboard/internal/infra/log"
	"survival-dashboard/internal/infra/retry"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const defaultMaxDatasetSize = 64 * 1024 * 1024

type FetcherConfig struct {
	Timeout    time.Duration
	MaxRetries int
	MaxSize    int64
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Fetcher downloads CSV sources over HTTP.
type Fetcher struct {
	httpClient     *http.Client
	circuitBreaker *gobreaker.CircuitBreaker
	retry          retry.Options
	maxSize        int64
}

func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = defaultMaxDatasetSize
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	opts := retry.DefaultOptions
	if cfg.MaxRetries > 0 {
		opts.MaxRetries = cfg.MaxRetries
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "DatasetFetch",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.LogWarn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Fetcher{
		httpClient:     client,
		circuitBreaker: cb,
		retry:          opts,
		maxSize:        cfg.MaxSize,
	}
}

// Fetch downloads url and returns its body.
func (f *Fetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	requestID := logging.GenerateRequestID()
	start := time.Now()
	logging.LogRequest(requestID, http.MethodGet, url)

	var body []byte
	err := retry.Do(ctx, f.retry, func() error {
		out, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.get(ctx, url)
		})
		if err != nil {
			return err
		}
		body = out.([]byte)
		return nil
	})

	duration := time.Since(start).Milliseconds()
	if err != nil {
		status := 0
		var he *retry.HTTPError
		if errors.As(err, &he) {
			status = he.StatusCode
		}
		logging.LogResponse(requestID, status, duration, zap.String("endpoint", url), zap.Error(err))
		return nil, err
	}

	logging.LogResponse(requestID, http.StatusOK, duration, zap.String("endpoint", url), zap.Int("bytes", len(body)))
	return io.NopCloser(bytes.NewReader(body)), nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &retry.HTTPError{
			URL:        url,
			StatusCode: resp.StatusCode,
			RetryAfter: retry.ParseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(data)) > f.maxSize {
		return nil, fmt.Errorf("dataset larger than %d bytes", f.maxSize)
	}
	return data, nil
}
