package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/gaborage/retrier/config"
	"github.com/gaborage/retrier/httpclient"
	"github.com/gaborage/retrier/logger"
	"github.com/gaborage/retrier/trace"
)

// ErrFetchFailed is returned by Run when at least one URL failed.
var ErrFetchFailed = errors.New("fetch failed")

// Request is the request template applied to every URL.
type Request struct {
	Method  string
	Headers map[string]string
	Body    []byte
	Auth    *httpclient.BasicAuth
}

// Result is the outcome of one URL's retry sequence.
type Result struct {
	URL        string
	RequestID  string
	StatusCode int
	Attempts   int64
	Elapsed    time.Duration
	Body       []byte
	Err        error
}

// Fetcher fetches URLs concurrently; each URL is an independent retry sequence.
type Fetcher struct {
	client  httpclient.Client
	log     logger.Logger
	batch   config.BatchConfig
	request Request
}

func NewFetcher(client httpclient.Client, log logger.Logger, batch config.BatchConfig, req Request) *Fetcher {
	return &Fetcher{
		client:  client,
		log:     log,
		batch:   batch,
		request: req,
	}
}

// Run fetches every URL and returns results in input order. A failed URL
// never cancels the others; the returned error wraps ErrFetchFailed when any
// of them failed, or the context error when ctx ended first.
func (f *Fetcher) Run(ctx context.Context, urls []string) ([]Result, error) {
	results := make([]Result, len(urls))
	limiter := f.limiter()

	var g errgroup.Group
	g.SetLimit(max(f.batch.Concurrency, 1))

	for i, url := range urls {
		g.Go(func() error {
			if err := limiter.Wait(ctx); err != nil {
				results[i] = Result{URL: url, Err: err}
				return nil
			}
			results[i] = f.fetch(ctx, url)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return results, fmt.Errorf("%w: %d of %d urls", ErrFetchFailed, failed, len(urls))
	}
	return results, nil
}

func (f *Fetcher) limiter() *rate.Limiter {
	if f.batch.RateLimit <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(f.batch.RateLimit), max(f.batch.Burst, 1))
}

func (f *Fetcher) fetch(ctx context.Context, url string) Result {
	requestID := trace.NewID()
	ctx = logger.WithHTTPCounter(trace.WithTraceID(ctx, requestID))
	start := time.Now()

	resp, err := f.client.Do(ctx, f.request.Method, &httpclient.Request{
		URL:     url,
		Headers: f.request.Headers,
		Body:    f.request.Body,
		Auth:    f.request.Auth,
	})

	result := Result{
		URL:       url,
		RequestID: requestID,
		Attempts:  logger.GetHTTPCounter(ctx),
		Elapsed:   time.Since(start),
		Err:       err,
	}
	if resp != nil {
		result.StatusCode = resp.StatusCode
		result.Body = resp.Body
		if result.Attempts == 0 {
			result.Attempts = int64(resp.Stats.Attempts)
		}
	}

	if err != nil {
		f.log.Error().
			Err(err).
			Str("url", url).
			Str("request_id", requestID).
			Int("status", result.StatusCode).
			Int64("attempts", result.Attempts).
			Dur("elapsed", result.Elapsed).
			Msg("Fetch failed")
		return result
	}

	f.log.Info().
		Str("url", url).
		Str("request_id", requestID).
		Int("status", result.StatusCode).
		Int64("attempts", result.Attempts).
		Dur("elapsed", result.Elapsed).
		Msg("Fetch completed")
	return result
}
