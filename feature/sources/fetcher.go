package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxBodySize bounds a single page response.
const maxBodySize = 32 << 20

// StatusError is returned for a response outside the 2xx range.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// errProcessing marks a 202 answer: the upstream is still preparing the data.
var errProcessing = errors.New("request accepted, data not ready yet")

// Options configures a Fetcher.
type Options struct {
	// Timeout bounds one HTTP request.
	Timeout time.Duration
	// PageDelay is the minimum spacing between two requests.
	PageDelay time.Duration
	// MaxRetries is the number of attempts per request.
	MaxRetries int
	// RetryDelay is the fixed wait between attempts.
	RetryDelay time.Duration
}

// Fetcher performs GET requests with spacing and bounded retries.
// Network errors, 202, 429 and 5xx answers are retried; other statuses are
// returned at once.
type Fetcher struct {
	client     *http.Client
	limiter    *rate.Limiter
	maxTries   uint
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewFetcher creates a fetcher.
func NewFetcher(opts Options, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	if opts.PageDelay > 0 {
		limit = rate.Every(opts.PageDelay)
	}
	tries := uint(1)
	if opts.MaxRetries > 1 {
		tries = uint(opts.MaxRetries)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		maxTries:   tries,
		retryDelay: opts.RetryDelay,
		logger:     logger,
	}
}

// Get fetches url and returns the response body. prepare may add headers.
func (f *Fetcher) Get(ctx context.Context, url string, prepare func(*http.Request)) ([]byte, error) {
	attempt := 0
	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		attempt++
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if prepare != nil {
			prepare(req)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusAccepted:
			return nil, errProcessing
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			return nil, backoff.Permanent(&StatusError{StatusCode: resp.StatusCode, URL: url})
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return nil, err
		}
		return data, nil
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(f.retryDelay)),
		backoff.WithMaxTries(f.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			f.logger.Warn("Collection request failed, retrying",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Duration("retry_in", next),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("GET %s failed after %d attempts: %w", url, attempt, err)
	}
	return body, nil
}
