package fetcher

import (
	"context"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/qbstats/internal/resilience"
)

// UserAgents is the pool a User-Agent header is drawn from for each request.
var UserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/96.0.4664.45 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.3 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:91.0) Gecko/20100101 Firefox/91.0",
}

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	Timeout time.Duration
	// MaxRetries is the number of attempts made while the server keeps
	// answering 429.
	MaxRetries int
	// InitialBackoff is the sleep after the first 429; it doubles after each
	// further 429.
	InitialBackoff time.Duration
	Limiter        *Pacer
	// Sleep replaces the wall-clock backoff sleep (tests).
	Sleep func(ctx context.Context, d time.Duration) error
}

// HTTPFetcher implements Fetcher using net/http with 429 backoff and
// optional pacing.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts: opts,
	}
}

// Fetch issues a GET for rawURL. A 200 returns the decoded body. A 429 sleeps
// and retries with a doubling delay until MaxRetries attempts are spent,
// then fails with ErrRetriesExhausted. Any other status fails immediately
// with a *StatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	cfg := resilience.RetryConfig{
		MaxAttempts:       f.opts.MaxRetries,
		InitialBackoff:    f.opts.InitialBackoff,
		MaxBackoff:        10 * time.Minute,
		Multiplier:        2.0,
		BackoffAfterFinal: true,
		ShouldRetry:       resilience.IsRateLimited,
		Sleep:             f.opts.Sleep,
		OnRetry:           resilience.RetryLogger("fetcher", rawURL),
	}

	body, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) ([]byte, error) {
		return f.attempt(ctx, rawURL)
	})
	if err != nil {
		if resilience.IsExhausted(err) {
			return nil, eris.Wrapf(ErrRetriesExhausted, "fetch %s: %d attempts rate limited", rawURL, f.opts.MaxRetries)
		}
		return nil, err
	}
	return body, nil
}

func (f *HTTPFetcher) attempt(ctx context.Context, rawURL string) ([]byte, error) {
	if f.opts.Limiter != nil {
		if err := f.opts.Limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limiter wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", randomUserAgent())

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch %s", rawURL)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		_, _ = io.Copy(io.Discard, resp.Body)
		if f.opts.Limiter != nil {
			f.opts.Limiter.OnRateLimit()
		}
		return nil, resilience.NewTransientError(&StatusError{StatusCode: resp.StatusCode, URL: rawURL}, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "read body %s", rawURL)
	}
	if f.opts.Limiter != nil {
		f.opts.Limiter.OnSuccess()
	}

	zap.L().Debug("fetched page",
		zap.String("url", rawURL),
		zap.Int("bytes", len(body)),
	)
	return decodeBody(resp.Header.Get("Content-Type"), body), nil
}

func randomUserAgent() string {
	return UserAgents[rand.IntN(len(UserAgents))]
}
