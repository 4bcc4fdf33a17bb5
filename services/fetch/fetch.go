package fetch

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	retry "github.com/avast/retry-go/v4"
)

const (
	DefaultRetries    = 2
	DefaultRetryDelay = 1500 * time.Millisecond
	DefaultTimeout    = 8 * time.Second
)

// Options bounds a single logical request. Total attempts = Retries + 1,
// each capped by Timeout, separated by a fixed RetryDelay (no backoff
// growth, no jitter).
type Options struct {
	Retries    int
	RetryDelay time.Duration
	Timeout    time.Duration
}

func (o Options) withDefaults() Options {
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// DefaultOptions returns the standard retry policy shared by all adapters.
func DefaultOptions() Options {
	return Options{
		Retries:    DefaultRetries,
		RetryDelay: DefaultRetryDelay,
		Timeout:    DefaultTimeout,
	}
}

// Client performs HTTP GETs with bounded retries. It is the foundation every
// source adapter builds on.
type Client struct {
	httpc *http.Client
}

// NewClient wraps the given http.Client; nil gets a default client. The
// per-attempt deadline comes from Options, so the underlying client carries
// no timeout of its own.
func NewClient(httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{}
	}
	return &Client{httpc: httpc}
}

// Get fetches url with the default retry policy.
func (c *Client) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	return c.GetWithOptions(ctx, url, header, DefaultOptions())
}

// GetWithOptions fetches url, retrying transient failures. A non-2xx status
// counts as a failure. On exhausting every attempt the last error is wrapped
// in a *NetworkError.
func (c *Client) GetWithOptions(ctx context.Context, url string, header http.Header, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	var body []byte
	attempts := 0

	err := retry.Do(
		func() error {
			attempts++
			b, err := c.attempt(ctx, url, header, opts.Timeout)
			if err != nil {
				return err
			}
			body = b
			return nil
		},
		retry.Attempts(uint(opts.Retries+1)),
		retry.Delay(opts.RetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[fetch] retrying url=%s attempt=%d err=%v", url, n+1, err)
		}),
	)
	if err != nil {
		log.Printf("[fetch] giving up url=%s attempts=%d err=%v", url, attempts, err)
		return nil, &NetworkError{URL: url, Attempts: attempts, Err: err}
	}
	return body, nil
}

// attempt performs one bounded request. The deadline aborts an in-flight
// call, not just the dial.
func (c *Client) attempt(ctx context.Context, url string, header http.Header, timeout time.Duration) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &UpstreamError{URL: url, Status: resp.StatusCode}
	}

	return io.ReadAll(resp.Body)
}
