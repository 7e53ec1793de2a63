// Package injective is the read gateway to the Injective chain REST API
// and the public explorer. Every call goes through one retry policy and a
// process-wide concurrency gate.
package injective

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"injective-token-lab/internal/observability"
)

// Default configuration values.
const (
	DefaultLCDURL      = "https://sentry.lcd.injective.network"
	DefaultExplorerURL = "https://sentry.explorer.grpc-web.injective.network"
	DefaultTimeout     = 30 * time.Second
	DefaultConcurrency = 10
	DefaultPageLimit   = 1000
)

// Gate limits the number of upstream requests in flight. One Gate is shared
// by every client of a process.
type Gate struct {
	sem *semaphore.Weighted
}

// NewGate creates a gate admitting n concurrent requests.
func NewGate(n int) *Gate {
	if n <= 0 {
		n = DefaultConcurrency
	}
	return &Gate{sem: semaphore.NewWeighted(int64(n))}
}

func (g *Gate) acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	observability.UpstreamInFlightAdd(1)
	return nil
}

func (g *Gate) release() {
	observability.UpstreamInFlightAdd(-1)
	g.sem.Release(1)
}

// transport is the shared GET-with-retry machinery of the LCD and explorer clients.
type transport struct {
	baseURL string
	client  *http.Client
	gate    *Gate
	policy  RetryPolicy
}

// get issues GET baseURL+path?query, retrying transient failures under the
// policy, and decodes a 200 body into out.
func (t *transport) get(ctx context.Context, endpoint, path string, query url.Values, out interface{}) error {
	u := strings.TrimRight(t.baseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	start := time.Now()
	attempts := 0
	lastStatus := 0

	op := func() error {
		attempts++
		if attempts > 1 {
			observability.RecordUpstreamRetry(endpoint)
		}
		status, err := t.once(ctx, u, out)
		lastStatus = status
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if errors.Is(err, ErrTransientUpstream) {
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, wait time.Duration) {
		log.Debug().Str("endpoint", endpoint).Int("attempt", attempts).Dur("wait", wait).Err(err).Msg("upstream call failed, retrying")
	}

	err := backoff.RetryNotify(op, t.policy.backOff(ctx), notify)
	elapsed := time.Since(start).Seconds()
	if err == nil {
		observability.RecordUpstreamCall(endpoint, "ok", elapsed)
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		observability.RecordUpstreamCall(endpoint, "canceled", elapsed)
		return err
	}
	observability.RecordUpstreamCall(endpoint, "error", elapsed)
	return &UpstreamError{Endpoint: endpoint, Attempts: attempts, StatusCode: lastStatus, Err: err}
}

// once performs a single gated request.
func (t *transport) once(ctx context.Context, u string, out interface{}) (int, error) {
	if err := t.gate.acquire(ctx); err != nil {
		return 0, err
	}
	defer t.gate.release()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http request: %w: %w", ErrTransientUpstream, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w: %w", ErrTransientUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, &statusError{code: resp.StatusCode, body: truncate(string(body), 256)}
	}
	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, fmt.Errorf("unmarshal response: %w: %w", ErrDecoding, err)
	}
	return resp.StatusCode, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// ClientOption configures LCDClient and ExplorerClient.
type ClientOption func(*transport)

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(t *transport) {
		t.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(t *transport) {
		t.client = client
	}
}

// WithGate shares a concurrency gate between clients.
func WithGate(g *Gate) ClientOption {
	return func(t *transport) {
		t.gate = g
	}
}

// WithRetryPolicy replaces the default retry policy.
func WithRetryPolicy(p RetryPolicy) ClientOption {
	return func(t *transport) {
		t.policy = p
	}
}

func newTransport(baseURL string, policy RetryPolicy, opts []ClientOption) *transport {
	t := &transport{
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		policy:  policy,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.gate == nil {
		t.gate = NewGate(DefaultConcurrency)
	}
	return t
}
