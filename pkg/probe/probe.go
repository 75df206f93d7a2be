// Package probe issues single HTTP(S) requests against a running
// service and reports the outcome in a uniform shape.
//
// A probe is deliberately dumb: one request, one fully buffered
// response, no retries and no connection reuse. Failures are split
// into two kinds so callers can tell a slow service from an absent
// one: TimeoutError when the deadline elapses, NetworkError for
// connection-level problems (DNS, refused connection).
package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the per-request timeout used when neither the
	// Prober nor the Request specifies one.
	DefaultTimeout = 30 * time.Second
)

// Request describes a single outbound probe.
type Request struct {
	// URL is the full target URL. The scheme selects the transport
	// (https enables TLS).
	URL string

	// Method is the HTTP method. Empty means GET.
	Method string

	// Headers are set on the outgoing request.
	Headers map[string]string

	// Body is the optional request body.
	Body string

	// Timeout overrides the Prober's timeout for this request.
	// Zero means use the Prober's default.
	Timeout time.Duration
}

// Response is the fully buffered outcome of a probe.
type Response struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Headers holds the response headers. Lookups through Get are
	// case-insensitive.
	Headers http.Header

	// Body is the complete response body.
	Body string

	// Success is true for status codes in the 2xx-3xx range.
	Success bool
}

// TimeoutError indicates that no response completed within the
// request's timeout. The in-flight request has been abandoned.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out after %v", e.URL, e.Timeout)
}

// NetworkError indicates a connection-level failure such as a DNS
// error or a refused connection.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Prober issues probes. It is safe for concurrent use.
type Prober struct {
	timeout    time.Duration
	skipVerify bool
	client     *http.Client
}

// Option is a functional option for configuring a Prober.
type Option func(*Prober) error

// WithTimeout sets the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		p.timeout = d
		return nil
	}
}

// WithSkipVerify sets whether to skip TLS certificate verification.
func WithSkipVerify(skip bool) Option {
	return func(p *Prober) error {
		p.skipVerify = skip
		return nil
	}
}

// New creates a Prober.
func New(opts ...Option) (*Prober, error) {
	p := &Prober{
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("probe: %w", err)
		}
	}

	// Timeouts are enforced per request via context so that each
	// Request can carry its own deadline.
	p.client = &http.Client{
		Transport: &http.Transport{
			TLSClientConfig:   &tls.Config{InsecureSkipVerify: p.skipVerify},
			DisableKeepAlives: true,
		},
	}

	return p, nil
}

// Do issues the probe and returns the buffered response.
// The error is a *TimeoutError, a *NetworkError, or a plain error for
// a malformed request.
func (p *Prober) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = p.timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("probe: invalid request for %s: %w", req.URL, err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{URL: req.URL, Timeout: timeout}
		}
		return nil, &NetworkError{URL: req.URL, Err: err}
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{URL: req.URL, Timeout: timeout}
		}
		return nil, &NetworkError{URL: req.URL, Err: err}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       string(buf),
		Success:    resp.StatusCode >= 200 && resp.StatusCode < 400,
	}, nil
}

// Get is shorthand for a GET probe with no headers or body.
func (p *Prober) Get(ctx context.Context, url string) (*Response, error) {
	return p.Do(ctx, Request{URL: url})
}

// isTimeout reports whether err represents an elapsed deadline rather
// than a connection failure.
func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
