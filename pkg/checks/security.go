package checks

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jungkj/preflight/pkg/probe"
)

// securityHeaders are the response headers the site root must carry.
var securityHeaders = []string{
	"x-frame-options",
	"x-content-type-options",
	"referrer-policy",
	"content-security-policy",
}

// Security verifies the hardening headers on the site root and probes
// for rate limiting on the health endpoint.
func Security(d Deps) []Check {
	return []Check{
		{Name: "Security Headers Present", Fn: securityHeadersCheck(d)},
		{Name: "Powered-By Header Hidden", Fn: poweredByCheck(d)},
		{Name: "Rate Limiting Active", Fn: rateLimitCheck(d)},
	}
}

func securityHeadersCheck(d Deps) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		resp, err := d.Prober.Do(ctx, probe.Request{
			URL:     d.Config.URL("/"),
			Timeout: d.Config.Timeout,
		})
		if err != nil {
			return err
		}

		var missing []string
		for _, header := range securityHeaders {
			if resp.Headers.Get(header) == "" {
				missing = append(missing, header)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing security headers: %s", strings.Join(missing, ", "))
		}
		return nil
	}
}

func poweredByCheck(d Deps) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		resp, err := d.Prober.Do(ctx, probe.Request{
			URL:     d.Config.URL("/"),
			Timeout: d.Config.Timeout,
		})
		if err != nil {
			return err
		}
		if banner := resp.Headers.Get("x-powered-by"); banner != "" {
			return fmt.Errorf("x-powered-by header exposed: %s", banner)
		}
		return nil
	}
}

// rateLimitCheck fires a fixed-size batch of concurrent requests at
// the health endpoint and looks for 429 responses. Seeing none is
// only informational, not a failure: small batches legitimately stay
// under most limiter thresholds. The check fails only when the batch
// itself cannot complete.
func rateLimitCheck(d Deps) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		url := d.Config.URL(d.Config.HealthPath)

		var limited atomic.Int32
		g, ctx := errgroup.WithContext(ctx)
		for i := 0; i < d.Config.RateLimitRequests; i++ {
			g.Go(func() error {
				resp, err := d.Prober.Do(ctx, probe.Request{URL: url, Timeout: d.Config.Timeout})
				if err != nil {
					return err
				}
				if resp.StatusCode == http.StatusTooManyRequests {
					limited.Add(1)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("rate limit probe batch failed: %w", err)
		}

		if n := limited.Load(); n > 0 {
			d.Logger.Infof("rate limiting active: %d of %d requests returned 429", n, d.Config.RateLimitRequests)
		} else {
			d.Logger.Infof("no 429 responses in a batch of %d; rate limiting may not be enabled", d.Config.RateLimitRequests)
		}
		return nil
	}
}
