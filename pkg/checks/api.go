package checks

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jungkj/preflight/pkg/probe"
)

// API probes the running application's HTTP surface: the health
// endpoint, the auth session endpoint, and the site root.
func API(d Deps) []Check {
	return []Check{
		{Name: "Health Check Endpoint", Fn: healthCheck(d)},
		{Name: "Auth Session Endpoint", Fn: sessionCheck(d)},
		{Name: "Site Root Reachable", Fn: rootCheck(d)},
	}
}

func healthCheck(d Deps) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		resp, err := d.Prober.Do(ctx, probe.Request{
			URL:     d.Config.URL(d.Config.HealthPath),
			Timeout: d.Config.Timeout,
		})
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("Health check failed: %d", resp.StatusCode)
		}
		return nil
	}
}

// sessionCheck accepts 200 and 401: an unauthenticated session
// request validly yields either, depending on cookie handling.
func sessionCheck(d Deps) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		resp, err := d.Prober.Do(ctx, probe.Request{
			URL:     d.Config.URL(d.Config.SessionPath),
			Timeout: d.Config.Timeout,
		})
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnauthorized {
			return fmt.Errorf("session endpoint returned %d", resp.StatusCode)
		}
		return nil
	}
}

func rootCheck(d Deps) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		resp, err := d.Prober.Do(ctx, probe.Request{
			URL:     d.Config.URL("/"),
			Timeout: d.Config.Timeout,
		})
		if err != nil {
			return err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("site root returned %d", resp.StatusCode)
		}
		return nil
	}
}
