package checks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/jungkj/preflight/pkg/probe"
)

// Performance measures response timing against fixed budgets.
func Performance(d Deps) []Check {
	return []Check{
		{Name: "Page Load Time", Fn: pageLoadCheck(d)},
		{Name: "Sustained Health Latency", Fn: sustainedLatencyCheck(d)},
	}
}

// pageLoadCheck requires the site root to respond within the page
// load budget. The budget doubles as the probe timeout, so a server
// that never answers fails with the same threshold message as one
// that answers late.
func pageLoadCheck(d Deps) func(ctx context.Context) error {
	budget := d.Config.PageLoadBudget
	return func(ctx context.Context) error {
		start := time.Now()
		_, err := d.Prober.Do(ctx, probe.Request{
			URL:     d.Config.URL("/"),
			Timeout: budget,
		})
		elapsed := time.Since(start)

		var te *probe.TimeoutError
		if errors.As(err, &te) {
			return fmt.Errorf("page load exceeded %v threshold", budget)
		}
		if err != nil {
			return err
		}
		if elapsed > budget {
			return fmt.Errorf("page load took %v, exceeding %v threshold", elapsed.Round(time.Millisecond), budget)
		}
		return nil
	}
}

// sustainedLatencyCheck sends a paced series of health requests and
// requires the average latency to stay under the budget. The limiter
// gates each send so the series measures steady-state latency rather
// than burst behavior; waiting on the limiter is not counted against
// the server.
func sustainedLatencyCheck(d Deps) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		limiter := rate.NewLimiter(rate.Limit(d.Config.SustainedRate), 1)
		url := d.Config.URL(d.Config.HealthPath)

		var total time.Duration
		for i := 0; i < d.Config.SustainedRequests; i++ {
			if err := limiter.Wait(ctx); err != nil {
				return fmt.Errorf("pacing interrupted: %w", err)
			}
			start := time.Now()
			if _, err := d.Prober.Get(ctx, url); err != nil {
				return fmt.Errorf("request %d of %d: %w", i+1, d.Config.SustainedRequests, err)
			}
			total += time.Since(start)
		}

		avg := total / time.Duration(d.Config.SustainedRequests)
		if avg > d.Config.SustainedBudget {
			return fmt.Errorf("average health latency %v exceeds %v over %d requests",
				avg.Round(time.Millisecond), d.Config.SustainedBudget, d.Config.SustainedRequests)
		}
		return nil
	}
}
