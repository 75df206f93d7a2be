// Package harness orchestrates named verification checks grouped into
// ordered categories.
//
// Every check runs exactly once and produces a CheckResult; a failing
// check never aborts its siblings. Failures are converted into data at
// the Run boundary so the whole batch always completes and the report
// can show everything that went wrong, not just the first thing.
//
// The harness has two externally observable terminal states: all
// checks passed (exit code 0) or at least one failed (exit code 1).
package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Category names, in the order they must run. Later categories assume
// the application is already built and environment-validated.
const (
	CategoryBuild       = "build"
	CategoryEnvironment = "environment"
	CategoryDatabase    = "database"
	CategoryAPI         = "api"
	CategorySecurity    = "security"
	CategoryPerformance = "performance"
)

// Categories is the fixed execution order.
var Categories = []string{
	CategoryBuild,
	CategoryEnvironment,
	CategoryDatabase,
	CategoryAPI,
	CategorySecurity,
	CategoryPerformance,
}

// CheckFunc performs a single verification. A nil return means the
// check passed; a non-nil error is recorded as the failure message.
type CheckFunc func(ctx context.Context) error

// Harness runs checks and accumulates their results per category.
// It is intended for a single sequential control flow and is not safe
// for concurrent Run calls.
type Harness struct {
	logger     *logrus.Logger
	runID      uuid.UUID
	order      []string
	categories map[string]*CategoryResults
}

// New creates a Harness with a fresh run identifier.
// A nil logger falls back to the logrus standard logger.
func New(logger *logrus.Logger) *Harness {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Harness{
		logger:     logger,
		runID:      uuid.New(),
		categories: make(map[string]*CategoryResults),
	}
}

// RunID returns the identifier stamped on this run's report and logs.
func (h *Harness) RunID() uuid.UUID {
	return h.runID
}

// Run executes a single named check under the given category and
// records the outcome. A returned error or a panic inside the check
// produces a FAILED result with the message as the error text; it is
// never propagated to the caller, so one check's failure cannot abort
// the batch. The category bucket is created on first use.
func (h *Harness) Run(ctx context.Context, category, name string, fn CheckFunc) {
	log := h.logger.WithFields(logrus.Fields{
		"run_id":   h.runID,
		"category": category,
		"check":    name,
	})

	start := time.Now()
	err := runRecovered(ctx, fn)

	result := CheckResult{Name: name}
	if err != nil {
		result.Status = StatusFailed
		result.Err = err.Error()
		log.Warnf("check failed: %v", err)
	} else {
		result.Status = StatusPassed
		result.Duration = time.Since(start)
		log.Debugf("check passed in %v", result.Duration)
	}

	h.bucket(category).add(result)
}

// RunCategory executes one category step. An error returned by the
// step (or a panic escaping it outside any Run call) is a structural
// failure of the harness itself, not a check failure: it is logged and
// the category's remaining checks are skipped, but the caller carries
// on with the next category.
func (h *Harness) RunCategory(ctx context.Context, category string, step func(ctx context.Context) error) {
	log := h.logger.WithFields(logrus.Fields{
		"run_id":   h.runID,
		"category": category,
	})

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("category aborted: %v", r)
		}
	}()

	if err := step(ctx); err != nil {
		log.Errorf("category aborted: %v", err)
	}
}

// Results returns the category names in first-use order together with
// their accumulated results. The returned map must not be mutated.
func (h *Harness) Results() ([]string, map[string]*CategoryResults) {
	return h.order, h.categories
}

// Totals returns the passed and failed counts summed across all
// categories.
func (h *Harness) Totals() (passed, failed int) {
	for _, c := range h.categories {
		passed += c.Passed
		failed += c.Failed
	}
	return passed, failed
}

// ExitCode returns 0 when every recorded check passed, 1 otherwise.
// This is the sole machine-readable signal for calling automation.
func (h *Harness) ExitCode() int {
	if _, failed := h.Totals(); failed > 0 {
		return 1
	}
	return 0
}

func (h *Harness) bucket(category string) *CategoryResults {
	if b, ok := h.categories[category]; ok {
		return b
	}
	b := &CategoryResults{}
	h.categories[category] = b
	h.order = append(h.order, category)
	return b
}

// runRecovered invokes fn, converting a panic into an error so the
// catch-and-record policy holds even for programming mistakes inside
// a check.
func runRecovered(ctx context.Context, fn CheckFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return fn(ctx)
}
