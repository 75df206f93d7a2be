package harness

import (
	"time"
)

// Status is the terminal state of a single check.
type Status string

const (
	// StatusPassed means the check completed without a failure.
	StatusPassed Status = "PASSED"

	// StatusFailed means the check reported a failure or panicked.
	StatusFailed Status = "FAILED"
)

// CheckResult captures the outcome of one check invocation.
// It is immutable once created.
type CheckResult struct {
	// Name is the human-readable check name.
	Name string

	// Status is PASSED or FAILED.
	Status Status

	// Duration is the wall-clock time of a successful run.
	// Failed runs do not report partial timing and carry zero.
	Duration time.Duration

	// Err is the failure message. Empty for passed checks.
	Err string
}

// CategoryResults accumulates check outcomes for one category.
// Results are appended as checks run and never removed.
type CategoryResults struct {
	// Passed counts checks that finished with StatusPassed.
	Passed int

	// Failed counts checks that finished with StatusFailed.
	Failed int

	// Checks holds every result in execution order.
	Checks []CheckResult
}

func (c *CategoryResults) add(r CheckResult) {
	if r.Status == StatusPassed {
		c.Passed++
	} else {
		c.Failed++
	}
	c.Checks = append(c.Checks, r)
}
