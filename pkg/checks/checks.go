// Package checks defines the verification catalog: the named checks
// that run under each category of the harness.
//
// A check is a name plus a CheckFunc; the harness turns its outcome
// into a CheckResult. Categories are returned in the fixed order the
// harness requires: build, environment, database, api, security,
// performance. Later categories assume the application is already
// built and environment-validated.
package checks

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jungkj/preflight/pkg/config"
	"github.com/jungkj/preflight/pkg/harness"
	"github.com/jungkj/preflight/pkg/probe"
	"github.com/jungkj/preflight/pkg/shell"
)

// Check pairs a human-readable name with the function performing the
// verification.
type Check struct {
	Name string
	Fn   harness.CheckFunc
}

// Category is an ordered group of checks.
type Category struct {
	Name   string
	Checks []Check
}

// Deps carries the collaborators shared by the whole catalog.
type Deps struct {
	Config *config.Config
	Prober *probe.Prober
	Shell  shell.Runner
	Logger *logrus.Logger
}

// Catalog returns every category in execution order.
func Catalog(d Deps) []Category {
	return []Category{
		{Name: harness.CategoryBuild, Checks: Build(d)},
		{Name: harness.CategoryEnvironment, Checks: Environment(d)},
		{Name: harness.CategoryDatabase, Checks: Database(d)},
		{Name: harness.CategoryAPI, Checks: API(d)},
		{Name: harness.CategorySecurity, Checks: Security(d)},
		{Name: harness.CategoryPerformance, Checks: Performance(d)},
	}
}

// commandCheck runs an external tool and fails on a non-zero exit,
// surfacing the tool's own output verbatim as the error message.
func commandCheck(d Deps, cmdline string) harness.CheckFunc {
	return func(ctx context.Context) error {
		name, args := shell.Split(cmdline)
		if name == "" {
			return fmt.Errorf("empty command")
		}
		res, err := d.Shell.Run(ctx, name, args...)
		if err != nil {
			return err
		}
		if res.ExitCode != 0 {
			return fmt.Errorf("%s exited %d: %s", cmdline, res.ExitCode, strings.TrimSpace(res.Output()))
		}
		return nil
	}
}

// fileCheck asserts that path exists as a non-empty regular file.
func fileCheck(path string) harness.CheckFunc {
	return func(ctx context.Context) error {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("artifact %s missing: %w", path, err)
		}
		if info.IsDir() {
			return fmt.Errorf("artifact %s is a directory, expected a file", path)
		}
		if info.Size() == 0 {
			return fmt.Errorf("artifact %s is empty", path)
		}
		return nil
	}
}

// dirCheck asserts that path exists as a non-empty directory.
func dirCheck(path string) harness.CheckFunc {
	return func(ctx context.Context) error {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("directory %s missing: %w", path, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", path)
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return fmt.Errorf("directory %s unreadable: %w", path, err)
		}
		if len(entries) == 0 {
			return fmt.Errorf("directory %s is empty", path)
		}
		return nil
	}
}
