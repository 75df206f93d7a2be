// Command preflight runs the deployment verification harness: every
// registered check in every category, a consolidated report on
// stdout, and exit code 0 only when everything passed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jungkj/preflight/pkg/checks"
	"github.com/jungkj/preflight/pkg/config"
	"github.com/jungkj/preflight/pkg/harness"
	"github.com/jungkj/preflight/pkg/probe"
	"github.com/jungkj/preflight/pkg/shell"
)

func main() {
	exitCode := 0

	cmd := newRootCmd(&exitCode)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

func newRootCmd(exitCode *int) *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
		envFile string
		workDir string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Verify a deployed web application",
		Long: `preflight runs named verification checks against a built and running
web application, grouped into ordered categories: build, environment,
database, api, security, performance. It prints a consolidated report
and exits 0 only when every check passed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			if baseURL != "" {
				cfg.BaseURL = baseURL
			}
			if timeout > 0 {
				cfg.Timeout = timeout
			}

			logger := logrus.New()
			logger.SetOutput(cmd.ErrOrStderr())
			if verbose {
				logger.SetLevel(logrus.DebugLevel)
			}

			code, err := run(cmd.Context(), cfg, workDir, logger, cmd)
			if err != nil {
				return err
			}
			*exitCode = code
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "base URL of the running application (overrides PREFLIGHT_BASE_URL)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "probe and command timeout (overrides PREFLIGHT_TIMEOUT)")
	cmd.Flags().StringVar(&envFile, "env-file", "", "env file to load before reading configuration")
	cmd.Flags().StringVar(&workDir, "dir", "", "working directory for build and schema commands")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every check as it runs")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd.SetContext(ctx)
	cobra.OnFinalize(stop)

	return cmd
}

func run(ctx context.Context, cfg *config.Config, workDir string, logger *logrus.Logger, cmd *cobra.Command) (int, error) {
	prober, err := probe.New(probe.WithTimeout(cfg.Timeout))
	if err != nil {
		return 1, err
	}

	deps := checks.Deps{
		Config: cfg,
		Prober: prober,
		Shell:  shell.NewRunner(shell.WithDir(workDir)),
		Logger: logger,
	}

	h := harness.New(logger)
	logger.WithFields(logrus.Fields{
		"run_id":   h.RunID(),
		"base_url": cfg.BaseURL,
	}).Info("starting verification run")

	for _, category := range checks.Catalog(deps) {
		category := category
		h.RunCategory(ctx, category.Name, func(ctx context.Context) error {
			for _, chk := range category.Checks {
				h.Run(ctx, category.Name, chk.Name, chk.Fn)
			}
			return nil
		})
	}

	h.WriteReport(cmd.OutOrStdout())
	return h.ExitCode(), nil
}
