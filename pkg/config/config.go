// Package config loads harness configuration from the environment
// with an optional .env file, the way the application's own tooling
// does. Every value has a default, so a bare `preflight` run against
// a local dev server needs no configuration at all.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config carries everything the harness needs for one run.
type Config struct {
	// BaseURL is the root of the running application under test.
	BaseURL string

	// Timeout is the default timeout for probes and commands.
	Timeout time.Duration

	// HealthPath and SessionPath are probed relative to BaseURL.
	HealthPath  string
	SessionPath string

	// External tool invocations, run as opaque commands: exit 0 is
	// success, anything else is a failure.
	TypecheckCmd string
	LintCmd      string
	BuildCmd     string
	SchemaCmd    string
	ClientGenCmd string

	// BuildIDFile and StaticDir are the artifacts the production
	// build is expected to leave behind.
	BuildIDFile string
	StaticDir   string

	// RequiredEnv lists environment variable names that must be set
	// for the application to run.
	RequiredEnv []string

	// DatabaseURLVar is the environment variable holding the
	// database connection string.
	DatabaseURLVar string

	// PageLoadBudget is the hard ceiling for the root page response.
	PageLoadBudget time.Duration

	// RateLimitRequests is the size of the concurrent probe batch
	// used to detect rate limiting.
	RateLimitRequests int

	// SustainedRequests, SustainedRate and SustainedBudget shape the
	// paced latency check: SustainedRequests probes at SustainedRate
	// per second, average latency must stay under SustainedBudget.
	SustainedRequests int
	SustainedRate     float64
	SustainedBudget   time.Duration
}

// Load reads configuration from the environment. When envFile is
// non-empty it is loaded first (missing file is an error); otherwise
// a ./.env file is loaded if present. Environment variables use the
// PREFLIGHT_ prefix; the base URL additionally honors plain BASE_URL
// for convenience in deploy pipelines.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("config: load env file %s: %w", envFile, err)
		}
	} else {
		// Best effort; a missing .env is normal.
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetEnvPrefix("PREFLIGHT")
	v.AutomaticEnv()

	v.SetDefault("base_url", "http://localhost:3000")
	v.SetDefault("timeout", "30s")
	v.SetDefault("health_path", "/api/health")
	v.SetDefault("session_path", "/api/auth/session")
	v.SetDefault("typecheck_cmd", "npx tsc --noEmit")
	v.SetDefault("lint_cmd", "npx eslint .")
	v.SetDefault("build_cmd", "npm run build")
	v.SetDefault("schema_cmd", "npx prisma validate")
	v.SetDefault("client_gen_cmd", "npx prisma generate")
	v.SetDefault("build_id_file", ".next/BUILD_ID")
	v.SetDefault("static_dir", ".next/static")
	v.SetDefault("required_env", "DATABASE_URL,NEXTAUTH_URL,NEXTAUTH_SECRET")
	v.SetDefault("database_url_var", "DATABASE_URL")
	v.SetDefault("page_load_budget", "5s")
	v.SetDefault("rate_limit_requests", 10)
	v.SetDefault("sustained_requests", 20)
	v.SetDefault("sustained_rate", 10.0)
	v.SetDefault("sustained_budget", "1s")

	if err := v.BindEnv("base_url", "PREFLIGHT_BASE_URL", "BASE_URL"); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := &Config{
		BaseURL:           strings.TrimRight(v.GetString("base_url"), "/"),
		Timeout:           v.GetDuration("timeout"),
		HealthPath:        v.GetString("health_path"),
		SessionPath:       v.GetString("session_path"),
		TypecheckCmd:      v.GetString("typecheck_cmd"),
		LintCmd:           v.GetString("lint_cmd"),
		BuildCmd:          v.GetString("build_cmd"),
		SchemaCmd:         v.GetString("schema_cmd"),
		ClientGenCmd:      v.GetString("client_gen_cmd"),
		BuildIDFile:       v.GetString("build_id_file"),
		StaticDir:         v.GetString("static_dir"),
		RequiredEnv:       splitList(v.GetString("required_env")),
		DatabaseURLVar:    v.GetString("database_url_var"),
		PageLoadBudget:    v.GetDuration("page_load_budget"),
		RateLimitRequests: v.GetInt("rate_limit_requests"),
		SustainedRequests: v.GetInt("sustained_requests"),
		SustainedRate:     v.GetFloat64("sustained_rate"),
		SustainedBudget:   v.GetDuration("sustained_budget"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q must use http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL %q is missing a host", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.PageLoadBudget <= 0 {
		return fmt.Errorf("page load budget must be positive, got %v", c.PageLoadBudget)
	}
	if c.RateLimitRequests < 1 {
		return fmt.Errorf("rate limit batch must be at least 1, got %d", c.RateLimitRequests)
	}
	if c.SustainedRequests < 1 || c.SustainedRate <= 0 || c.SustainedBudget <= 0 {
		return fmt.Errorf("sustained latency settings must be positive")
	}
	return nil
}

// URL joins a path onto the base URL.
func (c *Config) URL(path string) string {
	if path == "" || path == "/" {
		return c.BaseURL
	}
	return c.BaseURL + "/" + strings.TrimLeft(path, "/")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
