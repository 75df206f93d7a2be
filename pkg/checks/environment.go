package checks

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/miekg/dns"
)

const resolvConf = "/etc/resolv.conf"

// Environment verifies that the process environment and the target
// URL are sane before any network-facing categories run.
func Environment(d Deps) []Check {
	return []Check{
		{Name: "Required Environment Variables", Fn: requiredEnvCheck(d.Config.RequiredEnv)},
		{Name: "Base URL Valid", Fn: baseURLCheck(d.Config.BaseURL)},
		{Name: "Target Host Resolves", Fn: resolveCheck(d.Config.BaseURL)},
	}
}

func requiredEnvCheck(names []string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		var missing []string
		for _, name := range names {
			if os.Getenv(name) == "" {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
		}
		return nil
	}
}

func baseURLCheck(base string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("base URL %q does not parse: %w", base, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("base URL %q must use http or https", base)
		}
		if u.Hostname() == "" {
			return fmt.Errorf("base URL %q has no host", base)
		}
		return nil
	}
}

// resolveCheck confirms the target host has an A record, asking the
// system resolver directly. Literal IPs and localhost pass without a
// lookup.
func resolveCheck(base string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("base URL %q does not parse: %w", base, err)
		}
		host := u.Hostname()
		if host == "localhost" || net.ParseIP(host) != nil {
			return nil
		}

		conf, err := dns.ClientConfigFromFile(resolvConf)
		if err != nil {
			return fmt.Errorf("read %s: %w", resolvConf, err)
		}
		if len(conf.Servers) == 0 {
			return fmt.Errorf("no nameservers configured in %s", resolvConf)
		}

		client := &dns.Client{Timeout: 5 * time.Second}
		msg := new(dns.Msg)
		msg.SetQuestion(dns.Fqdn(host), dns.TypeA)
		msg.RecursionDesired = true

		var lastErr error
		for _, server := range conf.Servers {
			resp, _, err := client.ExchangeContext(ctx, msg, net.JoinHostPort(server, conf.Port))
			if err != nil {
				lastErr = err
				continue
			}
			if resp.Rcode != dns.RcodeSuccess {
				lastErr = fmt.Errorf("rcode %s", dns.RcodeToString[resp.Rcode])
				continue
			}
			if len(resp.Answer) > 0 {
				return nil
			}
			lastErr = fmt.Errorf("empty answer")
		}
		return fmt.Errorf("host %s does not resolve: %v", host, lastErr)
	}
}
