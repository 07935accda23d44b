package main

import (
	"net/url"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"

	cfg "github.com/evoai/commerce-agent/common/config"
)

// config captures the runner configuration derived from environment variables.
type config struct {
	APIBase string
	Timeout time.Duration
}

// loadConfig reads EVOAI_API_BASE and EVOAI_TEST_TIMEOUT through the shared config package.
func loadConfig() (config, error) {
	base, err := normalizeBaseURL(cfg.SmokeTestAPIBase)
	if err != nil {
		return config{}, errors.Wrap(err, "EVOAI_API_BASE")
	}
	if cfg.SmokeTestTimeout < 0 {
		return config{}, errors.Errorf("EVOAI_TEST_TIMEOUT must not be negative, got %s", cfg.SmokeTestTimeout)
	}

	return config{
		APIBase: base,
		Timeout: cfg.SmokeTestTimeout,
	}, nil
}

// normalizeBaseURL accepts an absolute http(s) URL and drops trailing slashes.
// An empty value falls back to the local default.
func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = defaultAPIBase
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrapf(err, "parse %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.Errorf("unsupported scheme %q in %q", u.Scheme, raw)
	}
	if u.Host == "" {
		return "", errors.Errorf("missing host in %q", raw)
	}

	return strings.TrimRight(raw, "/"), nil
}

// serverOrigin returns scheme://host of the API base, for the startup hint.
func serverOrigin(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return base
	}
	return u.Scheme + "://" + u.Host
}
