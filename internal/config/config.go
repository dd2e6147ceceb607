// Package config defines the development server configuration and its loader.
//
// Conventions:
// - Defaults come from New and are the values the server ran with before it
//   became configurable.
// - Load layers an optional YAML file and IFRS15_ environment variables on top.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strings"

	"github.com/okian/ifrs15/pkg/logger"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`

	// StaticDir is the root of the static file fallback.
	StaticDir string `koanf:"static_dir"`

	// DemoPage is the file every demo route is rewritten to.
	DemoPage string `koanf:"demo_page"`

	// DemoRoutes lists the exact paths that render the demo page.
	DemoRoutes []string `koanf:"demo_routes"`

	// APIPrefix marks requests handled by the JSON responder.
	APIPrefix string `koanf:"api_prefix"`

	// StrictNotFound answers unknown API endpoints with 404 instead of 200.
	StrictNotFound bool `koanf:"strict_not_found"`

	// MetricsPath is where Prometheus metrics are exposed. Empty disables it.
	MetricsPath string `koanf:"metrics_path"`

	// DocsEnabled toggles the OpenAPI document and ReDoc page.
	DocsEnabled bool `koanf:"docs_enabled"`

	// BannerHost is the host name printed in the startup banner URLs.
	BannerHost string `koanf:"banner_host"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   logger.FormatText,
		Addr:        ":3000",
		StaticDir:   ".",
		DemoPage:    "demo-static.html",
		DemoRoutes:  []string{"/", "/dashboard", "/contracts", "/revenue"},
		APIPrefix:   "/api/v1/",
		MetricsPath: "/metrics",
		DocsEnabled: true,
		BannerHost:  "localhost",
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case !strings.HasPrefix(c.APIPrefix, "/") || !strings.HasSuffix(c.APIPrefix, "/"):
		return fmt.Errorf("%w: api_prefix must start and end with '/'", ErrInvalidConfig)
	case strings.TrimSpace(c.DemoPage) == "" || strings.Contains(c.DemoPage, ".."):
		return fmt.Errorf("%w: demo_page must be a plain file name", ErrInvalidConfig)
	case strings.TrimSpace(c.StaticDir) == "":
		return fmt.Errorf("%w: static_dir must not be empty", ErrInvalidConfig)
	case c.MetricsPath != "" && !strings.HasPrefix(c.MetricsPath, "/"):
		return fmt.Errorf("%w: metrics_path must start with '/'", ErrInvalidConfig)
	case c.MetricsPath != "" && strings.HasPrefix(c.MetricsPath, c.APIPrefix):
		return fmt.Errorf("%w: metrics_path must not be under api_prefix", ErrInvalidConfig)
	}
	for _, r := range c.DemoRoutes {
		if !strings.HasPrefix(r, "/") {
			return fmt.Errorf("%w: demo route %q must start with '/'", ErrInvalidConfig, r)
		}
	}
	switch strings.ToLower(c.LogFormat) {
	case "", logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// Port returns the port part of Addr, used by the startup banner.
func (c *Config) Port() string {
	i := strings.LastIndex(c.Addr, ":")
	if i < 0 {
		return c.Addr
	}
	return c.Addr[i+1:]
}
