package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/usageboard/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Dashboard holds query execution and view session settings
type Dashboard struct {
	QueryConcurrency     int
	QueryTimeout         time.Duration
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
}

// Flags returns CLI flags for Dashboard configuration
func (d *Dashboard) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "query-concurrency",
			Usage:       "Maximum number of dashboard queries in flight",
			Category:    "Dashboard",
			Value:       usecase.DefaultQueryConcurrency,
			Sources:     cli.EnvVars("USAGEBOARD_QUERY_CONCURRENCY"),
			Destination: &d.QueryConcurrency,
		},
		&cli.DurationFlag{
			Name:        "query-timeout",
			Usage:       "Timeout for a single dashboard query",
			Category:    "Dashboard",
			Value:       usecase.DefaultQueryTimeout,
			Sources:     cli.EnvVars("USAGEBOARD_QUERY_TIMEOUT"),
			Destination: &d.QueryTimeout,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Lifetime of a stored date range selection",
			Category:    "Dashboard",
			Value:       usecase.DefaultSessionTTL,
			Sources:     cli.EnvVars("USAGEBOARD_SESSION_TTL"),
			Destination: &d.SessionTTL,
		},
		&cli.DurationFlag{
			Name:        "session-sweep-interval",
			Usage:       "Interval for removing expired view sessions (0 disables)",
			Category:    "Dashboard",
			Value:       time.Hour,
			Sources:     cli.EnvVars("USAGEBOARD_SESSION_SWEEP_INTERVAL"),
			Destination: &d.SessionSweepInterval,
		},
	}
}

// Validate validates the dashboard configuration
func (d *Dashboard) Validate() error {
	if d.QueryConcurrency < 1 {
		return goerr.New("query concurrency must be positive", goerr.V("value", d.QueryConcurrency))
	}
	if d.QueryTimeout <= 0 {
		return goerr.New("query timeout must be positive", goerr.V("value", d.QueryTimeout))
	}
	if d.SessionTTL <= 0 {
		return goerr.New("session TTL must be positive", goerr.V("value", d.SessionTTL))
	}
	if d.SessionSweepInterval < 0 {
		return goerr.New("session sweep interval must not be negative", goerr.V("value", d.SessionSweepInterval))
	}
	return nil
}

// DashboardOptions returns the use case options for this configuration
func (d *Dashboard) DashboardOptions() []usecase.DashboardOption {
	return []usecase.DashboardOption{
		usecase.WithConcurrency(d.QueryConcurrency),
		usecase.WithQueryTimeout(d.QueryTimeout),
	}
}

// LogValue returns structured log value
func (d Dashboard) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("query_concurrency", d.QueryConcurrency),
		slog.Duration("query_timeout", d.QueryTimeout),
		slog.Duration("session_ttl", d.SessionTTL),
		slog.Duration("session_sweep_interval", d.SessionSweepInterval),
	)
}
