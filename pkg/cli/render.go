package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/usageboard/pkg/catalog"
	"github.com/secmon-lab/usageboard/pkg/cli/config"
	"github.com/secmon-lab/usageboard/pkg/domain/model"
	"github.com/secmon-lab/usageboard/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdRender() *cli.Command {
	var (
		snowflakeCfg config.Snowflake
		dashboardCfg config.Dashboard
		preset       int
		start        string
		end          string
		output       string
	)

	flags := joinFlags(
		[]cli.Flag{
			&cli.IntFlag{
				Name:        "preset",
				Usage:       "Trailing window in days (14, 30, 60, 90, 180, 365)",
				Category:    "Range",
				Destination: &preset,
			},
			&cli.StringFlag{
				Name:        "start",
				Usage:       "Range start date (YYYY-MM-DD)",
				Category:    "Range",
				Destination: &start,
			},
			&cli.StringFlag{
				Name:        "end",
				Usage:       "Range end date (YYYY-MM-DD)",
				Category:    "Range",
				Destination: &end,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Write the dashboard JSON to this file instead of stdout",
				Destination: &output,
			},
		},
		snowflakeCfg.Flags(),
		dashboardCfg.Flags(),
	)

	return &cli.Command{
		Name:  "render",
		Usage: "Run every dashboard query once and print the rendered dashboard as JSON",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := dashboardCfg.Validate(); err != nil {
				return err
			}

			r, err := resolveRange(preset, start, end, time.Now())
			if err != nil {
				return err
			}

			wh, err := snowflakeCfg.Configure(ctx, c)
			if err != nil {
				return err
			}
			defer wh.Close()

			dashboardUC, err := usecase.NewDashboard(wh, catalog.Default(),
				usecase.NewDashboardConfig(dashboardCfg.DashboardOptions()...))
			if err != nil {
				return goerr.Wrap(err, "failed to create dashboard use case")
			}

			logger.Info("Rendering dashboard", slog.String("range", r.String()))
			dashboard, err := dashboardUC.Render(ctx, r)
			if err != nil {
				return err
			}

			w := io.Writer(os.Stdout)
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return goerr.Wrap(err, "failed to create output file", goerr.V("path", output))
				}
				defer f.Close()
				w = f
			}

			return writeDashboard(w, dashboard)
		},
	}
}

// resolveRange picks the range from either a preset or explicit dates.
// With neither, the default trailing window is used.
func resolveRange(preset int, start, end string, now time.Time) (model.DateRange, error) {
	explicit := start != "" || end != ""

	switch {
	case preset != 0 && explicit:
		return model.DateRange{}, goerr.New("--preset cannot be combined with --start/--end")

	case preset != 0:
		p, err := model.LookupPreset(preset)
		if err != nil {
			return model.DateRange{}, err
		}
		return p.Range(now), nil

	case explicit:
		r, err := model.ParseDateRange(start, end)
		if err != nil {
			return model.DateRange{}, err
		}
		if err := r.Validate(now); err != nil {
			return model.DateRange{}, err
		}
		return r, nil

	default:
		return model.DefaultDateRange(now), nil
	}
}

func writeDashboard(w io.Writer, dashboard *model.Dashboard) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dashboard); err != nil {
		return goerr.Wrap(err, "failed to write dashboard")
	}
	return nil
}
