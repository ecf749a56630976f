package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/usageboard/pkg/catalog"
	"github.com/secmon-lab/usageboard/pkg/cli/config"
	controller "github.com/secmon-lab/usageboard/pkg/controller/http"
	"github.com/secmon-lab/usageboard/pkg/usecase"
	"github.com/secmon-lab/usageboard/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		snowflakeCfg config.Snowflake
		firestoreCfg config.Firestore
		dashboardCfg config.Dashboard
	)

	flags := joinFlags(
		serverCfg.Flags(),
		snowflakeCfg.Flags(),
		firestoreCfg.Flags(),
		dashboardCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting usageboard server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("snowflake", snowflakeCfg),
				slog.Any("firestore", firestoreCfg),
				slog.Any("dashboard", dashboardCfg),
			)

			if err := dashboardCfg.Validate(); err != nil {
				return err
			}

			repo, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

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
			selectorUC := usecase.NewSelector(repo, usecase.WithSessionTTL(dashboardCfg.SessionTTL))

			server, err := controller.NewServer(
				ctx,
				serverCfg.Addr,
				dashboardUC,
				selectorUC,
				controller.WithSessionCookieTTL(dashboardCfg.SessionTTL),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			sweepCtx, stopSweep := context.WithCancel(ctx)
			defer stopSweep()
			go runSessionSweeper(sweepCtx, selectorUC, dashboardCfg.SessionSweepInterval)

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}

// runSessionSweeper removes expired view sessions every interval until ctx
// is cancelled. Each sweep runs detached so a slow store never blocks the
// ticker. A zero interval disables sweeping.
func runSessionSweeper(ctx context.Context, selector usecase.SelectorUseCase, interval time.Duration) {
	if interval <= 0 {
		return
	}

	logger := ctxlog.From(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			async.Dispatch(ctx, func(ctx context.Context) error {
				ctx, cancel := context.WithTimeout(ctx, interval)
				defer cancel()

				n, err := selector.SweepExpired(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to sweep expired view sessions")
				}
				if n > 0 {
					logger.Info("Swept expired view sessions", "count", n)
				}
				return nil
			})
		}
	}
}
