package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/recovibe/pupcal/internal/config"
	"github.com/recovibe/pupcal/internal/logger"
	"github.com/recovibe/pupcal/internal/metrics"
	"github.com/recovibe/pupcal/internal/server"
	"github.com/recovibe/pupcal/internal/service"
)

type serveOptions struct {
	configPath string
	envFile    string
	listen     string
	refresh    string
	noWarm     bool
}

func newServeCmd(newFetcher FetcherFactory) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the PUP calendar over HTTP",
		Long: `Serve the PUP calendar as a JSON and iCalendar API.

Settings are read from the config file (if present), then PUPCAL_LISTEN,
PUPCAL_REFRESH and PUPCAL_LOG_LEVEL from the environment or a .env file,
then command-line flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, newFetcher(), !opts.noWarm)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "pupcal.yaml", "Path to YAML config file")
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "Path to .env file")
	cmd.Flags().StringVar(&opts.listen, "listen", "", "HTTP listen address (overrides config)")
	cmd.Flags().StringVar(&opts.refresh, "refresh", "", "Cron schedule for background refresh, or 'off' (overrides config)")
	cmd.Flags().BoolVar(&opts.noWarm, "no-warm", false, "Do not fetch the calendar at startup")

	return cmd
}

// load resolves the effective configuration and installs the configured logger
func (o *serveOptions) load(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if o.listen != "" {
		cfg.Listen = o.listen
	}
	if o.refresh != "" {
		cfg.Refresh = o.refresh
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.SetDefault(logger.New(cfg.Level(), cmd.ErrOrStderr()))
	logger.Info("Effective config", logger.Fields{
		"listen":    cfg.Listen,
		"refresh":   cfg.Refresh,
		"log_level": cfg.LogLevel,
		"config":    o.configPath,
	})

	return cfg, nil
}

// serve runs the HTTP API until ctx is cancelled
func serve(ctx context.Context, cfg *config.Config, fetcher service.Fetcher, warm bool) error {
	m := metrics.New()
	svc := service.New(fetcher, m)

	if cfg.RefreshEnabled() {
		scheduler, err := startRefresher(ctx, svc, cfg.Refresh)
		if err != nil {
			return err
		}
		defer func() { <-scheduler.Stop().Done() }()
	}

	if warm {
		go refresh(ctx, svc)
	}

	return server.New(svc, m).ListenAndServe(ctx, cfg.Listen)
}

// startRefresher schedules svc to refetch the calendar on a cron schedule
func startRefresher(ctx context.Context, svc *service.Service, schedule string) (*cron.Cron, error) {
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(schedule, func() { refresh(ctx, svc) }); err != nil {
		return nil, fmt.Errorf("scheduling refresh %q: %w", schedule, err)
	}
	scheduler.Start()

	logger.Info("Scheduled calendar refresh", logger.Fields{"schedule": schedule})
	return scheduler, nil
}

// refresh warms the cache. Fetch serves from the cache while it is fresh, so a
// refresh only reaches the network once the cache has expired.
func refresh(ctx context.Context, svc *service.Service) {
	events, err := svc.Fetch(ctx)
	if err != nil {
		logger.Error("Scheduled calendar refresh failed", nil, err)
		return
	}
	logger.Debug("Scheduled calendar refresh complete", logger.Fields{"events": len(events)})
}
