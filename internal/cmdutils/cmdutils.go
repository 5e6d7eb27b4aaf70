package cmdutils

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/openkcm/common-sdk/pkg/health"
	"github.com/openkcm/common-sdk/pkg/logger"
	"github.com/openkcm/common-sdk/pkg/otlp"
	"github.com/openkcm/common-sdk/pkg/status"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/storefront-client/internal/config"
)

const (
	healthStatusTimeout = 5 * time.Second
)

type (
	BusinessFunc func(context.Context, *config.Config) error
	WrapperFunc  func(context.Context, BusinessFunc, *config.Config) error
)

func CobraCommand(use, short, long, buildInfo string, wrapperFunc WrapperFunc, businessFunc BusinessFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(buildInfo)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			err = wrapperFunc(cmd.Context(), businessFunc, cfg)
			if err != nil {
				return fmt.Errorf("running %s: %w", use, err)
			}

			return nil
		},
	}
}

// RunAsService runs fn with telemetry and the status server.
// A failing status server cancels the context of fn.
func RunAsService(ctx context.Context, fn BusinessFunc, cfg *config.Config) error {
	return run(ctx, runMode{telemetry: true, statusServer: true}, fn, cfg)
}

// RunAsJob runs fn with logging only.
func RunAsJob(ctx context.Context, fn BusinessFunc, cfg *config.Config) error {
	return run(ctx, runMode{}, fn, cfg)
}

type runMode struct {
	telemetry    bool
	statusServer bool
}

func run(ctx context.Context, mode runMode, fn BusinessFunc, cfg *config.Config) error {
	err := logger.InitAsDefault(cfg.Logger, cfg.Application)
	if err != nil {
		return oops.In("main").
			Wrapf(err, "Failed to initialise the logger")
	}
	slogctx.Debug(ctx, "Starting the application", slog.Any("config", cfg))

	if mode.telemetry {
		err = otlp.Init(ctx, &cfg.Application, &cfg.Telemetry, &cfg.Logger)
		if err != nil {
			return oops.In("main").Wrapf(err, "Failed to load the telemetry")
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if mode.statusServer {
		g.Go(func() error {
			err := startStatusServer(gctx, cfg)
			if err != nil && gctx.Err() == nil {
				slogctx.Error(gctx, "Failure on the status server", "error", err)
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		// The status server stops with the business logic.
		defer cancel()
		return fn(gctx, cfg)
	})

	err = g.Wait()
	if err != nil {
		return oops.In("main").Wrapf(err, "Failed to run the storefront business logic")
	}

	return nil
}

func loadConfig(buildInfo string) (*config.Config, error) {
	defaultValues := map[string]any{}
	cfg := &config.Config{}

	err := commoncfg.LoadConfig(
		cfg,
		defaultValues,
		"/etc/storefront",
		"$HOME/.storefront",
		".",
	)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	err = commoncfg.UpdateConfigVersion(
		&cfg.BaseConfig,
		buildInfo,
	)
	if err != nil {
		return nil, fmt.Errorf("updating the version configuration: %w", err)
	}

	return cfg, nil
}

// readinessOptions checks the database only when it backs the durable slots.
func readinessOptions(cfg *config.Config) ([]health.Option, error) {
	opts := []health.Option{
		health.WithDisabledAutostart(),
		health.WithTimeout(healthStatusTimeout),
		health.WithStatusListener(statusListener),
	}

	if cfg.Slots.Backend == config.SlotBackendPostgres {
		connStr, err := config.MakeConnStr(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("making connection string from config: %w", err)
		}
		opts = append(opts, health.WithDatabaseChecker("pgx", connStr))
	}

	return opts, nil
}

func statusListener(ctx context.Context, state health.State) {
	attrs := []any{"status", state.Status}
	for name, check := range state.CheckState {
		attrs = append(attrs, slog.Group(name, "status", check.Status, "error", check.Result))
	}

	slogctx.Info(ctx, "readiness status changed", attrs...)
}

func startStatusServer(ctx context.Context, cfg *config.Config) error {
	healthOptions, err := readinessOptions(cfg)
	if err != nil {
		return err
	}

	liveness := status.WithLiveness(
		health.NewHandler(
			health.NewChecker(health.WithDisabledAutostart()),
		),
	)

	readiness := status.WithReadiness(
		health.NewHandler(
			health.NewChecker(healthOptions...),
		),
	)

	err = status.Start(ctx, &cfg.BaseConfig, liveness, readiness)
	if err != nil {
		return fmt.Errorf("starting status server: %w", err)
	}

	return nil
}
