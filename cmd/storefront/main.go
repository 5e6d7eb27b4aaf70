package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openkcm/common-sdk/pkg/utils"
	"github.com/spf13/cobra"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/storefront-client/cmd/storefront/keeper"
	"github.com/openkcm/storefront-client/cmd/storefront/migrate"
	"github.com/openkcm/storefront-client/cmd/storefront/status"
	"github.com/openkcm/storefront-client/cmd/storefront/upload"
)

// BuildInfo will be set by the build system
var BuildInfo = "{}"

// Only long running commands wait for in-flight work before the process exits.
const gracefulAnnotation = "graceful-shutdown"

func versionCmd(buildInfo string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the storefront build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := utils.ExtractFromComplexValue(buildInfo)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), value)

			return err
		},
	}
}

func rootCmd(buildInfo string) *cobra.Command {
	var gracefulShutdown time.Duration

	root := &cobra.Command{
		Use:          "storefront",
		Short:        "Storefront client tooling",
		Long:         "Operator tooling for the storefront client: durable slot migrations, state inspection, session keeping and product image uploads.",
		SilenceUsage: true,
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if _, ok := cmd.Annotations[gracefulAnnotation]; !ok || gracefulShutdown <= 0 {
				return
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Graceful shutdown in %s\n", gracefulShutdown)
			time.Sleep(gracefulShutdown)
		},
	}

	root.PersistentFlags().DurationVar(&gracefulShutdown, "graceful-shutdown", 1*time.Second, "wait before a service command exits")

	keeperCmd := keeper.Cmd(buildInfo)
	keeperCmd.Annotations = map[string]string{gracefulAnnotation: ""}

	root.AddCommand(
		versionCmd(buildInfo),
		migrate.Cmd(buildInfo),
		status.Cmd(buildInfo),
		keeperCmd,
		upload.Cmd(buildInfo),
	)

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd(BuildInfo).ExecuteContext(ctx); err != nil {
		slogctx.Error(ctx, "storefront command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
