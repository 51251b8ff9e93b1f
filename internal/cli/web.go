package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"purity/internal/app"
	"purity/internal/config"
	"purity/internal/logging"
	"purity/internal/web"
)

// NewWebCommand creates the web command.
func NewWebCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the browser UI and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Web.Addr = addr
			}
			return runWeb(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, :8080)")
	return cmd
}

func runWeb(cmd *cobra.Command, cfg *config.Config) error {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Starting purity web server on %s\n", cfg.Web.Addr)
	return web.New(a, cfg.Web.Addr, logger.Named("web")).Run(ctx)
}
