// Package cli is the purity command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"purity/internal/app"
	"purity/internal/apperr"
	"purity/internal/config"
	"purity/internal/logging"
	"purity/internal/tui"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath  string
	DataDir     string
	ReportsMode string
	Verbose     bool
}

// NewRootCommand creates the root command. Without a subcommand it starts
// the terminal UI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "purity",
		Short: "Pure or Impure? Food adulteration tests for students",
		Long: `Pure or Impure? helps students detect common food adulterants with
simple kitchen experiments, save their favorite tests and share community
reports about adulterated products.

Examples:
  purity                          # Start the terminal UI
  purity web                      # Serve the browser UI on :8080
  purity procedure milk water     # Print a test procedure
  purity report list --json       # Recent community reports as JSON`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "directory for favorites, local reports and logs")
	cmd.PersistentFlags().StringVar(&opts.ReportsMode, "reports-mode", "", "report store: local or remote")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewWebCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewProcedureCommand(opts))
	cmd.AddCommand(NewFavoritesCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewVersionCommand())
	cmd.AddCommand(NewUpdateCommand(opts))

	return cmd
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", apperr.UserMessage(err))
		return 1
	}
	return 0
}

// loadConfig reads the config file and .env, then applies flag overrides.
func (o *RootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath, ".env")
	if err != nil {
		return nil, err
	}
	if o.DataDir != "" {
		cfg.DataDir = o.DataDir
	}
	if o.ReportsMode != "" {
		cfg.Reports.Mode = o.ReportsMode
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if o.Verbose {
		cfg.Logging = logging.Verbose(cfg.Logging)
	}
	return cfg, nil
}

// open builds the application context for a one-shot command. Logs go to
// stderr and stay at warnings unless --verbose is set.
func (o *RootOptions) open(ctx context.Context) (*app.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	lc := cfg.Logging
	if !o.Verbose && lc.File == "" {
		lc.Level = "warn"
	}
	logger, err := logging.New(lc)
	if err != nil {
		return nil, err
	}
	return app.Open(ctx, cfg, logger)
}

func runTUI(ctx context.Context, opts *RootOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.ForTUI(cfg.Logging, cfg.LogPath())
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	m := tui.InitialModel(a)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("TUI exited", zap.Error(err))
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
