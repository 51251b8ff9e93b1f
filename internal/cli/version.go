package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tcnksm/go-latest"

	"purity/internal/config"
	"purity/internal/model"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "purity version %s\n", model.Version)
		},
	}
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check for a newer release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			checkUpdate(cmd.OutOrStdout(), cfg.Update, model.Version)
			return nil
		},
	}
}

func checkUpdate(w io.Writer, repo config.UpdateConfig, currentVer string) {
	if !repo.Configured() {
		fmt.Fprintln(w, "No release repository configured. Set update.owner and update.repository in the config file.")
		return
	}

	githubTag := &latest.GithubTag{
		Owner:      repo.Owner,
		Repository: repo.Repository,
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		fmt.Fprintf(w, "Could not check for updates: %v\n", err)
		return
	}

	if res.Outdated {
		fmt.Fprintf(w, "\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Fprintf(w, "👉 Download it from https://github.com/%s/%s/releases\n", repo.Owner, repo.Repository)
	} else {
		fmt.Fprintf(w, "✅ You are using the latest version: %s\n", currentVer)
	}
}
