package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"purity/internal/model"
)

// NewFavoritesCommand creates the favorites command group.
func NewFavoritesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage saved tests",
	}
	cmd.AddCommand(newFavoritesListCommand(rootOpts))
	cmd.AddCommand(newFavoritesRemoveCommand(rootOpts))
	cmd.AddCommand(newFavoritesClearCommand(rootOpts))
	return cmd
}

func newFavoritesListCommand(rootOpts *RootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved tests, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			list := a.Favorites.List()
			w := cmd.OutOrStdout()
			if asJSON {
				if list == nil {
					list = []model.FavoriteItem{}
				}
				return printJSON(w, list)
			}
			if len(list) == 0 {
				fmt.Fprintln(w, "No favorites yet.")
				return nil
			}
			for _, f := range list {
				saved := time.UnixMilli(f.Timestamp).Format("2006-01-02")
				fmt.Fprintf(w, "%s %s → %s  [%s, saved %s]\n", model.IconFavorite, f.FoodName, f.AdulterantName, f.ID, saved)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "output as JSON")
	return cmd
}

func newFavoritesRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a saved test",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.Favorites.Remove(cmd.Context(), args[0]) {
				return fmt.Errorf("no favorite with id %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newFavoritesClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every saved test",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.Favorites.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d favorites\n", n)
			return nil
		},
	}
}
