package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"purity/internal/catalog"
	"purity/internal/procedure"
)

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the foods and adulterants with built-in tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			foods := catalog.Default().Foods()
			if asJSON {
				return printJSON(cmd.OutOrStdout(), foods)
			}
			w := cmd.OutOrStdout()
			for _, f := range foods {
				fmt.Fprintf(w, "%s %s (%s)\n", f.Icon, f.Name, f.ID)
				for _, a := range f.Adulterants {
					fmt.Fprintf(w, "    - %s (%s)\n", a.Name, a.ID)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "output as JSON")
	return cmd
}

// ProcedureOptions holds flags for the procedure command.
type ProcedureOptions struct {
	*RootOptions
	JSON   bool
	Share  bool
	Output string
}

// NewProcedureCommand creates the procedure command.
func NewProcedureCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProcedureOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "procedure <food> <adulterant>",
		Short: "Print the test procedure for a food and adulterant",
		Long: `Print the test procedure for a food and adulterant.

Foods and adulterants are matched against the catalog by id or name.
Anything else is sent to the generator, which needs GEMINI_API_KEY.

Example:
  purity procedure milk water
  purity procedure "Coffee Powder" Chicory --output .`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcedure(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().BoolVarP(&opts.JSON, "json", "j", false, "output as JSON")
	cmd.Flags().BoolVar(&opts.Share, "share", false, "print the short share text instead of Markdown")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the Markdown file into this directory")
	return cmd
}

func runProcedure(cmd *cobra.Command, opts *ProcedureOptions, foodName, adulterantName string) error {
	a, err := opts.open(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	food, adulterant, res := a.Procedure(cmd.Context(), foodName, adulterantName)
	if res.Status != procedure.Resolved || res.Test == nil {
		return res.Err
	}
	test := *res.Test
	w := cmd.OutOrStdout()

	switch {
	case opts.JSON:
		return printJSON(w, test)
	case opts.Share:
		fmt.Fprintln(w, procedure.ShareText(food.Name, adulterant.Name, test))
		return nil
	case opts.Output != "":
		if err := os.MkdirAll(opts.Output, 0o755); err != nil {
			return err
		}
		path := filepath.Join(opts.Output, procedure.FileName(food.Name))
		if err := os.WriteFile(path, []byte(procedure.Markdown(food.Name, adulterant.Name, test)), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(w, "Procedure saved to %s\n", path)
		return nil
	}
	fmt.Fprint(w, procedure.Markdown(food.Name, adulterant.Name, test))
	return nil
}
