package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"purity/internal/app"
	"purity/internal/evidence"
	"purity/internal/model"
	"purity/internal/reports"
)

// NewReportCommand creates the report command group.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Submit and browse community reports",
	}
	cmd.AddCommand(newReportSubmitCommand(rootOpts))
	cmd.AddCommand(newReportListCommand(rootOpts))
	cmd.AddCommand(newReportProvisionCommand(rootOpts))
	return cmd
}

func newReportSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		d     reports.Draft
		photo string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Report an adulterated product",
		Long: `Report an adulterated product.

Example:
  purity report submit --food Milk --adulterant Water \
    --observation "Left no trail on a slanted plate" --photo ~/milk.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := d.Validate(); err != nil {
				return err
			}
			if photo != "" {
				uri, err := evidence.LoadFile(photo)
				if err != nil {
					return fmt.Errorf("photo: %w", err)
				}
				d.ImageBase64 = uri
			}

			a, err := rootOpts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			saved, err := a.SubmitReport(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report %s submitted (%s).\n", saved.ID, a.Reports.Mode().Label())
			return nil
		},
	}

	addDraftFlags(cmd.Flags(), &d)
	cmd.Flags().StringVar(&photo, "photo", "", "path to a photo of the evidence")
	return cmd
}

func addDraftFlags(f *pflag.FlagSet, d *reports.Draft) {
	f.StringVar(&d.ReporterName, "name", "", "your name (default Anonymous)")
	f.StringVar(&d.FoodName, "food", "", "food item (required)")
	f.StringVar(&d.AdulterantName, "adulterant", "", "suspected adulterant (required)")
	f.StringVar(&d.BrandName, "brand", "", "brand name")
	f.StringVar(&d.DateOfPurchase, "purchased", "", "date of purchase, YYYY-MM-DD")
	f.StringVar(&d.Observation, "observation", "", "what you observed (required)")
}

func newReportListCommand(rootOpts *RootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.Reports.List(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				if list == nil {
					list = []model.Report{}
				}
				return printJSON(w, list)
			}

			fmt.Fprintf(w, "Recent Reports (%s)\n\n", a.Reports.Mode().Label())
			if len(list) == 0 {
				fmt.Fprintln(w, "No reports yet.")
				return nil
			}
			for _, r := range list {
				fmt.Fprintf(w, "%s: %s", r.FoodName, r.AdulterantName)
				if r.BrandName != "" {
					fmt.Fprintf(w, "  (Brand: %s)", r.BrandName)
				}
				fmt.Fprintf(w, "\n  %s\n  By %s, %s", r.Observation, r.ReporterName, shortDate(r.DateOfSubmission))
				if r.HasImage() {
					fmt.Fprint(w, ", photo attached")
				}
				fmt.Fprint(w, "\n\n")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "output as JSON")
	return cmd
}

func newReportProvisionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Create the reports table in the remote database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.ProvisionReports(cmd.Context()); err != nil {
				if errors.Is(err, app.ErrLocalMode) {
					return errors.New("reports are stored locally; set reports.mode to remote first")
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reports table is ready.")
			return nil
		},
	}
}

func shortDate(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
