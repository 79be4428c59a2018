package cmd

import (
	"github.com/spf13/cobra"

	"github.com/filinglens/filinglens/internal/edgar"
)

var filingsCmd = &cobra.Command{
	Use:   "filings <cik>",
	Short: "List a company's recent filings",
	Long: `List filings from a company's EDGAR submissions history.

With --latest, show only the most recent filing of the given form.
With --start and --end, restrict results to a filing-date range.`,
	Args: cobra.ExactArgs(1),
	RunE: runFilings,
}

func init() {
	rootCmd.AddCommand(filingsCmd)

	filingsCmd.Flags().StringSlice("forms", nil, "Form types to include (e.g. 10-K,10-Q)")
	filingsCmd.Flags().Int("limit", 0, "Maximum number of filings")
	filingsCmd.Flags().String("latest", "", "Show only the latest filing of this form type")
	filingsCmd.Flags().String("start", "", "Start of filing-date range (YYYY-MM-DD)")
	filingsCmd.Flags().String("end", "", "End of filing-date range (YYYY-MM-DD)")
}

func runFilings(cmd *cobra.Command, args []string) error {
	cik := args[0]

	forms, err := cmd.Flags().GetStringSlice("forms")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	latest, err := cmd.Flags().GetString("latest")
	if err != nil {
		return err
	}
	start, err := cmd.Flags().GetString("start")
	if err != nil {
		return err
	}
	end, err := cmd.Flags().GetString("end")
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	var env *edgar.Envelope
	switch {
	case latest != "":
		env, err = svc.LatestFiling(cmd.Context(), cik, latest)
	case start != "" || end != "":
		env, err = svc.FilingsByDateRange(cmd.Context(), cik, start, end, forms)
	default:
		env, err = svc.RecentFilings(cmd.Context(), cik, edgar.FilingQuery{Forms: forms, Limit: limit})
	}
	if err != nil {
		return err
	}
	return render(cmd, env)
}
