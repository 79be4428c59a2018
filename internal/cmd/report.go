package cmd

import (
	"github.com/spf13/cobra"

	"github.com/filinglens/filinglens/internal/edgar"
)

var reportCmd = &cobra.Command{
	Use:   "report <ticker>",
	Short: "Show a company's latest report",
	Long: `Resolve a ticker and show the company's most recent quarterly or
annual report. With --current, show the latest 8-K instead. With
--bundle, include the filing's parsed document list for the given
form.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

var seriesCmd = &cobra.Command{
	Use:   "series <ticker>",
	Short: "Show financial time series for a company",
	Long: `Resolve a ticker and fetch the concept time series for a set of
XBRL tags, e.g. series AAPL --tags Revenues,Assets. Tags the company
never reported come back as warnings.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeries,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(seriesCmd)

	reportCmd.Flags().Bool("current", false, "Show the latest 8-K current report")
	reportCmd.Flags().String("bundle", "", "Bundle the latest filing of this form with its documents")

	seriesCmd.Flags().StringSlice("tags", []string{"Revenues", "NetIncomeLoss", "Assets"}, "XBRL tags to fetch")
}

func runReport(cmd *cobra.Command, args []string) error {
	ticker := args[0]

	current, err := cmd.Flags().GetBool("current")
	if err != nil {
		return err
	}
	bundleForm, err := cmd.Flags().GetString("bundle")
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	var env *edgar.Envelope
	switch {
	case bundleForm != "":
		env, err = svc.Bundle(cmd.Context(), ticker, bundleForm)
	case current:
		env, err = svc.LatestCurrentReport(cmd.Context(), ticker)
	default:
		env, err = svc.LatestReport(cmd.Context(), ticker)
	}
	if err != nil {
		return err
	}
	return render(cmd, env)
}

func runSeries(cmd *cobra.Command, args []string) error {
	tags, err := cmd.Flags().GetStringSlice("tags")
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	env, err := svc.Series(cmd.Context(), args[0], tags)
	if err != nil {
		return err
	}
	return render(cmd, env)
}
