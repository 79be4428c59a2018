package cmd

import (
	"github.com/spf13/cobra"

	"github.com/filinglens/filinglens/internal/edgar"
)

var rssCmd = &cobra.Command{
	Use:   "rss <cik>",
	Short: "Show a company's filing feed",
	Long: `Fetch the EDGAR Atom feed of a company's latest filings.

With --filings, extract structured filing metadata (form, accession,
CIK) from the feed entries instead of listing the raw items.`,
	Args: cobra.ExactArgs(1),
	RunE: runRSS,
}

func init() {
	rootCmd.AddCommand(rssCmd)

	rssCmd.Flags().Bool("filings", false, "Extract filing metadata from feed entries")
	rssCmd.Flags().String("url", "", "Fetch this feed URL instead of the company feed")
}

func runRSS(cmd *cobra.Command, args []string) error {
	extract, err := cmd.Flags().GetBool("filings")
	if err != nil {
		return err
	}
	feedURL, err := cmd.Flags().GetString("url")
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	if feedURL == "" {
		feedURL = svc.CompanyFeedURL(args[0])
	}

	env, err := svc.FetchFeed(cmd.Context(), feedURL)
	if err != nil {
		return err
	}

	if extract {
		if items, ok := env.Data.([]edgar.FeedItem); ok {
			env.Data = edgar.FeedFilings(items)
		}
	}

	return render(cmd, env)
}
