package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/filinglens/filinglens/internal/edgar"
)

var indexCmd = &cobra.Command{
	Use:   "index <date>",
	Short: "Download and parse a daily master index",
	Long: `Download the quarterly master index covering the given date
(YYYY-MM-DD) and parse its filing rows. Use --cik and --form to narrow
the rows, or --no-parse to only download the file.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().String("dest", "", "Destination path (default master.<date>.idx in the working directory)")
	indexCmd.Flags().String("cik", "", "Filter rows by CIK")
	indexCmd.Flags().StringSlice("form", nil, "Filter rows by form type")
	indexCmd.Flags().Bool("no-parse", false, "Download only, skip parsing")
}

func runIndex(cmd *cobra.Command, args []string) error {
	date := args[0]

	dest, err := cmd.Flags().GetString("dest")
	if err != nil {
		return err
	}
	cik, err := cmd.Flags().GetString("cik")
	if err != nil {
		return err
	}
	forms, err := cmd.Flags().GetStringSlice("form")
	if err != nil {
		return err
	}
	noParse, err := cmd.Flags().GetBool("no-parse")
	if err != nil {
		return err
	}

	if dest == "" {
		dest = fmt.Sprintf("master.%s.idx", date)
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	env, err := svc.DownloadDailyMasterIndex(cmd.Context(), date, dest)
	if err != nil {
		return err
	}

	downloaded, ok := env.Data.(map[string]string)
	if !ok || noParse {
		return render(cmd, env)
	}

	f, err := os.Open(downloaded["downloaded_path"])
	if err != nil {
		return fmt.Errorf("open index file: %w", err)
	}
	defer f.Close() // nolint:errcheck // read-only file

	rows, err := edgar.ParseMasterIndex(f)
	if err != nil {
		return fmt.Errorf("parse index file: %w", err)
	}

	env.Data = edgar.FilterIndexRows(rows, edgar.IndexRowFilter{CIK: cik, Forms: forms})
	return render(cmd, env)
}
