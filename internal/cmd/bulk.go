package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/filinglens/filinglens/internal/edgar"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk <submissions|companyfacts>",
	Short: "Download SEC bulk data archives",
	Long: `Download one of the SEC bulk data ZIP archives: the full
submissions corpus or the full company facts corpus. These files are
large (multiple GB). With --extract, unpack the archive after
downloading.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"submissions", "companyfacts"},
	RunE:      runBulk,
}

func init() {
	rootCmd.AddCommand(bulkCmd)

	bulkCmd.Flags().String("dest", "", "Destination path (default <dataset>.zip in the working directory)")
	bulkCmd.Flags().String("extract", "", "Extract the archive into this directory after downloading")
}

func runBulk(cmd *cobra.Command, args []string) error {
	dataset := args[0]

	dest, err := cmd.Flags().GetString("dest")
	if err != nil {
		return err
	}
	extractDir, err := cmd.Flags().GetString("extract")
	if err != nil {
		return err
	}

	if dest == "" {
		dest = dataset + ".zip"
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	var env *edgar.Envelope
	switch dataset {
	case "submissions":
		env, err = svc.DownloadBulkSubmissions(cmd.Context(), dest)
	case "companyfacts":
		env, err = svc.DownloadBulkCompanyFacts(cmd.Context(), dest)
	default:
		return fmt.Errorf("unknown bulk dataset %q, expected submissions or companyfacts", dataset)
	}
	if err != nil {
		return err
	}

	if extractDir != "" {
		download, ok := env.Data.(*edgar.BulkDownload)
		if !ok {
			return errors.New("unexpected bulk download payload")
		}
		extraction, err := edgar.ExtractArchive(download.DownloadedPath, extractDir)
		if err != nil {
			return fmt.Errorf("extract archive: %w", err)
		}
		env.Data = map[string]any{
			"download":   download,
			"extraction": extraction,
		}
	}

	return render(cmd, env)
}
