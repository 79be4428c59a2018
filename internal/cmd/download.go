package cmd

import (
	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download <url> <dest>",
	Short: "Download a filing document",
	Long:  "Download a single document from SEC archives to a local path. An existing file at the destination is reused.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		env, err := svc.DownloadDocument(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return render(cmd, env)
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}
