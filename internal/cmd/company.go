package cmd

import (
	"github.com/spf13/cobra"
)

var companyCmd = &cobra.Command{
	Use:   "company <ticker>",
	Short: "Show a company profile",
	Long:  "Resolve a ticker symbol and show the company's EDGAR profile: CIK, entity name, exchanges, and SIC classification.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		env, err := svc.Profile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd, env)
	},
}

func init() {
	rootCmd.AddCommand(companyCmd)
}
