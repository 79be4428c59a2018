package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

var extended bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version information. Use --extended for build metadata and the Go version.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if extended {
			cmd.Printf("filinglens %s\n", versionInfo.Version)
			cmd.Printf("Commit: %s\n", versionInfo.Commit)
			cmd.Printf("Built: %s\n", versionInfo.BuildDate)
			cmd.Printf("Go: %s\n", runtime.Version())
		} else {
			cmd.Printf("filinglens %s\n", versionInfo.Version)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVarP(&extended, "extended", "e", false, "show extended version information")
}
