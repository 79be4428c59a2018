package cmd

import (
	"github.com/spf13/cobra"
)

var conceptCmd = &cobra.Command{
	Use:   "concept <cik> <taxonomy> <tag>",
	Short: "Show the time series for one XBRL concept",
	Long:  "Fetch every reported value of a single XBRL concept for a company, e.g. concept 320193 us-gaap Revenues.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		env, err := svc.CompanyConcept(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		return render(cmd, env)
	},
}

var framesCmd = &cobra.Command{
	Use:   "frames <taxonomy> <tag> <unit> <period>",
	Short: "Show one fact across all companies for a period",
	Long:  "Fetch an XBRL frame: a single concept reported by every company for one period, e.g. frames us-gaap Revenues USD CY2024Q1.",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		env, err := svc.Frames(cmd.Context(), args[0], args[1], args[2], args[3])
		if err != nil {
			return err
		}
		return render(cmd, env)
	},
}

func init() {
	rootCmd.AddCommand(conceptCmd)
	rootCmd.AddCommand(framesCmd)
}
