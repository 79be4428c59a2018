package cmd

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/filinglens/filinglens/internal/edgar"
)

var factsCmd = &cobra.Command{
	Use:   "facts <cik>",
	Short: "Show a company's XBRL facts",
	Long: `Fetch a company's full XBRL fact set and flatten one taxonomy into
rows. Use --list-taxonomies or --list-concepts to explore what the
company reports.`,
	Args: cobra.ExactArgs(1),
	RunE: runFacts,
}

func init() {
	rootCmd.AddCommand(factsCmd)

	factsCmd.Flags().String("taxonomy", "us-gaap", "Taxonomy to flatten")
	factsCmd.Flags().Bool("list-taxonomies", false, "List available taxonomies and exit")
	factsCmd.Flags().Bool("list-concepts", false, "List concepts in the taxonomy and exit")
	factsCmd.Flags().String("tag", "", "Filter rows by tag")
	factsCmd.Flags().String("fp", "", "Filter rows by fiscal period (FY, Q1..Q4)")
	factsCmd.Flags().String("form", "", "Filter rows by form type")
	factsCmd.Flags().String("unit", "", "Filter rows by unit")
	factsCmd.Flags().String("end", "", "Filter rows by end date (YYYY-MM-DD or start:end)")
}

func runFacts(cmd *cobra.Command, args []string) error {
	taxonomy, err := cmd.Flags().GetString("taxonomy")
	if err != nil {
		return err
	}
	listTaxonomies, err := cmd.Flags().GetBool("list-taxonomies")
	if err != nil {
		return err
	}
	listConcepts, err := cmd.Flags().GetBool("list-concepts")
	if err != nil {
		return err
	}

	filter := edgar.FactFilter{}
	if filter.Tag, err = cmd.Flags().GetString("tag"); err != nil {
		return err
	}
	if filter.FiscalPeriod, err = cmd.Flags().GetString("fp"); err != nil {
		return err
	}
	if filter.Form, err = cmd.Flags().GetString("form"); err != nil {
		return err
	}
	if filter.Unit, err = cmd.Flags().GetString("unit"); err != nil {
		return err
	}
	if filter.End, err = cmd.Flags().GetString("end"); err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	env, err := svc.CompanyFacts(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	raw, ok := env.Data.(json.RawMessage)
	if !ok {
		return errors.New("unexpected company facts payload")
	}

	switch {
	case listTaxonomies:
		taxonomies, err := edgar.ListTaxonomies(raw)
		if err != nil {
			return err
		}
		env.Data = taxonomies
	case listConcepts:
		concepts, err := edgar.ListConcepts(raw, taxonomy)
		if err != nil {
			return err
		}
		env.Data = concepts
	default:
		table, err := edgar.NormalizeFacts(raw, taxonomy)
		if err != nil {
			return err
		}
		table.Rows = edgar.FilterFacts(table.Rows, filter)
		table.Count = len(table.Rows)
		env.Data = table
	}

	return render(cmd, env)
}
