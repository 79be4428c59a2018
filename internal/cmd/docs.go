package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/filinglens/filinglens/internal/edgar"
)

var docsCmd = &cobra.Command{
	Use:   "docs <cik> <accession>",
	Short: "List the documents in a filing",
	Long: `Fetch a filing's index page and list its documents with inferred
types (primary, exhibit, xbrl, graphic).

With --find, show only documents matching the given types in
preference order. With --text, fetch the complete submission text file
instead of the document index.`,
	Args: cobra.ExactArgs(2),
	RunE: runDocs,
}

func init() {
	rootCmd.AddCommand(docsCmd)

	docsCmd.Flags().StringSlice("find", nil, "Preferred document types (e.g. primary,exhibit)")
	docsCmd.Flags().Bool("text", false, "Fetch the complete submission text file")
}

func runDocs(cmd *cobra.Command, args []string) error {
	cik, accession := args[0], args[1]

	find, err := cmd.Flags().GetStringSlice("find")
	if err != nil {
		return err
	}
	wantText, err := cmd.Flags().GetBool("text")
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	if wantText {
		env, err := svc.CompleteSubmissionText(cmd.Context(), cik, accession)
		if err != nil {
			return err
		}
		return render(cmd, env)
	}

	env, err := svc.FilingIndexHTML(cmd.Context(), cik, accession)
	if err != nil {
		return err
	}

	indexData, ok := env.Data.(map[string]string)
	if !ok {
		return errors.New("unexpected filing index payload")
	}

	documents := edgar.ParseIndexDocuments(indexData["html"])
	if len(find) > 0 {
		env.Data = edgar.FindDocuments(documents, find)
	} else {
		env.Data = documents
	}

	return render(cmd, env)
}
