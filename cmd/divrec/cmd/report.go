package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fjordledger/divrec/internal/jsonl"
	"github.com/fjordledger/divrec/pkg/report"
	"github.com/fjordledger/divrec/pkg/schema"
)

var (
	reportIn  string
	reportOut string
)

// reportCmd represents the report command.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the QA summary for a comparison frame",
	Long: `Report reads a comparison frame and renders the QA summary markdown:
record counts, a flag histogram, and the largest absolute deltas.

Writes to stdout unless --out is given.

Examples:
  divrec report --in comparison_frame.jsonl
  divrec report --in comparison_frame.jsonl --out qa_summary.md`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportIn, "in", "", "comparison frame JSONL (required)")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "QA summary markdown path (default: stdout)")

	if err := reportCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("Failed to mark in flag required: %v", err))
	}
}

func runReport(_ *cobra.Command, _ []string) error {
	records, err := jsonl.Read[schema.Comparison](reportIn)
	if err != nil {
		return err
	}

	qa := report.Summarize(records)
	if reportOut == "" {
		return qa.WriteMarkdown(os.Stdout)
	}
	return qa.WriteFile(reportOut)
}
