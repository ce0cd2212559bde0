package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/fjordledger/divrec"
	"github.com/fjordledger/divrec/internal/cmd/output"
	"github.com/fjordledger/divrec/pkg/constants"
)

// coverageCmd represents the coverage command.
var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Show header mapping coverage for both inputs",
	Long: `Coverage maps each input's headers against the deterministic rules
(plus the overlay, if given) without writing any outputs. Use it to see
which columns are unmapped before adding overlay entries.

Examples:
  divrec coverage --nbim nbim.csv --custody custody.csv
  divrec coverage --nbim nbim.csv --custody custody.csv --overlay mappings.yaml -o json`,
	RunE: runCoverage,
}

func init() {
	rootCmd.AddCommand(coverageCmd)
	addInputFlags(coverageCmd)
}

func runCoverage(cmd *cobra.Command, _ []string) error {
	p, err := divrec.New(pipelineOptions(false)...)
	if err != nil {
		return err
	}

	cov, err := p.Coverage(cmd.Context())
	if err != nil {
		return err
	}

	format := output.Format(outputFormat)
	if format != output.FormatTable {
		return formatter().Format(os.Stdout, cov)
	}

	systems := make([]string, 0, len(cov))
	for system := range cov {
		systems = append(systems, system)
	}
	sort.Strings(systems)

	data := output.Data{
		Headers:         []string{"SOURCE", "MAPPED", "HEADERS", "COVERAGE", "UNMAPPED"},
		ColumnAlignment: []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignLeft},
	}
	for _, system := range systems {
		c := cov[system]
		data.Rows = append(data.Rows, []string{
			system,
			fmt.Sprintf("%d", c.Hits),
			fmt.Sprintf("%d", c.Total),
			fmt.Sprintf("%.1f%%", c.Pct),
			unmappedPreview(c.Unmapped),
		})
	}
	return formatter().Format(os.Stdout, data)
}

// unmappedPreview truncates long unmapped-header lists for table display.
func unmappedPreview(headers []string) string {
	if len(headers) == 0 {
		return "-"
	}
	if len(headers) > constants.MaxUnmappedPreview {
		rest := len(headers) - constants.MaxUnmappedPreview
		headers = append(headers[:constants.MaxUnmappedPreview:constants.MaxUnmappedPreview],
			fmt.Sprintf("(+%d more)", rest))
	}
	return strings.Join(headers, ", ")
}
