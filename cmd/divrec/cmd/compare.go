package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fjordledger/divrec/internal/jsonl"
	"github.com/fjordledger/divrec/pkg/aggregate"
	"github.com/fjordledger/divrec/pkg/compare"
	"github.com/fjordledger/divrec/pkg/report"
	"github.com/fjordledger/divrec/pkg/schema"
)

var (
	compareNBIM    string
	compareCustody string
	compareOut     string
)

// compareCmd represents the compare command.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Join two canonical event streams into a comparison frame",
	Long: `Compare reads both sources' canonical event JSONL files, aggregates
tranches per event key, joins the two sides over the union of keys, and
writes one comparison record per key with deltas and exception flags.

Examples:
  divrec compare --nbim nbim.events.jsonl --custody custody.events.jsonl --out comparison_frame.jsonl`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&compareNBIM, "nbim", "", "NBIM events JSONL (required)")
	compareCmd.Flags().StringVar(&compareCustody, "custody", "", "custody events JSONL (required)")
	compareCmd.Flags().StringVar(&compareOut, "out", "", "output comparison frame JSONL path (required)")

	for _, flag := range []string{"nbim", "custody", "out"} {
		if err := compareCmd.MarkFlagRequired(flag); err != nil {
			panic(fmt.Sprintf("Failed to mark %s flag required: %v", flag, err))
		}
	}
}

func runCompare(_ *cobra.Command, _ []string) error {
	nbimEvents, err := jsonl.Read[schema.Event](compareNBIM)
	if err != nil {
		return err
	}
	custodyEvents, err := jsonl.Read[schema.Event](compareCustody)
	if err != nil {
		return err
	}

	records := compare.Compare(aggregate.Aggregate(nbimEvents), aggregate.Aggregate(custodyEvents))

	w, err := jsonl.NewWriter(compareOut)
	if err != nil {
		return err
	}
	defer w.Close()
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	if err := w.Commit(); err != nil {
		return err
	}

	qa := report.Summarize(records)
	return formatter().Format(os.Stdout, map[string]any{
		"comparisons": len(records),
		"flags":       qa.FlagCounts,
		"out":         compareOut,
	})
}
