package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fjordledger/divrec"
	"github.com/fjordledger/divrec/pkg/errors"
	"github.com/fjordledger/divrec/pkg/logging"
	"github.com/fjordledger/divrec/pkg/mapper"
	"github.com/fjordledger/divrec/pkg/transform"
)

var (
	transformSource  string
	transformIn      string
	transformOut     string
	transformOverlay string
)

// transformCmd represents the transform command.
var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Normalize one CSV extract into canonical event JSONL",
	Long: `Transform reads a single source's CSV extract, maps its headers,
normalizes every field, and writes one canonical event per row as JSONL.

Examples:
  divrec transform --source NBIM --in nbim.csv --out nbim.events.jsonl
  divrec transform --source CUSTODY --in custody.csv --out custody.events.jsonl --overlay mappings.yaml`,
	RunE: runTransform,
}

func init() {
	rootCmd.AddCommand(transformCmd)

	transformCmd.Flags().StringVar(&transformSource, "source", "", "source system label: NBIM or CUSTODY (required)")
	transformCmd.Flags().StringVar(&transformIn, "in", "", "input CSV extract (required)")
	transformCmd.Flags().StringVar(&transformOut, "out", "", "output events JSONL path (required)")
	transformCmd.Flags().StringVar(&transformOverlay, "overlay", "", "YAML/JSON header mapping overlay")

	for _, flag := range []string{"source", "in", "out"} {
		if err := transformCmd.MarkFlagRequired(flag); err != nil {
			panic(fmt.Sprintf("Failed to mark %s flag required: %v", flag, err))
		}
	}
}

func runTransform(cmd *cobra.Command, _ []string) error {
	source := strings.ToUpper(transformSource)
	if source != divrec.SourceNBIM && source != divrec.SourceCustody {
		return errors.NewValidationError("source", transformSource, "must be NBIM or CUSTODY")
	}

	var opts []transform.Option
	if transformOverlay != "" {
		overlay, err := mapper.LoadOverlay(transformOverlay)
		if err != nil {
			return err
		}
		opts = append(opts, transform.WithOverlay(overlay))
	}

	ctx := logging.WithSource(cmd.Context(), source)
	count, err := transform.New(source, opts...).Transform(ctx, transformIn, transformOut)
	if err != nil {
		return err
	}

	return formatter().Format(os.Stdout, map[string]any{
		"source": source,
		"events": count,
		"out":    transformOut,
	})
}
