package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fjordledger/divrec"
)

var (
	nbimFile    string
	custodyFile string
	outDir      string
	overlayFile string
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the reconciliation end to end",
	Long: `Run normalizes both CSV extracts into canonical event JSONL files,
aggregates tranches per event key, joins the two sides, and writes the
comparison frame and QA summary under the output directory.

Examples:
  divrec run --nbim nbim.csv --custody custody.csv --out ./out
  divrec run --nbim nbim.csv --custody custody.csv --out ./out --overlay mappings.yaml`,
	RunE: runReconciliation,
}

func init() {
	rootCmd.AddCommand(runCmd)

	addInputFlags(runCmd)
	runCmd.Flags().StringVar(&outDir, "out", "", "output directory (required)")
}

// addInputFlags registers the flags shared by run and coverage. The same
// backing variables serve both commands, so viper config keys are resolved
// as fallbacks in pipelineOptions rather than bound per flag set.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&nbimFile, "nbim", "", "NBIM accounting CSV extract (required)")
	cmd.Flags().StringVar(&custodyFile, "custody", "", "custody CSV extract (required)")
	cmd.Flags().StringVar(&overlayFile, "overlay", "", "YAML/JSON header mapping overlay")
}

// configValue resolves one setting: an explicit flag wins, then the viper
// config key (file or DIVREC_* env).
func configValue(flagValue, key string) string {
	if flagValue != "" {
		return flagValue
	}
	return viper.GetString(key)
}

// pipelineOptions resolves flags and config into pipeline options.
func pipelineOptions(withOut bool) []divrec.Option {
	opts := []divrec.Option{
		divrec.WithNBIMFile(configValue(nbimFile, "nbim_csv")),
		divrec.WithCustodyFile(configValue(custodyFile, "custody_csv")),
	}
	if withOut {
		opts = append(opts, divrec.WithOutputDir(configValue(outDir, "out_dir")))
	}
	if overlay := configValue(overlayFile, "overlay"); overlay != "" {
		opts = append(opts, divrec.WithOverlayFile(overlay))
	}
	return opts
}

func runReconciliation(cmd *cobra.Command, _ []string) error {
	p, err := divrec.New(pipelineOptions(true)...)
	if err != nil {
		return err
	}

	summary, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}

	return formatter().Format(os.Stdout, summary)
}
