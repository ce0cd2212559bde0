// Package divrec reconciles dividend events between the NBIM accounting
// feed and the custody feed. It normalizes both CSV extracts into a shared
// canonical schema, aggregates tranche rows per economic event, joins the
// two sides, and emits a comparison frame plus a QA summary.
package divrec

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fjordledger/divrec/internal/jsonl"
	"github.com/fjordledger/divrec/pkg/aggregate"
	"github.com/fjordledger/divrec/pkg/compare"
	"github.com/fjordledger/divrec/pkg/constants"
	"github.com/fjordledger/divrec/pkg/errors"
	"github.com/fjordledger/divrec/pkg/logging"
	"github.com/fjordledger/divrec/pkg/mapper"
	"github.com/fjordledger/divrec/pkg/report"
	"github.com/fjordledger/divrec/pkg/schema"
	"github.com/fjordledger/divrec/pkg/transform"
)

// Source system labels stamped into every canonical event.
const (
	SourceNBIM    = "NBIM"
	SourceCustody = "CUSTODY"
)

// Pipeline runs the reconciliation end to end.
type Pipeline interface {
	// Run executes normalization, aggregation, comparison and reporting,
	// writing all outputs under the configured output directory.
	Run(ctx context.Context) (*Summary, error)

	// Coverage maps each input's headers without writing anything, for
	// inspecting which columns the deterministic rules (plus overlay)
	// bind. Keys are the source system labels.
	Coverage(ctx context.Context) (map[string]mapper.Coverage, error)
}

// Summary reports what one run produced.
type Summary struct {
	NBIMEvents    int            `json:"nbim_events"`
	CustodyEvents int            `json:"custody_events"`
	Comparisons   int            `json:"comparisons"`
	FlagCounts    map[string]int `json:"flag_counts"`
	OutputDir     string         `json:"output_dir"`
}

type pipeline struct {
	config *config
}

// New creates a Pipeline with the given options. Both input files and the
// output directory are required.
func New(opts ...Option) (Pipeline, error) {
	c := &config{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &pipeline{config: c}, nil
}

func (p *pipeline) Run(ctx context.Context) (*Summary, error) {
	c := p.config
	logger := logging.FromContext(ctx)

	if err := c.validateOutput(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(c.outDir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", c.outDir, err)
	}

	overlay, err := c.loadOverlay()
	if err != nil {
		return nil, err
	}

	nbimPath := filepath.Join(c.outDir, constants.NBIMEventsFile)
	custodyPath := filepath.Join(c.outDir, constants.CustodyEventsFile)

	nbimCount, err := p.transformSide(ctx, SourceNBIM, c.nbimCSV, nbimPath, overlay)
	if err != nil {
		return nil, err
	}
	custodyCount, err := p.transformSide(ctx, SourceCustody, c.custodyCSV, custodyPath, overlay)
	if err != nil {
		return nil, err
	}

	nbimEvents, err := jsonl.Read[schema.Event](nbimPath)
	if err != nil {
		return nil, err
	}
	custodyEvents, err := jsonl.Read[schema.Event](custodyPath)
	if err != nil {
		return nil, err
	}

	records := compare.Compare(aggregate.Aggregate(nbimEvents), aggregate.Aggregate(custodyEvents))
	if err := writeComparisons(filepath.Join(c.outDir, constants.ComparisonFile), records); err != nil {
		return nil, err
	}

	qa := report.Summarize(records)
	qaPath := filepath.Join(c.outDir, constants.QASummaryFile)
	if err := qa.WriteFile(qaPath); err != nil {
		return nil, err
	}

	logger.Info().
		Int("nbim_rows", nbimCount).
		Int("custody_rows", custodyCount).
		Int("comparisons", len(records)).
		Str("out_dir", c.outDir).
		Msg("Reconciliation complete")

	return &Summary{
		NBIMEvents:    nbimCount,
		CustodyEvents: custodyCount,
		Comparisons:   len(records),
		FlagCounts:    qa.FlagCounts,
		OutputDir:     c.outDir,
	}, nil
}

func (p *pipeline) Coverage(ctx context.Context) (map[string]mapper.Coverage, error) {
	c := p.config

	overlay, err := c.loadOverlay()
	if err != nil {
		return nil, err
	}

	out := make(map[string]mapper.Coverage, 2)
	for _, side := range []struct {
		system string
		path   string
	}{
		{SourceNBIM, c.nbimCSV},
		{SourceCustody, c.custodyCSV},
	} {
		t := transform.New(side.system, transform.WithOverlay(overlay))
		m, err := t.Mapping(side.path)
		if err != nil {
			return nil, err
		}
		out[side.system] = m.Coverage()
	}
	return out, nil
}

func (p *pipeline) transformSide(ctx context.Context, system, csvPath, outPath string, overlay map[string]string) (int, error) {
	ctx = logging.WithSource(ctx, system)
	t := transform.New(system, transform.WithOverlay(overlay))
	return t.Transform(ctx, csvPath, outPath)
}

func writeComparisons(path string, records []*schema.Comparison) error {
	w, err := jsonl.NewWriter(path)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Commit()
}
