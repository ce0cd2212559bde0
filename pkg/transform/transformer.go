package transform

import (
	"context"

	"github.com/fjordledger/divrec/internal/jsonl"
	"github.com/fjordledger/divrec/internal/reader"
	"github.com/fjordledger/divrec/pkg/logging"
	"github.com/fjordledger/divrec/pkg/mapper"
)

// Transformer turns one delimited source file into a canonical event stream.
type Transformer struct {
	source  string
	overlay map[string]string
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithOverlay layers accepted header mappings over the deterministic rules.
// Overlay entries only fill headers the rules left unmapped.
func WithOverlay(overlay map[string]string) Option {
	return func(t *Transformer) {
		t.overlay = overlay
	}
}

// New creates a transformer for one source system ("NBIM" or "CUSTODY").
func New(sourceSystem string, opts ...Option) *Transformer {
	t := &Transformer{source: sourceSystem}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Mapping reads just enough of the source file to build its column mapping,
// with any configured overlay applied. Used for coverage diagnostics.
func (t *Transformer) Mapping(path string) (mapper.Mapping, error) {
	table, err := reader.Read(path)
	if err != nil {
		return mapper.Mapping{}, err
	}
	return t.mappingFor(table), nil
}

func (t *Transformer) mappingFor(table *reader.Table) mapper.Mapping {
	m := mapper.Map(table.Headers)
	if len(t.overlay) > 0 {
		m = m.WithOverlay(t.overlay)
	}
	return m
}

// Transform reads the delimited table at csvPath, canonicalizes every row,
// and writes one JSON object per line to outPath (staged and renamed on
// success). Returns the number of events written.
func (t *Transformer) Transform(ctx context.Context, csvPath, outPath string) (int, error) {
	log := logging.Ctx(ctx)

	table, err := reader.Read(csvPath)
	if err != nil {
		return 0, err
	}

	base := mapper.Map(table.Headers)
	baseCov := base.Coverage()
	log.Debug().
		Str("source", t.source).
		Str("file", csvPath).
		Int("hits", baseCov.Hits).
		Int("total", baseCov.Total).
		Strs("unmapped", baseCov.Unmapped).
		Msg("Mapped headers")

	m := base
	if len(t.overlay) > 0 {
		m = base.WithOverlay(t.overlay)
		cov := m.Coverage()
		log.Info().
			Str("source", t.source).
			Int("hits_before", baseCov.Hits).
			Int("hits_after", cov.Hits).
			Int("total", cov.Total).
			Msg("Applied mapping overlay")
	}

	w, err := jsonl.NewWriter(outPath)
	if err != nil {
		return 0, err
	}
	defer w.Close() //nolint:errcheck // no-op after commit

	builder := NewBuilder(t.source, m)
	for _, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		event, _ := builder.Build(row.Values, row.Num)
		if err := w.Write(event); err != nil {
			return 0, err
		}
	}

	if err := w.Commit(); err != nil {
		return 0, err
	}

	log.Info().
		Str("source", t.source).
		Str("file", csvPath).
		Int("rows", w.Count()).
		Msg("Transformed source")
	return w.Count(), nil
}
