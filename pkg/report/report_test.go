package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjordledger/divrec/pkg/compare"
	"github.com/fjordledger/divrec/pkg/schema"
)

func record(key string, gross string, flags ...string) *schema.Comparison {
	rec := &schema.Comparison{
		EventKey: key,
		Derived:  schema.Derived{Flags: append([]string{}, flags...)},
	}
	if gross != "" {
		rec.Derived.Delta.GrossQuote = schema.Dec(gross)
	}
	return rec
}

func TestSummarizeCountsAndFlags(t *testing.T) {
	records := []*schema.Comparison{
		record("k1", "10", compare.FlagMissingTaxRate),
		record("k2", "-5", compare.FlagMissingTaxRate, compare.FlagFXMismatch),
		record("k3", ""),
	}

	s := Summarize(records)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.FlagCounts[compare.FlagMissingTaxRate])
	assert.Equal(t, 1, s.FlagCounts[compare.FlagFXMismatch])
	assert.Zero(t, s.FlagCounts[compare.FlagADRFeePresent])
}

func TestSummarizeRanksByAbsoluteDelta(t *testing.T) {
	records := []*schema.Comparison{
		record("small", "1"),
		record("negative", "-50"),
		record("large", "30"),
	}

	s := Summarize(records)

	require.Len(t, s.Top, 3)
	assert.Equal(t, "negative", s.Top[0].EventKey)
	assert.Equal(t, "large", s.Top[1].EventKey)
	assert.Equal(t, "small", s.Top[2].EventKey)
	assert.Equal(t, "50", s.Top[0].Score.String())
}

func TestSummarizeTruncatesTop(t *testing.T) {
	var records []*schema.Comparison
	for i := 0; i < 15; i++ {
		records = append(records, record(strings.Repeat("k", i+1), "10"))
	}

	s := Summarize(records)
	assert.Len(t, s.Top, 10)
	assert.Equal(t, 15, s.Total)
}

func TestWriteMarkdown(t *testing.T) {
	records := []*schema.Comparison{
		record("k1", "12.5", compare.FlagADRFeePresent),
		record("k2", ""),
	}

	var sb strings.Builder
	require.NoError(t, Summarize(records).WriteMarkdown(&sb))
	out := sb.String()

	assert.Contains(t, out, "# QA Summary")
	assert.Contains(t, out, "Comparison records: 2")
	assert.Contains(t, out, "`adr_fee_present`: 1")
	assert.Contains(t, out, "## Top deltas")
	assert.Contains(t, out, "12.5")
	assert.Contains(t, out, "null")
}

func TestWriteMarkdownNoFlags(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Summarize(nil).WriteMarkdown(&sb))
	assert.Contains(t, sb.String(), "No flags raised.")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qa_summary.md")
	require.NoError(t, Summarize([]*schema.Comparison{record("k1", "1")}).WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# QA Summary")
}
