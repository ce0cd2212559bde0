package transform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjordledger/divrec/internal/jsonl"
	"github.com/fjordledger/divrec/pkg/logging"
	"github.com/fjordledger/divrec/pkg/schema"
	"github.com/fjordledger/divrec/pkg/transform"
)

func TestTransformWritesEventStream(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "nbim.csv")
	outPath := filepath.Join(dir, "nbim.events.jsonl")

	csv := "ISIN;EX_DATE;PAYMENT_DATE;QUOTATION_CURRENCY;GROSS_AMOUNT_QUOTATION\n" +
		"US1234567890;07.02.2025;2025-03-01;USD;100,50\n" +
		"US1234567890;07.02.2025;2025-03-01;USD;50.25\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(csv), 0o644))

	count, err := transform.New("NBIM").Transform(context.Background(), csvPath, outPath)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	events, err := jsonl.Read[schema.Event](outPath)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, events[0].EventKey, events[1].EventKey,
		"tranches of one event must share a key")
	assert.Equal(t, "100.5", events[0].AmountsQuote.Gross.String())
	assert.Equal(t, "50.25", events[1].AmountsQuote.Gross.String())
	assert.Equal(t, "NBIM", events[0].Source.System)
	assert.Equal(t, "1", events[1].Source.FileRowID)
}

func TestTransformWithOverlay(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "custody.csv")
	outPath := filepath.Join(dir, "custody.events.jsonl")

	csv := "ISIN,DIV_AMT_LOCAL\nUS1,95.5\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(csv), 0o644))

	tr := transform.New("CUSTODY",
		transform.WithOverlay(map[string]string{"DIV_AMT_LOCAL": "amounts_quote.gross"}))
	count, err := tr.Transform(context.Background(), csvPath, outPath)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	events, err := jsonl.Read[schema.Event](outPath)
	require.NoError(t, err)
	require.NotNil(t, events[0].AmountsQuote.Gross)
	assert.Equal(t, "95.5", events[0].AmountsQuote.Gross.String())
}

func TestTransformUnreadableFileLeavesNoOutput(t *testing.T) {
	logging.DisableLoggingForTest(t)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "bad.csv")
	outPath := filepath.Join(dir, "bad.events.jsonl")
	require.NoError(t, os.WriteFile(csvPath, []byte("ONECOLUMN\nv\n"), 0o644))

	_, err := transform.New("NBIM").Transform(context.Background(), csvPath, outPath)
	require.Error(t, err)

	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestTransformMappingCoverage(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "src.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("ISIN,WHAT\nUS1,x\n"), 0o644))

	m, err := transform.New("NBIM").Mapping(csvPath)
	require.NoError(t, err)
	cov := m.Coverage()
	assert.Equal(t, 1, cov.Hits)
	assert.Equal(t, []string{"WHAT"}, cov.Unmapped)
}
