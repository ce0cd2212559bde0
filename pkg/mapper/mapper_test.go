package mapper_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjordledger/divrec/pkg/errors"
	"github.com/fjordledger/divrec/pkg/mapper"
)

func TestMap(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"ISIN", "instrument.isin"},
		{"isin", "instrument.isin"},
		{"SEDOL", "instrument.sedol"},
		{"INSTRUMENT_DESCRIPTION", "instrument.name"},
		{"SECURITY_NAME", "instrument.name"},
		{"EXDATE", "dates.ex_date"},
		{"EX_DATE", "dates.ex_date"},
		{"PAYMENT_DATE", "dates.pay_date"},
		{"EVENT_PAYMENT_DATE", "dates.pay_date"},
		{"PAY_REC_DATE", "dates.record_date"},
		{"RECORD_DATE", "dates.record_date"},
		{"QUOTATION_CURRENCY", "currencies.quote_ccy"},
		{"SETTLEMENT_CURRENCY", "currencies.settle_ccy"},
		{"SETTLED_CURRENCY", "currencies.settle_ccy"},
		{"CURRENCIES", "currencies.quote_ccy"},
		{"AVG_FX_RATE_QUOTATION_TO_PORTFOLIO", "fx.quote_to_portfolio_fx"},
		{"FX_RATE", "fx.quote_to_portfolio_fx"},
		{"DIVIDENDS_PER_SHARE", "rate.div_per_share"},
		{"DIV_RATE", "rate.div_per_share"},
		{"WTHTAX_RATE", "rate.tax_rate"},
		{"TAX_RATE", "rate.tax_rate"},
		{"ADR_FEE_RATE", "rate.adr_fee_rate"},
		{"ADR_FEE", "amounts_quote.adr_fee"},
		{"NOMINAL_BASIS", "positions.nominal_basis"},
		{"GROSS_AMOUNT_QUOTATION", "amounts_quote.gross"},
		{"GROSS_AMOUNT_QC", "amounts_quote.gross"},
		{"GROSS_AMOUNT_SC", "amounts_settle.gross"},
		{"GROSS_AMOUNT", "amounts_quote.gross"},
		{"WITHHOLDING_TAX_AMOUNT_QUOTATION", "amounts_quote.tax"},
		{"WITHHOLDING_TAX_AMOUNT_SETTLEMENT", "amounts_settle.tax"},
		{"NET_AMOUNT_QUOTATION", "amounts_quote.net"},
		{"NET_AMOUNT_QC", "amounts_quote.net"},
		{"NET_AMOUNT_SC", "amounts_settle.net"},
		{"TAX", "amounts_quote.tax"},
		{"COAC_EVENT_KEY", "source.vendor_event_key"},
		{"CUSTODIAN", "source.custodian"},
		{"BANK_ACCOUNT", "source.bank_account"},
		{"BANK_ACCOUNTS", "source.bank_account"},
		{"ORGANISATION_NAME", "source.organisation_name"},
		{"TOTALLY_UNKNOWN_COLUMN", ""},
	}

	headers := make([]string, 0, len(tests))
	for _, tt := range tests {
		headers = append(headers, tt.header)
	}
	m := mapper.Map(headers)

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, m.PathFor(tt.header))
		})
	}
}

func TestMapSubstringAndCase(t *testing.T) {
	m := mapper.Map([]string{" isin ", "Custody_Gross_Amount", "wthtax_rate_pct"})
	assert.Equal(t, "instrument.isin", m.PathFor(" isin "))
	assert.Equal(t, "amounts_quote.gross", m.PathFor("Custody_Gross_Amount"))
	assert.Equal(t, "rate.tax_rate", m.PathFor("wthtax_rate_pct"))
}

func TestCoverage(t *testing.T) {
	m := mapper.Map([]string{"ISIN", "EX_DATE", "MYSTERY_A", "MYSTERY_B"})
	cov := m.Coverage()

	assert.Equal(t, 2, cov.Hits)
	assert.Equal(t, 4, cov.Total)
	assert.InDelta(t, 50.0, cov.Pct, 1e-9)
	assert.Equal(t, []string{"MYSTERY_A", "MYSTERY_B"}, cov.Unmapped)
}

func TestCoverageEmpty(t *testing.T) {
	cov := mapper.Map(nil).Coverage()
	assert.Equal(t, 0, cov.Total)
	assert.InDelta(t, 100.0, cov.Pct, 1e-9)
}

func TestWithOverlay(t *testing.T) {
	m := mapper.Map([]string{"ISIN", "DIV_AMT_LOCAL"})
	require.Equal(t, "", m.PathFor("DIV_AMT_LOCAL"))

	composed := m.WithOverlay(map[string]string{
		"DIV_AMT_LOCAL": "amounts_quote.gross",
		"ISIN":          "instrument.name",  // deterministic hit, must not override
		"NOT_A_HEADER":  "amounts_quote.net", // unknown header, ignored
	})

	assert.Equal(t, "amounts_quote.gross", composed.PathFor("DIV_AMT_LOCAL"))
	assert.Equal(t, "instrument.isin", composed.PathFor("ISIN"))
	assert.Equal(t, "", composed.PathFor("NOT_A_HEADER"))

	// Original mapping untouched.
	assert.Equal(t, "", m.PathFor("DIV_AMT_LOCAL"))
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()

	t.Run("flat yaml", func(t *testing.T) {
		path := filepath.Join(dir, "overlay.yaml")
		require.NoError(t, os.WriteFile(path,
			[]byte("DIV_AMT_LOCAL: amounts_quote.gross\n"), 0o644))

		got, err := mapper.LoadOverlay(path)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"DIV_AMT_LOCAL": "amounts_quote.gross"}, got)
	})

	t.Run("accepted json", func(t *testing.T) {
		path := filepath.Join(dir, "overlay.json")
		require.NoError(t, os.WriteFile(path,
			[]byte(`{"accepted": {"DIV_AMT_LOCAL": "amounts_quote.net"}}`), 0o644))

		got, err := mapper.LoadOverlay(path)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"DIV_AMT_LOCAL": "amounts_quote.net"}, got)
	})

	t.Run("unknown target path", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path,
			[]byte("DIV_AMT_LOCAL: amounts_quote.bogus\n"), 0o644))

		_, err := mapper.LoadOverlay(path)
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := mapper.LoadOverlay(filepath.Join(dir, "absent.yaml"))
		require.Error(t, err)
	})
}
