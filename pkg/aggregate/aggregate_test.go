package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjordledger/divrec/pkg/schema"
)

func event(key string, mutate func(*schema.Event)) *schema.Event {
	e := &schema.Event{
		EventKey: key,
		Instrument: schema.Instrument{
			ISIN: schema.String("US0378331005"),
			Name: schema.String("APPLE INC"),
		},
		Dates: schema.Dates{
			ExDate:  schema.String("2025-05-12"),
			PayDate: schema.String("2025-05-15"),
		},
		Currencies: schema.Currencies{
			QuoteCcy:  schema.String("USD"),
			SettleCcy: schema.String("USD"),
		},
		Source: schema.Source{System: "CUSTODY", FileRowID: "0"},
	}
	if mutate != nil {
		mutate(e)
	}
	return e
}

func TestAggregateSumsTranches(t *testing.T) {
	events := []*schema.Event{
		event("k1", func(e *schema.Event) {
			e.Positions.NominalBasis = schema.Dec("1000")
			e.AmountsQuote.Gross = schema.Dec("100.25")
			e.AmountsQuote.Tax = schema.Dec("15")
			e.AmountsQuote.Net = schema.Dec("85.25")
		}),
		event("k1", func(e *schema.Event) {
			e.Source.FileRowID = "1"
			e.Positions.NominalBasis = schema.Dec("500")
			e.AmountsQuote.Gross = schema.Dec("49.75")
			e.AmountsQuote.Tax = schema.Dec("7.5")
			e.AmountsQuote.Net = schema.Dec("42.25")
		}),
	}

	out := Aggregate(events)
	require.Len(t, out, 1)
	agg := out["k1"]
	require.NotNil(t, agg)

	assert.Equal(t, "1500", agg.Positions.NominalBasis.String())
	assert.Equal(t, "150", agg.AmountsQuote.Gross.String())
	assert.Equal(t, "22.5", agg.AmountsQuote.Tax.String())
	assert.Equal(t, "127.5", agg.AmountsQuote.Net.String())

	// Descriptive fields come from the first tranche.
	assert.Equal(t, "0", agg.Source.FileRowID)
	assert.Equal(t, "APPLE INC", *agg.Instrument.Name)
}

func TestAggregateNullSafeSums(t *testing.T) {
	events := []*schema.Event{
		event("k1", func(e *schema.Event) {
			e.AmountsQuote.Gross = schema.Dec("100")
		}),
		event("k1", nil),
	}

	agg := Aggregate(events)["k1"]
	require.NotNil(t, agg)

	// One value plus one null sums to the value.
	require.NotNil(t, agg.AmountsQuote.Gross)
	assert.Equal(t, "100", agg.AmountsQuote.Gross.String())

	// Null on every tranche stays null rather than becoming zero.
	assert.Nil(t, agg.AmountsQuote.Tax)
	assert.Nil(t, agg.AmountsQuote.ADRFee)
	assert.Nil(t, agg.Positions.NominalBasis)
}

func TestAggregateSeparateKeys(t *testing.T) {
	events := []*schema.Event{
		event("k1", func(e *schema.Event) { e.AmountsQuote.Gross = schema.Dec("10") }),
		event("k2", func(e *schema.Event) { e.AmountsQuote.Gross = schema.Dec("20") }),
	}

	out := Aggregate(events)
	require.Len(t, out, 2)
	assert.Equal(t, "10", out["k1"].AmountsQuote.Gross.String())
	assert.Equal(t, "20", out["k2"].AmountsQuote.Gross.String())
}

func TestAggregateFlagsSuspiciousFX(t *testing.T) {
	events := []*schema.Event{
		event("k1", func(e *schema.Event) {
			e.FX.QuoteToPortfolioFX = schema.Dec("10.45")
			e.Source.ProvenanceNotes = "amounts_quote.tax:derived: tax=gross-net"
		}),
	}

	agg := Aggregate(events)["k1"]
	require.NotNil(t, agg)
	assert.Equal(t, "amounts_quote.tax:derived: tax=gross-net | fx_suspicious_for_same_ccy", agg.Source.ProvenanceNotes)
	// The rate itself is kept.
	assert.Equal(t, "10.45", agg.FX.QuoteToPortfolioFX.String())
}

func TestAggregateFXNearOneNotFlagged(t *testing.T) {
	events := []*schema.Event{
		event("k1", func(e *schema.Event) {
			e.FX.QuoteToPortfolioFX = schema.Dec("1.0005")
		}),
	}

	agg := Aggregate(events)["k1"]
	assert.Empty(t, agg.Source.ProvenanceNotes)
}

func TestAggregateCrossCurrencyFXNotFlagged(t *testing.T) {
	events := []*schema.Event{
		event("k1", func(e *schema.Event) {
			e.Currencies.SettleCcy = schema.String("NOK")
			e.FX.QuoteToPortfolioFX = schema.Dec("10.45")
		}),
	}

	agg := Aggregate(events)["k1"]
	assert.Empty(t, agg.Source.ProvenanceNotes)
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	first := event("k1", func(e *schema.Event) {
		e.AmountsQuote.Gross = schema.Dec("10")
		e.FX.QuoteToPortfolioFX = schema.Dec("2")
	})
	second := event("k1", func(e *schema.Event) {
		e.AmountsQuote.Gross = schema.Dec("5")
	})

	Aggregate([]*schema.Event{first, second})

	assert.Equal(t, "10", first.AmountsQuote.Gross.String())
	assert.Empty(t, first.Source.ProvenanceNotes)
}
