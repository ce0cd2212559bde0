// Package aggregate folds a source's canonical events into one record per
// event key, summing tranche amounts with null-safe semantics.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/fjordledger/divrec/pkg/constants"
	"github.com/fjordledger/divrec/pkg/provenance"
	"github.com/fjordledger/divrec/pkg/schema"
)

// FXSuspiciousNote marks a same-currency event whose FX rate is not 1.0.
const FXSuspiciousNote = "fx_suspicious_for_same_ccy"

var fxSuspiciousTolerance = decimal.RequireFromString(constants.FXSuspiciousTolerance)

// Aggregate groups events by key and sums the numeric amount and position
// fields across each group's tranches. Descriptive fields (instrument,
// dates, currencies, fx, rates, source) are carried from the first tranche
// in file order; sums are order-independent. A field that is nil in every
// tranche stays nil, otherwise nils contribute zero.
func Aggregate(events []*schema.Event) map[string]*schema.Event {
	out := make(map[string]*schema.Event)

	for _, event := range events {
		agg, ok := out[event.EventKey]
		if !ok {
			// First tranche: value copy so later notes don't touch the input.
			first := *event
			out[event.EventKey] = &first
			continue
		}

		agg.Positions.NominalBasis = sum(agg.Positions.NominalBasis, event.Positions.NominalBasis)
		agg.AmountsQuote.Gross = sum(agg.AmountsQuote.Gross, event.AmountsQuote.Gross)
		agg.AmountsQuote.Tax = sum(agg.AmountsQuote.Tax, event.AmountsQuote.Tax)
		agg.AmountsQuote.Net = sum(agg.AmountsQuote.Net, event.AmountsQuote.Net)
		agg.AmountsQuote.ADRFee = sum(agg.AmountsQuote.ADRFee, event.AmountsQuote.ADRFee)
		agg.AmountsSettle.Gross = sum(agg.AmountsSettle.Gross, event.AmountsSettle.Gross)
		agg.AmountsSettle.Tax = sum(agg.AmountsSettle.Tax, event.AmountsSettle.Tax)
		agg.AmountsSettle.Net = sum(agg.AmountsSettle.Net, event.AmountsSettle.Net)
	}

	for _, agg := range out {
		annotateSuspiciousFX(agg)
	}

	return out
}

// sum adds two nullable decimals: both nil stays nil (distinct from zero),
// otherwise nil contributes zero.
func sum(a, b *decimal.Decimal) *decimal.Decimal {
	if a == nil && b == nil {
		return nil
	}
	if a == nil {
		v := *b
		return &v
	}
	if b == nil {
		v := *a
		return &v
	}
	v := a.Add(*b)
	return &v
}

// annotateSuspiciousFX appends a provenance note when a same-currency event
// carries an FX rate away from 1.0. Annotation only; the value is kept.
func annotateSuspiciousFX(agg *schema.Event) {
	q, s := agg.Currencies.QuoteCcy, agg.Currencies.SettleCcy
	fx := agg.FX.QuoteToPortfolioFX
	if q == nil || s == nil || *q == "" || *q != *s || fx == nil {
		return
	}
	if fx.Sub(decimal.NewFromInt(1)).Abs().Cmp(fxSuspiciousTolerance) <= 0 {
		return
	}
	agg.Source.ProvenanceNotes = provenance.Append(agg.Source.ProvenanceNotes, FXSuspiciousNote)
}
