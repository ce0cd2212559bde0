// Package compare joins the two sources' aggregated events into one
// comparison record per event key, computing deltas and exception flags.
package compare

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fjordledger/divrec/pkg/constants"
	"github.com/fjordledger/divrec/pkg/schema"
)

// Exception flags attached to comparison records.
const (
	// FlagFXMismatch marks a cross-currency event whose two sides disagree
	// on the FX rate.
	FlagFXMismatch = "fx_mismatch"
	// FlagADRFeePresent marks an event where the sides report different
	// ADR fee amounts.
	FlagADRFeePresent = "adr_fee_present"
	// FlagMissingTaxRate marks an event where either side lacks a
	// withholding tax rate.
	FlagMissingTaxRate = "missing_tax_rate"
)

var fxMismatchTolerance = decimal.RequireFromString(constants.FXMismatchTolerance)

// Compare takes both sources' aggregated events keyed by event key and
// returns one record per key in the union of the two maps, sorted by key.
// A key present on one side only is a break: the other side is null and
// its amounts contribute zero to the deltas.
func Compare(nbim, custody map[string]*schema.Event) []*schema.Comparison {
	keys := unionKeys(nbim, custody)

	out := make([]*schema.Comparison, 0, len(keys))
	for _, key := range keys {
		nb := nbim[key]
		cu := custody[key]
		out = append(out, &schema.Comparison{
			EventKey: key,
			NBIM:     nb,
			Custody:  cu,
			Derived: schema.Derived{
				Delta: schema.Delta{
					GrossQuote: delta(amount(nb, grossQuote), amount(cu, grossQuote)),
					TaxQuote:   delta(amount(nb, taxQuote), amount(cu, taxQuote)),
					NetQuote:   delta(amount(nb, netQuote), amount(cu, netQuote)),
				},
				Flags: flags(nb, cu),
			},
		})
	}
	return out
}

func unionKeys(nbim, custody map[string]*schema.Event) []string {
	seen := make(map[string]struct{}, len(nbim)+len(custody))
	for k := range nbim {
		seen[k] = struct{}{}
	}
	for k := range custody {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func grossQuote(e *schema.Event) *decimal.Decimal { return e.AmountsQuote.Gross }
func taxQuote(e *schema.Event) *decimal.Decimal   { return e.AmountsQuote.Tax }
func netQuote(e *schema.Event) *decimal.Decimal   { return e.AmountsQuote.Net }

func amount(e *schema.Event, field func(*schema.Event) *decimal.Decimal) *decimal.Decimal {
	if e == nil {
		return nil
	}
	return field(e)
}

// delta computes custody minus nbim. Both nil stays nil so an amount absent
// on both sides is distinguishable from two sides agreeing on zero; a single
// nil contributes zero.
func delta(nb, cu *decimal.Decimal) *decimal.Decimal {
	if nb == nil && cu == nil {
		return nil
	}
	d := orZero(cu).Sub(orZero(nb))
	return &d
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// flags returns the exception flags for one comparison. The slice is never
// nil so the record always serializes with a flags array.
func flags(nb, cu *schema.Event) []string {
	out := []string{}
	if fxMismatch(nb, cu) {
		out = append(out, FlagFXMismatch)
	}
	if adrFeeDiffers(nb, cu) {
		out = append(out, FlagADRFeePresent)
	}
	if missingTaxRate(nb, cu) {
		out = append(out, FlagMissingTaxRate)
	}
	return out
}

// fxMismatch applies only to cross-currency events with a rate on both
// sides. Same-currency rates are handled by the aggregation-stage
// suspicious-FX note instead.
func fxMismatch(nb, cu *schema.Event) bool {
	ref := nb
	if ref == nil {
		ref = cu
	}
	q, s := ref.Currencies.QuoteCcy, ref.Currencies.SettleCcy
	if q == nil || s == nil || *q == *s {
		return false
	}
	if nb == nil || cu == nil {
		return false
	}
	fxNb, fxCu := nb.FX.QuoteToPortfolioFX, cu.FX.QuoteToPortfolioFX
	if fxNb == nil || fxCu == nil {
		return false
	}
	return fxCu.Sub(*fxNb).Abs().Cmp(fxMismatchTolerance) > 0
}

func adrFeeDiffers(nb, cu *schema.Event) bool {
	a := orZero(amount(nb, func(e *schema.Event) *decimal.Decimal { return e.AmountsQuote.ADRFee }))
	b := orZero(amount(cu, func(e *schema.Event) *decimal.Decimal { return e.AmountsQuote.ADRFee }))
	return a.Cmp(b) != 0
}

func missingTaxRate(nb, cu *schema.Event) bool {
	return nb == nil || nb.Rates.TaxRate == nil || cu == nil || cu.Rates.TaxRate == nil
}
