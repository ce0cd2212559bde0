// Package transform assembles canonical events from raw source rows: one
// normalized record per row, with safe derivations, provenance notes, and a
// stable event key.
package transform

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fjordledger/divrec/pkg/eventkey"
	"github.com/fjordledger/divrec/pkg/mapper"
	"github.com/fjordledger/divrec/pkg/normalize"
	"github.com/fjordledger/divrec/pkg/provenance"
	"github.com/fjordledger/divrec/pkg/schema"
)

// Builder converts raw rows of one source table into canonical events using
// a fixed column mapping.
type Builder struct {
	source  string
	mapping mapper.Mapping
}

// NewBuilder creates a builder for one source system and its column mapping.
func NewBuilder(sourceSystem string, mapping mapper.Mapping) *Builder {
	return &Builder{source: sourceSystem, mapping: mapping}
}

// Build assembles one canonical event from a raw row. A field that fails
// normalization stays nil and gets a provenance note; the row itself is
// never aborted. The returned notes are the same entries joined into the
// event's provenance string, exposed for diagnostics.
func (b *Builder) Build(row map[string]string, rowNum int) (*schema.Event, []string) {
	event := &schema.Event{
		Source: schema.Source{
			System:    b.source,
			FileRowID: strconv.Itoa(rowNum),
		},
	}
	var notes provenance.Notes

	// Headers are walked in file order so provenance output is stable.
	for _, header := range b.mapping.Headers() {
		path := b.mapping.PathFor(header)
		if path == "" {
			continue
		}
		b.setField(event, path, row[header], &notes)
	}

	b.derive(event, &notes)
	b.identify(event)
	event.Source.ProvenanceNotes = notes.String()

	return event, notes.Entries()
}

// setField normalizes one raw value per its path's field category and
// assigns it. Unknown categories are carried as opaque strings.
func (b *Builder) setField(event *schema.Event, path, raw string, notes *provenance.Notes) {
	switch {
	case strings.HasPrefix(path, "dates."):
		v, err := normalize.Date(raw)
		if err != nil {
			notes.AddError(path, err)
			return
		}
		setDate(event, path, v)
	case numericPath(path):
		d, err := normalize.Decimal(raw)
		if err != nil {
			notes.AddError(path, err)
			return
		}
		setDecimal(event, path, d)
	case strings.HasPrefix(path, "currencies."):
		setCurrency(event, path, normalize.Currency(raw))
	default:
		if raw != "" {
			setText(event, path, raw)
		}
	}
}

// derive applies the safe derivations, each only when the target is still
// nil after per-field normalization.
func (b *Builder) derive(event *schema.Event, notes *provenance.Notes) {
	aq := &event.AmountsQuote
	if tax, note := normalize.DeriveTax(aq.Gross, aq.Net, aq.Tax); note != "" {
		aq.Tax = tax
		notes.Add("amounts_quote.tax", note)
	}

	ccy := event.Currencies
	if fx, note := normalize.DefaultFX(ccy.QuoteCcy, ccy.SettleCcy, event.FX.QuoteToPortfolioFX); note != "" {
		event.FX.QuoteToPortfolioFX = fx
		notes.Add("fx.quote_to_portfolio_fx", note)
	}
}

// identify picks the event key: a non-blank vendor key verbatim (trimmed),
// otherwise the hash of ISIN, ex date, pay date, and quote currency.
func (b *Builder) identify(event *schema.Event) {
	if vendor := event.Source.VendorEventKey; vendor != nil {
		if trimmed := strings.TrimSpace(*vendor); trimmed != "" {
			event.EventKey = trimmed
			return
		}
	}
	event.EventKey = eventkey.Key(
		deref(event.Instrument.ISIN),
		deref(event.Dates.ExDate),
		deref(event.Dates.PayDate),
		deref(event.Currencies.QuoteCcy),
	)
}

// numericPath reports whether a canonical path holds a decimal value.
func numericPath(path string) bool {
	return strings.HasPrefix(path, "amounts_") ||
		strings.HasPrefix(path, "rate.") ||
		strings.HasPrefix(path, "positions.") ||
		strings.HasPrefix(path, "fx.")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func setDate(event *schema.Event, path string, v *string) {
	switch path {
	case "dates.ex_date":
		event.Dates.ExDate = v
	case "dates.pay_date":
		event.Dates.PayDate = v
	case "dates.record_date":
		event.Dates.RecordDate = v
	}
}

func setCurrency(event *schema.Event, path string, v *string) {
	switch path {
	case "currencies.quote_ccy":
		event.Currencies.QuoteCcy = v
	case "currencies.settle_ccy":
		event.Currencies.SettleCcy = v
	}
}

func setDecimal(event *schema.Event, path string, d *decimal.Decimal) {
	switch path {
	case "fx.quote_to_portfolio_fx":
		event.FX.QuoteToPortfolioFX = d
	case "rate.div_per_share":
		event.Rates.DivPerShare = d
	case "rate.tax_rate":
		event.Rates.TaxRate = d
	case "rate.adr_fee_rate":
		event.Rates.ADRFeeRate = d
	case "positions.nominal_basis":
		event.Positions.NominalBasis = d
	case "amounts_quote.gross":
		event.AmountsQuote.Gross = d
	case "amounts_quote.tax":
		event.AmountsQuote.Tax = d
	case "amounts_quote.net":
		event.AmountsQuote.Net = d
	case "amounts_quote.adr_fee":
		event.AmountsQuote.ADRFee = d
	case "amounts_settle.gross":
		event.AmountsSettle.Gross = d
	case "amounts_settle.tax":
		event.AmountsSettle.Tax = d
	case "amounts_settle.net":
		event.AmountsSettle.Net = d
	}
}

func setText(event *schema.Event, path, raw string) {
	switch path {
	case "instrument.isin":
		event.Instrument.ISIN = &raw
	case "instrument.sedol":
		event.Instrument.Sedol = &raw
	case "instrument.ticker":
		event.Instrument.Ticker = &raw
	case "instrument.name":
		event.Instrument.Name = &raw
	case "source.vendor_event_key":
		event.Source.VendorEventKey = &raw
	case "source.custodian":
		event.Source.Custodian = &raw
	case "source.bank_account":
		event.Source.BankAccount = &raw
	case "source.organisation_name":
		event.Source.OrganisationName = &raw
	}
}
