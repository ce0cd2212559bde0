// Package schema defines the canonical event schema (CES) that both source
// feeds are mapped into, and the comparison record emitted per economic event.
//
// Optional fields are pointers: a nil pointer means the source column was
// absent or its value failed normalization. Numeric fields use
// decimal.Decimal throughout so no binary floating-point rounding is
// introduced between ingestion and comparison.
package schema

import (
	"github.com/shopspring/decimal"
)

// Event is one row's normalized representation, or, after aggregation, the
// sum of all tranche rows sharing one event key within one source.
type Event struct {
	EventKey      string     `json:"event_key"`
	Instrument    Instrument `json:"instrument"`
	Dates         Dates      `json:"dates"`
	Currencies    Currencies `json:"currencies"`
	FX            FX         `json:"fx"`
	Rates         Rates      `json:"rate"`
	Positions     Positions  `json:"positions"`
	AmountsQuote  Amounts    `json:"amounts_quote"`
	AmountsSettle Amounts    `json:"amounts_settle"`
	Source        Source     `json:"source"`
}

// Instrument identifies the security the dividend was paid on.
type Instrument struct {
	ISIN   *string `json:"isin,omitempty"`
	Sedol  *string `json:"sedol,omitempty"`
	Ticker *string `json:"ticker,omitempty"`
	Name   *string `json:"name,omitempty"`
}

// Dates holds the event's lifecycle dates as ISO 8601 strings (YYYY-MM-DD).
type Dates struct {
	ExDate     *string `json:"ex_date,omitempty"`
	PayDate    *string `json:"pay_date,omitempty"`
	RecordDate *string `json:"record_date,omitempty"`
}

// Currencies holds the 3-letter quote and settlement currency codes.
type Currencies struct {
	QuoteCcy  *string `json:"quote_ccy,omitempty"`
	SettleCcy *string `json:"settle_ccy,omitempty"`
}

// FX holds the rate from quote currency into the portfolio currency.
type FX struct {
	QuoteToPortfolioFX *decimal.Decimal `json:"quote_to_portfolio_fx,omitempty"`
}

// Rates holds per-share and percentage rates.
type Rates struct {
	DivPerShare *decimal.Decimal `json:"div_per_share,omitempty"`
	TaxRate     *decimal.Decimal `json:"tax_rate,omitempty"`
	ADRFeeRate  *decimal.Decimal `json:"adr_fee_rate,omitempty"`
}

// Positions holds the position basis the dividend applies to.
type Positions struct {
	NominalBasis *decimal.Decimal `json:"nominal_basis,omitempty"`
}

// Amounts holds monetary amounts in one currency. ADRFee is only populated
// on the quote-currency side.
type Amounts struct {
	Gross  *decimal.Decimal `json:"gross,omitempty"`
	Tax    *decimal.Decimal `json:"tax,omitempty"`
	Net    *decimal.Decimal `json:"net,omitempty"`
	ADRFee *decimal.Decimal `json:"adr_fee,omitempty"`
}

// Source records where a canonical event came from and how its fields were
// derived. ProvenanceNotes is a "; "-joined list of field:note pairs.
type Source struct {
	System           string  `json:"system"`
	FileRowID        string  `json:"file_row_id"`
	ProvenanceNotes  string  `json:"provenance_notes"`
	VendorEventKey   *string `json:"vendor_event_key,omitempty"`
	Custodian        *string `json:"custodian,omitempty"`
	BankAccount      *string `json:"bank_account,omitempty"`
	OrganisationName *string `json:"organisation_name,omitempty"`
}

// Comparison is the merged record for one event key across both sources.
// NBIM or Custody is null when the event is a break (present on one side
// only); exactly one Comparison exists per key in the union of both sides.
type Comparison struct {
	EventKey string  `json:"event_key"`
	NBIM     *Event  `json:"nbim"`
	Custody  *Event  `json:"custody"`
	Derived  Derived `json:"derived"`
}

// Derived holds the computed deltas and exception flags for a comparison.
type Derived struct {
	Delta Delta    `json:"delta"`
	Flags []string `json:"flags"`
}

// Delta holds custody-minus-nbim differences per quote-currency amount.
// A nil field means the amount was absent on both sides, which is distinct
// from both sides reporting zero.
type Delta struct {
	GrossQuote *decimal.Decimal `json:"gross_quote"`
	TaxQuote   *decimal.Decimal `json:"tax_quote"`
	NetQuote   *decimal.Decimal `json:"net_quote"`
}

// String returns a pointer to s. Convenience for building optional fields.
func String(s string) *string {
	return &s
}

// Dec returns a pointer to the decimal parsed from s. It panics on invalid
// input and is intended for literals in tests and fixtures.
func Dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
