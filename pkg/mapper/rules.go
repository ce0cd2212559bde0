package mapper

// Rule pairs a header pattern with the canonical field path it maps to.
// Patterns are matched case-insensitively as substrings of the raw header.
type Rule struct {
	Pattern string
	Path    string
}

// rules is the ordered deterministic rule list. Order is load-bearing:
// several patterns are substrings of later ones (ADR_FEE_RATE before
// ADR_FEE, GROSS_AMOUNT_QUOTATION before GROSS_AMOUNT, TAX last), so the
// list must stay an explicit sequence, never alphabetized.
var rules = []Rule{
	{"INSTRUMENT_DESCRIPTION", "instrument.name"},
	{"SECURITY_NAME", "instrument.name"},
	{"ISIN", "instrument.isin"},
	{"SEDOL", "instrument.sedol"},
	{"TICKER", "instrument.ticker"},
	{"EXDATE", "dates.ex_date"},
	{"EX_DATE", "dates.ex_date"},
	{"EVENT_PAYMENT_DATE", "dates.pay_date"},
	{"PAYMENT_DATE", "dates.pay_date"},
	{"PAY_REC_DATE", "dates.record_date"},
	{"PAY_DATE", "dates.pay_date"},
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
	{"ADR_FEE", "amounts_quote.adr_fee"},
	{"COAC_EVENT_KEY", "source.vendor_event_key"},
	{"CUSTODIAN", "source.custodian"},
	{"BANK_ACCOUNT", "source.bank_account"},
	{"ORGANISATION_NAME", "source.organisation_name"},
	{"TAX", "amounts_quote.tax"},
}

// Rules returns a copy of the deterministic rule list, in match order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// CanonicalPaths returns the set of canonical field paths the rule list can
// produce, used to validate overlay targets.
func CanonicalPaths() map[string]bool {
	paths := make(map[string]bool, len(rules))
	for _, r := range rules {
		paths[r.Path] = true
	}
	return paths
}
