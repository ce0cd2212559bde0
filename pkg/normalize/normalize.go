// Package normalize converts raw source values into canonical typed values.
// All conversions are stateless and total on their declared input domain:
// empty and sentinel-null inputs map to nil, recognized grammars convert,
// and anything else fails with a NormalizationError.
package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fjordledger/divrec/pkg/errors"
)

var (
	dateDotted  = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)
	dateISO     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateSlashed = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`)
	dateDMYOrMD = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	dateCompact = regexp.MustCompile(`^\d{8}$`)

	alphaRun = regexp.MustCompile(`[A-Z]+`)
)

// isNullToken reports whether the trimmed input stands for "no value".
func isNullToken(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "none", "null":
		return true
	}
	return false
}

// Date converts a variety of date formats to ISO YYYY-MM-DD.
//
// Recognized, in priority order: DD.MM.YYYY, YYYY-MM-DD (passthrough),
// YYYY/MM/DD, DD/MM/YYYY or MM/DD/YYYY, and YYYYMMDD. Slash-separated
// two-digit pairs are disambiguated by the first token: a value above 12
// must be the day, forcing day-first parsing. Otherwise month-first is
// assumed, which is a lossy guess for genuinely day-first dates with
// day <= 12; that ambiguity is inherent to the input, not resolvable here.
//
// Returns nil for empty/sentinel input, or a NormalizationError for
// unrecognized or impossible dates.
func Date(value string) (*string, error) {
	s := strings.TrimSpace(value)
	if isNullToken(s) {
		return nil, nil
	}

	switch {
	case dateDotted.MatchString(s):
		return reformat(s, "02.01.2006")
	case dateISO.MatchString(s):
		return &s, nil
	case dateSlashed.MatchString(s):
		return reformat(s, "2006/01/02")
	case dateDMYOrMD.MatchString(s):
		layout := "01/02/2006"
		if s[:2] > "12" {
			layout = "02/01/2006"
		}
		return reformat(s, layout)
	case dateCompact.MatchString(s):
		return reformat(s, "20060102")
	}

	return nil, errors.NewNormalizationError("", value, "unrecognized date format")
}

// reformat parses s with the given layout and renders it as YYYY-MM-DD.
func reformat(s, layout string) (*string, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return nil, errors.NewNormalizationError("", s, "impossible date")
	}
	iso := t.Format("2006-01-02")
	return &iso, nil
}

// Decimal converts a numeric-looking string to an exact decimal.
//
// Handles mixed thousands/decimal separators: when both ',' and '.' appear,
// the separator occurring later in the string is the decimal point and the
// earlier one is stripped as a thousands separator ("318,750.00" and
// "318.750,00" both parse to 318750.00). A lone ',' is treated as the
// decimal point. Returns nil for empty/sentinel input, or a
// NormalizationError when the cleaned string is not a decimal literal.
func Decimal(value string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(value)
	if isNullToken(s) {
		return nil, nil
	}

	s = strings.ReplaceAll(s, " ", "")
	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.NewNormalizationError("", value, "not a decimal literal")
	}
	return &d, nil
}

// Currency normalizes currency text to a 3-letter ISO-like code, best effort.
//
// Exactly three alphabetic characters pass through upper-cased. Otherwise
// the first run of exactly three letters inside the string is taken
// ("US Dollar (USD)" yields "USD"). Unknown currency text is tolerated, not
// fatal: no extractable code returns nil without error.
func Currency(value string) *string {
	s := strings.ToUpper(strings.TrimSpace(value))
	if isNullToken(s) {
		return nil
	}

	for _, run := range alphaRun.FindAllString(s, -1) {
		if len(run) == 3 {
			return &run
		}
	}
	return nil
}

// DeriveTax fills a missing withholding tax amount as gross minus net when
// both are present. Returns the (possibly unchanged) tax and a provenance
// note, empty when nothing was derived.
func DeriveTax(gross, net, tax *decimal.Decimal) (*decimal.Decimal, string) {
	if tax != nil || gross == nil || net == nil {
		return tax, ""
	}
	derived := gross.Sub(*net)
	return &derived, "derived: tax=gross-net"
}

// DefaultFX fills a missing FX rate with 1.0 when the quote and settlement
// currencies are both present and equal. Returns the (possibly unchanged)
// rate and a provenance note, empty when nothing was defaulted.
func DefaultFX(quoteCcy, settleCcy *string, fx *decimal.Decimal) (*decimal.Decimal, string) {
	if fx != nil || quoteCcy == nil || settleCcy == nil || *quoteCcy == "" || *quoteCcy != *settleCcy {
		return fx, ""
	}
	one := decimal.NewFromInt(1)
	return &one, "default: 1.0 (same ccy)"
}
