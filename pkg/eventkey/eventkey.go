// Package eventkey derives the stable cross-source identity for one economic
// dividend event.
package eventkey

import (
	"crypto/sha1" //nolint:gosec // collision resistance, not secrecy
	"encoding/hex"
	"strings"
)

// delimiter joins the key components before hashing.
const delimiter = "|"

// Key derives a deterministic event key from the instrument's ISIN, the
// ex and pay dates (ISO strings), and the quote currency. ISIN and currency
// are upper-cased so the key is case-insensitive; missing components
// participate as empty strings so partial records still key consistently.
//
// Distinct vendor events that share all four components collapse to one key
// and are silently merged downstream. Known limitation.
func Key(isin, exDate, payDate, quoteCcy string) string {
	raw := strings.Join([]string{
		strings.ToUpper(isin),
		exDate,
		payDate,
		strings.ToUpper(quoteCcy),
	}, delimiter)

	sum := sha1.Sum([]byte(raw)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
