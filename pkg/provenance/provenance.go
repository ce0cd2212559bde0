// Package provenance provides field-level tracking of how canonical values
// were derived, defaulted, or failed to parse. Notes are short
// machine-readable annotations carried on the record itself so the
// reconciliation stays auditable without a side channel.
package provenance

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/fjordledger/divrec/pkg/errors"
)

// fieldSeparator joins field-level notes collected while building one record.
const fieldSeparator = "; "

// markSeparator joins record-level marks appended after aggregation.
const markSeparator = " | "

// Notes collects field-level annotations in encounter order while one raw
// row is converted into a canonical record.
type Notes struct {
	entries []string
}

// Add records a note for a canonical field path as "path:note".
func (n *Notes) Add(path, note string) {
	n.entries = append(n.entries, fmt.Sprintf("%s:%s", path, note))
}

// AddError records a normalization failure for a field path. Normalization
// errors contribute their short message, other errors their full text.
func (n *Notes) AddError(path string, err error) {
	msg := err.Error()
	var ne *errors.NormalizationError
	if stderrors.As(err, &ne) {
		msg = ne.Message
	}
	n.Add(path, fmt.Sprintf("normalize_error:%s", msg))
}

// Len returns the number of collected notes.
func (n *Notes) Len() int {
	return len(n.entries)
}

// Entries returns the collected notes in encounter order.
func (n *Notes) Entries() []string {
	return n.entries
}

// String joins the collected notes for storage on the record.
func (n *Notes) String() string {
	return strings.Join(n.entries, fieldSeparator)
}

// Append adds a record-level mark to an existing note string. The append is
// idempotent: a mark already present anywhere in the string is not
// duplicated.
func Append(existing, mark string) string {
	if strings.Contains(existing, mark) {
		return existing
	}
	if existing == "" {
		return mark
	}
	return existing + markSeparator + mark
}
