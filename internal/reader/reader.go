// Package reader loads delimited source tables whose separator and encoding
// are unknown in advance. A small fixed set of separators is crossed with a
// small set of encodings until one combination parses; exhausting them all
// is fatal for the run.
package reader

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/fjordledger/divrec/pkg/errors"
)

// separators are tried in order for each encoding.
var separators = []rune{',', ';', '\t', '|'}

// encodings are tried in order for each separator.
var encodings = []string{"utf-8", "latin-1", "utf-16"}

// Row is one raw data row: its ordinal position in the file and the cell
// values keyed by header.
type Row struct {
	Num    int
	Values map[string]string
}

// Table is a parsed source table with headers in file order.
type Table struct {
	Headers   []string
	Rows      []Row
	Separator rune
	Encoding  string
}

// Read parses the delimited file at path, probing separator and encoding
// combinations until one yields at least two columns. Returns an
// UnreadableSourceError when every combination fails.
func Read(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var attempts []string
	for _, sep := range separators {
		for _, enc := range encodings {
			attempts = append(attempts, fmt.Sprintf("sep=%q/%s", sep, enc))
			text, ok := decode(data, enc)
			if !ok {
				continue
			}
			table, ok := parse(text, sep)
			if !ok {
				continue
			}
			table.Separator = sep
			table.Encoding = enc
			return table, nil
		}
	}

	return nil, errors.NewUnreadableSourceError(path, attempts)
}

// decode converts raw bytes to text under the named encoding. NUL runes in
// the result mean the bytes are really a wider encoding read too narrowly,
// so the combination is rejected rather than producing mangled cells.
func decode(data []byte, encoding string) (string, bool) {
	var text string
	switch encoding {
	case "utf-8":
		if !utf8.Valid(data) {
			return "", false
		}
		text = strings.TrimPrefix(string(data), "\uFEFF")
	case "latin-1":
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", false
		}
		text = string(decoded)
	case "utf-16":
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		decoded, err := decoder.Bytes(data)
		if err != nil {
			return "", false
		}
		text = string(decoded)
	default:
		return "", false
	}

	if strings.ContainsRune(text, '\x00') {
		return "", false
	}
	return text, true
}

// parse reads text as a delimited table with the given separator. The
// combination is accepted only when the header row has at least two columns.
func parse(text string, sep rune) (*Table, bool) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sep
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil || len(records) == 0 {
		return nil, false
	}

	headers := records[0]
	if len(headers) < 2 {
		return nil, false
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		values := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(record) {
				values[h] = record[j]
			}
		}
		rows = append(rows, Row{Num: i, Values: values})
	}

	return &Table{Headers: headers, Rows: rows}, true
}
