// Package report builds the QA summary emitted alongside the comparison
// frame: record counts, a flag histogram, and the largest absolute deltas.
package report

import (
	"io"
	"os"
	"sort"
	"strconv"

	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"

	"github.com/fjordledger/divrec/pkg/constants"
	"github.com/fjordledger/divrec/pkg/errors"
	"github.com/fjordledger/divrec/pkg/schema"
)

// Summary is the aggregate view of one comparison run.
type Summary struct {
	Total      int
	FlagCounts map[string]int
	Top        []RankedDelta
}

// RankedDelta is one comparison record ranked by the sum of its absolute
// quote-currency deltas.
type RankedDelta struct {
	EventKey string
	Score    decimal.Decimal
	Delta    schema.Delta
}

// Summarize computes the QA summary for a comparison frame. Top holds at
// most TopDeltaCount records, largest score first, ties broken by event key.
func Summarize(records []*schema.Comparison) *Summary {
	s := &Summary{
		Total:      len(records),
		FlagCounts: make(map[string]int),
	}

	ranked := make([]RankedDelta, 0, len(records))
	for _, rec := range records {
		for _, flag := range rec.Derived.Flags {
			s.FlagCounts[flag]++
		}
		ranked = append(ranked, RankedDelta{
			EventKey: rec.EventKey,
			Score:    score(rec.Derived.Delta),
			Delta:    rec.Derived.Delta,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].Score.Cmp(ranked[j].Score); c != 0 {
			return c > 0
		}
		return ranked[i].EventKey < ranked[j].EventKey
	})
	if len(ranked) > constants.TopDeltaCount {
		ranked = ranked[:constants.TopDeltaCount]
	}
	s.Top = ranked

	return s
}

func score(d schema.Delta) decimal.Decimal {
	var total decimal.Decimal
	for _, v := range []*decimal.Decimal{d.GrossQuote, d.TaxQuote, d.NetQuote} {
		if v != nil {
			total = total.Add(v.Abs())
		}
	}
	return total
}

// WriteMarkdown renders the summary as a markdown document.
func (s *Summary) WriteMarkdown(w io.Writer) error {
	doc := md.NewMarkdown(w).
		H1("QA Summary").
		PlainTextf("Comparison records: %d", s.Total).
		LF().
		H2("Flags")

	if len(s.FlagCounts) == 0 {
		doc.PlainText("No flags raised.").LF()
	} else {
		names := make([]string, 0, len(s.FlagCounts))
		for name := range s.FlagCounts {
			names = append(names, name)
		}
		sort.Strings(names)
		items := make([]string, 0, len(names))
		for _, name := range names {
			items = append(items, md.Code(name)+": "+strconv.Itoa(s.FlagCounts[name]))
		}
		doc.BulletList(items...).LF()
	}

	doc.H2("Top deltas")
	rows := make([][]string, 0, len(s.Top))
	for _, r := range s.Top {
		rows = append(rows, []string{
			r.EventKey,
			deltaCell(r.Delta.GrossQuote),
			deltaCell(r.Delta.TaxQuote),
			deltaCell(r.Delta.NetQuote),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Event key", "Gross (quote)", "Tax (quote)", "Net (quote)"},
		Rows:   rows,
	})

	return doc.Build()
}

// WriteFile writes the rendered summary to path.
func (s *Summary) WriteFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := s.WriteMarkdown(f); err != nil {
		f.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	return nil
}

func deltaCell(d *decimal.Decimal) string {
	if d == nil {
		return "null"
	}
	return d.String()
}
