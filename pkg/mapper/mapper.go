// Package mapper classifies raw source column names into canonical field
// paths via an ordered, case-insensitive pattern rule list. Mapping is
// deterministic and immutable once built; optional overlays compose by
// returning a new mapping that fills only the gaps the rules left.
package mapper

import (
	"strings"
)

// Map classifies each raw header using the deterministic rule list. For each
// header the first rule whose pattern occurs anywhere within it wins;
// headers no rule matches map to "".
func Map(headers []string) Mapping {
	paths := make(map[string]string, len(headers))
	ordered := make([]string, 0, len(headers))
	for _, h := range headers {
		ordered = append(ordered, h)
		paths[h] = match(h)
	}
	return Mapping{headers: ordered, paths: paths}
}

// match returns the canonical path for one header, or "" if unmapped.
func match(header string) string {
	needle := strings.ToUpper(strings.TrimSpace(header))
	for _, r := range rules {
		if strings.Contains(needle, r.Pattern) {
			return r.Path
		}
	}
	return ""
}

// Mapping is an immutable header-to-canonical-path classification for one
// source table, preserving the table's header order.
type Mapping struct {
	headers []string
	paths   map[string]string
}

// Headers returns the raw headers in file order.
func (m Mapping) Headers() []string {
	out := make([]string, len(m.headers))
	copy(out, m.headers)
	return out
}

// PathFor returns the canonical path a header mapped to, or "" if unmapped.
func (m Mapping) PathFor(header string) string {
	return m.paths[header]
}

// WithOverlay returns a new mapping where overlay entries fill only headers
// the deterministic rules left unmapped. A deterministic hit is never
// overridden, and the receiver is left untouched.
func (m Mapping) WithOverlay(overlay map[string]string) Mapping {
	paths := make(map[string]string, len(m.paths))
	for h, p := range m.paths {
		paths[h] = p
	}
	for h, p := range overlay {
		if paths[h] == "" {
			if _, known := paths[h]; known {
				paths[h] = p
			}
		}
	}
	headers := make([]string, len(m.headers))
	copy(headers, m.headers)
	return Mapping{headers: headers, paths: paths}
}

// Coverage reports how much of a table the mapping classified.
type Coverage struct {
	Hits     int      `json:"hits"`
	Total    int      `json:"total"`
	Pct      float64  `json:"pct"`
	Unmapped []string `json:"unmapped,omitempty"`
}

// Coverage returns hit counts and the unmapped headers (in file order) for
// diagnostics.
func (m Mapping) Coverage() Coverage {
	cov := Coverage{Total: len(m.headers)}
	for _, h := range m.headers {
		if m.paths[h] != "" {
			cov.Hits++
		} else {
			cov.Unmapped = append(cov.Unmapped, h)
		}
	}
	if cov.Total == 0 {
		cov.Pct = 100.0
	} else {
		cov.Pct = float64(cov.Hits) / float64(cov.Total) * 100.0
	}
	return cov
}
