package normalize

import "strings"

// Row is one CSV line keyed by normalized header.
// Keys are lower-cased and trimmed; values are trimmed, blank cells are "".
type Row map[string]string

// NewRow pairs header with cells. Cells beyond the header are dropped and
// missing trailing cells read as "". For duplicate headers the last wins.
func NewRow(header, cells []string) Row {
	row := make(Row, len(header))
	for i, h := range header {
		key := NormalizeKey(h)
		if key == "" {
			continue
		}
		val := ""
		if i < len(cells) {
			val = strings.TrimSpace(cells[i])
		}
		row[key] = val
	}
	return row
}

// NormalizeKey lower-cases and trims a header cell, dropping any stray BOM.
func NormalizeKey(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
}

// First returns the value of the first alias with a non-empty value, or "".
// Aliases are matched exactly against normalized keys, in order.
func (r Row) First(aliases []string) string {
	v, _ := r.Lookup(aliases)
	return v
}

// Lookup is First with an explicit found flag, for optional metadata fields
// where absence is distinct from an empty default.
func (r Row) Lookup(aliases []string) (string, bool) {
	for _, a := range aliases {
		if v := r[a]; v != "" {
			return v, true
		}
	}
	return "", false
}

// FirstOr returns First or def when no alias matches.
func (r Row) FirstOr(aliases []string, def string) string {
	if v, ok := r.Lookup(aliases); ok {
		return v
	}
	return def
}

// snapshot copies the original header and cell text for a skip entry.
func snapshot(header, cells []string) map[string]string {
	raw := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(cells) {
			raw[h] = cells[i]
		} else {
			raw[h] = ""
		}
	}
	return raw
}
