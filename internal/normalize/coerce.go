package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseStorageGB reads a storage size in whole gigabytes.
// Thousands separators are stripped and fractions truncated; anything that
// does not parse or does not fit in 32 bits yields 0. Negative values are
// returned as-is so record validation can reject them.
func ParseStorageGB(s string) int {
	n, _ := parseStorageGB(s)
	return n
}

// parseStorageGB is ParseStorageGB plus a flag that is false when the result
// is the 0 fallback rather than a value read from s.
func parseStorageGB(s string) (int, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// SplitTags splits on commas and semicolons, trims and drops empty parts.
// Order and duplicates are kept.
func SplitTags(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// azureEngineTokens are checked in order against verbose Azure type strings.
var azureEngineTokens = []struct{ substr, engine string }{
	{"mysql", "mysql"},
	{"postgre", "postgres"},
	{"mariadb", "mariadb"},
}

// CanonicalAzureEngine maps strings such as "Azure Database for MySQL flexible
// server" onto mysql, postgres or mariadb. Unrecognized input passes through.
func CanonicalAzureEngine(raw string) string {
	lower := strings.ToLower(raw)
	for _, t := range azureEngineTokens {
		if strings.Contains(lower, t.substr) {
			return t.engine
		}
	}
	return raw
}

// isArcResource reports whether a type column names an Arc-enabled SQL Server VM.
func isArcResource(row Row) bool {
	for _, a := range dbTypeAliases {
		if strings.Contains(strings.ToLower(row[a]), "sql server (arc)") {
			return true
		}
	}
	return false
}

// ParseOptionalInt reads a whole number, or nil when s is blank, not an
// integer or outside the 32-bit range.
func ParseOptionalInt(s string) *int {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return nil
	}
	v := int(n)
	return &v
}

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp reads an ISO-8601 timestamp with optional fraction and
// offset, or nil when s is blank or unreadable. Values without an offset are
// taken as UTC.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
