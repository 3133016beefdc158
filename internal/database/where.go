package database

import (
	"fmt"
	"strings"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

// WhereBuilder assembles a parameterized WHERE clause.
// Column names are trusted identifiers; values are always bound as args.
type WhereBuilder struct {
	conditions []string
	args       []any
	argIndex   int
}

// NewWhereBuilder returns an empty builder whose first placeholder is $1.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{argIndex: 1}
}

// Add appends "col = $n". Empty values are skipped.
func (w *WhereBuilder) Add(col, val string) {
	if val == "" {
		return
	}
	w.add(fmt.Sprintf("%s = $%d", col, w.argIndex), val)
}

// AddEqualFold appends a case-insensitive equality. Empty values are skipped.
func (w *WhereBuilder) AddEqualFold(col, val string) {
	if val == "" {
		return
	}
	w.add(fmt.Sprintf("lower(%s) = lower($%d)", col, w.argIndex), val)
}

// AddContains appends a case-insensitive substring match.
// Empty values are skipped.
func (w *WhereBuilder) AddContains(col, val string) {
	if val == "" {
		return
	}
	w.add(fmt.Sprintf("%s ILIKE $%d", col, w.argIndex), likePattern(val))
}

// AddSearch matches val as a substring of any of exprs, sharing one placeholder.
func (w *WhereBuilder) AddSearch(val string, exprs ...string) {
	if val == "" || len(exprs) == 0 {
		return
	}
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", e, w.argIndex)
	}
	w.add("("+strings.Join(parts, " OR ")+")", likePattern(val))
}

// AddFilters applies inventory list filters.
func (w *WhereBuilder) AddFilters(f inventory.Filters) {
	w.Add("provider", string(f.Provider))
	w.Add("status", string(f.Status))
	w.AddEqualFold("region", f.Region)
	w.AddContains("engine", f.Engine)
	w.AddContains("version", f.Version)
	w.AddContains("subscription", f.Subscription)
	w.AddSearch(f.Search, "engine", "service", "endpoint", "array_to_string(tags, ',')")
}

// AddVMFilters applies Azure VM list filters.
func (w *WhereBuilder) AddVMFilters(f inventory.VMFilters) {
	w.AddEqualFold("location", f.Region)
	w.AddContains("subscription", f.Subscription)
	w.Add("tenant_id", f.TenantID)
	w.AddEqualFold("display_status", f.Status)
	w.AddSearch(f.Search, "computer_name", "resource_group")
}

// NextArgIndex returns the placeholder number the next condition will use.
func (w *WhereBuilder) NextArgIndex() int {
	return w.argIndex
}

// Build returns " WHERE a AND b" with its args, or "" and nil when empty.
func (w *WhereBuilder) Build() (string, []any) {
	if len(w.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(w.conditions, " AND "), w.args
}

func (w *WhereBuilder) add(cond string, val any) {
	w.conditions = append(w.conditions, cond)
	w.args = append(w.args, val)
	w.argIndex++
}

// likePattern escapes LIKE metacharacters and wraps val in wildcards.
func likePattern(val string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(val) + "%"
}
