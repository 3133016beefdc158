package normalize

import (
	"fmt"
	"strings"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

// ArcExcludedReason is the skip reason for Arc-enabled SQL Server VMs, which
// belong to the Azure VM inventory rather than this one.
const ArcExcludedReason = "Excluded resource: SQL Server (Arc) virtual machine is tracked in the VM inventory"

// Outcome is the terminal state of one row. Exactly one of Record or Skip is set.
type Outcome struct {
	Record *inventory.Record
	Skip   *inventory.SkipEntry
	Absent []string
}

// Accepted reports whether the row produced a record.
func (o Outcome) Accepted() bool { return o.Record != nil }

// Classify runs one normalized row through the pre-filter, extraction,
// required-field check and validation. raw is the original header->cell
// snapshot kept on skip entries.
func Classify(rowNumber int, row Row, raw map[string]string, provider inventory.Provider) Outcome {
	skip := func(reason string, missing []string) Outcome {
		return Outcome{Skip: &inventory.SkipEntry{
			RowNumber: rowNumber,
			Reason:    reason,
			Missing:   missing,
			Row:       raw,
		}}
	}

	if isArcResource(row) {
		return skip(ArcExcludedReason, nil)
	}

	draft := selectStrategy(provider, row).extract(row, provider)

	if missing := draft.Missing(); len(missing) > 0 {
		return skip("Missing required fields: "+strings.Join(missing, ", "), missing)
	}

	if err := draft.Record.Validate(); err != nil {
		return skip(fmt.Sprintf("Validation error: %v", err), nil)
	}

	rec := draft.Record
	return Outcome{Record: &rec, Absent: draft.Absent}
}
