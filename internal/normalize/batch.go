package normalize

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

// Result is the partition of one CSV batch.
// Accepted and Skipped preserve input row order.
type Result struct {
	Accepted  []inventory.Record    `json:"accepted" yaml:"accepted"`
	Skipped   []inventory.SkipEntry `json:"skipped" yaml:"skipped"`
	Encoding  string                `json:"encoding" yaml:"encoding"`
	Rows      int                   `json:"rows" yaml:"rows"`
	Defaulted map[string]int        `json:"defaulted,omitempty" yaml:"defaulted,omitempty"`
}

// MissingFieldCounts tallies how often each mandatory field caused a skip.
func (r Result) MissingFieldCounts() map[string]int {
	counts := make(map[string]int)
	for _, s := range r.Skipped {
		for _, f := range s.Missing {
			counts[f]++
		}
	}
	return counts
}

// Normalize decodes content, parses it as CSV with a header row and classifies
// every data row for provider. A file with no header yields an empty result.
// An error is returned only when the header itself cannot be parsed.
func Normalize(content []byte, provider inventory.Provider) (Result, error) {
	text, enc := Decode(content)
	res := Result{Encoding: enc}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("invalid csv header: %w", err)
	}

	for rowNumber := 1; ; rowNumber++ {
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		res.Rows++
		if err != nil {
			res.Skipped = append(res.Skipped, inventory.SkipEntry{
				RowNumber: rowNumber,
				Reason:    fmt.Sprintf("Malformed CSV row: %v", err),
				Row:       snapshot(header, cells),
			})
			continue
		}

		out := Classify(rowNumber, NewRow(header, cells), snapshot(header, cells), provider)
		if out.Accepted() {
			res.Accepted = append(res.Accepted, *out.Record)
			for _, f := range out.Absent {
				if res.Defaulted == nil {
					res.Defaulted = make(map[string]int)
				}
				res.Defaulted[f]++
			}
			continue
		}
		res.Skipped = append(res.Skipped, *out.Skip)
	}

	slog.Info("csv normalized",
		"provider", provider,
		"encoding", enc,
		"rows", res.Rows,
		"accepted", len(res.Accepted),
		"skipped", len(res.Skipped),
	)
	return res, nil
}
