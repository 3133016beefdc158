package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
	"github.com/vare7/cloud-db-inventory/internal/normalize"
)

// normalizeCmd runs the batch normalizer without touching a database.
var normalizeCmd = &cobra.Command{
	Use:   "normalize <file>",
	Short: "Normalize a provider CSV export and print the result",
	Long: `Parse an AWS or Azure CSV export, map it to inventory records and print
the accepted records, the skipped rows with their reasons, and the detected
encoding. Nothing is written to the database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		providerFlag, _ := cmd.Flags().GetString("provider")
		output, _ := cmd.Flags().GetString("output")

		provider, err := inventory.ParseProvider(providerFlag)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		res, err := normalize.Normalize(content, provider)
		if err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), newReport(res), output)
	},
}

// report is the printed form of a normalize run.
type report struct {
	Encoding      string                `json:"encoding" yaml:"encoding"`
	Rows          int                   `json:"rows" yaml:"rows"`
	AcceptedCount int                   `json:"accepted_count" yaml:"accepted_count"`
	SkippedCount  int                   `json:"skipped_count" yaml:"skipped_count"`
	MissingFields map[string]int        `json:"missing_field_counts,omitempty" yaml:"missing_field_counts,omitempty"`
	Defaulted     map[string]int        `json:"defaulted,omitempty" yaml:"defaulted,omitempty"`
	Accepted      []inventory.Record    `json:"accepted" yaml:"accepted"`
	Skipped       []inventory.SkipEntry `json:"skipped" yaml:"skipped"`
}

func newReport(res normalize.Result) report {
	r := report{
		Encoding:      res.Encoding,
		Rows:          res.Rows,
		AcceptedCount: len(res.Accepted),
		SkippedCount:  len(res.Skipped),
		Defaulted:     res.Defaulted,
		Accepted:      res.Accepted,
		Skipped:       res.Skipped,
	}
	if m := res.MissingFieldCounts(); len(m) > 0 {
		r.MissingFields = m
	}
	if r.Accepted == nil {
		r.Accepted = []inventory.Record{}
	}
	if r.Skipped == nil {
		r.Skipped = []inventory.SkipEntry{}
	}
	return r
}

func writeReport(w io.Writer, v any, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q (want json or yaml)", format)
}

func init() {
	normalizeCmd.Flags().StringP("provider", "p", "AWS", "Export provider: AWS or Azure")
	normalizeCmd.Flags().StringP("output", "o", "json", "Output format: json or yaml")
}
