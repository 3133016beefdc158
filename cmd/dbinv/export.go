package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

// exportCmd writes the inventory to a CSV or XLSX file.
var exportCmd = &cobra.Command{
	Use:   "export <file.csv|file.xlsx>",
	Short: "Export the inventory to CSV or XLSX",
	Long:  `Write the inventory to a file. The format follows the file extension.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.TrimPrefix(strings.ToLower(filepath.Ext(args[0])), ".")
		if format != "csv" && format != "xlsx" {
			return fmt.Errorf("unsupported export extension %q (want .csv or .xlsx)", filepath.Ext(args[0]))
		}
		providerFlag, _ := cmd.Flags().GetString("provider")

		var f inventory.Filters
		if providerFlag != "" {
			p, err := inventory.ParseProvider(providerFlag)
			if err != nil {
				return err
			}
			f.Provider = p
		}

		_, svc, closeDB, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB()

		out, err := os.Create(args[0])
		if err != nil {
			return err
		}
		if err := svc.Export(cmd.Context(), out, format, f); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		slog.Info("inventory exported", "file", args[0], "format", format)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("provider", "p", "", "Only export this provider")
}
