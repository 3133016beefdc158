package core

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

// ExportHeaders are the column titles of CSV and XLSX exports.
var ExportHeaders = []string{
	"Provider", "Service", "Engine", "Version", "Region", "Endpoint",
	"Storage (GB)", "Status", "Subscription", "Tags", "Azure Tenant",
	"Availability Zone", "Auto Scaling", "IOPS", "High Availability",
	"Replica", "Backup Retention (Days)", "Geo-Redundant Backup",
}

const exportSheet = "Inventory"

// exportRow flattens a record in ExportHeaders order. Azure tenants are
// exported by friendly name.
func exportRow(names *Names, r inventory.Record) []string {
	tenant := ""
	if r.Provider == inventory.ProviderAzure && r.AzureTenant != "" {
		tenant = names.TenantName(r.AzureTenant)
	}
	return []string{
		r.Provider.Label(),
		r.Service,
		r.Engine,
		r.Version,
		r.Region,
		r.Endpoint,
		strconv.Itoa(r.StorageGB),
		string(r.Status),
		r.Subscription,
		strings.Join(r.Tags, "; "),
		tenant,
		r.AvailabilityZone,
		r.AutoScaling,
		r.IOPS,
		r.HighAvailabilityState,
		r.Replica,
		r.BackupRetentionDays,
		r.GeoRedundantBackup,
	}
}

// WriteCSV writes recs as CSV with a header row.
func WriteCSV(w io.Writer, names *Names, recs []inventory.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeaders); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for _, r := range recs {
		if err := cw.Write(exportRow(names, r)); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes recs as a single-sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, names *Names, recs []inventory.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, h := range ExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(exportSheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, r := range recs {
		row := exportRow(names, r)
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			var val any = v
			if j == 6 {
				val = r.StorageGB
			}
			if err := f.SetCellValue(exportSheet, cell, val); err != nil {
				return err
			}
		}
	}

	for i := range ExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(exportSheet, col, col, 18); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Export writes the records matching f in the given format ("csv" or "xlsx").
func (s *Service) Export(ctx context.Context, w io.Writer, format string, f inventory.Filters) error {
	recs, err := s.store.ListRecords(ctx, f)
	if err != nil {
		return err
	}
	names, err := s.Names(ctx)
	if err != nil {
		return err
	}

	switch format {
	case "csv":
		return WriteCSV(w, names, recs)
	case "xlsx":
		return WriteXLSX(w, names, recs)
	}
	return fmt.Errorf("unsupported export format %q", format)
}
