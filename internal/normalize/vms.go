package normalize

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

// Azure VM export header names after NormalizeKey.
const (
	colComputerName    = "computername"
	colPrivateIP       = "privateipaddress"
	colVMSubscription  = "subscription"
	colResourceGroup   = "resource group"
	colLocation        = "location"
	colVMSize          = "vmsize"
	colOSType          = "ostype"
	colOSName          = "osname"
	colOSVersion       = "osversion"
	colOSDiskSize      = "osdisksize"
	colDataDiskCount   = "datadiskcount"
	colTotalDiskSizeGB = "totaldisksizegb"
	colDisplayStatus   = "displaystatus"
	colTimeCreated     = "timecreated"
	colVMTenantID      = "tenantid"
)

// VMResult is the outcome of parsing an Azure VM export.
type VMResult struct {
	VMs      []inventory.AzureVM   `json:"vms"`
	Skipped  []inventory.SkipEntry `json:"skipped"`
	Encoding string                `json:"encoding"`
}

// ParseAzureVMs reads an Azure VM inventory export. Rows without a computer
// name are skipped. Disk sizes, disk counts and the creation time are left
// nil when they do not parse.
func ParseAzureVMs(content []byte) (VMResult, error) {
	text, enc := Decode(content)
	res := VMResult{Encoding: enc}

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
		if err != nil {
			res.Skipped = append(res.Skipped, inventory.SkipEntry{
				RowNumber: rowNumber,
				Reason:    fmt.Sprintf("Malformed CSV row: %v", err),
				Row:       snapshot(header, cells),
			})
			continue
		}

		row := NewRow(header, cells)
		if row[colComputerName] == "" {
			res.Skipped = append(res.Skipped, inventory.SkipEntry{
				RowNumber: rowNumber,
				Reason:    "Missing required fields: computerName",
				Missing:   []string{"computerName"},
				Row:       snapshot(header, cells),
			})
			continue
		}
		res.VMs = append(res.VMs, vmFromRow(row))
	}

	return res, nil
}

func vmFromRow(row Row) inventory.AzureVM {
	return inventory.AzureVM{
		ComputerName:     row[colComputerName],
		PrivateIPAddress: row[colPrivateIP],
		Subscription:     row[colVMSubscription],
		ResourceGroup:    row[colResourceGroup],
		Location:         row[colLocation],
		VMSize:           row[colVMSize],
		OSType:           row[colOSType],
		OSName:           row[colOSName],
		OSVersion:        row[colOSVersion],
		OSDiskSize:       ParseOptionalInt(row[colOSDiskSize]),
		DataDiskCount:    ParseOptionalInt(row[colDataDiskCount]),
		TotalDiskSizeGB:  ParseOptionalInt(row[colTotalDiskSizeGB]),
		DisplayStatus:    row[colDisplayStatus],
		TimeCreated:      ParseTimestamp(row[colTimeCreated]),
		TenantID:         row[colVMTenantID],
	}
}
