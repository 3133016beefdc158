package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

func exportFixture() []inventory.Record {
	aws := rec(inventory.ProviderAWS, "orders", "us-east-1", "postgres", "15.4")
	aws.Endpoint = "orders.rds.amazonaws.com"
	aws.StorageGB = 20
	aws.Subscription = "123456789012"
	aws.Tags = []string{"env:prod", "team:payments"}
	aws.HighAvailabilityState = "true"

	az := rec(inventory.ProviderAzure, "crm", "westeurope", "mysql", "8.0")
	az.AzureTenant = "c162a585-4fef-44bd-9271-d96409d0a349"
	az.BackupRetentionDays = "7"
	return []inventory.Record{aws, az}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, NewNames(nil, nil), exportFixture()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, ExportHeaders, rows[0])
	assert.Equal(t, []string{
		"AWS", "orders", "postgres", "15.4", "us-east-1", "orders.rds.amazonaws.com",
		"20", "available", "123456789012", "env:prod; team:payments", "",
		"", "", "", "true", "", "", "",
	}, rows[1])
	assert.Equal(t, "Azure", rows[2][0])
	assert.Equal(t, "Corporate Tenant", rows[2][10])
	assert.Equal(t, "7", rows[2][16])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, NewNames(nil, nil), exportFixture()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ExportHeaders, rows[0])
	assert.Equal(t, "orders", rows[1][1])
	assert.Equal(t, "20", rows[1][6])
	assert.Equal(t, "Corporate Tenant", rows[2][10])
}

func TestService_Export(t *testing.T) {
	svc, store := newTestService(t)
	store.Seed(exportFixture()...)

	var buf bytes.Buffer
	err := svc.Export(context.Background(), &buf, "csv", inventory.Filters{Provider: inventory.ProviderAzure})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "crm", rows[1][1])

	err = svc.Export(context.Background(), &buf, "pdf", inventory.Filters{})
	assert.Error(t, err)
}
