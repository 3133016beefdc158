package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name     string
		provider inventory.Provider
		row      Row
		want     strategy
	}{
		{"aws with name and type", inventory.ProviderAWS, Row{"name": "a", "type": "b"}, strategyGeneric},
		{"azure name and db_type", inventory.ProviderAzure, Row{"name": "a", "db_type": "MySQL"}, strategyAzureSimple},
		{"azure name and dbtype", inventory.ProviderAzure, Row{"name": "a", "dbtype": "MySQL"}, strategyAzureSimple},
		{"azure name only", inventory.ProviderAzure, Row{"name": "a"}, strategyAzure},
		{"azure empty name", inventory.ProviderAzure, Row{"name": "", "type": "x"}, strategyAzure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectStrategy(tt.provider, tt.row))
		})
	}
}

func TestClassify_OneOutcome(t *testing.T) {
	raw := map[string]string{"service": "orders", "region": "us-east-1"}

	out := Classify(7, Row(raw), raw, inventory.ProviderAWS)
	assert.True(t, out.Accepted())
	assert.Nil(t, out.Skip)
	assert.Contains(t, out.Absent, "engine")

	out = Classify(8, Row{"service": "orders"}, raw, inventory.ProviderAWS)
	assert.False(t, out.Accepted())
	assert.Nil(t, out.Record)
	assert.Equal(t, 8, out.Skip.RowNumber)
	assert.Equal(t, raw, out.Skip.Row)
}

func TestDraftAbsent_StorageOutOfRange(t *testing.T) {
	d := strategyGeneric.extract(Row{"service": "a", "region": "b", "storage_gb": "5000000000"}, inventory.ProviderAWS)
	assert.Equal(t, 0, d.Record.StorageGB)
	assert.Contains(t, d.Absent, "storage_gb")

	d = strategyGeneric.extract(Row{"service": "a", "region": "b", "storage_gb": "500"}, inventory.ProviderAWS)
	assert.Equal(t, 500, d.Record.StorageGB)
	assert.NotContains(t, d.Absent, "storage_gb")
}

func TestDraftAbsent(t *testing.T) {
	d := strategyGeneric.extract(Row{"service": "a", "region": "b", "version": "14"}, inventory.ProviderAWS)
	assert.Equal(t, []string{"engine", "endpoint", "storage_gb", "status", "subscription"}, d.Absent)
	assert.Empty(t, d.Missing())
}
