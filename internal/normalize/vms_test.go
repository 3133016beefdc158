package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vmHeader = "computerName,privateIPAddress,Subscription,Resource group,Location,vmSize,osType,osName,osVersion," +
	"osDiskSize,dataDiskCount,totalDiskSizeGB,displayStatus,timeCreated,tenantId\n"

func TestParseAzureVMs(t *testing.T) {
	content := "\uFEFF" + vmHeader +
		"web-01,10.0.0.4,Prod,rg-web,eastus,Standard_D2s_v3,Windows,Windows Server 2019,10.0,127,2,639,VM running,2023-04-05T06:07:08Z,7df9d676-4a3e-4ff3-a54f-f30c0543fe4c\n" +
		",10.0.0.5,Prod,rg-web,eastus,Standard_B1s,Linux,,,30,0,30,VM running,,\n" +
		"db-01, ,Dev,rg-db,westeurope,Standard_E4s_v3,Linux,Ubuntu,22.04,n/a,,lots,VM deallocated,last week,\n"

	res, err := ParseAzureVMs([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, EncodingUTF8, res.Encoding)

	require.Len(t, res.VMs, 2)
	web := res.VMs[0]
	assert.Equal(t, "web-01", web.ComputerName)
	assert.Equal(t, "10.0.0.4", web.PrivateIPAddress)
	assert.Equal(t, "Prod", web.Subscription)
	assert.Equal(t, "rg-web", web.ResourceGroup)
	assert.Equal(t, "eastus", web.Location)
	assert.Equal(t, "Standard_D2s_v3", web.VMSize)
	assert.Equal(t, "Windows Server 2019", web.OSName)
	assert.Equal(t, intPtr(127), web.OSDiskSize)
	assert.Equal(t, intPtr(2), web.DataDiskCount)
	assert.Equal(t, intPtr(639), web.TotalDiskSizeGB)
	assert.Equal(t, "VM running", web.DisplayStatus)
	require.NotNil(t, web.TimeCreated)
	assert.True(t, web.TimeCreated.Equal(time.Date(2023, 4, 5, 6, 7, 8, 0, time.UTC)))
	assert.Equal(t, "7df9d676-4a3e-4ff3-a54f-f30c0543fe4c", web.TenantID)

	db := res.VMs[1]
	assert.Equal(t, "db-01", db.ComputerName)
	assert.Empty(t, db.PrivateIPAddress, "whitespace-only cells are empty")
	assert.Nil(t, db.OSDiskSize)
	assert.Nil(t, db.DataDiskCount)
	assert.Nil(t, db.TotalDiskSizeGB)
	assert.Nil(t, db.TimeCreated)
	assert.Empty(t, db.TenantID)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 2, res.Skipped[0].RowNumber)
	assert.Equal(t, []string{"computerName"}, res.Skipped[0].Missing)
	assert.Equal(t, "10.0.0.5", res.Skipped[0].Row["privateIPAddress"])
}

func TestParseAzureVMs_HeaderCase(t *testing.T) {
	res, err := ParseAzureVMs([]byte("COMPUTERNAME,RESOURCE GROUP,LOCATION\nvm-1,rg-1,northeurope\n"))
	require.NoError(t, err)
	require.Len(t, res.VMs, 1)
	assert.Equal(t, "rg-1", res.VMs[0].ResourceGroup)
	assert.Equal(t, "northeurope", res.VMs[0].Location)
}

func TestParseAzureVMs_Empty(t *testing.T) {
	res, err := ParseAzureVMs(nil)
	require.NoError(t, err)
	assert.Empty(t, res.VMs)
	assert.Empty(t, res.Skipped)

	res, err = ParseAzureVMs([]byte(vmHeader))
	require.NoError(t, err)
	assert.Empty(t, res.VMs)
}
