package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AzureVM is one virtual machine from an Azure VM inventory export.
// Numeric and time fields are nil when the export left them blank or
// unreadable.
type AzureVM struct {
	ID               uuid.UUID  `json:"id"`
	ComputerName     string     `json:"computer_name"`
	PrivateIPAddress string     `json:"private_ip_address,omitempty"`
	Subscription     string     `json:"subscription"`
	ResourceGroup    string     `json:"resource_group"`
	Location         string     `json:"location"`
	VMSize           string     `json:"vm_size"`
	OSType           string     `json:"os_type"`
	OSName           string     `json:"os_name,omitempty"`
	OSVersion        string     `json:"os_version,omitempty"`
	OSDiskSize       *int       `json:"os_disk_size"`
	DataDiskCount    *int       `json:"data_disk_count"`
	TotalDiskSizeGB  *int       `json:"total_disk_size_gb"`
	DisplayStatus    string     `json:"display_status,omitempty"`
	TimeCreated      *time.Time `json:"time_created"`
	TenantID         string     `json:"tenant_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// VMFilters narrows a VM listing. Empty fields do not filter.
type VMFilters struct {
	Region       string // location, case-insensitive exact match
	Subscription string // case-insensitive substring
	TenantID     string // exact match
	Status       string // display status, case-insensitive exact match
	Search       string // substring over computer name and resource group
}

// Match reports whether vm passes every filter.
// The SQL store applies the same rules in its WHERE clause.
func (f VMFilters) Match(vm AzureVM) bool {
	if f.Region != "" && !strings.EqualFold(vm.Location, f.Region) {
		return false
	}
	if !containsFold(vm.Subscription, f.Subscription) {
		return false
	}
	if f.TenantID != "" && vm.TenantID != f.TenantID {
		return false
	}
	if f.Status != "" && !strings.EqualFold(vm.DisplayStatus, f.Status) {
		return false
	}
	if f.Search != "" {
		return containsFold(vm.ComputerName, f.Search) || containsFold(vm.ResourceGroup, f.Search)
	}
	return true
}
