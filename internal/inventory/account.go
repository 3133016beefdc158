package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Account is a row of the AWS account sheet, used to show friendly names
// next to raw account ids.
type Account struct {
	AccountID    string `json:"account_id" yaml:"account_id"`
	AccountName  string `json:"account_name" yaml:"account_name"`
	BusinessUnit string `json:"business_unit,omitempty" yaml:"business_unit,omitempty"`
	Owner        string `json:"owner,omitempty" yaml:"owner,omitempty"`
	DataType     string `json:"account_type_data,omitempty" yaml:"account_type_data,omitempty"`
	Function     string `json:"account_type_function,omitempty" yaml:"account_type_function,omitempty"`
	Comments     string `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// Tenant maps an Azure tenant id to a friendly name.
type Tenant struct {
	TenantID     string `json:"tenant_id" yaml:"tenant_id"`
	FriendlyName string `json:"friendly_name" yaml:"friendly_name"`
}

// ImportRun summarizes one completed CSV import.
type ImportRun struct {
	ID         uuid.UUID `json:"id"`
	Provider   Provider  `json:"provider"`
	FileName   string    `json:"file_name"`
	Source     string    `json:"source"`
	Encoding   string    `json:"encoding"`
	Purge      bool      `json:"purge"`
	Sync       bool      `json:"sync"`
	Created    int       `json:"created"`
	Skipped    int       `json:"skipped"`
	Duplicates int       `json:"duplicates"`
	Deleted    int       `json:"deleted"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
