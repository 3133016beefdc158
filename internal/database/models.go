package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// DatabaseRecord is a row of database_records.
type DatabaseRecord struct {
	ID                    uuid.UUID
	Provider              string
	Service               string
	Engine                string
	Region                string
	Endpoint              string
	StorageGb             int32
	Status                string
	Subscription          string
	Tags                  []string
	Version               pgtype.Text
	AzureTenant           pgtype.Text
	AvailabilityZone      pgtype.Text
	AutoScaling           pgtype.Text
	Iops                  pgtype.Text
	HighAvailabilityState pgtype.Text
	Replica               pgtype.Text
	BackupRetentionDays   pgtype.Text
	GeoRedundantBackup    pgtype.Text
	CreatedAt             time.Time
}

// AzureTenant is a row of azure_tenants.
type AzureTenant struct {
	TenantID     string
	FriendlyName string
}

// AwsAccount is a row of aws_accounts.
type AwsAccount struct {
	AccountID           string
	AccountName         string
	BusinessUnit        pgtype.Text
	Owner               pgtype.Text
	AccountTypeData     pgtype.Text
	AccountTypeFunction pgtype.Text
	Comments            pgtype.Text
}

// ImportRun is a row of import_runs.
type ImportRun struct {
	ID         uuid.UUID
	Provider   string
	FileName   string
	Source     string
	Encoding   string
	Purge      bool
	Sync       bool
	Created    int32
	Skipped    int32
	Duplicates int32
	Deleted    int32
	StartedAt  time.Time
	FinishedAt time.Time
}

// AzureVm is a row of azure_vms.
type AzureVm struct {
	ID               uuid.UUID
	ComputerName     string
	PrivateIpAddress pgtype.Text
	Subscription     string
	ResourceGroup    string
	Location         string
	VmSize           string
	OsType           string
	OsName           pgtype.Text
	OsVersion        pgtype.Text
	OsDiskSize       pgtype.Int4
	DataDiskCount    pgtype.Int4
	TotalDiskSizeGb  pgtype.Int4
	DisplayStatus    pgtype.Text
	TimeCreated      pgtype.Timestamptz
	TenantID         pgtype.Text
	CreatedAt        time.Time
}
