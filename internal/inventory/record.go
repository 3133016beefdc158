// Package inventory defines the canonical database inventory record shared by
// the normalizer, the store and the HTTP layer.
package inventory

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidProvider is returned for provider values other than AWS or Azure.
	ErrInvalidProvider = errors.New("invalid enum: provider must be AWS or Azure")

	// ErrInvalidStatus is returned for status values outside the canonical set.
	ErrInvalidStatus = errors.New("invalid enum: status")
)

// Provider identifies the cloud a record was exported from.
type Provider string

const (
	ProviderAWS   Provider = "aws"
	ProviderAzure Provider = "azure"
)

// Providers lists every supported provider in display order.
var Providers = []Provider{ProviderAWS, ProviderAzure}

// ParseProvider accepts "AWS" or "Azure" in any case.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aws":
		return ProviderAWS, nil
	case "azure":
		return ProviderAzure, nil
	}
	return "", fmt.Errorf("%w (got %q)", ErrInvalidProvider, s)
}

// Valid reports whether p is a supported provider.
func (p Provider) Valid() bool {
	return p == ProviderAWS || p == ProviderAzure
}

// Label returns the display form used in exports and messages.
func (p Provider) Label() string {
	switch p {
	case ProviderAWS:
		return "AWS"
	case ProviderAzure:
		return "Azure"
	}
	return string(p)
}

// Status is the canonical lifecycle state of a database instance.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusReady       Status = "ready"
	StatusStopped     Status = "stopped"
	StatusMaintenance Status = "maintenance"
	StatusWarning     Status = "warning"
)

// Statuses lists every canonical status.
var Statuses = []Status{StatusAvailable, StatusReady, StatusStopped, StatusMaintenance, StatusWarning}

// ParseStatus accepts a canonical status name in any case.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w %q is not one of available, ready, stopped, maintenance, warning", ErrInvalidStatus, s)
	}
	return st, nil
}

// Valid reports whether s is in the canonical set.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Details holds descriptive attributes that exporters sometimes include.
// They are free-form and never validated; empty means absent.
type Details struct {
	AvailabilityZone      string `json:"availability_zone,omitempty" yaml:"availability_zone,omitempty"`
	AutoScaling           string `json:"auto_scaling,omitempty" yaml:"auto_scaling,omitempty"`
	IOPS                  string `json:"iops,omitempty" yaml:"iops,omitempty"`
	HighAvailabilityState string `json:"high_availability_state,omitempty" yaml:"high_availability_state,omitempty"`
	Replica               string `json:"replica,omitempty" yaml:"replica,omitempty"`
	BackupRetentionDays   string `json:"backup_retention_days,omitempty" yaml:"backup_retention_days,omitempty"`
	GeoRedundantBackup    string `json:"geo_redundant_backup,omitempty" yaml:"geo_redundant_backup,omitempty"`
}

// Record is one database instance in the inventory.
// ID and CreatedAt are zero until the record is stored.
type Record struct {
	ID           uuid.UUID `json:"id" yaml:"id,omitempty"`
	Provider     Provider  `json:"provider" yaml:"provider"`
	Service      string    `json:"service" yaml:"service"`
	Engine       string    `json:"engine" yaml:"engine"`
	Region       string    `json:"region" yaml:"region"`
	Endpoint     string    `json:"endpoint" yaml:"endpoint"`
	StorageGB    int       `json:"storage_gb" yaml:"storage_gb"`
	Status       Status    `json:"status" yaml:"status"`
	Subscription string    `json:"subscription" yaml:"subscription"`
	Tags         []string  `json:"tags" yaml:"tags"`
	Version      string    `json:"version,omitempty" yaml:"version,omitempty"`
	AzureTenant  string    `json:"azure_tenant,omitempty" yaml:"azure_tenant,omitempty"`
	Details      `yaml:",inline"`
	CreatedAt    time.Time `json:"created_at,omitempty" yaml:"-"`
}

// Validate checks the invariants every stored record must satisfy.
func (r Record) Validate() error {
	var errs []string
	if !r.Provider.Valid() {
		errs = append(errs, ErrInvalidProvider.Error())
	}
	if !r.Status.Valid() {
		errs = append(errs, fmt.Sprintf("%s %q", ErrInvalidStatus.Error(), r.Status))
	}
	if strings.TrimSpace(r.Service) == "" {
		errs = append(errs, "service must not be empty")
	}
	if strings.TrimSpace(r.Region) == "" {
		errs = append(errs, "region must not be empty")
	}
	if r.StorageGB < 0 {
		errs = append(errs, fmt.Sprintf("storage_gb must be >= 0 (got %d)", r.StorageGB))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// SkipEntry explains why a CSV row did not become a Record.
// RowNumber is 1 for the first data row after the header.
// Missing names the mandatory fields that were absent, if that was the cause.
type SkipEntry struct {
	RowNumber int               `json:"row_number" yaml:"row_number"`
	Reason    string            `json:"reason" yaml:"reason"`
	Missing   []string          `json:"missing_fields,omitempty" yaml:"missing_fields,omitempty"`
	Row       map[string]string `json:"row" yaml:"row"`
}
