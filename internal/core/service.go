package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vare7/cloud-db-inventory/internal/config"
	"github.com/vare7/cloud-db-inventory/internal/database"
	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

// Store is the persistence the service needs. *database.Store satisfies it.
type Store interface {
	database.RecordTx

	Ping(ctx context.Context) error
	WithImportTx(ctx context.Context, fn func(database.RecordTx) error) error

	GetRecord(ctx context.Context, id uuid.UUID) (inventory.Record, error)
	CreateRecord(ctx context.Context, rec inventory.Record) (inventory.Record, error)
	UpdateRecordStatus(ctx context.Context, id uuid.UUID, st inventory.Status) (inventory.Record, error)
	DeleteRecord(ctx context.Context, id uuid.UUID) error

	ListTenants(ctx context.Context) ([]inventory.Tenant, error)
	UpsertTenant(ctx context.Context, t inventory.Tenant) error
	SeedTenants(ctx context.Context, tenants []inventory.Tenant) error

	ListAccounts(ctx context.Context) ([]inventory.Account, error)
	UpsertAccounts(ctx context.Context, accts []inventory.Account) (int, error)

	ListImportRuns(ctx context.Context, limit int) ([]inventory.ImportRun, error)

	ListAzureVMs(ctx context.Context, f inventory.VMFilters) ([]inventory.AzureVM, error)
	GetAzureVM(ctx context.Context, id uuid.UUID) (inventory.AzureVM, error)
	ReplaceAzureVMs(ctx context.Context, vms []inventory.AzureVM, purge bool) ([]inventory.AzureVM, int64, error)
	DeleteAzureVM(ctx context.Context, id uuid.UUID) error
	PurgeAzureVMs(ctx context.Context) (int64, error)
}

// DefaultImportTimeout bounds one import when the config leaves it unset.
const DefaultImportTimeout = 10 * time.Minute

// Service provides the inventory operations shared by every transport.
type Service struct {
	store         Store
	dupKey        inventory.DuplicateKey
	importTimeout time.Duration
	maxFileSize   int64
	batchSize     int
	limiter       *ImportLimiter
}

// NewService creates a Service backed by store and configured from cfg.
func NewService(store Store, cfg *config.Config) (*Service, error) {
	key, err := inventory.ParseDuplicateKey(cfg.Import.DuplicateKey)
	if err != nil {
		return nil, fmt.Errorf("configure duplicate key: %w", err)
	}

	timeout := cfg.Import.Timeout
	if timeout <= 0 {
		timeout = DefaultImportTimeout
	}

	return &Service{
		store:         store,
		dupKey:        key,
		importTimeout: timeout,
		maxFileSize:   cfg.Import.MaxFileSize,
		batchSize:     cfg.Import.BatchSize,
		limiter:       NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
	}, nil
}

// DuplicateKey returns the configured identity used for duplicate detection.
func (s *Service) DuplicateKey() inventory.DuplicateKey {
	return s.dupKey
}

// MaxFileSize returns the configured upload size limit in bytes.
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// Ping checks that the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// ListRecords returns records matching f.
func (s *Service) ListRecords(ctx context.Context, f inventory.Filters) ([]inventory.Record, error) {
	return s.store.ListRecords(ctx, f)
}

// GetRecord returns one record by id.
func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (inventory.Record, error) {
	return s.store.GetRecord(ctx, id)
}

// CreateRecord stores a manually entered record.
func (s *Service) CreateRecord(ctx context.Context, rec inventory.Record) (inventory.Record, error) {
	if rec.Status == "" {
		rec.Status = inventory.StatusAvailable
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	if err := rec.Validate(); err != nil {
		return inventory.Record{}, fmt.Errorf("validation error: %w", err)
	}
	return s.store.CreateRecord(ctx, rec)
}

// UpdateStatus sets the status of one record.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, raw string) (inventory.Record, error) {
	st, err := inventory.ParseStatus(raw)
	if err != nil {
		return inventory.Record{}, err
	}
	return s.store.UpdateRecordStatus(ctx, id, st)
}

// DeleteRecord removes one record.
func (s *Service) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteRecord(ctx, id)
}

// ListImportRuns returns the most recent import summaries.
func (s *Service) ListImportRuns(ctx context.Context, limit int) ([]inventory.ImportRun, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.store.ListImportRuns(ctx, limit)
}

// ImportLimiterStatus returns the current state of the import limiter.
func (s *Service) ImportLimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until active imports finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
