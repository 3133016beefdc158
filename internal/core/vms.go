package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
	"github.com/vare7/cloud-db-inventory/internal/logging"
	"github.com/vare7/cloud-db-inventory/internal/normalize"
)

// VMImportResult summarizes an Azure VM export import.
type VMImportResult struct {
	Message  string                `json:"message"`
	Imported int                   `json:"imported"`
	Skipped  int                   `json:"skipped"`
	Purged   int64                 `json:"purged"`
	Details  []inventory.SkipEntry `json:"skipped_details"`
	Encoding string                `json:"encoding"`
}

// VMFilterOptions are the distinct values offered by the VM listing filters.
type VMFilterOptions struct {
	Regions       []string `json:"regions"`
	Subscriptions []string `json:"subscriptions"`
	Tenants       []string `json:"tenants"`
	Statuses      []string `json:"statuses"`
}

// ImportAzureVMs parses an Azure VM export and stores its rows. With purge
// the previous VM inventory is replaced in the same transaction. Imports share
// the record import limiter and timeout.
func (s *Service) ImportAzureVMs(ctx context.Context, content []byte, purge bool) (*VMImportResult, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("empty file: vm export has no content")
	}
	if s.maxFileSize > 0 && int64(len(content)) > s.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes exceeds limit of %d", len(content), s.maxFileSize)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	log := logging.WithFields(ctx, "kind", "azure_vms", "purge", purge)
	start := time.Now()

	res, err := normalize.ParseAzureVMs(content)
	if err != nil {
		return nil, err
	}
	if len(res.VMs) == 0 && len(res.Skipped) == 0 {
		return nil, fmt.Errorf("empty file: vm export has no data rows")
	}
	if len(res.VMs) == 0 {
		missing := make(map[string]int)
		for _, sk := range res.Skipped {
			for _, f := range sk.Missing {
				missing[f]++
			}
		}
		return nil, &NoValidRecordsError{Rows: len(res.Skipped), MissingCounts: missing, Skipped: res.Skipped}
	}

	stored, purged, err := s.store.ReplaceAzureVMs(ctx, res.VMs, purge)
	if err != nil {
		log.Error("vm import rolled back", "error", err)
		return nil, err
	}

	out := &VMImportResult{
		Message:  fmt.Sprintf("Imported %d VMs, %d skipped, %d purged", len(stored), len(res.Skipped), purged),
		Imported: len(stored),
		Skipped:  len(res.Skipped),
		Purged:   purged,
		Details:  res.Skipped,
		Encoding: res.Encoding,
	}
	if out.Details == nil {
		out.Details = []inventory.SkipEntry{}
	}

	log.Info("vm import completed",
		"imported", out.Imported,
		"skipped", out.Skipped,
		"purged", purged,
		"duration", time.Since(start),
	)
	return out, nil
}

// ListAzureVMs returns the VMs matching f.
func (s *Service) ListAzureVMs(ctx context.Context, f inventory.VMFilters) ([]inventory.AzureVM, error) {
	return s.store.ListAzureVMs(ctx, f)
}

// GetAzureVM returns one VM by id.
func (s *Service) GetAzureVM(ctx context.Context, id uuid.UUID) (inventory.AzureVM, error) {
	return s.store.GetAzureVM(ctx, id)
}

// DeleteAzureVM removes one VM.
func (s *Service) DeleteAzureVM(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteAzureVM(ctx, id)
}

// PurgeAzureVMs removes the whole VM inventory.
func (s *Service) PurgeAzureVMs(ctx context.Context) (int64, error) {
	n, err := s.store.PurgeAzureVMs(ctx)
	if err != nil {
		return 0, err
	}
	logging.FromContext(ctx).Info("azure vms purged", "deleted", n)
	return n, nil
}

// AzureVMFilterOptions returns the sorted distinct values of the stored VMs.
func (s *Service) AzureVMFilterOptions(ctx context.Context) (VMFilterOptions, error) {
	vms, err := s.store.ListAzureVMs(ctx, inventory.VMFilters{})
	if err != nil {
		return VMFilterOptions{}, err
	}
	return ComputeVMFilterOptions(vms), nil
}

// ComputeVMFilterOptions returns the sorted distinct non-empty values of vms.
func ComputeVMFilterOptions(vms []inventory.AzureVM) VMFilterOptions {
	regions := make(map[string]struct{})
	subs := make(map[string]struct{})
	tenants := make(map[string]struct{})
	statuses := make(map[string]struct{})
	for _, vm := range vms {
		addNonEmpty(regions, vm.Location)
		addNonEmpty(subs, vm.Subscription)
		addNonEmpty(tenants, vm.TenantID)
		addNonEmpty(statuses, vm.DisplayStatus)
	}
	return VMFilterOptions{
		Regions:       sortedKeys(regions),
		Subscriptions: sortedKeys(subs),
		Tenants:       sortedKeys(tenants),
		Statuses:      sortedKeys(statuses),
	}
}
