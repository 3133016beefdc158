package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

// ListAzureVMs returns VMs matching f, ordered by computer name.
func (s *Store) ListAzureVMs(ctx context.Context, f inventory.VMFilters) ([]inventory.AzureVM, error) {
	wb := NewWhereBuilder()
	wb.AddVMFilters(f)
	where, args := wb.Build()

	rows, err := s.q.ListAzureVms(ctx, where, args)
	if err != nil {
		return nil, fmt.Errorf("list azure vms: %w", err)
	}
	out := make([]inventory.AzureVM, len(rows))
	for i, row := range rows {
		out[i] = toAzureVM(row)
	}
	return out, nil
}

// GetAzureVM fetches one VM by id.
func (s *Store) GetAzureVM(ctx context.Context, id uuid.UUID) (inventory.AzureVM, error) {
	row, err := s.q.GetAzureVm(ctx, id)
	if err != nil {
		return inventory.AzureVM{}, fmt.Errorf("get azure vm %s: %w", id, err)
	}
	return toAzureVM(row), nil
}

// ReplaceAzureVMs inserts vms in one transaction, first emptying the table
// when purge is set. It returns the stored VMs and the number purged.
func (s *Store) ReplaceAzureVMs(ctx context.Context, vms []inventory.AzureVM, purge bool) ([]inventory.AzureVM, int64, error) {
	now := time.Now().UTC()
	out := make([]inventory.AzureVM, len(vms))
	rows := make([]AzureVm, len(vms))
	for i, vm := range vms {
		vm.ID = uuid.New()
		vm.CreatedAt = now
		out[i] = vm
		rows[i] = toVMRow(vm)
	}

	var purged int64
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		q := s.q.WithTx(tx)
		if purge {
			n, err := q.DeleteAllAzureVms(ctx)
			if err != nil {
				return fmt.Errorf("purge azure vms: %w", err)
			}
			purged = n
		}
		if len(rows) == 0 {
			return nil
		}
		if _, err := q.CopyAzureVms(ctx, rows); err != nil {
			return fmt.Errorf("copy azure vms: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out, purged, nil
}

// DeleteAzureVM removes one VM by id.
func (s *Store) DeleteAzureVM(ctx context.Context, id uuid.UUID) error {
	n, err := s.q.DeleteAzureVm(ctx, id)
	if err != nil {
		return fmt.Errorf("delete azure vm %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete azure vm %s: %w", id, ErrNotFound)
	}
	return nil
}

// PurgeAzureVMs removes every VM and returns how many were deleted.
func (s *Store) PurgeAzureVMs(ctx context.Context) (int64, error) {
	n, err := s.q.DeleteAllAzureVms(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge azure vms: %w", err)
	}
	return n, nil
}

func toVMRow(vm inventory.AzureVM) AzureVm {
	return AzureVm{
		ID:               vm.ID,
		ComputerName:     vm.ComputerName,
		PrivateIpAddress: toPgText(vm.PrivateIPAddress),
		Subscription:     vm.Subscription,
		ResourceGroup:    vm.ResourceGroup,
		Location:         vm.Location,
		VmSize:           vm.VMSize,
		OsType:           vm.OSType,
		OsName:           toPgText(vm.OSName),
		OsVersion:        toPgText(vm.OSVersion),
		OsDiskSize:       toPgInt4(vm.OSDiskSize),
		DataDiskCount:    toPgInt4(vm.DataDiskCount),
		TotalDiskSizeGb:  toPgInt4(vm.TotalDiskSizeGB),
		DisplayStatus:    toPgText(vm.DisplayStatus),
		TimeCreated:      toPgTimestamptz(vm.TimeCreated),
		TenantID:         toPgText(vm.TenantID),
		CreatedAt:        vm.CreatedAt,
	}
}

func toAzureVM(r AzureVm) inventory.AzureVM {
	return inventory.AzureVM{
		ID:               r.ID,
		ComputerName:     r.ComputerName,
		PrivateIPAddress: fromPgText(r.PrivateIpAddress),
		Subscription:     r.Subscription,
		ResourceGroup:    r.ResourceGroup,
		Location:         r.Location,
		VMSize:           r.VmSize,
		OSType:           r.OsType,
		OSName:           fromPgText(r.OsName),
		OSVersion:        fromPgText(r.OsVersion),
		OSDiskSize:       fromPgInt4(r.OsDiskSize),
		DataDiskCount:    fromPgInt4(r.DataDiskCount),
		TotalDiskSizeGB:  fromPgInt4(r.TotalDiskSizeGb),
		DisplayStatus:    fromPgText(r.DisplayStatus),
		TimeCreated:      fromPgTimestamptz(r.TimeCreated),
		TenantID:         fromPgText(r.TenantID),
		CreatedAt:        r.CreatedAt,
	}
}
