package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const vmColumns = `id, computer_name, private_ip_address, subscription, resource_group, location, vm_size,
	os_type, os_name, os_version, os_disk_size, data_disk_count, total_disk_size_gb, display_status,
	time_created, tenant_id, created_at`

// vmCopyColumns is the column order used by CopyAzureVms.
var vmCopyColumns = []string{
	"id", "computer_name", "private_ip_address", "subscription", "resource_group", "location", "vm_size",
	"os_type", "os_name", "os_version", "os_disk_size", "data_disk_count", "total_disk_size_gb", "display_status",
	"time_created", "tenant_id", "created_at",
}

func scanAzureVm(row pgx.Row) (AzureVm, error) {
	var i AzureVm
	err := row.Scan(
		&i.ID,
		&i.ComputerName,
		&i.PrivateIpAddress,
		&i.Subscription,
		&i.ResourceGroup,
		&i.Location,
		&i.VmSize,
		&i.OsType,
		&i.OsName,
		&i.OsVersion,
		&i.OsDiskSize,
		&i.DataDiskCount,
		&i.TotalDiskSizeGb,
		&i.DisplayStatus,
		&i.TimeCreated,
		&i.TenantID,
		&i.CreatedAt,
	)
	return i, err
}

func (v AzureVm) values() []any {
	return []any{
		v.ID, v.ComputerName, v.PrivateIpAddress, v.Subscription, v.ResourceGroup, v.Location, v.VmSize,
		v.OsType, v.OsName, v.OsVersion, v.OsDiskSize, v.DataDiskCount, v.TotalDiskSizeGb, v.DisplayStatus,
		v.TimeCreated, v.TenantID, v.CreatedAt,
	}
}

// CopyAzureVms bulk-inserts rows with the COPY protocol.
func (q *Queries) CopyAzureVms(ctx context.Context, rows []AzureVm) (int64, error) {
	return q.db.CopyFrom(ctx, pgx.Identifier{"azure_vms"}, vmCopyColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			return rows[i].values(), nil
		}),
	)
}

const getAzureVm = `SELECT ` + vmColumns + ` FROM azure_vms WHERE id = $1`

// GetAzureVm fetches one VM by id.
func (q *Queries) GetAzureVm(ctx context.Context, id uuid.UUID) (AzureVm, error) {
	i, err := scanAzureVm(q.db.QueryRow(ctx, getAzureVm, id))
	return i, notFound(err)
}

const listAzureVmsBase = `SELECT ` + vmColumns + ` FROM azure_vms`

// ListAzureVms returns VMs matching a WHERE clause built by WhereBuilder.
func (q *Queries) ListAzureVms(ctx context.Context, where string, args []any) ([]AzureVm, error) {
	rows, err := q.db.Query(ctx, listAzureVmsBase+where+` ORDER BY computer_name, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []AzureVm
	for rows.Next() {
		i, err := scanAzureVm(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteAzureVm = `DELETE FROM azure_vms WHERE id = $1`

// DeleteAzureVm removes one VM and reports how many rows were affected.
func (q *Queries) DeleteAzureVm(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteAzureVm, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteAllAzureVms = `DELETE FROM azure_vms`

// DeleteAllAzureVms empties azure_vms.
func (q *Queries) DeleteAllAzureVms(ctx context.Context) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteAllAzureVms)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
