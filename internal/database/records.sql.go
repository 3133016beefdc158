package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const recordColumns = `id, provider, service, engine, region, endpoint, storage_gb, status, subscription, tags,
	version, azure_tenant, availability_zone, auto_scaling, iops, high_availability_state, replica,
	backup_retention_days, geo_redundant_backup, created_at`

// recordCopyColumns is the column order used by CopyRecords.
var recordCopyColumns = []string{
	"id", "provider", "service", "engine", "region", "endpoint", "storage_gb", "status", "subscription", "tags",
	"version", "azure_tenant", "availability_zone", "auto_scaling", "iops", "high_availability_state", "replica",
	"backup_retention_days", "geo_redundant_backup", "created_at",
}

func scanRecord(row pgx.Row) (DatabaseRecord, error) {
	var i DatabaseRecord
	err := row.Scan(
		&i.ID,
		&i.Provider,
		&i.Service,
		&i.Engine,
		&i.Region,
		&i.Endpoint,
		&i.StorageGb,
		&i.Status,
		&i.Subscription,
		&i.Tags,
		&i.Version,
		&i.AzureTenant,
		&i.AvailabilityZone,
		&i.AutoScaling,
		&i.Iops,
		&i.HighAvailabilityState,
		&i.Replica,
		&i.BackupRetentionDays,
		&i.GeoRedundantBackup,
		&i.CreatedAt,
	)
	return i, err
}

func (r DatabaseRecord) values() []any {
	return []any{
		r.ID, r.Provider, r.Service, r.Engine, r.Region, r.Endpoint, r.StorageGb, r.Status, r.Subscription, r.Tags,
		r.Version, r.AzureTenant, r.AvailabilityZone, r.AutoScaling, r.Iops, r.HighAvailabilityState, r.Replica,
		r.BackupRetentionDays, r.GeoRedundantBackup, r.CreatedAt,
	}
}

const insertRecord = `INSERT INTO database_records (` + recordColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
RETURNING ` + recordColumns

// InsertRecord inserts one record and returns the stored row.
func (q *Queries) InsertRecord(ctx context.Context, arg DatabaseRecord) (DatabaseRecord, error) {
	return scanRecord(q.db.QueryRow(ctx, insertRecord, arg.values()...))
}

// CopyRecords bulk-inserts rows with the COPY protocol.
func (q *Queries) CopyRecords(ctx context.Context, rows []DatabaseRecord) (int64, error) {
	return q.db.CopyFrom(ctx, pgx.Identifier{"database_records"}, recordCopyColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			return rows[i].values(), nil
		}),
	)
}

const getRecord = `SELECT ` + recordColumns + ` FROM database_records WHERE id = $1`

// GetRecord fetches one record by id.
func (q *Queries) GetRecord(ctx context.Context, id uuid.UUID) (DatabaseRecord, error) {
	i, err := scanRecord(q.db.QueryRow(ctx, getRecord, id))
	return i, notFound(err)
}

const listRecordsBase = `SELECT ` + recordColumns + ` FROM database_records`

// ListRecords returns records matching a WHERE clause built by WhereBuilder.
func (q *Queries) ListRecords(ctx context.Context, where string, args []any) ([]DatabaseRecord, error) {
	rows, err := q.db.Query(ctx, listRecordsBase+where+` ORDER BY provider, service, region, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []DatabaseRecord
	for rows.Next() {
		i, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateRecordStatus = `UPDATE database_records SET status = $2 WHERE id = $1 RETURNING ` + recordColumns

// UpdateRecordStatus changes a record's status and returns the updated row.
func (q *Queries) UpdateRecordStatus(ctx context.Context, id uuid.UUID, status string) (DatabaseRecord, error) {
	i, err := scanRecord(q.db.QueryRow(ctx, updateRecordStatus, id, status))
	return i, notFound(err)
}

const deleteRecord = `DELETE FROM database_records WHERE id = $1`

// DeleteRecord removes one record and reports how many rows were affected.
func (q *Queries) DeleteRecord(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteRecord, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteRecordsByID = `DELETE FROM database_records WHERE id = ANY($1::uuid[])`

// DeleteRecordsByID removes every record whose id is in ids.
func (q *Queries) DeleteRecordsByID(ctx context.Context, ids []uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteRecordsByID, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteRecordsByProvider = `DELETE FROM database_records WHERE provider = $1`

// DeleteRecordsByProvider removes every record of one provider.
func (q *Queries) DeleteRecordsByProvider(ctx context.Context, provider string) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteRecordsByProvider, provider)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const lockImports = `SELECT pg_advisory_xact_lock($1)`

// importLockKey serializes import transactions across processes.
const importLockKey int64 = 0x696e76656e746f72

// LockImports takes the transaction-scoped import lock.
func (q *Queries) LockImports(ctx context.Context) error {
	_, err := q.db.Exec(ctx, lockImports, importLockKey)
	return err
}
