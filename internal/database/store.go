package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

// RecordTx is the set of record operations available inside an import
// transaction. Store satisfies it outside of one.
type RecordTx interface {
	ListRecords(ctx context.Context, f inventory.Filters) ([]inventory.Record, error)
	InsertRecords(ctx context.Context, recs []inventory.Record) ([]inventory.Record, error)
	DeleteRecords(ctx context.Context, ids []uuid.UUID) (int64, error)
	PurgeProvider(ctx context.Context, p inventory.Provider) (int64, error)
	SaveImportRun(ctx context.Context, run inventory.ImportRun) error
}

// Store is the pgx-backed inventory store.
type Store struct {
	records
	pool *pgxpool.Pool
}

// NewStore returns a Store using pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{records: records{q: New(pool)}, pool: pool}
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// WithImportTx runs fn in a transaction holding the import advisory lock, so
// duplicate detection and sync deletion see a stable table. fn's error rolls
// the transaction back.
func (s *Store) WithImportTx(ctx context.Context, fn func(RecordTx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		q := New(tx)
		if err := q.LockImports(ctx); err != nil {
			return fmt.Errorf("lock imports: %w", err)
		}
		return fn(records{q: q})
	})
}

// GetRecord fetches one record by id.
func (s *Store) GetRecord(ctx context.Context, id uuid.UUID) (inventory.Record, error) {
	row, err := s.q.GetRecord(ctx, id)
	if err != nil {
		return inventory.Record{}, fmt.Errorf("get record %s: %w", id, err)
	}
	return toRecord(row), nil
}

// CreateRecord validates and stores a single record.
func (s *Store) CreateRecord(ctx context.Context, rec inventory.Record) (inventory.Record, error) {
	if err := rec.Validate(); err != nil {
		return inventory.Record{}, fmt.Errorf("validation error: %w", err)
	}
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now().UTC()
	row, err := s.q.InsertRecord(ctx, toRow(rec))
	if err != nil {
		return inventory.Record{}, fmt.Errorf("insert record: %w", err)
	}
	return toRecord(row), nil
}

// UpdateRecordStatus sets the status of one record.
func (s *Store) UpdateRecordStatus(ctx context.Context, id uuid.UUID, st inventory.Status) (inventory.Record, error) {
	row, err := s.q.UpdateRecordStatus(ctx, id, string(st))
	if err != nil {
		return inventory.Record{}, fmt.Errorf("update record %s: %w", id, err)
	}
	return toRecord(row), nil
}

// DeleteRecord removes one record by id.
func (s *Store) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	n, err := s.q.DeleteRecord(ctx, id)
	if err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete record %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListTenants returns every Azure tenant mapping.
func (s *Store) ListTenants(ctx context.Context) ([]inventory.Tenant, error) {
	rows, err := s.q.ListAzureTenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	out := make([]inventory.Tenant, len(rows))
	for i, r := range rows {
		out[i] = inventory.Tenant{TenantID: r.TenantID, FriendlyName: r.FriendlyName}
	}
	return out, nil
}

// UpsertTenant creates or renames a tenant mapping.
func (s *Store) UpsertTenant(ctx context.Context, t inventory.Tenant) error {
	if err := s.q.UpsertAzureTenant(ctx, AzureTenant{TenantID: t.TenantID, FriendlyName: t.FriendlyName}); err != nil {
		return fmt.Errorf("upsert tenant %s: %w", t.TenantID, err)
	}
	return nil
}

// SeedTenants inserts mappings that are not already present.
func (s *Store) SeedTenants(ctx context.Context, tenants []inventory.Tenant) error {
	for _, t := range tenants {
		if err := s.q.SeedAzureTenant(ctx, AzureTenant{TenantID: t.TenantID, FriendlyName: t.FriendlyName}); err != nil {
			return fmt.Errorf("seed tenant %s: %w", t.TenantID, err)
		}
	}
	return nil
}

// ListAccounts returns every AWS account.
func (s *Store) ListAccounts(ctx context.Context) ([]inventory.Account, error) {
	rows, err := s.q.ListAwsAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]inventory.Account, len(rows))
	for i, r := range rows {
		out[i] = inventory.Account{
			AccountID:    r.AccountID,
			AccountName:  r.AccountName,
			BusinessUnit: fromPgText(r.BusinessUnit),
			Owner:        fromPgText(r.Owner),
			DataType:     fromPgText(r.AccountTypeData),
			Function:     fromPgText(r.AccountTypeFunction),
			Comments:     fromPgText(r.Comments),
		}
	}
	return out, nil
}

// UpsertAccounts writes accounts in one transaction and returns how many were stored.
func (s *Store) UpsertAccounts(ctx context.Context, accts []inventory.Account) (int, error) {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		q := s.q.WithTx(tx)
		for _, a := range accts {
			if err := q.UpsertAwsAccount(ctx, AwsAccount{
				AccountID:           a.AccountID,
				AccountName:         a.AccountName,
				BusinessUnit:        toPgText(a.BusinessUnit),
				Owner:               toPgText(a.Owner),
				AccountTypeData:     toPgText(a.DataType),
				AccountTypeFunction: toPgText(a.Function),
				Comments:            toPgText(a.Comments),
			}); err != nil {
				return fmt.Errorf("upsert account %s: %w", a.AccountID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(accts), nil
}

// ListImportRuns returns the most recent import summaries, newest first.
func (s *Store) ListImportRuns(ctx context.Context, limit int) ([]inventory.ImportRun, error) {
	rows, err := s.q.ListImportRuns(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	out := make([]inventory.ImportRun, len(rows))
	for i, r := range rows {
		out[i] = inventory.ImportRun{
			ID:         r.ID,
			Provider:   inventory.Provider(r.Provider),
			FileName:   r.FileName,
			Source:     r.Source,
			Encoding:   r.Encoding,
			Purge:      r.Purge,
			Sync:       r.Sync,
			Created:    int(r.Created),
			Skipped:    int(r.Skipped),
			Duplicates: int(r.Duplicates),
			Deleted:    int(r.Deleted),
			StartedAt:  r.StartedAt,
			FinishedAt: r.FinishedAt,
		}
	}
	return out, nil
}

// records implements RecordTx over a Queries value.
type records struct {
	q *Queries
}

// ListRecords returns records matching f, ordered by provider, service, region.
func (r records) ListRecords(ctx context.Context, f inventory.Filters) ([]inventory.Record, error) {
	wb := NewWhereBuilder()
	wb.AddFilters(f)
	where, args := wb.Build()

	rows, err := r.q.ListRecords(ctx, where, args)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	out := make([]inventory.Record, len(rows))
	for i, row := range rows {
		out[i] = toRecord(row)
	}
	return out, nil
}

// InsertRecords assigns ids and bulk-inserts recs with COPY.
func (r records) InsertRecords(ctx context.Context, recs []inventory.Record) ([]inventory.Record, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	now := time.Now().UTC()
	out := make([]inventory.Record, len(recs))
	rows := make([]DatabaseRecord, len(recs))
	for i, rec := range recs {
		rec.ID = uuid.New()
		rec.CreatedAt = now
		out[i] = rec
		rows[i] = toRow(rec)
	}
	if _, err := r.q.CopyRecords(ctx, rows); err != nil {
		return nil, fmt.Errorf("copy records: %w", err)
	}
	return out, nil
}

// DeleteRecords removes records by id.
func (r records) DeleteRecords(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := r.q.DeleteRecordsByID(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete records: %w", err)
	}
	return n, nil
}

// PurgeProvider removes every record of provider p.
func (r records) PurgeProvider(ctx context.Context, p inventory.Provider) (int64, error) {
	n, err := r.q.DeleteRecordsByProvider(ctx, string(p))
	if err != nil {
		return 0, fmt.Errorf("purge %s records: %w", p, err)
	}
	return n, nil
}

// SaveImportRun stores an import summary.
func (r records) SaveImportRun(ctx context.Context, run inventory.ImportRun) error {
	err := r.q.InsertImportRun(ctx, ImportRun{
		ID:         run.ID,
		Provider:   string(run.Provider),
		FileName:   run.FileName,
		Source:     run.Source,
		Encoding:   run.Encoding,
		Purge:      run.Purge,
		Sync:       run.Sync,
		Created:    int32(run.Created),
		Skipped:    int32(run.Skipped),
		Duplicates: int32(run.Duplicates),
		Deleted:    int32(run.Deleted),
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	})
	if err != nil {
		return fmt.Errorf("save import run: %w", err)
	}
	return nil
}

func toRow(r inventory.Record) DatabaseRecord {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return DatabaseRecord{
		ID:                    r.ID,
		Provider:              string(r.Provider),
		Service:               r.Service,
		Engine:                r.Engine,
		Region:                r.Region,
		Endpoint:              r.Endpoint,
		StorageGb:             int32(r.StorageGB),
		Status:                string(r.Status),
		Subscription:          r.Subscription,
		Tags:                  tags,
		Version:               toPgText(r.Version),
		AzureTenant:           toPgText(r.AzureTenant),
		AvailabilityZone:      toPgText(r.AvailabilityZone),
		AutoScaling:           toPgText(r.AutoScaling),
		Iops:                  toPgText(r.IOPS),
		HighAvailabilityState: toPgText(r.HighAvailabilityState),
		Replica:               toPgText(r.Replica),
		BackupRetentionDays:   toPgText(r.BackupRetentionDays),
		GeoRedundantBackup:    toPgText(r.GeoRedundantBackup),
		CreatedAt:             r.CreatedAt,
	}
}

func toRecord(r DatabaseRecord) inventory.Record {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return inventory.Record{
		ID:           r.ID,
		Provider:     inventory.Provider(r.Provider),
		Service:      r.Service,
		Engine:       r.Engine,
		Region:       r.Region,
		Endpoint:     r.Endpoint,
		StorageGB:    int(r.StorageGb),
		Status:       inventory.Status(r.Status),
		Subscription: r.Subscription,
		Tags:         tags,
		Version:      fromPgText(r.Version),
		AzureTenant:  fromPgText(r.AzureTenant),
		Details: inventory.Details{
			AvailabilityZone:      fromPgText(r.AvailabilityZone),
			AutoScaling:           fromPgText(r.AutoScaling),
			IOPS:                  fromPgText(r.Iops),
			HighAvailabilityState: fromPgText(r.HighAvailabilityState),
			Replica:               fromPgText(r.Replica),
			BackupRetentionDays:   fromPgText(r.BackupRetentionDays),
			GeoRedundantBackup:    fromPgText(r.GeoRedundantBackup),
		},
		CreatedAt: r.CreatedAt,
	}
}
