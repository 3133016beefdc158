// Package coretest provides an in-memory store for tests of the service and
// its transports.
package coretest

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vare7/cloud-db-inventory/internal/database"
	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

// MemStore keeps records, tenants, accounts, import runs and VMs in memory.
// WithImportTx restores the previous state when fn fails.
type MemStore struct {
	txMu sync.Mutex // serializes WithImportTx like the advisory lock
	mu   sync.Mutex

	records  []inventory.Record
	tenants  map[string]string
	accounts map[string]inventory.Account
	runs     []inventory.ImportRun
	vms      []inventory.AzureVM

	// InsertErr, when set, fails every InsertRecords and ReplaceAzureVMs call.
	InsertErr error
	// Now stamps CreatedAt; defaults to time.Now.
	Now func() time.Time
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		tenants:  make(map[string]string),
		accounts: make(map[string]inventory.Account),
	}
}

// Seed stores recs as-is, assigning ids where missing.
func (m *MemStore) Seed(recs ...inventory.Record) []inventory.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]inventory.Record, len(recs))
	for i, r := range recs {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		if r.Tags == nil {
			r.Tags = []string{}
		}
		m.records = append(m.records, r)
		out[i] = r
	}
	return out
}

// Records returns a copy of all stored records in insertion order.
func (m *MemStore) Records() []inventory.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.records)
}

// Runs returns the saved import runs in insertion order.
func (m *MemStore) Runs() []inventory.ImportRun {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.runs)
}

func (m *MemStore) now() time.Time {
	if m.Now != nil {
		return m.Now().UTC()
	}
	return time.Now().UTC()
}

func (m *MemStore) Ping(context.Context) error { return nil }

func (m *MemStore) WithImportTx(ctx context.Context, fn func(database.RecordTx) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	saved := slices.Clone(m.records)
	savedRuns := slices.Clone(m.runs)
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.records = saved
		m.runs = savedRuns
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *MemStore) ListRecords(_ context.Context, f inventory.Filters) ([]inventory.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []inventory.Record{}
	for _, r := range m.records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b inventory.Record) int {
		if c := strings.Compare(string(a.Provider), string(b.Provider)); c != 0 {
			return c
		}
		return strings.Compare(a.Service, b.Service)
	})
	return out, nil
}

func (m *MemStore) InsertRecords(_ context.Context, recs []inventory.Record) ([]inventory.Record, error) {
	if m.InsertErr != nil {
		return nil, m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]inventory.Record, len(recs))
	for i, r := range recs {
		r.ID = uuid.New()
		r.CreatedAt = m.now()
		if r.Tags == nil {
			r.Tags = []string{}
		}
		m.records = append(m.records, r)
		out[i] = r
	}
	return out, nil
}

func (m *MemStore) DeleteRecords(_ context.Context, ids []uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.records)
	m.records = slices.DeleteFunc(m.records, func(r inventory.Record) bool {
		return slices.Contains(ids, r.ID)
	})
	return int64(before - len(m.records)), nil
}

func (m *MemStore) PurgeProvider(_ context.Context, p inventory.Provider) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.records)
	m.records = slices.DeleteFunc(m.records, func(r inventory.Record) bool {
		return r.Provider == p
	})
	return int64(before - len(m.records)), nil
}

func (m *MemStore) SaveImportRun(_ context.Context, run inventory.ImportRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *MemStore) GetRecord(_ context.Context, id uuid.UUID) (inventory.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return inventory.Record{}, database.ErrNotFound
}

func (m *MemStore) CreateRecord(ctx context.Context, rec inventory.Record) (inventory.Record, error) {
	out, err := m.InsertRecords(ctx, []inventory.Record{rec})
	if err != nil {
		return inventory.Record{}, err
	}
	return out[0], nil
}

func (m *MemStore) UpdateRecordStatus(_ context.Context, id uuid.UUID, st inventory.Status) (inventory.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == id {
			m.records[i].Status = st
			return m.records[i], nil
		}
	}
	return inventory.Record{}, database.ErrNotFound
}

func (m *MemStore) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	n, _ := m.DeleteRecords(ctx, []uuid.UUID{id})
	if n == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (m *MemStore) ListTenants(context.Context) ([]inventory.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]inventory.Tenant, 0, len(m.tenants))
	for id, name := range m.tenants {
		out = append(out, inventory.Tenant{TenantID: id, FriendlyName: name})
	}
	slices.SortFunc(out, func(a, b inventory.Tenant) int { return strings.Compare(a.TenantID, b.TenantID) })
	return out, nil
}

func (m *MemStore) UpsertTenant(_ context.Context, t inventory.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenants[t.TenantID] = t.FriendlyName
	return nil
}

func (m *MemStore) SeedTenants(_ context.Context, tenants []inventory.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range tenants {
		if _, ok := m.tenants[t.TenantID]; !ok {
			m.tenants[t.TenantID] = t.FriendlyName
		}
	}
	return nil
}

func (m *MemStore) ListAccounts(context.Context) ([]inventory.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]inventory.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b inventory.Account) int { return strings.Compare(a.AccountID, b.AccountID) })
	return out, nil
}

func (m *MemStore) UpsertAccounts(_ context.Context, accts []inventory.Account) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range accts {
		m.accounts[a.AccountID] = a
	}
	return len(accts), nil
}

func (m *MemStore) ListImportRuns(_ context.Context, limit int) ([]inventory.ImportRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]inventory.ImportRun, 0, len(m.runs))
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}

func (m *MemStore) ListAzureVMs(_ context.Context, f inventory.VMFilters) ([]inventory.AzureVM, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []inventory.AzureVM{}
	for _, vm := range m.vms {
		if f.Match(vm) {
			out = append(out, vm)
		}
	}
	slices.SortStableFunc(out, func(a, b inventory.AzureVM) int {
		return strings.Compare(a.ComputerName, b.ComputerName)
	})
	return out, nil
}

func (m *MemStore) GetAzureVM(_ context.Context, id uuid.UUID) (inventory.AzureVM, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, vm := range m.vms {
		if vm.ID == id {
			return vm, nil
		}
	}
	return inventory.AzureVM{}, database.ErrNotFound
}

func (m *MemStore) ReplaceAzureVMs(_ context.Context, vms []inventory.AzureVM, purge bool) ([]inventory.AzureVM, int64, error) {
	if m.InsertErr != nil {
		return nil, 0, m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var purged int64
	if purge {
		purged = int64(len(m.vms))
		m.vms = nil
	}
	out := make([]inventory.AzureVM, len(vms))
	for i, vm := range vms {
		vm.ID = uuid.New()
		vm.CreatedAt = m.now()
		m.vms = append(m.vms, vm)
		out[i] = vm
	}
	return out, purged, nil
}

func (m *MemStore) DeleteAzureVM(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.vms)
	m.vms = slices.DeleteFunc(m.vms, func(vm inventory.AzureVM) bool { return vm.ID == id })
	if len(m.vms) == before {
		return database.ErrNotFound
	}
	return nil
}

func (m *MemStore) PurgeAzureVMs(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.vms))
	m.vms = nil
	return n, nil
}
