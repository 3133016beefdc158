package core

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
	"github.com/vare7/cloud-db-inventory/internal/normalize"
)

// DefaultTenants are the Azure tenants known without any configuration.
// Rows in azure_tenants override or extend them.
var DefaultTenants = []inventory.Tenant{
	{TenantID: "7df9d676-4a3e-4ff3-a54f-f30c0543fe4c", FriendlyName: "TDH-Commercial"},
	{TenantID: "c162a585-4fef-44bd-9271-d96409d0a349", FriendlyName: "Corporate Tenant"},
}

// Names resolves tenant and account ids to friendly names.
type Names struct {
	tenants  map[string]string
	accounts map[string]string
}

// NewNames builds a resolver. Later entries win over earlier ones, and both
// lists are applied on top of DefaultTenants.
func NewNames(tenants []inventory.Tenant, accounts []inventory.Account) *Names {
	n := &Names{
		tenants:  make(map[string]string, len(DefaultTenants)+len(tenants)),
		accounts: make(map[string]string, len(accounts)),
	}
	for _, t := range DefaultTenants {
		n.tenants[t.TenantID] = t.FriendlyName
	}
	for _, t := range tenants {
		n.tenants[t.TenantID] = t.FriendlyName
	}
	for _, a := range accounts {
		n.accounts[a.AccountID] = a.AccountName
	}
	return n
}

// TenantName returns the friendly name of id, "-" for an empty id, or id
// itself when it is unknown.
func (n *Names) TenantName(id string) string {
	if id == "" {
		return "-"
	}
	if name, ok := n.tenants[id]; ok {
		return name
	}
	return id
}

// AccountName returns the friendly name of an AWS account id, or id itself.
func (n *Names) AccountName(id string) string {
	if name, ok := n.accounts[id]; ok {
		return name
	}
	return id
}

// RecordView is a record as served by the API, with resolved names.
type RecordView struct {
	inventory.Record
	TenantName  string `json:"tenant_name"`
	AccountName string `json:"account_name"`
}

// View enriches r. Tenant names apply to Azure records, account names to AWS
// records whose subscription holds the account id.
func (n *Names) View(r inventory.Record) RecordView {
	v := RecordView{Record: r, TenantName: "-", AccountName: r.Subscription}
	switch r.Provider {
	case inventory.ProviderAzure:
		v.TenantName = n.TenantName(r.AzureTenant)
	case inventory.ProviderAWS:
		v.AccountName = n.AccountName(r.Subscription)
	}
	return v
}

// Views enriches every record of recs.
func (n *Names) Views(recs []inventory.Record) []RecordView {
	out := make([]RecordView, len(recs))
	for i, r := range recs {
		out[i] = n.View(r)
	}
	return out
}

// Names loads the current tenant and account names from the store.
func (s *Service) Names(ctx context.Context) (*Names, error) {
	tenants, err := s.store.ListTenants(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return NewNames(tenants, accounts), nil
}

// ListRecordViews returns the records matching f with resolved names.
func (s *Service) ListRecordViews(ctx context.Context, f inventory.Filters) ([]RecordView, error) {
	recs, err := s.store.ListRecords(ctx, f)
	if err != nil {
		return nil, err
	}
	names, err := s.Names(ctx)
	if err != nil {
		return nil, err
	}
	return names.Views(recs), nil
}

// SeedDefaultTenants stores DefaultTenants without overwriting renamed ones.
func (s *Service) SeedDefaultTenants(ctx context.Context) error {
	return s.store.SeedTenants(ctx, DefaultTenants)
}

// ListTenants returns the effective tenant map, defaults included, sorted by
// friendly name.
func (s *Service) ListTenants(ctx context.Context) ([]inventory.Tenant, error) {
	names, err := s.Names(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]inventory.Tenant, 0, len(names.tenants))
	for id, name := range names.tenants {
		out = append(out, inventory.Tenant{TenantID: id, FriendlyName: name})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FriendlyName != out[j].FriendlyName {
			return out[i].FriendlyName < out[j].FriendlyName
		}
		return out[i].TenantID < out[j].TenantID
	})
	return out, nil
}

// RenameTenant sets the friendly name of a tenant.
func (s *Service) RenameTenant(ctx context.Context, id, name string) error {
	if id == "" {
		return fmt.Errorf("validation error: tenant id must not be empty")
	}
	if name == "" {
		return fmt.Errorf("validation error: friendly name must not be empty")
	}
	return s.store.UpsertTenant(ctx, inventory.Tenant{TenantID: id, FriendlyName: name})
}

// AccountImportResult summarizes an account sheet import.
type AccountImportResult struct {
	Message  string                `json:"message"`
	Imported int                   `json:"imported"`
	Skipped  []inventory.SkipEntry `json:"skipped"`
	Encoding string                `json:"encoding"`
}

// ListAccounts returns the stored AWS account sheet.
func (s *Service) ListAccounts(ctx context.Context) ([]inventory.Account, error) {
	return s.store.ListAccounts(ctx)
}

// ImportAccounts parses an AWS account sheet and upserts its rows by id.
func (s *Service) ImportAccounts(ctx context.Context, content []byte) (*AccountImportResult, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("empty file: account sheet has no content")
	}

	res, err := normalize.ParseAccounts(content)
	if err != nil {
		return nil, err
	}
	if len(res.Accounts) == 0 && len(res.Skipped) == 0 {
		return nil, fmt.Errorf("empty file: account sheet has no data rows")
	}

	n, err := s.store.UpsertAccounts(ctx, res.Accounts)
	if err != nil {
		return nil, err
	}

	out := &AccountImportResult{
		Message:  fmt.Sprintf("Imported %d accounts, %d skipped", n, len(res.Skipped)),
		Imported: n,
		Skipped:  res.Skipped,
		Encoding: res.Encoding,
	}
	if out.Skipped == nil {
		out.Skipped = []inventory.SkipEntry{}
	}

	slog.Info("account sheet imported", "imported", n, "skipped", len(res.Skipped))
	return out, nil
}
