package database

import (
	"context"
)

const listAzureTenants = `SELECT tenant_id, friendly_name FROM azure_tenants ORDER BY tenant_id`

// ListAzureTenants returns every tenant mapping.
func (q *Queries) ListAzureTenants(ctx context.Context) ([]AzureTenant, error) {
	rows, err := q.db.Query(ctx, listAzureTenants)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []AzureTenant
	for rows.Next() {
		var i AzureTenant
		if err := rows.Scan(&i.TenantID, &i.FriendlyName); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const upsertAzureTenant = `INSERT INTO azure_tenants (tenant_id, friendly_name) VALUES ($1, $2)
ON CONFLICT (tenant_id) DO UPDATE SET friendly_name = EXCLUDED.friendly_name`

// UpsertAzureTenant creates or renames a tenant mapping.
func (q *Queries) UpsertAzureTenant(ctx context.Context, arg AzureTenant) error {
	_, err := q.db.Exec(ctx, upsertAzureTenant, arg.TenantID, arg.FriendlyName)
	return err
}

const seedAzureTenant = `INSERT INTO azure_tenants (tenant_id, friendly_name) VALUES ($1, $2)
ON CONFLICT (tenant_id) DO NOTHING`

// SeedAzureTenant inserts a mapping only if the tenant is not yet known.
func (q *Queries) SeedAzureTenant(ctx context.Context, arg AzureTenant) error {
	_, err := q.db.Exec(ctx, seedAzureTenant, arg.TenantID, arg.FriendlyName)
	return err
}

const listAwsAccounts = `SELECT account_id, account_name, business_unit, owner, account_type_data,
	account_type_function, comments FROM aws_accounts ORDER BY account_id`

// ListAwsAccounts returns every account.
func (q *Queries) ListAwsAccounts(ctx context.Context) ([]AwsAccount, error) {
	rows, err := q.db.Query(ctx, listAwsAccounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []AwsAccount
	for rows.Next() {
		var i AwsAccount
		if err := rows.Scan(
			&i.AccountID,
			&i.AccountName,
			&i.BusinessUnit,
			&i.Owner,
			&i.AccountTypeData,
			&i.AccountTypeFunction,
			&i.Comments,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const upsertAwsAccount = `INSERT INTO aws_accounts (account_id, account_name, business_unit, owner,
	account_type_data, account_type_function, comments)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (account_id) DO UPDATE SET
	account_name = EXCLUDED.account_name,
	business_unit = EXCLUDED.business_unit,
	owner = EXCLUDED.owner,
	account_type_data = EXCLUDED.account_type_data,
	account_type_function = EXCLUDED.account_type_function,
	comments = EXCLUDED.comments`

// UpsertAwsAccount creates or replaces an account by id.
func (q *Queries) UpsertAwsAccount(ctx context.Context, arg AwsAccount) error {
	_, err := q.db.Exec(ctx, upsertAwsAccount,
		arg.AccountID,
		arg.AccountName,
		arg.BusinessUnit,
		arg.Owner,
		arg.AccountTypeData,
		arg.AccountTypeFunction,
		arg.Comments,
	)
	return err
}
