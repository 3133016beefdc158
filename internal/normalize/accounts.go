package normalize

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

// Account sheet header names after NormalizeKey.
const (
	colAccountID    = "accountid"
	colAccountName  = "account alias(friendly name)"
	colBusinessUnit = "businessunit"
	colOwner        = "owner"
	colDataType     = "account type(data type)"
	colFunction     = "account type(function)"
	colComments     = "comments"
)

// AccountResult is the outcome of parsing an AWS account sheet.
type AccountResult struct {
	Accounts []inventory.Account   `json:"accounts"`
	Skipped  []inventory.SkipEntry `json:"skipped"`
	Encoding string                `json:"encoding"`
}

// ParseAccounts reads an AWS account inventory sheet. Rows without an
// account id or a friendly name are skipped.
func ParseAccounts(content []byte) (AccountResult, error) {
	text, enc := Decode(content)
	res := AccountResult{Encoding: enc}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("invalid csv header: %w", err)
	}

	for rowNumber := 1; ; rowNumber++ {
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.Skipped = append(res.Skipped, inventory.SkipEntry{
				RowNumber: rowNumber,
				Reason:    fmt.Sprintf("Malformed CSV row: %v", err),
				Row:       snapshot(header, cells),
			})
			continue
		}

		row := NewRow(header, cells)
		acct := inventory.Account{
			AccountID:    row[colAccountID],
			AccountName:  row[colAccountName],
			BusinessUnit: row[colBusinessUnit],
			Owner:        row[colOwner],
			DataType:     row[colDataType],
			Function:     row[colFunction],
			Comments:     row[colComments],
		}

		var missing []string
		if acct.AccountID == "" {
			missing = append(missing, "AccountID")
		}
		if acct.AccountName == "" {
			missing = append(missing, "Account Alias(Friendly Name)")
		}
		if len(missing) > 0 {
			res.Skipped = append(res.Skipped, inventory.SkipEntry{
				RowNumber: rowNumber,
				Reason:    "Missing required fields: " + strings.Join(missing, ", "),
				Missing:   missing,
				Row:       snapshot(header, cells),
			})
			continue
		}
		res.Accounts = append(res.Accounts, acct)
	}

	return res, nil
}
