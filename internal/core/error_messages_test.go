package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vare7/cloud-db-inventory/internal/database"
	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"duplicate key", errors.New("ERROR: duplicate key value violates unique constraint"), "DB001"},
		{"unique constraint", errors.New("ERROR: unique constraint violated"), "DB002"},
		{"check constraint", errors.New(`new row violates check constraint "database_records_status_check"`), "DB003"},
		{"connection refused", errors.New("dial tcp: connection refused"), "DB004"},
		{"invalid provider", fmt.Errorf("validation error: %w", inventory.ErrInvalidProvider), "VAL006"},
		{"invalid status", inventory.ErrInvalidStatus, "VAL006"},
		{"negative storage", errors.New("validation error: storage_gb must be >= 0 (got -1)"), "VAL002"},
		{"empty service", errors.New("validation error: service must not be empty"), "VAL003"},
		{"generic validation", errors.New("validation error: something else"), "VAL001"},
		{"no valid records", &NoValidRecordsError{}, "VAL004"},
		{"bad id", errors.New("invalid record id: abc"), "VAL005"},
		{"file too large", errors.New("file too large: 200MB exceeds limit"), "FILE001"},
		{"invalid csv", errors.New("invalid csv header: bare quote"), "FILE002"},
		{"empty file", errors.New("empty file: no data rows"), "FILE005"},
		{"busy", ErrTooManyImports, "IMP002"},
		{"missing object", errors.New("operation error S3: GetObject, api error NoSuchKey"), "IMP003"},
		{"cancelled", fmt.Errorf("import: %w", errors.New("context canceled")), "IMP004"},
		{"not found", fmt.Errorf("get record: %w", database.ErrNotFound), "REC001"},
		{"rate limit", errors.New("rate limit exceeded"), "RATE001"},
		{"unknown", errors.New("something odd"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrTooManyImports)
	want := "System is busy processing other imports (Code: IMP002). Please wait a moment and try again"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("IsUserFacing(nil) = true")
	}
	if !IsUserFacing(database.ErrNotFound) {
		t.Error("IsUserFacing(ErrNotFound) = false")
	}
	if IsUserFacing(errors.New("boom")) {
		t.Error("IsUserFacing(boom) = true")
	}
}

func TestNewUserError(t *testing.T) {
	if NewUserError(nil) != nil {
		t.Fatal("NewUserError(nil) should be nil")
	}

	ue := NewUserError(database.ErrNotFound)
	if ue.Error() != "Record not found" {
		t.Errorf("Error() = %q", ue.Error())
	}
	if !errors.Is(ue, database.ErrNotFound) {
		t.Error("UserError should unwrap to the technical error")
	}
}
