package inventory

import (
	"errors"
	"strings"
	"testing"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in      string
		want    Provider
		wantErr bool
	}{
		{"AWS", ProviderAWS, false},
		{"aws", ProviderAWS, false},
		{" Azure ", ProviderAzure, false},
		{"AZURE", ProviderAzure, false},
		{"gcp", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseProvider(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseProvider(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidProvider) {
				t.Errorf("ParseProvider(%q) error = %v, want ErrInvalidProvider", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseProvider(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		got, err := ParseStatus(strings.ToUpper(string(s)))
		if err != nil || got != s {
			t.Errorf("ParseStatus(%q) = %q, %v, want %q", s, got, err, s)
		}
	}
	if _, err := ParseStatus("running"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("ParseStatus(running) error = %v, want ErrInvalidStatus", err)
	}
}

func TestRecordValidate(t *testing.T) {
	valid := Record{Provider: ProviderAWS, Service: "orders", Region: "us-east-1", Status: StatusAvailable}

	tests := []struct {
		name    string
		mutate  func(*Record)
		wantErr string
	}{
		{"valid", func(*Record) {}, ""},
		{"bad provider", func(r *Record) { r.Provider = "gcp" }, "provider"},
		{"bad status", func(r *Record) { r.Status = "running" }, "status"},
		{"empty service", func(r *Record) { r.Service = " " }, "service must not be empty"},
		{"empty region", func(r *Record) { r.Region = "" }, "region must not be empty"},
		{"negative storage", func(r *Record) { r.StorageGB = -5 }, "storage_gb must be >= 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestFiltersMatch(t *testing.T) {
	r := Record{
		Provider:     ProviderAzure,
		Service:      "billing-db",
		Engine:       "postgres",
		Region:       "westeurope",
		Endpoint:     "billing-db.postgres.database.azure.com",
		Status:       StatusStopped,
		Subscription: "Finance-Prod",
		Tags:         []string{"env:prod", "team:payments"},
		Version:      "14.9",
	}

	tests := []struct {
		name string
		f    Filters
		want bool
	}{
		{"empty", Filters{}, true},
		{"provider", Filters{Provider: ProviderAzure}, true},
		{"other provider", Filters{Provider: ProviderAWS}, false},
		{"region case", Filters{Region: "WestEurope"}, true},
		{"region partial", Filters{Region: "west"}, false},
		{"engine contains", Filters{Engine: "POST"}, true},
		{"version contains", Filters{Version: "14"}, true},
		{"subscription contains", Filters{Subscription: "finance"}, true},
		{"status", Filters{Status: StatusAvailable}, false},
		{"search tag", Filters{Search: "payments"}, true},
		{"search endpoint", Filters{Search: "azure.com"}, true},
		{"search miss", Filters{Search: "mysql"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Match(r); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDuplicateKey(t *testing.T) {
	a := Record{Provider: ProviderAWS, Service: "orders", Region: "us-east-1"}
	b := Record{Provider: ProviderAWS, Service: "orders", Region: "eu-west-1"}

	if KeyService.Of(a) != KeyService.Of(b) {
		t.Errorf("service key should match across regions")
	}
	if KeyProviderServiceRegion.Of(a) == KeyProviderServiceRegion.Of(b) {
		t.Errorf("provider_service_region key should differ across regions")
	}

	k, err := ParseDuplicateKey("")
	if err != nil || k != KeyProviderServiceRegion {
		t.Errorf("ParseDuplicateKey(\"\") = %q, %v, want default", k, err)
	}
	if _, err := ParseDuplicateKey("endpoint"); err == nil {
		t.Errorf("ParseDuplicateKey(endpoint) should fail")
	}
}
