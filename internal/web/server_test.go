package web

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vare7/cloud-db-inventory/internal/config"
	"github.com/vare7/cloud-db-inventory/internal/core"
	"github.com/vare7/cloud-db-inventory/internal/core/coretest"
	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{RequestTimeout: 10 * time.Second},
		Import: config.ImportConfig{
			MaxFileSize:   1 << 20,
			MaxConcurrent: 2,
			MaxWaitTime:   time.Second,
			BatchSize:     500,
			Timeout:       time.Minute,
			DuplicateKey:  "provider_service_region",
		},
	}
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) (*Server, *coretest.MemStore) {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}
	store := coretest.NewMemStore()
	svc, err := core.NewService(store, cfg)
	require.NoError(t, err)
	return NewServer(svc, cfg), store
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func uploadRequest(t *testing.T, path string, fields map[string]string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if content != nil {
		fw, err := mw.CreateFormFile("file", "export.csv")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func csvLines(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestImport_Upload(t *testing.T) {
	srv, store := newTestServer(t)

	rec := serve(srv, uploadRequest(t, "/api/import", map[string]string{"provider": "aws"}, csvLines(
		"service,engine,region,version",
		"orders,postgres,us-east-1,15.4",
		"billing,mysql,eu-west-1,5.7.44",
		",mysql,eu-west-1,",
	)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[core.ImportResult](t, rec)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "Import completed: 2 created, 1 skipped, 0 duplicates", res.Message)
	assert.Len(t, store.Records(), 2)

	runs := decode[[]inventory.ImportRun](t, serve(srv, httptest.NewRequest(http.MethodGet, "/api/imports", nil)))
	require.Len(t, runs, 1)
	assert.Equal(t, "export.csv", runs[0].FileName)
	assert.Equal(t, "upload", runs[0].Source)
}

func TestImport_NoValidRecords(t *testing.T) {
	srv, store := newTestServer(t)

	rec := serve(srv, uploadRequest(t, "/api/import", map[string]string{"provider": "aws"}, csvLines(
		"engine,region",
		"postgres,us-east-1",
		"mysql,",
	)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		ErrorResponse
		Details noValidRecordsDetails `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VAL004", body.Code)
	assert.Contains(t, body.Detail, "No valid records found in CSV.")
	assert.Equal(t, map[string]int{"service": 2, "region": 1}, body.Details.MissingFieldCounts)
	assert.Equal(t, 2, body.Details.Rows)
	assert.Empty(t, store.Records())
}

func TestImport_Errors(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]string
		content  []byte
		wantCode int
		wantErr  string
	}{
		{"no file", map[string]string{"provider": "AWS"}, nil, http.StatusBadRequest, "FILE004"},
		{"bad provider", map[string]string{"provider": "gcp"}, csvLines("service,region", "a,b"), http.StatusBadRequest, "VAL006"},
		{"empty file", map[string]string{"provider": "AWS"}, []byte{}, http.StatusBadRequest, "FILE005"},
		{"too large", map[string]string{"provider": "AWS"}, bytes.Repeat([]byte("x"), 2048), http.StatusRequestEntityTooLarge, "FILE001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, func(c *config.Config) { c.Import.MaxFileSize = 1024 })
			rec := serve(srv, uploadRequest(t, "/api/import", tt.fields, tt.content))
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantErr, decode[ErrorResponse](t, rec).Code)
		})
	}
}

func TestRecords_CRUD(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := serve(srv, jsonRequest(t, http.MethodPost, "/api/records", map[string]any{
		"provider":   "AWS",
		"service":    "orders",
		"engine":     "postgres",
		"region":     "us-east-1",
		"storage_gb": 100,
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[inventory.Record](t, rec)
	assert.Equal(t, inventory.StatusAvailable, created.Status)
	assert.Equal(t, []string{}, created.Tags)

	path := "/api/records/" + created.ID.String()

	rec = serve(srv, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "orders", decode[inventory.Record](t, rec).Service)

	rec = serve(srv, jsonRequest(t, http.MethodPatch, path+"/status", map[string]string{"status": "Stopped"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, inventory.StatusStopped, decode[inventory.Record](t, rec).Status)

	rec = serve(srv, jsonRequest(t, http.MethodPatch, path+"/status", map[string]string{"status": "running"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(srv, httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(srv, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "REC001", decode[ErrorResponse](t, rec).Code)
}

func TestRecords_CreateValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := serve(srv, jsonRequest(t, http.MethodPost, "/api/records", map[string]any{
		"provider": "gcp", "service": "a", "region": "b",
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(srv, jsonRequest(t, http.MethodPost, "/api/records", map[string]any{
		"provider": "aws", "service": "a", "region": "", "storage_gb": -5,
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Detail, "storage_gb must be >= 0")

	rec = serve(srv, jsonRequest(t, http.MethodPost, "/api/records", map[string]any{
		"provider": "aws", "unknown_field": true,
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecords_InvalidID(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/records/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VAL005", decode[ErrorResponse](t, rec).Code)
}

func TestRecords_ListFiltersAndNames(t *testing.T) {
	srv, store := newTestServer(t)
	store.Seed(
		inventory.Record{Provider: inventory.ProviderAWS, Service: "orders", Region: "us-east-1", Engine: "postgres", Status: inventory.StatusAvailable},
		inventory.Record{Provider: inventory.ProviderAzure, Service: "crm", Region: "eastus", Engine: "mssql", Status: inventory.StatusStopped,
			AzureTenant: "7df9d676-4a3e-4ff3-a54f-f30c0543fe4c"},
	)
	require.NoError(t, srv.service.SeedDefaultTenants(context.Background()))

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/records?provider=Azure", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	views := decode[[]core.RecordView](t, rec)
	require.Len(t, views, 1)
	assert.Equal(t, "crm", views[0].Service)
	assert.Equal(t, "TDH-Commercial", views[0].TenantName)

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/api/records?status=available&engine=POST", nil))
	views = decode[[]core.RecordView](t, rec)
	require.Len(t, views, 1)
	assert.Equal(t, "orders", views[0].Service)

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/api/records?provider=gcp", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReports(t *testing.T) {
	srv, store := newTestServer(t)
	store.Seed(
		inventory.Record{Provider: inventory.ProviderAWS, Service: "orders", Region: "us-east-1", Engine: "postgres", Version: "11.22", Status: inventory.StatusAvailable, StorageGB: 20},
		inventory.Record{Provider: inventory.ProviderAWS, Service: "orders", Region: "us-east-1", Engine: "postgres", Version: "15.4", Status: inventory.StatusAvailable, StorageGB: 30},
	)

	stats := decode[core.Stats](t, serve(srv, httptest.NewRequest(http.MethodGet, "/api/stats", nil)))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 50, stats.StorageGBTotal)

	up := decode[core.Upgrades](t, serve(srv, httptest.NewRequest(http.MethodGet, "/api/upgrades", nil)))
	assert.Equal(t, 1, up.Total)

	dups := decode[core.DuplicateReport](t, serve(srv, httptest.NewRequest(http.MethodGet, "/api/duplicates", nil)))
	assert.Equal(t, 1, dups.GroupsCount)

	rec := serve(srv, httptest.NewRequest(http.MethodPost, "/api/duplicates/resolve", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[core.ResolveResult](t, rec)
	assert.Equal(t, 1, res.DeletedCount)
	require.Len(t, store.Records(), 1)
	assert.Equal(t, "15.4", store.Records()[0].Version)

	opts := decode[core.FilterOptions](t, serve(srv, httptest.NewRequest(http.MethodGet, "/api/filter-options", nil)))
	assert.Equal(t, []string{"us-east-1"}, opts.Regions)

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExportCSV(t *testing.T) {
	srv, store := newTestServer(t)
	store.Seed(inventory.Record{Provider: inventory.ProviderAWS, Service: "orders", Region: "us-east-1", Status: inventory.StatusAvailable})

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/export.csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "database-inventory.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Provider,Service,Engine"))
	assert.True(t, strings.HasPrefix(lines[1], "AWS,orders,"))
}

func TestExportXLSX(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/export.xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, exportContentTypes["xlsx"], rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestTenants(t *testing.T) {
	srv, _ := newTestServer(t)
	id := "c162a585-4fef-44bd-9271-d96409d0a349"

	rec := serve(srv, jsonRequest(t, http.MethodPut, "/api/tenants/"+id, map[string]string{"friendly_name": "Corp"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	tenants := decode[[]inventory.Tenant](t, serve(srv, httptest.NewRequest(http.MethodGet, "/api/tenants", nil)))
	names := map[string]string{}
	for _, tn := range tenants {
		names[tn.TenantID] = tn.FriendlyName
	}
	assert.Equal(t, "Corp", names[id])

	rec = serve(srv, jsonRequest(t, http.MethodPut, "/api/tenants/"+id, map[string]string{"friendly_name": ""}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccountsImport(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := serve(srv, uploadRequest(t, "/api/accounts/import", nil, csvLines(
		"AccountID,Account Alias(Friendly Name),BusinessUnit,Owner,Account Type(Data Type),Account Type(Function),Comments",
		"123456789012,payments-prod,Payments,alice,PCI,Production,",
	)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decode[core.AccountImportResult](t, rec).Imported)

	accounts := decode[[]inventory.Account](t, serve(srv, httptest.NewRequest(http.MethodGet, "/api/accounts", nil)))
	require.Len(t, accounts, 1)
	assert.Equal(t, "payments-prod", accounts[0].AccountName)
}

func TestImportStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	st := decode[core.ImportLimiterStatus](t, serve(srv, httptest.NewRequest(http.MethodGet, "/api/imports/status", nil)))
	assert.Equal(t, 2, st.MaxConcurrent)
	assert.Equal(t, 2, st.Available)
}

func TestAPIKeyRequired(t *testing.T) {
	srv, _ := newTestServer(t, func(c *config.Config) {
		c.Security.RequireAPIKey = true
		c.Security.APIKeys = []string{"secret"}
	})

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("X-API-Key", "secret")
	assert.Equal(t, http.StatusOK, serve(srv, req).Code)

	// health stays open for load balancers
	assert.Equal(t, http.StatusOK, serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
}

func TestHTMXErrorPartial(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/records/not-a-uuid", nil)
	req.Header.Set("HX-Request", "true")
	rec := serve(srv, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `role="alert"`)
	assert.Contains(t, rec.Body.String(), "VAL005")
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2)

	assert.True(t, rl.allow("192.0.2.1"))
	assert.True(t, rl.allow("192.0.2.1"))
	assert.False(t, rl.allow("192.0.2.1"))
	assert.True(t, rl.allow("192.0.2.2"))
}

func TestRateLimitedImportRoute(t *testing.T) {
	srv, _ := newTestServer(t, func(c *config.Config) {
		c.Rate.Enabled = true
		c.Rate.RequestsPerMinute = 100
		c.Rate.ImportLimit = 1
	})

	first := serve(srv, uploadRequest(t, "/api/import", map[string]string{"provider": "AWS"}, nil))
	assert.Equal(t, http.StatusBadRequest, first.Code)

	second := serve(srv, uploadRequest(t, "/api/import", map[string]string{"provider": "AWS"}, nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "RATE001", decode[ErrorResponse](t, second).Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrTooManyImports, http.StatusServiceUnavailable},
		{inventory.ErrInvalidStatus, http.StatusBadRequest},
		{errNoFile, http.StatusBadRequest},
		{errInvalidRecord, http.StatusBadRequest},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, errorStatus(tt.err), tt.err.Error())
	}
}
