package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vare7/cloud-db-inventory/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyAuth(t *testing.T) {
	cfg := &config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"alpha", "bravo"}}
	h := APIKeyAuth(cfg)(okHandler())

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"invalid", "X-API-Key", "charlie", http.StatusForbidden},
		{"valid header", "X-API-Key", "bravo", http.StatusOK},
		{"valid bearer", "Authorization", "Bearer alpha", http.StatusOK},
		{"non-bearer authorization", "Authorization", "Basic YWxwaGE=", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want != http.StatusOK {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				assert.Contains(t, rec.Body.String(), `"code":"AUTH_`)
			}
		})
	}
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	h := APIKeyAuth(&config.SecurityConfig{})(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/records", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyAuth_NoKeysConfigured(t *testing.T) {
	h := APIKeyAuth(&config.SecurityConfig{RequireAPIKey: true})(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	req.Header.Set("X-API-Key", "anything")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{
			name:    "untrusted peer keeps remote addr",
			trusted: []string{"10.0.0.0/8"},
			remote:  "203.0.113.7:5000",
			headers: map[string]string{"X-Real-IP": "198.51.100.1"},
			want:    "203.0.113.7:5000",
		},
		{
			name:    "trusted proxy with X-Real-IP",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:5000",
			headers: map[string]string{"X-Real-IP": "198.51.100.1"},
			want:    "198.51.100.1",
		},
		{
			name:    "trusted single address with X-Forwarded-For",
			trusted: []string{"127.0.0.1"},
			remote:  "127.0.0.1:5000",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.9, 10.0.0.1"},
			want:    "198.51.100.9",
		},
		{
			name:    "invalid header value is ignored",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:5000",
			headers: map[string]string{"X-Real-IP": "not-an-ip"},
			want:    "10.1.2.3:5000",
		},
		{
			name:    "invalid cidr is skipped",
			trusted: []string{"bogus", " "},
			remote:  "10.1.2.3:5000",
			headers: map[string]string{"X-Real-IP": "198.51.100.1"},
			want:    "10.1.2.3:5000",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResponseWriterCountsBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := &responseWriter{ResponseWriter: rec, status: http.StatusOK}

	_, _ = ww.Write([]byte("hello"))
	_, _ = ww.Write([]byte(" world"))
	ww.WriteHeader(http.StatusTeapot)

	assert.Equal(t, http.StatusOK, ww.status)
	assert.Equal(t, 11, ww.bytes)
	assert.Same(t, rec, ww.Unwrap())
}
