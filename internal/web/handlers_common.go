package web

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

// multipartOverhead allows for form fields and boundaries around the file.
const multipartOverhead = 1 << 20

// parseFilters reads record filters from the query string.
func parseFilters(r *http.Request) (inventory.Filters, error) {
	q := r.URL.Query()
	f := inventory.Filters{
		Region:       strings.TrimSpace(q.Get("region")),
		Engine:       strings.TrimSpace(q.Get("engine")),
		Version:      strings.TrimSpace(q.Get("version")),
		Subscription: strings.TrimSpace(q.Get("subscription")),
		Search:       strings.TrimSpace(q.Get("search")),
	}
	if v := strings.TrimSpace(q.Get("provider")); v != "" {
		p, err := inventory.ParseProvider(v)
		if err != nil {
			return inventory.Filters{}, err
		}
		f.Provider = p
	}
	if v := strings.TrimSpace(q.Get("status")); v != "" {
		st, err := inventory.ParseStatus(v)
		if err != nil {
			return inventory.Filters{}, err
		}
		f.Status = st
	}
	return f, nil
}

// parseID reads the {id} path parameter.
func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errInvalidRecord
	}
	return id, nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// formBool accepts the values HTML checkboxes and API clients send.
func formBool(r *http.Request, name string) bool {
	switch strings.ToLower(strings.TrimSpace(r.FormValue(name))) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// readUpload reads the "file" part of a multipart form, enforcing maxSize.
func readUpload(w http.ResponseWriter, r *http.Request, maxSize int64) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", errors.New("file too large: request body exceeds the upload limit")
		}
		return nil, "", errNoFile
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", errNoFile
	}
	defer file.Close()

	if header.Size > maxSize {
		return nil, "", errors.New("file too large: upload exceeds the configured limit")
	}
	content, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, "", err
	}
	return content, header.Filename, nil
}

// clientIP returns the request's client address without the port.
// TrustedRealIP has already replaced RemoteAddr when a proxy is trusted.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
