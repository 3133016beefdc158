package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with its technical detail and request ID, then
// returned as a mapped core.UserMessage. API clients get JSON; HTMX
// requests get an alert fragment they can swap into the page.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/vare7/cloud-db-inventory/internal/core"
	"github.com/vare7/cloud-db-inventory/internal/database"
	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

var (
	errRateLimited   = errors.New("rate limit exceeded")
	errNoFile        = errors.New("no file provided")
	errInvalidRecord = errors.New("invalid record id")
)

// ErrorResponse represents the JSON structure for API error responses.
// Detail carries the underlying message for client errors only.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Detail  string `json:"detail,omitempty"`
	Details any    `json:"details,omitempty"`
}

// noValidRecordsDetails is the machine-readable part of a rejected import.
type noValidRecordsDetails struct {
	Provider           inventory.Provider    `json:"provider"`
	Rows               int                   `json:"rows"`
	MissingFieldCounts map[string]int        `json:"missing_field_counts,omitempty"`
	Skipped            []inventory.SkipEntry `json:"skipped"`
}

// errorStatus picks the HTTP status for an error returned by the service.
func errorStatus(err error) int {
	var nvr *core.NoValidRecordsError
	switch {
	case errors.As(err, &nvr):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.Is(err, inventory.ErrInvalidProvider), errors.Is(err, inventory.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "file too large"):
		return http.StatusRequestEntityTooLarge
	case strings.Contains(msg, "validation error"),
		strings.Contains(msg, "empty file"),
		strings.Contains(msg, "invalid csv"),
		strings.Contains(msg, "no file provided"),
		strings.Contains(msg, "invalid record id"):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError logs the technical error server-side and returns a
// user-friendly response in the format the client asked for.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)
	requestID := middleware.GetReqID(r.Context())

	level := slog.LevelWarn
	if statusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", requestID,
	)

	if statusCode == http.StatusServiceUnavailable && errors.Is(err, core.ErrTooManyImports) {
		w.Header().Set("Retry-After", "30")
	}

	if isHTMX(r) {
		renderErrorPartial(r.Context(), w, userMsg, statusCode)
		return
	}

	resp := errorResponse(userMsg)
	if statusCode < http.StatusInternalServerError {
		resp.Detail = err.Error()
	}
	var nvr *core.NoValidRecordsError
	if errors.As(err, &nvr) {
		resp.Details = noValidRecordsDetails{
			Provider:           nvr.Provider,
			Rows:               nvr.Rows,
			MissingFieldCounts: nvr.MissingCounts,
			Skipped:            nvr.Skipped,
		}
	}
	writeJSON(w, statusCode, resp)
}

func errorResponse(msg core.UserMessage) ErrorResponse {
	return ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}
}

// respondErrorJSON writes a JSON error response without logging.
// detail is included when non-empty.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int, detail string) {
	resp := errorResponse(msg)
	resp.Detail = detail
	writeJSON(w, statusCode, resp)
}

func renderErrorPartial(ctx context.Context, w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	renderPartial(ctx, w, statusCode, errorAlert(msg))
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("validation error: invalid request body: %w", err)
	}
	return nil
}
