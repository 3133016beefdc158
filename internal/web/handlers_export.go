package web

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
)

var exportContentTypes = map[string]string{
	"csv":  "text/csv; charset=utf-8",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// handleExport streams the filtered inventory as a download. The file is
// built in memory first so a failure can still produce an error status.
func (s *Server) handleExport(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseFilters(r)
		if err != nil {
			s.respondError(w, r, err, http.StatusBadRequest)
			return
		}

		var buf bytes.Buffer
		if err := s.service.Export(r.Context(), &buf, format, f); err != nil {
			s.respondError(w, r, err, errorStatus(err))
			return
		}

		w.Header().Set("Content-Type", exportContentTypes[format])
		w.Header().Set("Content-Disposition", `attachment; filename="database-inventory.`+format+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			slog.Warn("export write failed", "format", format, "error", err)
		}
	}
}
