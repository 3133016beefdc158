package web

import (
	"net/http"

	"github.com/vare7/cloud-db-inventory/internal/core"
)

// handleImport accepts a multipart upload with fields file, provider,
// purge and sync, and runs it through the import pipeline.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	content, name, err := readUpload(w, r, s.service.MaxFileSize())
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}

	provider := r.FormValue("provider")
	if provider == "" {
		provider = "AWS"
	}

	res, err := s.service.ImportCSV(r.Context(), core.ImportRequest{
		Provider: provider,
		FileName: name,
		Source:   "upload",
		Content:  content,
		Purge:    formBool(r, "purge"),
		Sync:     formBool(r, "sync"),
	})
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	if isHTMX(r) {
		counts := []summaryCount{
			{"Created", int64(res.Created)},
			{"Skipped", int64(res.Skipped)},
			{"Duplicates", int64(res.Duplicates)},
			{"Deleted", int64(res.Deleted)},
		}
		if res.Purged > 0 {
			counts = append(counts, summaryCount{"Purged", res.Purged})
		}
		renderPartial(r.Context(), w, http.StatusOK, importSummary(res.Message, counts, res.SkippedDetails))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleListImports returns recent import runs; ?limit= caps the count.
func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	runs, err := s.service.ListImportRuns(r.Context(), parseIntParam(r, "limit", 50))
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ImportLimiterStatus())
}
