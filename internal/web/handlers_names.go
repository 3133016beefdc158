package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := s.service.ListTenants(r.Context())
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, tenants)
}

// handleRenameTenant sets a tenant's friendly name from {"friendly_name": "..."}.
func (s *Server) handleRenameTenant(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FriendlyName string `json:"friendly_name"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.service.RenameTenant(r.Context(), id, body.FriendlyName); err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"tenant_id": id, "friendly_name": body.FriendlyName})
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.service.ListAccounts(r.Context())
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

// handleImportAccounts upserts the AWS account sheet from the "file" part.
func (s *Server) handleImportAccounts(w http.ResponseWriter, r *http.Request) {
	content, _, err := readUpload(w, r, s.service.MaxFileSize())
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	res, err := s.service.ImportAccounts(r.Context(), content)
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	if isHTMX(r) {
		renderPartial(r.Context(), w, http.StatusOK, importSummary(res.Message, []summaryCount{
			{"Imported", int64(res.Imported)},
			{"Skipped", int64(len(res.Skipped))},
		}, res.Skipped))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
