package web

import (
	"net/http"
	"strings"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

// parseVMFilters reads Azure VM filters from the query string.
func parseVMFilters(r *http.Request) inventory.VMFilters {
	q := r.URL.Query()
	return inventory.VMFilters{
		Region:       strings.TrimSpace(q.Get("region")),
		Subscription: strings.TrimSpace(q.Get("subscription")),
		TenantID:     strings.TrimSpace(q.Get("tenant_id")),
		Status:       strings.TrimSpace(q.Get("status")),
		Search:       strings.TrimSpace(q.Get("search")),
	}
}

func (s *Server) handleListAzureVMs(w http.ResponseWriter, r *http.Request) {
	vms, err := s.service.ListAzureVMs(r.Context(), parseVMFilters(r))
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, vms)
}

func (s *Server) handleGetAzureVM(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	vm, err := s.service.GetAzureVM(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, vm)
}

func (s *Server) handleDeleteAzureVM(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.service.DeleteAzureVM(r.Context(), id); err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePurgeAzureVMs empties the VM inventory.
func (s *Server) handlePurgeAzureVMs(w http.ResponseWriter, r *http.Request) {
	n, err := s.service.PurgeAzureVMs(r.Context())
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

func (s *Server) handleAzureVMFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.service.AzureVMFilterOptions(r.Context())
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// handleImportAzureVMs loads a VM export from the "file" part. The upload
// replaces the stored VMs unless the form sends purge=false.
func (s *Server) handleImportAzureVMs(w http.ResponseWriter, r *http.Request) {
	content, _, err := readUpload(w, r, s.service.MaxFileSize())
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	purge := r.FormValue("purge") == "" || formBool(r, "purge")

	res, err := s.service.ImportAzureVMs(r.Context(), content, purge)
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	if isHTMX(r) {
		renderPartial(r.Context(), w, http.StatusOK, importSummary(res.Message, []summaryCount{
			{"Imported", int64(res.Imported)},
			{"Skipped", int64(res.Skipped)},
			{"Purged", res.Purged},
		}, res.Details))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
