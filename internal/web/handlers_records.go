package web

import (
	"net/http"
	"strings"

	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

// recordInput is the body of POST /api/records.
type recordInput struct {
	Provider     string   `json:"provider"`
	Service      string   `json:"service"`
	Engine       string   `json:"engine"`
	Region       string   `json:"region"`
	Endpoint     string   `json:"endpoint"`
	StorageGB    int      `json:"storage_gb"`
	Status       string   `json:"status"`
	Subscription string   `json:"subscription"`
	Tags         []string `json:"tags"`
	Version      string   `json:"version"`
	AzureTenant  string   `json:"azure_tenant"`

	inventory.Details
}

func (in recordInput) record() (inventory.Record, error) {
	p, err := inventory.ParseProvider(in.Provider)
	if err != nil {
		return inventory.Record{}, err
	}
	rec := inventory.Record{
		Provider:     p,
		Service:      strings.TrimSpace(in.Service),
		Engine:       strings.TrimSpace(in.Engine),
		Region:       strings.TrimSpace(in.Region),
		Endpoint:     strings.TrimSpace(in.Endpoint),
		StorageGB:    in.StorageGB,
		Subscription: strings.TrimSpace(in.Subscription),
		Tags:         in.Tags,
		Version:      strings.TrimSpace(in.Version),
		AzureTenant:  strings.TrimSpace(in.AzureTenant),
		Details:      in.Details,
	}
	if in.Status != "" {
		st, err := inventory.ParseStatus(in.Status)
		if err != nil {
			return inventory.Record{}, err
		}
		rec.Status = st
	}
	return rec, nil
}

// handleListRecords returns the filtered records with display names resolved.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	views, err := s.service.ListRecordViews(r.Context(), f)
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	rec, err := s.service.GetRecord(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var in recordInput
	if err := decodeJSON(r, &in); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	rec, err := in.record()
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	created, err := s.service.CreateRecord(r.Context(), rec)
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	rec, err := s.service.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.service.DeleteRecord(r.Context(), id); err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
