package web

import (
	"net/http"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Ping(r.Context()); err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := s.service.Metrics(r.Context())
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleUpgrades(w http.ResponseWriter, r *http.Request) {
	up, err := s.service.Upgrades(r.Context())
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, up)
}

func (s *Server) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	rep, err := s.service.Duplicates(r.Context())
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleResolveDuplicates keeps the latest version in each duplicate
// group and deletes the rest.
func (s *Server) handleResolveDuplicates(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.ResolveDuplicates(r.Context())
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.service.FilterOptions(r.Context())
	if err != nil {
		s.respondError(w, r, err, errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, opts)
}
