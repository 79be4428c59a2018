package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/filinglens/filinglens/internal/edgar"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// HealthResponse is the healthz payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// VersionResponse is the version payload.
type VersionResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   s.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		Name:      "filinglens",
		Version:   s.version,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	})
}

func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	env, err := s.edgar.Profile(r.Context(), ticker)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleFilings(w http.ResponseWriter, r *http.Request) {
	cik := chi.URLParam(r, "cik")

	query := edgar.FilingQuery{}
	if forms := strings.TrimSpace(r.URL.Query().Get("forms")); forms != "" {
		query.Forms = strings.Split(forms, ",")
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(w, r, http.StatusBadRequest, "INVALID_INPUT", "limit must be a positive integer")
			return
		}
		query.Limit = limit
	}

	env, err := s.edgar.RecentFilings(r.Context(), cik, query)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleFacts(w http.ResponseWriter, r *http.Request) {
	cik := chi.URLParam(r, "cik")

	env, err := s.edgar.CompanyFacts(r.Context(), cik)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleConcept(w http.ResponseWriter, r *http.Request) {
	cik := chi.URLParam(r, "cik")
	taxonomy := chi.URLParam(r, "taxonomy")
	tag := chi.URLParam(r, "tag")

	env, err := s.edgar.CompanyConcept(r.Context(), cik, taxonomy, tag)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleCompanyFeed(w http.ResponseWriter, r *http.Request) {
	cik := chi.URLParam(r, "cik")

	env, err := s.edgar.FetchFeed(r.Context(), s.edgar.CompanyFeedURL(cik))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}
