package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/filinglens/filinglens/internal/secgov"
	"github.com/filinglens/filinglens/internal/server/middleware"
)

// ErrorResponse is the JSON envelope for all error responses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a single error.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	response := ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			RequestID: middleware.GetRequestID(r.Context()),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

// handleError maps internal errors to HTTP responses. Upstream SEC
// failures surface as 502 so callers can distinguish them from bugs.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *secgov.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.StatusCode == http.StatusNotFound {
			writeError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		writeError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error())
		return
	}

	writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}
