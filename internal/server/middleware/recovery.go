package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// Recovery returns middleware that recovers from panics, logs the
// stack, and writes a JSON error envelope.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rec),
						zap.String("path", r.URL.Path),
						zap.String("request_id", GetRequestID(r.Context())),
						zap.ByteString("stack", debug.Stack()),
					)
					writePanicResponse(w, r, rec)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// writePanicResponse duplicates the server package's error envelope to
// avoid an import cycle.
func writePanicResponse(w http.ResponseWriter, r *http.Request, rec any) {
	body := map[string]any{
		"error": map[string]any{
			"code":       "INTERNAL_ERROR",
			"message":    fmt.Sprintf("panic: %v", rec),
			"request_id": GetRequestID(r.Context()),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(body)
}
