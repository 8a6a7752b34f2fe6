package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"objdetect/internal/dto"
	"objdetect/internal/logger"
)

// RecoverMiddleware turns a panic in a handler into a logged 500 with the
// usual {"detail": ...} body.
func RecoverMiddleware(logger *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.Error("Panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())

			w.Header().Del("X-Detected-Objects")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Detail: "Internal server error"})
		}()
		next.ServeHTTP(w, r)
	})
}
