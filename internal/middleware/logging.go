package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"objdetect/internal/logger"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// Hijack lets websocket upgrades pass through the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// LoggingMiddleware logs one line per request. Server errors go to the
// error log, client errors to the warning log.
func LoggingMiddleware(logger *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start).Round(time.Millisecond)
		switch {
		case status >= 500:
			logger.Error("%s %s -> %d (%d bytes, %s)", r.Method, r.URL.Path, status, rec.bytes, elapsed)
		case status >= 400:
			logger.Warning("%s %s -> %d (%d bytes, %s)", r.Method, r.URL.Path, status, rec.bytes, elapsed)
		default:
			logger.Info("%s %s -> %d (%d bytes, %s)", r.Method, r.URL.Path, status, rec.bytes, elapsed)
		}
	})
}
