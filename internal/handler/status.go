package handler

import (
	"net/http"

	"objdetect/internal/dto"
)

// TestHandler is the liveness check used by the mobile client.
func TestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		respondJSON(w, dto.StatusResponse{Status: "ok", Message: "Server is running"}, http.StatusOK)
	}
}

// RootHandler lists the API on "/" and 404s every other unmatched path.
func RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			respondError(w, "Not Found", http.StatusNotFound)
			return
		}
		respondJSON(w, dto.RootResponse{
			Message: "Object Detection API",
			Endpoints: map[string]string{
				"/detect/": "POST - Upload an image for object detection",
				"/test/":   "GET - Test if server is running",
				"/ws":      "WebSocket - Live detection results",
			},
		}, http.StatusOK)
	}
}
