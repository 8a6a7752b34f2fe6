package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"objdetect/internal/logger"
	wshub "objdetect/internal/service/websocket"
)

// Upgrader upgrades HTTP connections to WebSocket; CheckOrigin allows all origins.
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ResultsWebsocketHandler registers viewers with the hub so they receive a
// JSON event after every successful detection.
func ResultsWebsocketHandler(hub *wshub.HubService, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}

		logger.Info("Viewer connected from %s", r.RemoteAddr)
		hub.Serve(connection)
	}
}
