package route

import (
	"net/http"

	"objdetect/internal/config"
	"objdetect/internal/handler"
	"objdetect/internal/logger"
	"objdetect/internal/middleware"
	wshub "objdetect/internal/service/websocket"
)

// SetupRoutes registers the API endpoints and wraps the mux with CORS,
// request logging and panic recovery.
func SetupRoutes(detector handler.ImageDetector, hub *wshub.HubService, cfg *config.Config, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Detection API. The mobile client posts to the slash form.
	detect := handler.DetectHandler(detector, cfg, logger)
	mux.HandleFunc("/detect/", detect)
	mux.HandleFunc("/detect", detect)

	status := handler.TestHandler()
	mux.HandleFunc("/test/", status)
	mux.HandleFunc("/test", status)

	// Live results
	mux.HandleFunc("/ws", handler.ResultsWebsocketHandler(hub, logger))

	// Log endpoints
	mux.HandleFunc("/logs/info", handler.ShowLogsHandler(logger, "info.log"))
	mux.HandleFunc("/logs/warning", handler.ShowLogsHandler(logger, "warning.log"))
	mux.HandleFunc("/logs/error", handler.ShowLogsHandler(logger, "error.log"))

	mux.HandleFunc("/logs/info/clear", handler.ClearLogsHandler(logger, "info.log"))
	mux.HandleFunc("/logs/warning/clear", handler.ClearLogsHandler(logger, "warning.log"))
	mux.HandleFunc("/logs/error/clear", handler.ClearLogsHandler(logger, "error.log"))

	mux.HandleFunc("/", handler.RootHandler())

	return middleware.CORSMiddleware(cfg.AllowedOrigins,
		middleware.LoggingMiddleware(logger, middleware.RecoverMiddleware(logger, mux)))
}
