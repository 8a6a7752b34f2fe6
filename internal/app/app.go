package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"objdetect/internal/config"
	"objdetect/internal/logger"
	"objdetect/internal/route"
	"objdetect/internal/service"
	"objdetect/internal/service/ai"
	"objdetect/internal/service/speech"
	"objdetect/internal/service/vision"
	"objdetect/internal/service/websocket"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config    *config.Config
	logger    *logger.Logger
	detector  *ai.DetectorService
	announcer *speech.Announcer
	hub       *websocket.HubService
	pipeline  *service.Pipeline
}

// NewApp loads configuration and builds every service. A model that fails
// to load leaves the server up with detection requests answered by 500s.
func NewApp() (*App, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.NewLogger(cfg.LogDirectory)
	if err != nil {
		return nil, err
	}

	style, err := buildStyle(cfg)
	if err != nil {
		log.Close()
		return nil, err
	}

	labels := ai.COCOLabels()
	if cfg.ClassNamesPath != "" {
		if labels, err = ai.LoadLabels(cfg.ClassNamesPath); err != nil {
			log.Close()
			return nil, err
		}
	}

	detector := ai.NewDetectorService(newBackend(cfg, labels, log), log)

	var engine speech.Engine
	if cfg.TTSEnabled {
		if e, err := speech.NewCommandEngine(cfg.TTSCommand, cfg.TTSRate); err != nil {
			log.Warning("Could not initialize speech engine: %v", err)
		} else {
			engine = e
		}
	}
	announcer := speech.NewAnnouncer(engine, cfg.TTSQueueSize, log)
	if announcer.Available() {
		log.Info("Speech announcements ready (%s)", cfg.TTSCommand)
	}

	hub := websocket.NewHubService(log)

	pipeline := service.NewPipeline(detector, announcer, hub, service.PipelineOptions{
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		Style:               style,
		JPEGQuality:         cfg.JPEGQuality,
	}, log)

	return &App{
		config:    cfg,
		logger:    log,
		detector:  detector,
		announcer: announcer,
		hub:       hub,
		pipeline:  pipeline,
	}, nil
}

func newBackend(cfg *config.Config, labels ai.Labels, log *logger.Logger) ai.Backend {
	switch cfg.DetectorBackend {
	case "zmq":
		timeout := time.Duration(cfg.ZMQTimeoutMs) * time.Millisecond
		backend, err := ai.NewZMQBackend(cfg.ZMQEndpoint, timeout, labels, log)
		if err != nil {
			log.Warning("Could not connect detection backend: %v", err)
			return &ai.Unavailable{Backend: "zmq", Err: err}
		}
		return backend
	default:
		backend, err := ai.NewGoCVBackend(ai.GoCVOptions{
			ModelPath:    cfg.ModelPath,
			ConfigPath:   cfg.ModelConfigPath,
			InputSize:    cfg.ModelInputSize,
			NMSThreshold: float32(cfg.NMSThreshold),
			ScoreFloor:   float32(cfg.NMSScoreFloor),
		}, labels, log)
		if err != nil {
			log.Warning("Could not initialize detection network: %v", err)
			return &ai.Unavailable{Backend: "gocv", Err: err}
		}
		return backend
	}
}

func buildStyle(cfg *config.Config) (vision.Style, error) {
	box, err := config.ParseColor(cfg.BoxColor)
	if err != nil {
		return vision.Style{}, fmt.Errorf("BOX_COLOR: %w", err)
	}
	text, err := config.ParseColor(cfg.TextColor)
	if err != nil {
		return vision.Style{}, fmt.Errorf("TEXT_COLOR: %w", err)
	}
	return vision.Style{BoxColor: box, TextColor: text, StrokeWidth: cfg.StrokeWidth}, nil
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down the server,
// drains pending announcements, stops the hub and releases the model.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go a.hub.Run(ctx)

	router := route.SetupRoutes(a.pipeline, a.hub, a.config, a.logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	a.logger.Info("Object Detection API listening on http://localhost:%d", a.config.Port)
	a.logger.Info("Detector backend: %s, confidence threshold %.2f", a.config.DetectorBackend, a.config.ConfidenceThreshold)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		a.logger.Info("Shutdown signal received")
	case serveErr = <-errCh:
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP shutdown error: %v", err)
	}

	a.announcer.Close()
	if err := a.detector.Close(); err != nil {
		a.logger.Error("Failed to release detection backend: %v", err)
	}
	a.logger.Info("Server stopped")
	_ = a.logger.Close()

	return serveErr
}
