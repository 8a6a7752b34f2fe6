package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"
)

type Config struct {
	Port int

	// Detection backend
	DetectorBackend string // "gocv" or "zmq"
	ModelPath       string
	ModelConfigPath string // optional, for SSD/Caffe style networks
	ClassNamesPath  string // one label per line; COCO-80 when empty
	ModelInputSize  int
	NMSThreshold    float64
	NMSScoreFloor   float64
	ZMQEndpoint     string
	ZMQTimeoutMs    int // 0 waits forever

	// Aggregation and drawing
	ConfidenceThreshold float64
	BoxColor            string
	TextColor           string
	StrokeWidth         int
	JPEGQuality         int

	MaxUploadMB int

	// Speech
	TTSEnabled   bool
	TTSCommand   string
	TTSRate      int
	TTSQueueSize int

	LogDirectory   string
	AllowedOrigins string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	// .env is optional
	_ = godotenv.Load()

	return &Config{
		Port:                getEnvAsInt("PORT", 8000),
		DetectorBackend:     strings.ToLower(getEnv("DETECTOR_BACKEND", "gocv")),
		ModelPath:           getEnv("MODEL_PATH", filepath.Join(".", "models", "yolov8n.onnx")),
		ModelConfigPath:     getEnv("MODEL_CONFIG_PATH", ""),
		ClassNamesPath:      getEnv("CLASS_NAMES_PATH", ""),
		ModelInputSize:      getEnvAsInt("MODEL_INPUT_SIZE", 640),
		NMSThreshold:        getEnvAsFloat("NMS_THRESHOLD", 0.45),
		NMSScoreFloor:       getEnvAsFloat("NMS_SCORE_FLOOR", 0.05),
		ZMQEndpoint:         getEnv("ZMQ_ENDPOINT", "tcp://localhost:5555"),
		ZMQTimeoutMs:        getEnvAsInt("ZMQ_TIMEOUT_MS", 0),
		ConfidenceThreshold: getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.2),
		BoxColor:            getEnv("BOX_COLOR", "#00ff00"),
		TextColor:           getEnv("TEXT_COLOR", "#000000"),
		StrokeWidth:         getEnvAsInt("STROKE_WIDTH", 2),
		JPEGQuality:         getEnvAsInt("JPEG_QUALITY", 95),
		MaxUploadMB:         getEnvAsInt("MAX_UPLOAD_MB", 50),
		TTSEnabled:          getEnvAsBool("TTS_ENABLED", true),
		TTSCommand:          getEnv("TTS_COMMAND", "espeak"),
		TTSRate:             getEnvAsInt("TTS_RATE", 150),
		TTSQueueSize:        getEnvAsInt("TTS_QUEUE_SIZE", 16),
		LogDirectory:        getEnv("LOG_DIR", filepath.Join(".", "logs")),
		AllowedOrigins:      getEnv("ALLOWED_ORIGINS", "*"),
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("CONFIDENCE_THRESHOLD must be within [0,1], got %v", c.ConfidenceThreshold)
	}
	if c.StrokeWidth < 1 {
		return fmt.Errorf("STROKE_WIDTH must be positive, got %d", c.StrokeWidth)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be within [1,100], got %d", c.JPEGQuality)
	}
	if c.ModelInputSize <= 0 {
		return fmt.Errorf("MODEL_INPUT_SIZE must be positive, got %d", c.ModelInputSize)
	}
	switch c.DetectorBackend {
	case "gocv", "zmq":
	default:
		return fmt.Errorf("unknown DETECTOR_BACKEND %q", c.DetectorBackend)
	}
	if _, err := ParseColor(c.BoxColor); err != nil {
		return fmt.Errorf("BOX_COLOR: %w", err)
	}
	if _, err := ParseColor(c.TextColor); err != nil {
		return fmt.Errorf("TEXT_COLOR: %w", err)
	}
	return nil
}

// MaxUploadBytes returns the multipart size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// ParseColor parses "#rrggbb" into an opaque colour.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
