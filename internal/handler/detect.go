package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"objdetect/internal/config"
	"objdetect/internal/dto"
	"objdetect/internal/logger"
	"objdetect/internal/model"
)

// CountsHeader carries the per-class counts of a detection response.
const CountsHeader = "X-Detected-Objects"

const multipartMemory = 32 << 20

// ImageDetector runs the detection pipeline on uploaded bytes.
type ImageDetector interface {
	Detect(ctx context.Context, imageBytes []byte, speak bool) (*dto.DetectionResult, error)
}

// DetectHandler accepts a multipart upload (field "file", optional "tts")
// and replies with the annotated JPEG.
func DetectHandler(detector ImageDetector, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes())
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondError(w, "Uploaded file is too large", http.StatusRequestEntityTooLarge)
				return
			}
			respondError(w, "Invalid multipart form", http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		speak := false
		if raw := r.FormValue("tts"); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				respondError(w, "Invalid tts value: "+raw, http.StatusBadRequest)
				return
			}
			speak = v
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			respondError(w, "No file uploaded", http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			logger.Error("Failed to read upload %s: %v", header.Filename, err)
			respondError(w, "Failed to read uploaded file", http.StatusBadRequest)
			return
		}
		logger.Info("Received %s (%d bytes, tts=%t)", header.Filename, len(data), speak)

		result, err := detector.Detect(r.Context(), data, speak)
		if err != nil {
			writeDetectError(w, err, logger)
			return
		}

		counts, err := result.CountsHeader()
		if err != nil {
			logger.Error("Failed to encode counts header: %v", err)
			respondError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set(CountsHeader, counts)
		w.Header().Set("Content-Length", strconv.Itoa(len(result.Image)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(result.Image); err != nil {
			logger.Warning("Failed to write response: %v", err)
		}
	}
}

// writeDetectError maps pipeline errors onto status codes.
func writeDetectError(w http.ResponseWriter, err error, logger *logger.Logger) {
	var (
		invalid    *model.InvalidImageError
		backendErr *model.DetectionBackendError
		encodeErr  *model.EncodeError
	)

	switch {
	case errors.Is(err, model.ErrEmptyInput):
		logger.Warning("Rejected upload: %v", err)
		respondError(w, "Empty file received", http.StatusBadRequest)
	case errors.As(err, &invalid):
		logger.Warning("Rejected upload: %v", err)
		detail := "Invalid image file"
		if invalid.Err != nil {
			detail += ": " + invalid.Err.Error()
		}
		respondError(w, detail, http.StatusBadRequest)
	case errors.As(err, &backendErr):
		logger.Error("Detection failed: %v", err)
		respondError(w, "Error processing image: "+backendErr.Error(), http.StatusInternalServerError)
	case errors.As(err, &encodeErr):
		logger.Error("Encoding failed: %v", err)
		respondError(w, "Error processing image: "+encodeErr.Error(), http.StatusInternalServerError)
	default:
		logger.Error("Unexpected pipeline error: %v", err)
		respondError(w, "Internal server error", http.StatusInternalServerError)
	}
}
