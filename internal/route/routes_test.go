package route

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"objdetect/internal/config"
	"objdetect/internal/dto"
	"objdetect/internal/handler"
	"objdetect/internal/logger"
	"objdetect/internal/model"
	wshub "objdetect/internal/service/websocket"
)

type stubDetector struct{}

func (stubDetector) Detect(context.Context, []byte, bool) (*dto.DetectionResult, error) {
	return &dto.DetectionResult{Image: []byte{0xFF, 0xD8}, Counts: model.DetectionCounts{"dog": 1}}, nil
}

type panicDetector struct{}

func (panicDetector) Detect(context.Context, []byte, bool) (*dto.DetectionResult, error) {
	panic("nil tensor")
}

func newRouter(t *testing.T) http.Handler {
	return newRouterWith(t, stubDetector{})
}

func newRouterWith(t *testing.T, detector handler.ImageDetector) http.Handler {
	t.Helper()
	cfg := &config.Config{MaxUploadMB: 1, AllowedOrigins: "*"}
	log := logger.NewDiscard()
	return SetupRoutes(detector, wshub.NewHubService(log), cfg, log)
}

func uploadBody(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "dog.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png"))
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestRoutes_StatusBothForms(t *testing.T) {
	router := newRouter(t)
	for _, path := range []string{"/test", "/test/"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `{"status":"ok","message":"Server is running"}`, rec.Body.String())
	}
}

func TestRoutes_Detect(t *testing.T) {
	router := newRouter(t)

	for _, path := range []string{"/detect", "/detect/"} {
		body, contentType := uploadBody(t)
		req := httptest.NewRequest(http.MethodPost, path, body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, `{"dog":1}`, rec.Header().Get("X-Detected-Objects"))
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestRoutes_RootAndUnknown(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var root dto.RootResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &root))
	assert.Equal(t, "Object Detection API", root.Message)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_DetectPanicAnswers500(t *testing.T) {
	srv := httptest.NewServer(newRouterWith(t, panicDetector{}))
	defer srv.Close()

	body, contentType := uploadBody(t)
	resp, err := http.Post(srv.URL+"/detect/", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("X-Detected-Objects"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var detail dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&detail))
	assert.Equal(t, "Internal server error", detail.Detail)
}
