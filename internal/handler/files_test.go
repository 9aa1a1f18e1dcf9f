package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Janakrish1/Plan2Ship/config"
	"github.com/Janakrish1/Plan2Ship/internal/service"
	"github.com/Janakrish1/Plan2Ship/internal/storage"
)

func newFileRouter(t *testing.T) (*gin.Engine, *storage.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	store, err := storage.NewStore(filepath.Join(dir, "projects"), filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	cfg := &config.Config{}
	h := NewFileHandler(store, service.NewWireframeService(cfg, store, nil), service.NewMetricsService(cfg, store))

	r := gin.New()
	api := r.Group("/api/projects")
	api.GET("/:id/wireframe-image/:filename", h.ServeWireframeImage)
	api.GET("/:id/metrics-charts/:filename", h.ServeMetricsChart)
	return r, store
}

func writeUpload(t *testing.T, store *storage.Store, projectID, subdir, filename string) {
	t.Helper()
	dir := store.UploadPath(projectID, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), []byte("png"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestServeWireframeImage(t *testing.T) {
	r, store := newFileRouter(t)
	writeUpload(t, store, "p1", "wireframes", "screen-0.png")
	writeUpload(t, store, "p1", "wireframes", "screen-0-2.png")

	for _, name := range []string{"screen-0.png", "screen-0-2.png"} {
		w := get(r, "/api/projects/p1/wireframe-image/"+name)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", name, w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("%s: content type %s", name, ct)
		}
	}

	if w := get(r, "/api/projects/p1/wireframe-image/screen-9.png"); w.Code != http.StatusNotFound {
		t.Errorf("missing file should be 404, got %d", w.Code)
	}
}

func TestServeWireframeImageRejectsBadNames(t *testing.T) {
	r, store := newFileRouter(t)
	writeUpload(t, store, "p1", "wireframes", "screen-0.png")

	bad := []string{
		"screen-a.png",
		"screen-0.jpg",
		"record.json",
		"screen-0-.png",
		"xscreen-0.png",
	}
	for _, name := range bad {
		if w := get(r, "/api/projects/p1/wireframe-image/"+name); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, w.Code)
		}
	}
}

func TestServeMetricsChart(t *testing.T) {
	r, store := newFileRouter(t)
	writeUpload(t, store, "p1", "metrics", "stage1-overview.png")

	if w := get(r, "/api/projects/p1/metrics-charts/stage1-overview.png"); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	bad := []string{
		"stage4-overview.png", // stage 4 has no charts
		"stage1-Overview.png",
		"stage1-overview.svg",
		"stage6-x.png",
	}
	for _, name := range bad {
		if w := get(r, "/api/projects/p1/metrics-charts/"+name); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, w.Code)
		}
	}
}
