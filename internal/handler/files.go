package handler

import (
	"errors"
	"net/http"
	"os"
	"regexp"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/Janakrish1/Plan2Ship/internal/pkg/imagegen"
	"github.com/Janakrish1/Plan2Ship/internal/service"
	"github.com/Janakrish1/Plan2Ship/internal/storage"
)

// Served filenames are allowlisted by pattern; anything else is rejected
// before touching the filesystem.
var (
	wireframeImageName = regexp.MustCompile(`^screen-\d+(-\d+)?\.png$`)
	metricsChartName   = regexp.MustCompile(`^stage[1235]-[a-z0-9-]+\.png$`)
)

// FileHandler covers the generated-image surface: wireframe mockups and
// metrics charts, both generation and serving.
type FileHandler struct {
	store      *storage.Store
	wireframes *service.WireframeService
	metrics    *service.MetricsService
}

func NewFileHandler(store *storage.Store, wireframes *service.WireframeService, metrics *service.MetricsService) *FileHandler {
	return &FileHandler{store: store, wireframes: wireframes, metrics: metrics}
}

type wireframeImageRequest struct {
	WireframeIndex *int `json:"wireframeIndex" binding:"required"`
}

// GenerateWireframeImage renders one Stage 4 wireframe into a PNG mockup.
func (h *FileHandler) GenerateWireframeImage(c *gin.Context) {
	var req wireframeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, imagePath, err := h.wireframes.GenerateImage(c.Request.Context(), c.Param("id"), *req.WireframeIndex)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		case errors.Is(err, service.ErrNoStage4), errors.Is(err, service.ErrInvalidWireframeIndex):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, imagegen.ErrNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			klog.Errorf("wireframe image generation failed: project=%s: %v", c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"imagePath": imagePath, "project": project})
}

// ServeWireframeImage streams a previously generated wireframe PNG.
func (h *FileHandler) ServeWireframeImage(c *gin.Context) {
	h.serveImage(c, "wireframes", wireframeImageName)
}

type metricsChartsRequest struct {
	Stages []int `json:"stages"`
}

// GenerateMetricsCharts runs the chart script for the requested stages.
func (h *FileHandler) GenerateMetricsCharts(c *gin.Context) {
	var req metricsChartsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	project, err := h.metrics.GenerateCharts(c.Request.Context(), c.Param("id"), req.Stages)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		case errors.Is(err, service.ErrInvalidStage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			klog.Errorf("metrics charts failed: project=%s: %v", c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"metricsCharts": project.MetricsCharts, "project": project})
}

// ServeMetricsChart streams a previously generated chart PNG.
func (h *FileHandler) ServeMetricsChart(c *gin.Context) {
	h.serveImage(c, "metrics", metricsChartName)
}

func (h *FileHandler) serveImage(c *gin.Context, subdir string, pattern *regexp.Regexp) {
	filename := c.Param("filename")
	if !pattern.MatchString(filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filename"})
		return
	}

	path := h.store.UploadPath(c.Param("id"), subdir, filename)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}
	c.Header("Content-Type", "image/png")
	c.File(path)
}
