package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/Janakrish1/Plan2Ship/internal/model"
	"github.com/Janakrish1/Plan2Ship/internal/pkg/pdfext"
	"github.com/Janakrish1/Plan2Ship/internal/service"
	"github.com/Janakrish1/Plan2Ship/internal/storage"
)

type ProjectHandler struct {
	service *service.ProjectService
}

func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: svc}
}

// Create accepts a multipart PDF upload and runs the Stage 1 analysis.
func (h *ProjectHandler) Create(c *gin.Context) {
	file, header, err := c.Request.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing document file field"})
		return
	}
	defer file.Close()

	if header.Size > pdfext.MaxPDFSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": pdfext.ErrTooLarge.Error()})
		return
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only PDF files are accepted"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, pdfext.MaxPDFSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	if int64(len(data)) > pdfext.MaxPDFSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": pdfext.ErrTooLarge.Error()})
		return
	}

	project, err := h.service.CreateFromDocument(c.Request.Context(), header.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, pdfext.ErrTooLarge), errors.Is(err, pdfext.ErrNoText):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidAnalysis):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			klog.Errorf("project creation failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": project.ID, "project": project})
}

func (h *ProjectHandler) List(c *gin.Context) {
	summaries, err := h.service.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.service.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	var req service.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.service.Update(c.Param("id"), req)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, project)
}

type analyzeStageRequest struct {
	Stage   int                 `json:"stage" binding:"required"`
	Options *model.StageOptions `json:"options"`
}

// AnalyzeStage runs the stage 2-5 generation chain for a project.
func (h *ProjectHandler) AnalyzeStage(c *gin.Context) {
	var req analyzeStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.service.GenerateStage(c.Request.Context(), c.Param("id"), req.Stage, req.Options)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		case errors.Is(err, service.ErrInvalidStage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			klog.Errorf("stage %d generation failed: project=%s: %v", req.Stage, c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, project)
}

type brainstormRequest struct {
	Stage             int    `json:"stage"`
	AdditionalContext string `json:"additionalContext"`
}

func (h *ProjectHandler) Brainstorm(c *gin.Context) {
	var req brainstormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Brainstorm(c.Request.Context(), c.Param("id"), req.Stage, req.AdditionalContext)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
