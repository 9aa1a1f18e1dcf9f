package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Janakrish1/Plan2Ship/internal/repository"
	"github.com/Janakrish1/Plan2Ship/internal/service"
)

// BoardHandler exposes the PLC board: issues, gated stage transitions,
// artifacts, and approvals. The acting user comes from the X-User header;
// X-Admin: true marks an administrator.
type BoardHandler struct {
	service *service.BoardService
}

func NewBoardHandler(svc *service.BoardService) *BoardHandler {
	return &BoardHandler{service: svc}
}

func actor(c *gin.Context) string {
	if user := c.GetHeader("X-User"); user != "" {
		return user
	}
	return "anonymous"
}

func isAdmin(c *gin.Context) bool {
	return c.GetHeader("X-Admin") == "true"
}

func issueID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func (h *BoardHandler) CreateIssue(c *gin.Context) {
	var req service.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := h.service.CreateIssue(req, actor(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, issue)
}

func (h *BoardHandler) ListIssues(c *gin.Context) {
	issues, err := h.service.ListIssues()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, issues)
}

func (h *BoardHandler) GetIssue(c *gin.Context) {
	id, ok := issueID(c)
	if !ok {
		return
	}

	issue, err := h.service.GetIssue(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, issue)
}

func (h *BoardHandler) UpdateIssue(c *gin.Context) {
	id, ok := issueID(c)
	if !ok {
		return
	}
	var req service.UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := h.service.UpdateIssue(id, req, actor(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, issue)
}

type transitionRequest struct {
	TargetStage    string `json:"targetStage" binding:"required"`
	OverrideReason string `json:"overrideReason"`
}

// Transition moves an issue between lifecycle stages. Blocked gates return
// 409 with the unmet requirements.
func (h *BoardHandler) Transition(c *gin.Context) {
	id, ok := issueID(c)
	if !ok {
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := h.service.Transition(id, req.TargetStage, req.OverrideReason, actor(c), isAdmin(c))
	if err != nil {
		var blocked *service.GateBlockedError
		switch {
		case errors.As(err, &blocked):
			c.JSON(http.StatusConflict, gin.H{"error": "stage gate blocked", "missing": blocked.Missing})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, issue)
}

func (h *BoardHandler) CreateArtifact(c *gin.Context) {
	id, ok := issueID(c)
	if !ok {
		return
	}
	var req service.CreateArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	artifact, err := h.service.CreateArtifact(id, req, actor(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, artifact)
}

type approvalRequest struct {
	Approve *bool  `json:"approve" binding:"required"`
	Comment string `json:"comment"`
}

func (h *BoardHandler) ApproveArtifact(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("artifactId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid artifact id"})
		return
	}
	var req approvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	artifact, err := h.service.ApproveArtifact(uint(id), *req.Approve, req.Comment, actor(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "artifact not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, artifact)
}

func (h *BoardHandler) ListAudit(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	events, err := h.service.ListAudit(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}
