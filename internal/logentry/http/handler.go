package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/resume-kb/achievement-log-backend/internal/achievements/domain"
	"github.com/resume-kb/achievement-log-backend/internal/logentry/repository"
	"github.com/resume-kb/achievement-log-backend/internal/logentry/service"
)

// Handler exposes the persistence service over HTTP.
type Handler struct {
	svc *service.Service
	log *zap.Logger
}

// NewHandler creates a log-entry handler.
func NewHandler(svc *service.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register attaches the log-entry routes to the router.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/log-entry", h.create)
	r.GET("/log-entry", h.list)
}

func (h *Handler) create(c *gin.Context) {
	var rec domain.Achievement
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "category": service.CategoryValidation})
		return
	}

	res := h.svc.AddLogEntry(c.Request.Context(), rec)
	if !res.OK {
		status := http.StatusInternalServerError
		if res.Category == service.CategoryValidation {
			status = http.StatusUnprocessableEntity
		}
		h.log.Warn("log entry failed",
			zap.String("category", string(res.Category)),
			zap.String("message", res.Message))
		c.JSON(status, gin.H{"error": res.Message, "category": res.Category})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":      res.Message,
		"file_path":   res.FilePath,
		"commit_hash": res.CommitHash,
	})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.ListRecent(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if items == nil {
		// Index disabled or empty; either way the client gets an empty list.
		items = []repository.IndexedEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": items})
}
