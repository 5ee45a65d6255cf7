package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/resume-kb/achievement-log-backend/internal/capture/domain"
	"github.com/resume-kb/achievement-log-backend/internal/capture/service"
)

// Handler exposes the capture workflow over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a capture handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) start(c *gin.Context) {
	sess, err := h.svc.Start(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "session": sess})
}

func (h *Handler) get(c *gin.Context) {
	sess, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": sess})
}

func (h *Handler) submitReflection(c *gin.Context) {
	var req submitReflectionReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "reflection text is required"})
		return
	}

	sess, err := h.svc.SubmitReflection(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": sess})
}

func (h *Handler) updateField(c *gin.Context) {
	var req updateFieldReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Field == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "field name is required"})
		return
	}

	sess, err := h.svc.UpdateField(c.Request.Context(), c.Param("id"), req.Field, req.Value)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": sess})
}

func (h *Handler) back(c *gin.Context) {
	sess, err := h.svc.BackToEdit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": sess})
}

func (h *Handler) confirm(c *gin.Context) {
	sess, err := h.svc.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": sess})
}

func (h *Handler) reset(c *gin.Context) {
	sess, err := h.svc.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": sess})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrEmptyReflection),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrNoDraft):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}
