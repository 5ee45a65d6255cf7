package http

import "github.com/gin-gonic/gin"

// Register attaches capture routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.start)
	rg.GET("/:id", h.get)
	rg.POST("/:id/reflection", h.submitReflection)
	rg.PATCH("/:id/draft", h.updateField)
	rg.POST("/:id/back", h.back)
	rg.POST("/:id/confirm", h.confirm)
	rg.POST("/:id/reset", h.reset)
}
