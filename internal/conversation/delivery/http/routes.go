package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps the context endpoints onto rg.
func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	contexts := rg.Group("/contexts")
	{
		contexts.GET("/stats", h.Stats)
		contexts.POST("/evictions", h.Evict)
		contexts.GET("/:user_id", h.Get)
		contexts.DELETE("/:user_id", h.Clear)
	}
}
