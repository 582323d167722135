package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps the tracking endpoints onto rg.
func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	rg.POST("/messages", h.RecordMessage)
	rg.POST("/product-views", h.RecordProductView)
	rg.POST("/searches", h.RecordSearch)
	rg.POST("/actions", h.RecordAction)
	rg.POST("/carts", h.CreateCart)
}
