package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps the analytics endpoints onto rg.
func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	a := rg.Group("/analytics")
	{
		a.GET("/overview", h.Overview)
		a.GET("/revenue/daily", h.DailyRevenue)
		a.GET("/products/top", h.TopProducts)
		a.GET("/funnel", h.Funnel)
		a.GET("/agent/performance", h.AgentPerformance)
		a.GET("/users/engagement", h.Engagement)
		a.GET("/setup/webhooks", h.SetupGuide)
	}
}
