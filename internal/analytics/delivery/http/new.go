package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"conversational-commerce/internal/analytics"
	"conversational-commerce/pkg/log"
)

// Handler serves the business metrics dashboard API.
type Handler interface {
	Overview(c *gin.Context)
	DailyRevenue(c *gin.Context)
	TopProducts(c *gin.Context)
	Funnel(c *gin.Context)
	AgentPerformance(c *gin.Context)
	Engagement(c *gin.Context)
	SetupGuide(c *gin.Context)
}

type handler struct {
	l   log.Logger
	uc  analytics.UseCase
	now func() time.Time
}

// New creates a new HTTP handler for analytics.
func New(l log.Logger, uc analytics.UseCase) Handler {
	return &handler{
		l:   l,
		uc:  uc,
		now: time.Now,
	}
}
