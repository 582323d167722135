package http

import (
	"github.com/gin-gonic/gin"

	"conversational-commerce/internal/tracking"
	"conversational-commerce/pkg/log"
)

// Handler is the inbound API the agent layer calls.
type Handler interface {
	RecordMessage(c *gin.Context)
	RecordProductView(c *gin.Context)
	RecordSearch(c *gin.Context)
	RecordAction(c *gin.Context)
	CreateCart(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc tracking.UseCase
}

// New creates a new HTTP handler for the tracking service.
func New(l log.Logger, uc tracking.UseCase) Handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
