package http

import (
	"github.com/gin-gonic/gin"

	"conversational-commerce/internal/conversation"
	"conversational-commerce/pkg/log"
)

// Handler exposes the Context Store to operators.
type Handler interface {
	Get(c *gin.Context)
	Clear(c *gin.Context)
	Evict(c *gin.Context)
	Stats(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc conversation.UseCase
}

// New creates a new HTTP handler for conversation contexts.
func New(l log.Logger, uc conversation.UseCase) Handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
