package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"conversational-commerce/internal/correlator"
	"conversational-commerce/internal/webhook"
	"conversational-commerce/pkg/log"
	"conversational-commerce/pkg/metrics"
)

// TopicHeader names the notification topic.
const TopicHeader = "X-Shopify-Topic"

// maxBodyBytes caps webhook bodies read into memory.
const maxBodyBytes = 1 << 20

// Handler receives commerce backend webhooks.
type Handler interface {
	OrdersCreate(c *gin.Context)
	CartsCreate(c *gin.Context)
	Shopify(c *gin.Context)
}

type handler struct {
	l        log.Logger
	verifier *webhook.Verifier
	uc       correlator.UseCase
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	now      func() time.Time
}

// New creates the webhook handler. m may be nil.
func New(l log.Logger, verifier *webhook.Verifier, uc correlator.UseCase, m *metrics.Metrics) Handler {
	return &handler{
		l:        l,
		verifier: verifier,
		uc:       uc,
		metrics:  m,
		tracer:   otel.Tracer("conversational-commerce/webhook"),
		now:      time.Now,
	}
}
