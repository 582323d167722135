package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	analyticsHTTP "conversational-commerce/internal/analytics/delivery/http"
	convHTTP "conversational-commerce/internal/conversation/delivery/http"
	trackingHTTP "conversational-commerce/internal/tracking/delivery/http"
	webhookHTTP "conversational-commerce/internal/webhook/delivery/http"
	"conversational-commerce/pkg/log"
	"conversational-commerce/pkg/metrics"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin             *gin.Engine
	l               log.Logger
	port            int
	mode            string
	environment     string
	internalKey     string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration

	// Observability
	metrics  *metrics.Metrics
	eventLog Pinger

	// Domains
	conversationHandler convHTTP.Handler
	trackingHandler     trackingHTTP.Handler
	webhookHandler      webhookHTTP.Handler
	analyticsHandler    analyticsHTTP.Handler
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger          log.Logger
	Port            int
	Mode            string
	Environment     string
	InternalKey     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	Metrics  *metrics.Metrics
	EventLog Pinger

	ConversationHandler convHTTP.Handler
	TrackingHandler     trackingHTTP.Handler
	WebhookHandler      webhookHTTP.Handler
	AnalyticsHandler    analyticsHTTP.Handler
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:                   logger,
		gin:                 gin.New(),
		port:                cfg.Port,
		mode:                cfg.Mode,
		environment:         cfg.Environment,
		internalKey:         cfg.InternalKey,
		readTimeout:         cfg.ReadTimeout,
		writeTimeout:        cfg.WriteTimeout,
		shutdownTimeout:     cfg.ShutdownTimeout,
		metrics:             cfg.Metrics,
		eventLog:            cfg.EventLog,
		conversationHandler: cfg.ConversationHandler,
		trackingHandler:     cfg.TrackingHandler,
		webhookHandler:      cfg.WebhookHandler,
		analyticsHandler:    cfg.AnalyticsHandler,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}

// Handler exposes the routed engine, mainly for tests.
func (srv HTTPServer) Handler() *gin.Engine {
	return srv.gin
}
