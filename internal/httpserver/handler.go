package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	analyticsHTTP "conversational-commerce/internal/analytics/delivery/http"
	convHTTP "conversational-commerce/internal/conversation/delivery/http"
	"conversational-commerce/internal/middleware"
	"conversational-commerce/internal/model"
	trackingHTTP "conversational-commerce/internal/tracking/delivery/http"
	webhookHTTP "conversational-commerce/internal/webhook/delivery/http"
)

func (srv HTTPServer) mapHandlers() error {
	mw := middleware.New(srv.l, srv.internalKey)

	srv.registerMiddlewares(mw)
	srv.registerSystemRoutes()
	srv.registerDomainRoutes(mw)

	return nil
}

func (srv HTTPServer) registerMiddlewares(mw middleware.Middleware) {
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(mw.RequestLogger())

	ctx := context.Background()
	if srv.environment == string(model.EnvironmentProduction) && srv.internalKey == "" {
		srv.l.Warnf(ctx, "internal API key not configured, /api/v1 is unauthenticated")
	}
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/metrics", gin.WrapH(srv.metrics.Handler()))

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers all domain routes.
func (srv HTTPServer) registerDomainRoutes(mw middleware.Middleware) {
	ctx := context.Background()

	// Webhooks authenticate by signature, not by the internal key.
	if srv.webhookHandler != nil {
		webhookHTTP.RegisterRoutes(srv.gin, srv.webhookHandler)
		srv.l.Infof(ctx, "Webhook routes registered under /webhooks/shopify")
	} else {
		srv.l.Infof(ctx, "Webhook handler not configured, skipping webhook routes")
	}

	api := srv.gin.Group("/api/v1", mw.InternalAuth())

	if srv.trackingHandler != nil {
		trackingHTTP.RegisterRoutes(api, srv.trackingHandler)
	}
	if srv.conversationHandler != nil {
		convHTTP.RegisterRoutes(api, srv.conversationHandler)
	}
	if srv.analyticsHandler != nil {
		analyticsHTTP.RegisterRoutes(api, srv.analyticsHandler)
	}
}
