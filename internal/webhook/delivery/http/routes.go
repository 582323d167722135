package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps webhook endpoints. They authenticate by signature, not by API key.
func RegisterRoutes(r gin.IRouter, h Handler) {
	shopify := r.Group("/webhooks/shopify")
	{
		shopify.POST("", h.Shopify)
		shopify.POST("/orders/create", h.OrdersCreate)
		shopify.POST("/carts/create", h.CartsCreate)
	}
}
