package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-orders/internal/handlers"
)

// Handlers agrupa lo que se expone por HTTP. Metrics nil desactiva /metrics.
type Handlers struct {
	Products *handlers.ProductHandler
	Orders   *handlers.OrderHandler
	Health   *handlers.HealthHandler
	Metrics  http.Handler
}

func RegisterRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", h.Health.Check)
	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}

	products := router.Group("/products")
	{
		products.POST("", h.Products.CreateProduct)
		products.GET("", h.Products.ListProducts)
	}

	orders := router.Group("/orders")
	{
		orders.POST("", h.Orders.CreateOrder)
		orders.GET("/:userId", h.Orders.ListUserOrders)
	}
}
